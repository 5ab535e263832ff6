package decl

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
)

//go:embed schema.cue
var schemaSource string

// loadCUE builds the CUE instance for arg relative to dir and decodes every
// field under "contract". Each field is unified with the closed #Contract
// schema first, so misspelled keys are rejected with their position.
func loadCUE(dir, arg string) ([]Declaration, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue")).LookupPath(cue.ParsePath("#Contract"))
	if err := schema.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("compiling contract schema: %v", err)}
	}

	instances := load.Instances([]string{arg}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Path: dir, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Path: dir, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, cueError(ErrCodeBuildFailed, "building CUE value", err)
	}

	contracts := value.LookupPath(cue.ParsePath("contract"))
	if !contracts.Exists() {
		return nil, nil
	}
	iter, err := contracts.Fields()
	if err != nil {
		return nil, cueError(ErrCodeBuildFailed, "iterating contracts", err)
	}

	var decls []Declaration
	for iter.Next() {
		label := iter.Label()
		v := schema.Unify(iter.Value())
		if err := v.Validate(cue.Concrete(true)); err != nil {
			return nil, cueError(ErrCodeBuildFailed, "contract."+label, err)
		}

		var d Declaration
		if err := v.Decode(&d); err != nil {
			return nil, cueError(ErrCodeBuildFailed, "decoding contract."+label, err)
		}
		if d.Name == "" {
			d.Name = label
		}
		if pos := iter.Value().Pos(); pos.IsValid() {
			d.Source = fmt.Sprintf("%s:%d", pos.Filename(), pos.Line())
		}
		decls = append(decls, d)
	}
	return decls, nil
}

// cueError converts a CUE error into a LoadError carrying the first
// reported position.
func cueError(code, context string, err error) *LoadError {
	le := &LoadError{Code: code, Message: fmt.Sprintf("%s: %v", context, err)}
	if positions := errors.Positions(err); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
