package decl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue/token"
)

// Load error codes.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoContracts = "E003" // No files or no contracts found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build or schema check failed
	ErrCodeParseFailed = "E007" // YAML or TOML decode failed
	ErrCodeFormat      = "E008" // Unsupported file extension
)

// LoadError represents an error that occurred while reading declarations.
type LoadError struct {
	Code    string
	Message string
	Path    string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load reads declarations from path.
//
// A directory is loaded as one CUE instance. A file is decoded according to
// its extension: .cue, .yaml, .yml or .toml.
func Load(path string) ([]Declaration, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "declarations not found"}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: fmt.Sprintf("error accessing declarations: %v", err)}
	}

	var decls []Declaration
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case info.IsDir():
		files, err := FindCUEFiles(path)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeScanError, Path: path, Message: fmt.Sprintf("error scanning directory: %v", err)}
		}
		if len(files) == 0 {
			return nil, &LoadError{Code: ErrCodeNoContracts, Path: path, Message: "no CUE files found"}
		}
		decls, err = loadCUE(path, ".")
		if err != nil {
			return nil, err
		}
	case ext == ".cue":
		decls, err = loadCUE(filepath.Dir(path), filepath.Base(path))
		if err != nil {
			return nil, err
		}
	case ext == ".yaml" || ext == ".yml":
		decls, err = loadYAML(path)
		if err != nil {
			return nil, err
		}
	case ext == ".toml":
		decls, err = loadTOML(path)
		if err != nil {
			return nil, err
		}
	default:
		return nil, &LoadError{Code: ErrCodeFormat, Path: path, Message: fmt.Sprintf("unsupported declaration format %q", ext)}
	}

	if len(decls) == 0 {
		return nil, &LoadError{Code: ErrCodeNoContracts, Path: path, Message: "no contracts declared"}
	}
	return decls, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
