package decl

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

type tomlDocument struct {
	Contract []Declaration `toml:"contract"`
}

func loadTOML(path string) ([]Declaration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: fmt.Sprintf("reading declarations: %v", err)}
	}

	var doc tomlDocument
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Path: path, Message: err.Error()}
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, &LoadError{Code: ErrCodeParseFailed, Path: path, Message: "unknown keys: " + strings.Join(keys, ", ")}
	}

	for i := range doc.Contract {
		doc.Contract[i].Source = fmt.Sprintf("%s#contract[%d]", path, i)
	}
	return doc.Contract, nil
}
