package decl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type yamlDocument struct {
	Contracts []Declaration `yaml:"contracts"`
}

// yamlPositions mirrors yamlDocument to recover the line of each entry.
type yamlPositions struct {
	Contracts []yaml.Node `yaml:"contracts"`
}

func loadYAML(path string) ([]Declaration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: fmt.Sprintf("reading declarations: %v", err)}
	}

	var doc yamlDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, &LoadError{Code: ErrCodeParseFailed, Path: path, Message: err.Error()}
	}

	var pos yamlPositions
	if err := yaml.Unmarshal(data, &pos); err == nil && len(pos.Contracts) == len(doc.Contracts) {
		for i := range doc.Contracts {
			doc.Contracts[i].Source = fmt.Sprintf("%s:%d", path, pos.Contracts[i].Line)
		}
	}
	return doc.Contracts, nil
}
