package loader

import (
	"bytes"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// TomlLoader implements the Loader interface for TOML files.
type TomlLoader struct {
	document *Document
	source   []byte
}

// NewTomlLoader creates a new TOML configuration loader
func NewTomlLoader(source []byte) *TomlLoader {
	return &TomlLoader{source: source}
}

// LoadDocument parses the TOML source. Unknown keys are rejected.
func (l *TomlLoader) LoadDocument() (*Document, error) {
	if len(l.source) == 0 {
		return nil, ErrNoSourceData
	}

	doc := &Document{}
	decoder := toml.NewDecoder(bytes.NewReader(l.source))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseToml, err)
	}
	if err := checkVersion(doc); err != nil {
		return nil, err
	}

	l.document = doc
	return doc, nil
}

func (l *TomlLoader) GetDocument() *Document {
	return l.document
}
