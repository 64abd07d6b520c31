package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YamlLoader implements the Loader interface for YAML files.
type YamlLoader struct {
	document *Document
	source   []byte
}

func NewYamlLoader(source []byte) *YamlLoader {
	return &YamlLoader{source: source}
}

// LoadDocument parses the YAML source. Unknown keys are rejected.
func (l *YamlLoader) LoadDocument() (*Document, error) {
	if len(l.source) == 0 {
		return nil, ErrNoSourceData
	}

	doc := &Document{}
	decoder := yaml.NewDecoder(bytes.NewReader(l.source))
	decoder.KnownFields(true)
	if err := decoder.Decode(doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrParseYaml, err)
	}
	if err := checkVersion(doc); err != nil {
		return nil, err
	}

	l.document = doc
	return doc, nil
}

func (l *YamlLoader) GetDocument() *Document {
	return l.document
}
