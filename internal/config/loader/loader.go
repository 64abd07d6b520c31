// Package loader decodes host configuration files. The format is picked from the
// file extension: .toml, .yaml or .yml.
package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type LoaderFunc func([]byte) Loader

// Loader decodes one configuration source.
type Loader interface {
	// LoadDocument parses the source and returns the decoded Document
	LoadDocument() (*Document, error)
	// GetDocument returns the last decoded Document, or nil
	GetDocument() *Document
}

// NewLoaderFromBytes creates a new Loader with the provided bytes
func NewLoaderFromBytes(data []byte, loaderFunc LoaderFunc) (Loader, error) {
	if len(data) == 0 {
		return nil, ErrNoSourceData
	}
	return loaderFunc(data), nil
}

// NewLoaderFromReader creates a new Loader from an io.Reader
func NewLoaderFromReader(reader io.Reader, loaderFunc LoaderFunc) (Loader, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read config data from reader: %w", err)
	}
	return NewLoaderFromBytes(data, loaderFunc)
}

// NewLoaderFromFilePath creates a new Loader from a file path
func NewLoaderFromFilePath(filePath string) (Loader, error) {
	loaderFunc, err := LoaderFuncFor(filePath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading '%s': %w", ErrFailedToLoadConfig, filePath, err)
	}
	return NewLoaderFromBytes(data, loaderFunc)
}

// LoaderFuncFor picks the decoder for a path by its extension.
func LoaderFuncFor(filePath string) (LoaderFunc, error) {
	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".toml":
		return func(data []byte) Loader { return NewTomlLoader(data) }, nil
	case ".yaml", ".yml":
		return func(data []byte) Loader { return NewYamlLoader(data) }, nil
	default:
		return nil, FormatFileError(ErrUnsupportedExtension, ext)
	}
}
