// Package writers opens log destinations named in configuration.
package writers

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// WriterType represents the type of writer to create
type WriterType string

const (
	WriterTypeStdout WriterType = "stdout"
	WriterTypeStderr WriterType = "stderr"
	WriterTypeFile   WriterType = "file"
)

const fileScheme = "file://"

// ErrUnsupportedOutput is returned for outputs that are neither a stream nor a file.
var ErrUnsupportedOutput = errors.New("unsupported output format")

// ParseWriterType determines the writer type from an output string
func ParseWriterType(output string) WriterType {
	switch output {
	case "", "stdout":
		return WriterTypeStdout
	case "stderr":
		return WriterTypeStderr
	default:
		return WriterTypeFile
	}
}

// CreateWriter opens the destination named by output:
//   - "stdout" or "" - os.Stdout
//   - "stderr" - os.Stderr
//   - "file:///path/to/file" or a path containing a separator - appends to the
//     file, creating parent directories
func CreateWriter(output string) (io.Writer, error) {
	switch ParseWriterType(output) {
	case WriterTypeStdout:
		return os.Stdout, nil
	case WriterTypeStderr:
		return os.Stderr, nil
	}

	path, ok := filePath(output)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOutput, output)
	}
	return createFileWriter(path)
}

// filePath extracts a local path from output.
func filePath(output string) (string, bool) {
	if rest, ok := strings.CutPrefix(output, fileScheme); ok {
		return rest, rest != ""
	}
	if strings.Contains(output, "://") {
		return "", false
	}
	return output, strings.ContainsAny(output, `/\`)
}

func createFileWriter(path string) (io.Writer, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	return file, nil
}
