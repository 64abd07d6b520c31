package writers

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWriter_Streams(t *testing.T) {
	for output, expected := range map[string]io.Writer{"": os.Stdout, "stdout": os.Stdout, "stderr": os.Stderr} {
		w, err := CreateWriter(output)
		require.NoError(t, err)
		assert.Same(t, expected, w)
	}
}

func TestCreateWriter_Files(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		output string
		path   string
	}{
		{"scheme", "file://" + filepath.Join(dir, "a", "scheme.log"), filepath.Join(dir, "a", "scheme.log")},
		{"plain path", filepath.Join(dir, "b", "plain.log"), filepath.Join(dir, "b", "plain.log")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, err := CreateWriter(tc.output)
			require.NoError(t, err)
			_, err = io.WriteString(w, "line\n")
			require.NoError(t, err)
			require.NoError(t, w.(io.Closer).Close())

			data, err := os.ReadFile(tc.path)
			require.NoError(t, err)
			assert.Equal(t, "line\n", string(data))
		})
	}
}

func TestCreateWriter_Unsupported(t *testing.T) {
	for _, output := range []string{"syslog", "http://example.com/logs", "file://"} {
		_, err := CreateWriter(output)
		assert.ErrorIs(t, err, ErrUnsupportedOutput, output)
	}
}

func TestParseWriterType(t *testing.T) {
	assert.Equal(t, WriterTypeStdout, ParseWriterType(""))
	assert.Equal(t, WriterTypeStdout, ParseWriterType("stdout"))
	assert.Equal(t, WriterTypeStderr, ParseWriterType("stderr"))
	assert.Equal(t, WriterTypeFile, ParseWriterType("/var/log/x.log"))
}
