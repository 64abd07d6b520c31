package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tomlConfig = `
version = "v1"

[logging]
level = "debug"
format = "json"
output = "stdout"

[engine]
language = "starlark"
timeout = "5s"

[scripts]
dir = "./scripts"
extensions = [".star"]
watch = true
debounce = "250ms"

[resources]
greeting = "${GREETING:hello}"
`

const yamlConfig = `
version: v1
logging:
  level: debug
  format: json
  output: stdout
engine:
  language: starlark
  timeout: 5s
scripts:
  dir: ./scripts
  extensions: [".star"]
  watch: true
  debounce: 250ms
resources:
  greeting: "${GREETING:hello}"
`

func expectedDocument() *Document {
	return &Document{
		Version: "v1",
		Logging: LoggingSection{Level: "debug", Format: "json", Output: "stdout"},
		Engine:  EngineSection{Language: "starlark", Timeout: "5s"},
		Scripts: ScriptsSection{
			Dir:        "./scripts",
			Extensions: []string{".star"},
			Watch:      true,
			Debounce:   "250ms",
		},
		Resources: map[string]string{"greeting": "${GREETING:hello}"},
	}
}

func TestLoadDocument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		loader Loader
	}{
		{"toml", NewTomlLoader([]byte(tomlConfig))},
		{"yaml", NewYamlLoader([]byte(yamlConfig))},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Nil(t, tc.loader.GetDocument())
			doc, err := tc.loader.LoadDocument()
			require.NoError(t, err)
			assert.Equal(t, expectedDocument(), doc)
			assert.Same(t, doc, tc.loader.GetDocument())
		})
	}
}

func TestLoadDocument_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		loader  Loader
		wantErr error
	}{
		{"toml empty", NewTomlLoader(nil), ErrNoSourceData},
		{"yaml empty", NewYamlLoader(nil), ErrNoSourceData},
		{"toml syntax", NewTomlLoader([]byte("[engine\n")), ErrParseToml},
		{"yaml syntax", NewYamlLoader([]byte("engine: [\n")), ErrParseYaml},
		{"toml unknown key", NewTomlLoader([]byte("[listeners]\nid = 1\n")), ErrParseToml},
		{"yaml unknown key", NewYamlLoader([]byte("listeners: 1\n")), ErrParseYaml},
		{"toml version", NewTomlLoader([]byte(`version = "v2"`)), ErrUnsupportedConfigVer},
		{"yaml version", NewYamlLoader([]byte(`version: v2`)), ErrUnsupportedConfigVer},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.loader.LoadDocument()
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestLoadDocument_DefaultVersion(t *testing.T) {
	doc, err := NewTomlLoader([]byte("[engine]\nlanguage = \"risor\"\n")).LoadDocument()
	require.NoError(t, err)
	assert.Equal(t, VersionLatest, doc.Version)
}

func TestNewLoaderFromFilePath(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	t.Run("toml", func(t *testing.T) {
		l, err := NewLoaderFromFilePath(write("nosorog.toml", tomlConfig))
		require.NoError(t, err)
		assert.IsType(t, &TomlLoader{}, l)
	})

	t.Run("yml", func(t *testing.T) {
		l, err := NewLoaderFromFilePath(write("nosorog.yml", yamlConfig))
		require.NoError(t, err)
		assert.IsType(t, &YamlLoader{}, l)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := NewLoaderFromFilePath(write("nosorog.json", "{}"))
		require.ErrorIs(t, err, ErrUnsupportedExtension)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewLoaderFromFilePath(filepath.Join(dir, "absent.toml"))
		require.ErrorIs(t, err, ErrFailedToLoadConfig)
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := NewLoaderFromFilePath(write("empty.toml", ""))
		require.ErrorIs(t, err, ErrNoSourceData)
	})
}

func TestNewLoaderFromReader(t *testing.T) {
	l, err := NewLoaderFromReader(strings.NewReader(tomlConfig), func(b []byte) Loader { return NewTomlLoader(b) })
	require.NoError(t, err)
	doc, err := l.LoadDocument()
	require.NoError(t, err)
	assert.Equal(t, "starlark", doc.Engine.Language)
}
