package loader

// VersionLatest is the only config version understood.
const VersionLatest = "v1"

// Document is the decoded file before conversion into the domain config. Durations
// and enums stay strings here; the config package validates them.
type Document struct {
	Version   string            `toml:"version"   yaml:"version"`
	Logging   LoggingSection    `toml:"logging"   yaml:"logging"`
	Engine    EngineSection     `toml:"engine"    yaml:"engine"`
	Scripts   ScriptsSection    `toml:"scripts"   yaml:"scripts"`
	Resources map[string]string `toml:"resources" yaml:"resources"`
}

type LoggingSection struct {
	Level  string `toml:"level"  yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	Output string `toml:"output" yaml:"output"`
}

type EngineSection struct {
	Language string `toml:"language" yaml:"language"`
	Timeout  string `toml:"timeout"  yaml:"timeout"`
}

type ScriptsSection struct {
	Dir        string   `toml:"dir"        yaml:"dir"`
	Extensions []string `toml:"extensions" yaml:"extensions"`
	Watch      bool     `toml:"watch"      yaml:"watch"`
	Debounce   string   `toml:"debounce"   yaml:"debounce"`
}

// checkVersion defaults an empty version and rejects unknown ones.
func checkVersion(doc *Document) error {
	if doc.Version == "" {
		doc.Version = VersionLatest
	}
	if doc.Version != VersionLatest {
		return FormatFileError(ErrUnsupportedConfigVer, doc.Version)
	}
	return nil
}
