package config

import (
	"fmt"
	"strings"

	"github.com/atlanticdynamic/nosorog/internal/fancy"
)

// String returns a pretty-printed tree representation of the config
func (c *Config) String() string {
	return ConfigTree(c)
}

// ConfigTree converts a Config struct into a rendered tree string
func ConfigTree(cfg *Config) string {
	t := fancy.Tree()
	t.Root(fancy.RootStyle.Render(fmt.Sprintf("Nosorog Config (%s)", cfg.Version)))

	t.Child(cfg.Logging.ToTree().Tree())

	engineTree := t.Child("Engine")
	engineTree.Child(fmt.Sprintf("Language: %s", cfg.Engine.Language))
	engineTree.Child(fmt.Sprintf("Timeout: %s", cfg.Engine.Timeout))

	scriptsTree := t.Child("Scripts")
	scriptsTree.Child(fmt.Sprintf("Dir: %s", fancy.PathText(cfg.Scripts.Dir)))
	scriptsTree.Child(fmt.Sprintf("Extensions: %s", strings.Join(cfg.Scripts.Extensions, ", ")))
	scriptsTree.Child(fmt.Sprintf("Watch: %t (debounce %s)", cfg.Scripts.Watch, cfg.Scripts.Debounce))

	resources := fancy.BranchNode("Resources", fmt.Sprintf("(%d)", len(cfg.Resources)))
	for _, name := range cfg.ResourceNames() {
		resources.Child(fmt.Sprintf("%s = %q", name, fancy.TruncateString(cfg.Resources[name], 40)))
	}
	t.Child(resources)

	return t.String()
}
