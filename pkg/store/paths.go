package store

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Paths locates the three target files.
type Paths struct {
	CodexConfig    string `json:"codex_config" yaml:"codex_config" mapstructure:"codex_config"`
	CodexAuth      string `json:"codex_auth" yaml:"codex_auth" mapstructure:"codex_auth"`
	ClaudeSettings string `json:"claude_settings" yaml:"claude_settings" mapstructure:"claude_settings"`
}

// PathsFor returns the standard target locations under home.
func PathsFor(home string) Paths {
	return Paths{
		CodexConfig:    filepath.Join(home, ".codex", "config.toml"),
		CodexAuth:      filepath.Join(home, ".codex", "auth.json"),
		ClaudeSettings: filepath.Join(home, ".claude", "settings.json"),
	}
}

// DefaultPaths returns the standard target locations under the user's home.
func DefaultPaths() (Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, errors.Wrap(err, "failed to get user home directory")
	}
	return PathsFor(home), nil
}

// WithOverrides returns a copy of p where every non-empty field of o wins.
func (p Paths) WithOverrides(o Paths) Paths {
	if o.CodexConfig != "" {
		p.CodexConfig = o.CodexConfig
	}
	if o.CodexAuth != "" {
		p.CodexAuth = o.CodexAuth
	}
	if o.ClaudeSettings != "" {
		p.ClaudeSettings = o.ClaudeSettings
	}
	return p
}

// exists reports whether path names an existing file. Stat failures other
// than non-existence count as existing.
func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !os.IsNotExist(err)
}
