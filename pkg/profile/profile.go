// Package profile defines the in-memory field sets written to the Codex and
// Claude Code configuration files, together with their defaults, suggested
// option lists and the patches produced by loading existing files.
package profile

import (
	"strings"
)

// Built-in Codex defaults.
const (
	DefaultCodexBaseURL   = "https://naapi.cc/v1"
	DefaultCodexModel     = "gpt-5.2"
	DefaultCodexReasoning = "xhigh"
	DefaultCodexVerbosity = "high"
)

// Built-in Claude Code defaults.
const (
	DefaultClaudeBaseURL        = "https://naapi.cc"
	DefaultClaudeOpusModel      = "claude-opus-4-6-thinking"
	DefaultClaudeDisableTraffic = true
)

// APIKeyPrefix is the prefix OpenAI-compatible keys conventionally carry.
const APIKeyPrefix = "sk-"

// ReasoningEfforts lists the suggested values for CodexProfile.ReasoningEffort.
var ReasoningEfforts = []string{"auto", "low", "medium", "high", "xhigh"}

// Verbosities lists the suggested values for CodexProfile.Verbosity.
var Verbosities = []string{"low", "medium", "high"}

// CodexProfile is the field set behind ~/.codex/config.toml and ~/.codex/auth.json.
type CodexProfile struct {
	BaseURL         string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
	Model           string `json:"model" yaml:"model" mapstructure:"model"`
	ReasoningEffort string `json:"reasoning_effort" yaml:"reasoning_effort" mapstructure:"reasoning_effort"`
	Verbosity       string `json:"verbosity" yaml:"verbosity" mapstructure:"verbosity"`
	APIKey          string `json:"api_key" yaml:"api_key" mapstructure:"api_key"`
}

// ClaudeProfile is the field set behind ~/.claude/settings.json.
type ClaudeProfile struct {
	BaseURL                    string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
	AuthToken                  string `json:"auth_token" yaml:"auth_token" mapstructure:"auth_token"`
	DefaultOpusModel           string `json:"default_opus_model" yaml:"default_opus_model" mapstructure:"default_opus_model"`
	DisableNonessentialTraffic bool   `json:"disable_nonessential_traffic" yaml:"disable_nonessential_traffic" mapstructure:"disable_nonessential_traffic"`
}

// DefaultCodex returns a CodexProfile holding the built-in defaults. The API
// key has no default.
func DefaultCodex() CodexProfile {
	return CodexProfile{
		BaseURL:         DefaultCodexBaseURL,
		Model:           DefaultCodexModel,
		ReasoningEffort: DefaultCodexReasoning,
		Verbosity:       DefaultCodexVerbosity,
	}
}

// DefaultClaude returns a ClaudeProfile holding the built-in defaults.
func DefaultClaude() ClaudeProfile {
	return ClaudeProfile{
		BaseURL:                    DefaultClaudeBaseURL,
		DefaultOpusModel:           DefaultClaudeOpusModel,
		DisableNonessentialTraffic: DefaultClaudeDisableTraffic,
	}
}

// Normalized trims every field and substitutes defaults for blank ones. The
// API key is trimmed but never defaulted.
func (p CodexProfile) Normalized() CodexProfile {
	return CodexProfile{
		BaseURL:         orDefault(p.BaseURL, DefaultCodexBaseURL),
		Model:           orDefault(p.Model, DefaultCodexModel),
		ReasoningEffort: orDefault(p.ReasoningEffort, DefaultCodexReasoning),
		Verbosity:       orDefault(p.Verbosity, DefaultCodexVerbosity),
		APIKey:          strings.TrimSpace(p.APIKey),
	}
}

// Normalized trims every field and substitutes defaults for blank ones. The
// auth token is trimmed but never defaulted.
func (p ClaudeProfile) Normalized() ClaudeProfile {
	return ClaudeProfile{
		BaseURL:                    orDefault(p.BaseURL, DefaultClaudeBaseURL),
		AuthToken:                  strings.TrimSpace(p.AuthToken),
		DefaultOpusModel:           orDefault(p.DefaultOpusModel, DefaultClaudeOpusModel),
		DisableNonessentialTraffic: p.DisableNonessentialTraffic,
	}
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
