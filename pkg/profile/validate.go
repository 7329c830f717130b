package profile

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrMissingAPIKey is returned when the Codex API key is blank or only the
	// bare "sk-" prefix.
	ErrMissingAPIKey = errors.New("a valid OPENAI_API_KEY is required")
	// ErrMissingAuthToken is returned when the Claude Code auth token is blank.
	ErrMissingAuthToken = errors.New("a valid ANTHROPIC_AUTH_TOKEN is required")
)

// Validate checks the credential of a Codex profile.
func (p CodexProfile) Validate() error {
	key := strings.TrimSpace(p.APIKey)
	if key == "" || key == APIKeyPrefix {
		return ErrMissingAPIKey
	}
	return nil
}

// Warnings returns soft problems that the user should confirm before a write.
func (p CodexProfile) Warnings() []string {
	key := strings.TrimSpace(p.APIKey)
	if key != "" && !strings.HasPrefix(key, APIKeyPrefix) {
		return []string{"API keys usually start with '" + APIKeyPrefix + "'"}
	}
	return nil
}

// Validate checks the credential of a Claude Code profile.
func (p ClaudeProfile) Validate() error {
	if strings.TrimSpace(p.AuthToken) == "" {
		return ErrMissingAuthToken
	}
	return nil
}
