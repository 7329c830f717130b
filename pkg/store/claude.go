package store

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/naapi/naapi-config/pkg/logger"
	"github.com/naapi/naapi-config/pkg/profile"
)

// Keys of the env object in ~/.claude/settings.json.
const (
	EnvAnthropicBaseURL      = "ANTHROPIC_BASE_URL"
	EnvAnthropicAuthToken    = "ANTHROPIC_AUTH_TOKEN"
	EnvAnthropicOpusModel    = "ANTHROPIC_DEFAULT_OPUS_MODEL"
	EnvDisableNonessential   = "CLAUDE_CODE_DISABLE_NONESSENTIAL_TRAFFIC"
	disableNonessentialValue = "1"
)

// ClaudeEnv is the env object written to the Claude Code settings file.
// Field order is the key order on disk.
type ClaudeEnv struct {
	BaseURL                    string `json:"ANTHROPIC_BASE_URL" jsonschema:"description=Base URL of the Anthropic-compatible API"`
	AuthToken                  string `json:"ANTHROPIC_AUTH_TOKEN" jsonschema:"description=Bearer token sent to the API"`
	DefaultOpusModel           string `json:"ANTHROPIC_DEFAULT_OPUS_MODEL" jsonschema:"description=Model used when Opus is selected"`
	DisableNonessentialTraffic string `json:"CLAUDE_CODE_DISABLE_NONESSENTIAL_TRAFFIC,omitempty" jsonschema:"enum=1,description=Present and set to 1 to disable telemetry and update checks"`
}

// ClaudeSettings is the document written to ~/.claude/settings.json.
type ClaudeSettings struct {
	Env ClaudeEnv `json:"env"`
}

// LoadClaudeProfile reads the Claude Code settings file. A missing file is
// reported as a KindNotFound error with an empty patch.
func (s *Store) LoadClaudeProfile(ctx context.Context) (profile.ClaudePatch, error) {
	var patch profile.ClaudePatch
	path := s.paths.ClaudeSettings
	log := logger.G(ctx).WithField("path", path)

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return patch, newError(KindNotFound, "read claude settings", path, errors.New("settings.json not found"))
		}
		return patch, newError(KindIO, "read claude settings", path, errors.WithStack(err))
	}

	doc, err := decodeObject(raw)
	if err != nil {
		return patch, newError(KindParse, "decode claude settings", path, err)
	}

	env := map[string]any{}
	switch v := doc["env"].(type) {
	case nil:
	case map[string]any:
		env = v
	default:
		return patch, newError(KindParse, "decode claude settings", path, errors.Errorf("env must be an object, got %T", v))
	}

	fields := []struct {
		key string
		dst **string
	}{
		{EnvAnthropicBaseURL, &patch.BaseURL},
		{EnvAnthropicAuthToken, &patch.AuthToken},
		{EnvAnthropicOpusModel, &patch.DefaultOpusModel},
	}
	for _, f := range fields {
		v, err := stringField(env, f.key)
		if err != nil {
			return patch, newError(KindParse, "decode claude settings", path, err)
		}
		*f.dst = v
	}

	if v, ok := env[EnvDisableNonessential]; ok && v != nil {
		disabled := strings.TrimSpace(stringify(v)) == disableNonessentialValue
		patch.DisableNonessentialTraffic = &disabled
	}

	log.Debug("read claude settings")
	return patch, nil
}

// RenderClaudeSettings renders the settings.json content for p. Blank fields
// take their defaults.
func RenderClaudeSettings(p profile.ClaudeProfile) ([]byte, error) {
	p = p.Normalized()

	env := ClaudeEnv{
		BaseURL:          p.BaseURL,
		AuthToken:        p.AuthToken,
		DefaultOpusModel: p.DefaultOpusModel,
	}
	if p.DisableNonessentialTraffic {
		env.DisableNonessentialTraffic = disableNonessentialValue
	}

	return encodeJSON(ClaudeSettings{Env: env})
}

// PlanClaude validates p and renders the settings file.
func (s *Store) PlanClaude(ctx context.Context, p profile.ClaudeProfile) (*Plan, error) {
	if err := p.Validate(); err != nil {
		return nil, newError(KindValidation, "write claude profile", "", err)
	}

	settings, err := RenderClaudeSettings(p)
	if err != nil {
		return nil, newError(KindIO, "encode claude settings", s.paths.ClaudeSettings, err)
	}

	plan := &Plan{
		Target: TargetClaude,
		Files: []PlannedFile{
			planFile("claude settings", s.paths.ClaudeSettings, settings, 0o600),
		},
	}
	logger.G(ctx).WithField("existing", len(plan.Overwrites())).Debug("planned claude write")
	return plan, nil
}

// WriteClaudeProfile validates p, runs the confirmation gate and writes the
// Claude Code settings file.
func (s *Store) WriteClaudeProfile(ctx context.Context, p profile.ClaudeProfile, c Confirmer) (Result, error) {
	plan, err := s.PlanClaude(ctx, p)
	if err != nil {
		return Declined, err
	}
	return s.confirmAndApply(ctx, plan, c)
}
