package store

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"regexp"
	"strings"
	"text/template"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/naapi/naapi-config/pkg/logger"
	"github.com/naapi/naapi-config/pkg/profile"
)

// ProviderName is the model provider id written into the Codex config.
const ProviderName = "naapi"

const codexConfigTemplate = `model_provider = "{{.Provider}}"
model = "{{.Model}}"
model_reasoning_effort = "{{.ReasoningEffort}}"
network_access = "enabled"
disable_response_storage = true
windows_wsl_setup_acknowledged = true
model_verbosity = "{{.Verbosity}}"

[model_providers.{{.Provider}}]
name = "{{.Provider}}"
base_url = "{{.BaseURL}}"
wire_api = "responses"
requires_openai_auth = true
`

var codexConfigTmpl = template.Must(template.New("config.toml").Parse(codexConfigTemplate))

// codexConfigDocument mirrors the rendered config for the well-formedness check.
type codexConfigDocument struct {
	ModelProvider        string `toml:"model_provider"`
	Model                string `toml:"model"`
	ModelReasoningEffort string `toml:"model_reasoning_effort"`
	ModelVerbosity       string `toml:"model_verbosity"`
	ModelProviders       map[string]struct {
		Name    string `toml:"name"`
		BaseURL string `toml:"base_url"`
	} `toml:"model_providers"`
}

// CodexAuth is the document written to ~/.codex/auth.json.
type CodexAuth struct {
	OpenAIAPIKey string `json:"OPENAI_API_KEY" jsonschema:"description=API key sent to the configured provider"`
}

// codexKeyPattern matches a `key = "value"` line of the Codex config.
func codexKeyPattern(key string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^\s*` + regexp.QuoteMeta(key) + `\s*=\s*"([^"]*)"\s*$`)
}

var (
	baseURLPattern   = codexKeyPattern("base_url")
	modelPattern     = codexKeyPattern("model")
	reasoningPattern = codexKeyPattern("model_reasoning_effort")
	verbosityPattern = codexKeyPattern("model_verbosity")
)

// LoadCodexProfile reads the Codex config and auth files. Missing files are
// skipped. On failure the returned patch still holds whatever was read
// before the failing step.
func (s *Store) LoadCodexProfile(ctx context.Context) (profile.CodexPatch, error) {
	var patch profile.CodexPatch
	log := logger.G(ctx)

	text, err := os.ReadFile(s.paths.CodexConfig)
	switch {
	case err == nil:
		patch.BaseURL = matchValue(baseURLPattern, text)
		patch.Model = matchValue(modelPattern, text)
		patch.ReasoningEffort = matchValue(reasoningPattern, text)
		patch.Verbosity = matchValue(verbosityPattern, text)
		log.WithField("path", s.paths.CodexConfig).Debug("read codex config")
	case os.IsNotExist(err):
		log.WithField("path", s.paths.CodexConfig).Debug("codex config not found, skipping")
	default:
		return patch, newError(KindIO, "read codex config", s.paths.CodexConfig, errors.WithStack(err))
	}

	raw, err := os.ReadFile(s.paths.CodexAuth)
	switch {
	case err == nil:
	case os.IsNotExist(err):
		log.WithField("path", s.paths.CodexAuth).Debug("codex auth file not found, skipping")
		return patch, nil
	default:
		return patch, newError(KindIO, "read codex auth", s.paths.CodexAuth, errors.WithStack(err))
	}

	doc, err := decodeObject(raw)
	if err != nil {
		return patch, newError(KindParse, "decode codex auth", s.paths.CodexAuth, err)
	}

	key, err := stringField(doc, "OPENAI_API_KEY")
	if err != nil {
		return patch, newError(KindParse, "decode codex auth", s.paths.CodexAuth, err)
	}
	patch.APIKey = key
	log.WithField("path", s.paths.CodexAuth).Debug("read codex auth")

	return patch, nil
}

func matchValue(pattern *regexp.Regexp, text []byte) *string {
	m := pattern.FindSubmatch(text)
	if m == nil || len(m[1]) == 0 {
		return nil
	}
	v := string(m[1])
	return &v
}

// RenderCodexConfig renders the config.toml content for p. Blank fields take
// their defaults.
func RenderCodexConfig(p profile.CodexProfile) ([]byte, error) {
	p = p.Normalized()

	var buf bytes.Buffer
	err := codexConfigTmpl.Execute(&buf, struct {
		profile.CodexProfile
		Provider string
	}{p, ProviderName})
	if err != nil {
		return nil, errors.Wrap(err, "failed to render codex config")
	}

	var doc codexConfigDocument
	if err := toml.Unmarshal(buf.Bytes(), &doc); err != nil {
		return nil, errors.Wrap(err, "rendered codex config is not valid TOML")
	}
	if doc.Model != p.Model || doc.ModelReasoningEffort != p.ReasoningEffort ||
		doc.ModelVerbosity != p.Verbosity || doc.ModelProviders[ProviderName].BaseURL != p.BaseURL {
		return nil, errors.New("codex config values must not contain quotes, backslashes or line breaks")
	}

	return buf.Bytes(), nil
}

// RenderCodexAuth renders the auth.json content for p.
func RenderCodexAuth(p profile.CodexProfile) ([]byte, error) {
	return encodeJSON(CodexAuth{OpenAIAPIKey: strings.TrimSpace(p.APIKey)})
}

// PlanCodex validates p and renders both Codex files without touching disk
// beyond reading the current content of existing targets.
func (s *Store) PlanCodex(ctx context.Context, p profile.CodexProfile) (*Plan, error) {
	if err := p.Validate(); err != nil {
		return nil, newError(KindValidation, "write codex profile", "", err)
	}

	config, err := RenderCodexConfig(p)
	if err != nil {
		return nil, newError(KindIO, "encode codex config", s.paths.CodexConfig, err)
	}
	auth, err := RenderCodexAuth(p)
	if err != nil {
		return nil, newError(KindIO, "encode codex auth", s.paths.CodexAuth, err)
	}

	plan := &Plan{
		Target:   TargetCodex,
		Warnings: p.Warnings(),
		Files: []PlannedFile{
			planFile("codex config", s.paths.CodexConfig, config, 0o644),
			planFile("codex auth", s.paths.CodexAuth, auth, 0o600),
		},
	}
	logger.G(ctx).WithField("existing", len(plan.Overwrites())).Debug("planned codex write")
	return plan, nil
}

// WriteCodexProfile validates p, runs the confirmation gate and writes the
// Codex config and auth files.
func (s *Store) WriteCodexProfile(ctx context.Context, p profile.CodexProfile, c Confirmer) (Result, error) {
	plan, err := s.PlanCodex(ctx, p)
	if err != nil {
		return Declined, err
	}
	return s.confirmAndApply(ctx, plan, c)
}

func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrap(err, "failed to encode json")
	}
	return buf.Bytes(), nil
}
