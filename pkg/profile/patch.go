package profile

// CodexPatch carries the Codex fields found in files on disk. A nil field was
// not found and leaves the target untouched when applied.
type CodexPatch struct {
	BaseURL         *string
	Model           *string
	ReasoningEffort *string
	Verbosity       *string
	APIKey          *string
}

// ClaudePatch carries the Claude Code fields found in a settings file.
type ClaudePatch struct {
	BaseURL                    *string
	AuthToken                  *string
	DefaultOpusModel           *string
	DisableNonessentialTraffic *bool
}

// Apply overwrites the fields of p that the patch carries.
func (c CodexPatch) Apply(p *CodexProfile) {
	setString(&p.BaseURL, c.BaseURL)
	setString(&p.Model, c.Model)
	setString(&p.ReasoningEffort, c.ReasoningEffort)
	setString(&p.Verbosity, c.Verbosity)
	setString(&p.APIKey, c.APIKey)
}

// Empty reports whether the patch carries no field.
func (c CodexPatch) Empty() bool {
	return c.BaseURL == nil && c.Model == nil && c.ReasoningEffort == nil &&
		c.Verbosity == nil && c.APIKey == nil
}

// Apply overwrites the fields of p that the patch carries.
func (c ClaudePatch) Apply(p *ClaudeProfile) {
	setString(&p.BaseURL, c.BaseURL)
	setString(&p.AuthToken, c.AuthToken)
	setString(&p.DefaultOpusModel, c.DefaultOpusModel)
	if c.DisableNonessentialTraffic != nil {
		p.DisableNonessentialTraffic = *c.DisableNonessentialTraffic
	}
}

// Empty reports whether the patch carries no field.
func (c ClaudePatch) Empty() bool {
	return c.BaseURL == nil && c.AuthToken == nil && c.DefaultOpusModel == nil &&
		c.DisableNonessentialTraffic == nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
