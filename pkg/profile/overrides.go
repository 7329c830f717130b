package profile

import (
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// ApplyCodexOverrides decodes configured values onto p. Blank strings are
// skipped so that an empty config entry never erases a default.
func ApplyCodexOverrides(p *CodexProfile, overrides map[string]any) error {
	return decodeOverrides(p, overrides)
}

// ApplyClaudeOverrides decodes configured values onto p. Blank strings are
// skipped so that an empty config entry never erases a default.
func ApplyClaudeOverrides(p *ClaudeProfile, overrides map[string]any) error {
	return decodeOverrides(p, overrides)
}

func decodeOverrides(result any, overrides map[string]any) error {
	if len(overrides) == 0 {
		return nil
	}

	filtered := make(map[string]any, len(overrides))
	for k, v := range overrides {
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		filtered[strings.ToLower(k)] = v
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           result,
		WeaklyTypedInput: true,
		ZeroFields:       false,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create override decoder")
	}

	if err := decoder.Decode(filtered); err != nil {
		return errors.Wrap(err, "failed to apply configured defaults")
	}
	return nil
}
