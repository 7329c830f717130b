package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naapi/naapi-config/pkg/profile"
)

// recordingConfirmer answers with fixed values and records what it was asked.
type recordingConfirmer struct {
	warningAnswer   bool
	overwriteAnswer bool
	warnings        []string
	overwrites      [][]Overwrite
}

func (r *recordingConfirmer) ConfirmWarning(_ context.Context, message string) bool {
	r.warnings = append(r.warnings, message)
	return r.warningAnswer
}

func (r *recordingConfirmer) ConfirmOverwrite(_ context.Context, files []Overwrite) bool {
	r.overwrites = append(r.overwrites, files)
	return r.overwriteAnswer
}

func newTestStore(t *testing.T) (*Store, Paths) {
	t.Helper()
	paths := PathsFor(t.TempDir())
	return New(paths), paths
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestPathsFor(t *testing.T) {
	paths := PathsFor("/home/u")
	assert.Equal(t, filepath.Join("/home/u", ".codex", "config.toml"), paths.CodexConfig)
	assert.Equal(t, filepath.Join("/home/u", ".codex", "auth.json"), paths.CodexAuth)
	assert.Equal(t, filepath.Join("/home/u", ".claude", "settings.json"), paths.ClaudeSettings)

	merged := paths.WithOverrides(Paths{CodexAuth: "/tmp/auth.json"})
	assert.Equal(t, "/tmp/auth.json", merged.CodexAuth)
	assert.Equal(t, paths.CodexConfig, merged.CodexConfig)
	assert.Equal(t, paths.ClaudeSettings, merged.ClaudeSettings)
}

func TestWriteCodexProfile(t *testing.T) {
	ctx := context.Background()
	s, paths := newTestStore(t)

	p := profile.CodexProfile{
		BaseURL:         "https://example.com/v1",
		Model:           "gpt-4.1",
		ReasoningEffort: "medium",
		Verbosity:       "low",
		APIKey:          "sk-test-123",
	}

	result, err := s.WriteCodexProfile(ctx, p, NeverConfirm)
	require.NoError(t, err)
	assert.Equal(t, Written, result, "fresh targets need no confirmation")

	config, err := os.ReadFile(paths.CodexConfig)
	require.NoError(t, err)
	expected := `model_provider = "naapi"
model = "gpt-4.1"
model_reasoning_effort = "medium"
network_access = "enabled"
disable_response_storage = true
windows_wsl_setup_acknowledged = true
model_verbosity = "low"

[model_providers.naapi]
name = "naapi"
base_url = "https://example.com/v1"
wire_api = "responses"
requires_openai_auth = true
`
	assert.Equal(t, expected, string(config))

	auth, err := os.ReadFile(paths.CodexAuth)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"OPENAI_API_KEY\": \"sk-test-123\"\n}\n", string(auth))
}

func TestWriteCodexProfileDefaultsForBlankFields(t *testing.T) {
	ctx := context.Background()
	s, paths := newTestStore(t)

	_, err := s.WriteCodexProfile(ctx, profile.CodexProfile{APIKey: "sk-x", Model: "   "}, AlwaysConfirm)
	require.NoError(t, err)

	var doc map[string]any
	raw, err := os.ReadFile(paths.CodexConfig)
	require.NoError(t, err)
	require.NoError(t, toml.Unmarshal(raw, &doc))

	assert.Equal(t, profile.DefaultCodexModel, doc["model"])
	assert.Equal(t, profile.DefaultCodexReasoning, doc["model_reasoning_effort"])
	assert.Equal(t, profile.DefaultCodexVerbosity, doc["model_verbosity"])
	assert.Equal(t, "naapi", doc["model_provider"])
	assert.Equal(t, true, doc["disable_response_storage"])

	providers := doc["model_providers"].(map[string]any)
	naapi := providers["naapi"].(map[string]any)
	assert.Equal(t, profile.DefaultCodexBaseURL, naapi["base_url"])
	assert.Equal(t, "responses", naapi["wire_api"])
}

func TestWriteCodexProfileValidation(t *testing.T) {
	ctx := context.Background()

	for _, key := range []string{"", "  ", "sk-"} {
		t.Run("key "+key, func(t *testing.T) {
			s, paths := newTestStore(t)
			confirm := &recordingConfirmer{warningAnswer: true, overwriteAnswer: true}

			result, err := s.WriteCodexProfile(ctx, profile.CodexProfile{APIKey: key}, confirm)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Equal(t, Declined, result)
			assert.Empty(t, confirm.warnings)
			assert.Empty(t, confirm.overwrites)

			assert.NoFileExists(t, paths.CodexConfig)
			assert.NoFileExists(t, paths.CodexAuth)
			assert.NoDirExists(t, filepath.Dir(paths.CodexConfig))
		})
	}
}

func TestWriteCodexProfileKeyPrefixWarning(t *testing.T) {
	ctx := context.Background()

	t.Run("declined", func(t *testing.T) {
		s, paths := newTestStore(t)
		confirm := &recordingConfirmer{warningAnswer: false, overwriteAnswer: true}

		result, err := s.WriteCodexProfile(ctx, profile.CodexProfile{APIKey: "key-123"}, confirm)
		require.NoError(t, err)
		assert.Equal(t, Declined, result)
		assert.Len(t, confirm.warnings, 1)
		assert.Contains(t, confirm.warnings[0], "sk-")
		assert.NoFileExists(t, paths.CodexAuth)
	})

	t.Run("accepted", func(t *testing.T) {
		s, paths := newTestStore(t)
		confirm := &recordingConfirmer{warningAnswer: true, overwriteAnswer: false}

		result, err := s.WriteCodexProfile(ctx, profile.CodexProfile{APIKey: "key-123"}, confirm)
		require.NoError(t, err)
		assert.Equal(t, Written, result)
		assert.Empty(t, confirm.overwrites)
		assert.FileExists(t, paths.CodexAuth)
	})
}

func TestWriteCodexProfileOverwriteGate(t *testing.T) {
	ctx := context.Background()
	s, paths := newTestStore(t)
	writeTestFile(t, paths.CodexAuth, `{"OPENAI_API_KEY": "sk-old"}`)

	confirm := &recordingConfirmer{overwriteAnswer: false}
	result, err := s.WriteCodexProfile(ctx, profile.CodexProfile{APIKey: "sk-new"}, confirm)
	require.NoError(t, err)
	assert.Equal(t, Declined, result)

	require.Len(t, confirm.overwrites, 1)
	require.Len(t, confirm.overwrites[0], 1)
	assert.Equal(t, paths.CodexAuth, confirm.overwrites[0][0].Path)
	assert.Contains(t, confirm.overwrites[0][0].Diff, "sk-new")

	assert.NoFileExists(t, paths.CodexConfig, "declining writes neither file")
	raw, err := os.ReadFile(paths.CodexAuth)
	require.NoError(t, err)
	assert.Equal(t, `{"OPENAI_API_KEY": "sk-old"}`, string(raw))

	writeTestFile(t, paths.CodexConfig, "model = \"x\"\n")
	confirm = &recordingConfirmer{overwriteAnswer: true}
	result, err = s.WriteCodexProfile(ctx, profile.CodexProfile{APIKey: "sk-new"}, confirm)
	require.NoError(t, err)
	assert.Equal(t, Written, result)
	require.Len(t, confirm.overwrites, 1)
	assert.Len(t, confirm.overwrites[0], 2, "every existing path is named")
	assert.Equal(t, paths.CodexConfig, confirm.overwrites[0][0].Path)
}

func TestWriteCodexProfileRejectsCorruptingValues(t *testing.T) {
	ctx := context.Background()

	for name, model := range map[string]string{
		"quote":     `gpt"5`,
		"newline":   "gpt\n5",
		"backslash": `gpt\5`,
	} {
		t.Run(name, func(t *testing.T) {
			s, paths := newTestStore(t)
			_, err := s.WriteCodexProfile(ctx, profile.CodexProfile{APIKey: "sk-x", Model: model}, AlwaysConfirm)
			require.Error(t, err)
			kind, ok := KindOf(err)
			require.True(t, ok)
			assert.Equal(t, KindIO, kind)
			assert.NoFileExists(t, paths.CodexConfig)
			assert.NoFileExists(t, paths.CodexAuth)
		})
	}
}

func TestCodexRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	in := profile.CodexProfile{
		BaseURL:         "https://proxy.internal/v1",
		Model:           "gpt-5.2-codex",
		ReasoningEffort: "auto",
		Verbosity:       "medium",
		APIKey:          "sk-roundtrip",
	}
	_, err := s.WriteCodexProfile(ctx, in, AlwaysConfirm)
	require.NoError(t, err)

	patch, err := s.LoadCodexProfile(ctx)
	require.NoError(t, err)

	var out profile.CodexProfile
	patch.Apply(&out)
	assert.Equal(t, in, out)
}

func TestLoadCodexProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("no files", func(t *testing.T) {
		s, _ := newTestStore(t)
		patch, err := s.LoadCodexProfile(ctx)
		require.NoError(t, err)
		assert.True(t, patch.Empty())
	})

	t.Run("pattern rules", func(t *testing.T) {
		s, paths := newTestStore(t)
		writeTestFile(t, paths.CodexConfig, strings.Join([]string{
			`model_provider = "other"`,
			`  model   =   "gpt-4o"  `,
			`model_reasoning_effort = ""`,
			`model_verbosity = 'low'`,
			`base_url = "https://first/v1"`,
			`base_url = "https://second/v1"`,
		}, "\n"))

		patch, err := s.LoadCodexProfile(ctx)
		require.NoError(t, err)

		require.NotNil(t, patch.Model)
		assert.Equal(t, "gpt-4o", *patch.Model)
		assert.Nil(t, patch.ReasoningEffort, "empty value is ignored")
		assert.Nil(t, patch.Verbosity, "single quotes do not match")
		require.NotNil(t, patch.BaseURL)
		assert.Equal(t, "https://first/v1", *patch.BaseURL)
		assert.Nil(t, patch.APIKey)
	})

	t.Run("crlf line endings", func(t *testing.T) {
		s, paths := newTestStore(t)
		writeTestFile(t, paths.CodexConfig, "model = \"gpt-4o\"\r\nmodel_verbosity = \"low\"\r\n")

		patch, err := s.LoadCodexProfile(ctx)
		require.NoError(t, err)
		require.NotNil(t, patch.Model)
		assert.Equal(t, "gpt-4o", *patch.Model)
		require.NotNil(t, patch.Verbosity)
		assert.Equal(t, "low", *patch.Verbosity)
	})

	t.Run("api key trimmed", func(t *testing.T) {
		s, paths := newTestStore(t)
		writeTestFile(t, paths.CodexAuth, `{"OPENAI_API_KEY": "  sk-abc  "}`)

		patch, err := s.LoadCodexProfile(ctx)
		require.NoError(t, err)
		require.NotNil(t, patch.APIKey)
		assert.Equal(t, "sk-abc", *patch.APIKey)
	})

	t.Run("empty or null api key ignored", func(t *testing.T) {
		for _, content := range []string{`{"OPENAI_API_KEY": ""}`, `{"OPENAI_API_KEY": null}`, `{}`} {
			s, paths := newTestStore(t)
			writeTestFile(t, paths.CodexAuth, content)

			patch, err := s.LoadCodexProfile(ctx)
			require.NoError(t, err)
			assert.Nil(t, patch.APIKey, content)
		}
	})

	t.Run("malformed auth keeps config values", func(t *testing.T) {
		s, paths := newTestStore(t)
		writeTestFile(t, paths.CodexConfig, `model = "gpt-4o"`)
		writeTestFile(t, paths.CodexAuth, `{not json`)

		patch, err := s.LoadCodexProfile(ctx)
		require.Error(t, err)
		assert.True(t, IsParse(err))
		assert.Contains(t, err.Error(), paths.CodexAuth)
		require.NotNil(t, patch.Model, "values merged before the failure are kept")
		assert.Equal(t, "gpt-4o", *patch.Model)
	})

	t.Run("non-object and non-string", func(t *testing.T) {
		for _, content := range []string{`[1, 2]`, `{"OPENAI_API_KEY": 42}`, `{"a": 1} trailing`} {
			s, paths := newTestStore(t)
			writeTestFile(t, paths.CodexAuth, content)

			_, err := s.LoadCodexProfile(ctx)
			assert.True(t, IsParse(err), content)
		}
	})
}

func TestWriteClaudeProfile(t *testing.T) {
	ctx := context.Background()
	s, paths := newTestStore(t)

	p := profile.ClaudeProfile{
		BaseURL:                    "https://example.com",
		AuthToken:                  "tok-1",
		DefaultOpusModel:           "claude-opus-4-1",
		DisableNonessentialTraffic: true,
	}
	result, err := s.WriteClaudeProfile(ctx, p, NeverConfirm)
	require.NoError(t, err)
	assert.Equal(t, Written, result)

	raw, err := os.ReadFile(paths.ClaudeSettings)
	require.NoError(t, err)
	expected := `{
  "env": {
    "ANTHROPIC_BASE_URL": "https://example.com",
    "ANTHROPIC_AUTH_TOKEN": "tok-1",
    "ANTHROPIC_DEFAULT_OPUS_MODEL": "claude-opus-4-1",
    "CLAUDE_CODE_DISABLE_NONESSENTIAL_TRAFFIC": "1"
  }
}
`
	assert.Equal(t, expected, string(raw))
}

func TestWriteClaudeProfileWithoutTrafficFlag(t *testing.T) {
	ctx := context.Background()
	s, paths := newTestStore(t)

	_, err := s.WriteClaudeProfile(ctx, profile.ClaudeProfile{AuthToken: "tok"}, AlwaysConfirm)
	require.NoError(t, err)

	raw, err := os.ReadFile(paths.ClaudeSettings)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), EnvDisableNonessential)

	var doc ClaudeSettings
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, profile.DefaultClaudeBaseURL, doc.Env.BaseURL)
	assert.Equal(t, profile.DefaultClaudeOpusModel, doc.Env.DefaultOpusModel)
}

func TestWriteClaudeProfileValidation(t *testing.T) {
	ctx := context.Background()
	s, paths := newTestStore(t)

	result, err := s.WriteClaudeProfile(ctx, profile.ClaudeProfile{AuthToken: " "}, AlwaysConfirm)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, Declined, result)
	assert.NoFileExists(t, paths.ClaudeSettings)
}

func TestWriteClaudeProfileDeclineLeavesFileUnchanged(t *testing.T) {
	ctx := context.Background()
	s, paths := newTestStore(t)
	original := "{\"env\": {\"ANTHROPIC_AUTH_TOKEN\": \"keep\"}, \"permissions\": {}}"
	writeTestFile(t, paths.ClaudeSettings, original)

	confirm := &recordingConfirmer{overwriteAnswer: false}
	result, err := s.WriteClaudeProfile(ctx, profile.ClaudeProfile{AuthToken: "new"}, confirm)
	require.NoError(t, err)
	assert.Equal(t, Declined, result)
	require.Len(t, confirm.overwrites, 1)
	assert.Equal(t, paths.ClaudeSettings, confirm.overwrites[0][0].Path)

	raw, err := os.ReadFile(paths.ClaudeSettings)
	require.NoError(t, err)
	assert.Equal(t, original, string(raw))
}

func TestClaudeRoundTrip(t *testing.T) {
	ctx := context.Background()

	for _, disabled := range []bool{true, false} {
		s, paths := newTestStore(t)
		in := profile.ClaudeProfile{
			BaseURL:                    "https://relay.example",
			AuthToken:                  "tok",
			DefaultOpusModel:           "opus",
			DisableNonessentialTraffic: disabled,
		}
		_, err := s.WriteClaudeProfile(ctx, in, AlwaysConfirm)
		require.NoError(t, err)

		raw, err := os.ReadFile(paths.ClaudeSettings)
		require.NoError(t, err)
		assert.Equal(t, disabled, strings.Contains(string(raw), EnvDisableNonessential))

		patch, err := s.LoadClaudeProfile(ctx)
		require.NoError(t, err)

		out := profile.DefaultClaude()
		out.DisableNonessentialTraffic = !disabled
		patch.Apply(&out)

		if disabled {
			assert.Equal(t, in, out)
		} else {
			// the key is omitted, so the loaded flag keeps its prior value
			assert.Nil(t, patch.DisableNonessentialTraffic)
			fresh := profile.ClaudeProfile{}
			patch.Apply(&fresh)
			assert.False(t, fresh.DisableNonessentialTraffic)
		}
	}
}

func TestLoadClaudeProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		s, _ := newTestStore(t)
		patch, err := s.LoadClaudeProfile(ctx)
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
		assert.True(t, patch.Empty())

		p := profile.DefaultClaude()
		p.AuthToken = "kept"
		patch.Apply(&p)
		assert.Equal(t, "kept", p.AuthToken)
	})

	t.Run("traffic flag values", func(t *testing.T) {
		tests := []struct {
			name  string
			value string
			want  *bool
		}{
			{"one", `"1"`, boolPtr(true)},
			{"padded one", `" 1 "`, boolPtr(true)},
			{"number one", `1`, boolPtr(true)},
			{"zero", `"0"`, boolPtr(false)},
			{"true string", `"true"`, boolPtr(false)},
			{"bool true", `true`, boolPtr(false)},
			{"null", `null`, nil},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				s, paths := newTestStore(t)
				writeTestFile(t, paths.ClaudeSettings, `{"env": {"CLAUDE_CODE_DISABLE_NONESSENTIAL_TRAFFIC": `+tt.value+`}}`)

				patch, err := s.LoadClaudeProfile(ctx)
				require.NoError(t, err)
				assert.Equal(t, tt.want, patch.DisableNonessentialTraffic)
			})
		}
	})

	t.Run("absent flag leaves value unchanged", func(t *testing.T) {
		s, paths := newTestStore(t)
		writeTestFile(t, paths.ClaudeSettings, `{"env": {"ANTHROPIC_AUTH_TOKEN": " tok "}}`)

		patch, err := s.LoadClaudeProfile(ctx)
		require.NoError(t, err)
		assert.Nil(t, patch.DisableNonessentialTraffic)
		require.NotNil(t, patch.AuthToken)
		assert.Equal(t, "tok", *patch.AuthToken)
		assert.Nil(t, patch.BaseURL)
	})

	t.Run("missing env", func(t *testing.T) {
		s, paths := newTestStore(t)
		writeTestFile(t, paths.ClaudeSettings, `{"permissions": {"allow": []}}`)

		patch, err := s.LoadClaudeProfile(ctx)
		require.NoError(t, err)
		assert.True(t, patch.Empty())
	})

	t.Run("malformed", func(t *testing.T) {
		for _, content := range []string{`{`, `{"env": "x"}`, `{"env": {"ANTHROPIC_BASE_URL": 3}}`} {
			s, paths := newTestStore(t)
			writeTestFile(t, paths.ClaudeSettings, content)

			_, err := s.LoadClaudeProfile(ctx)
			assert.True(t, IsParse(err), content)
		}
	})
}

func TestPlanDiffs(t *testing.T) {
	ctx := context.Background()
	s, paths := newTestStore(t)

	plan, err := s.PlanClaude(ctx, profile.ClaudeProfile{AuthToken: "tok"})
	require.NoError(t, err)
	require.Len(t, plan.Files, 1)
	assert.False(t, plan.Files[0].Exists)
	assert.Empty(t, plan.Files[0].Diff())
	assert.Empty(t, plan.Overwrites())

	require.NoError(t, s.Apply(ctx, plan))

	plan, err = s.PlanClaude(ctx, profile.ClaudeProfile{AuthToken: "tok2"})
	require.NoError(t, err)
	assert.Equal(t, []string{paths.ClaudeSettings}, plan.ExistingPaths())
	diff := plan.Files[0].Diff()
	assert.Contains(t, diff, "-    \"ANTHROPIC_AUTH_TOKEN\": \"tok\",")
	assert.Contains(t, diff, "+    \"ANTHROPIC_AUTH_TOKEN\": \"tok2\",")
	assert.False(t, plan.Files[0].Unchanged())

	plan, err = s.PlanClaude(ctx, profile.ClaudeProfile{AuthToken: "tok"})
	require.NoError(t, err)
	assert.True(t, plan.Files[0].Unchanged())
}

func TestConfirmNilConfirmer(t *testing.T) {
	ctx := context.Background()
	assert.True(t, Confirm(ctx, &Plan{}, nil), "nothing to ask")
	assert.False(t, Confirm(ctx, &Plan{Warnings: []string{"w"}}, nil))
}

func TestWritePermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}

	ctx := context.Background()
	home := t.TempDir()
	locked := filepath.Join(home, ".claude")
	require.NoError(t, os.MkdirAll(locked, 0o500))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	s := New(PathsFor(home))
	_, err := s.WriteClaudeProfile(ctx, profile.ClaudeProfile{AuthToken: "tok"}, AlwaysConfirm)
	require.Error(t, err)
	assert.True(t, IsPermission(err))
	assert.Contains(t, err.Error(), "elevated privileges")
}

func TestCodexPartialWrite(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}

	ctx := context.Background()
	home := t.TempDir()
	paths := PathsFor(home)
	paths.CodexAuth = filepath.Join(home, "locked", "auth.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(paths.CodexAuth), 0o500))
	t.Cleanup(func() { _ = os.Chmod(filepath.Dir(paths.CodexAuth), 0o755) })

	s := New(paths)
	_, err := s.WriteCodexProfile(ctx, profile.CodexProfile{APIKey: "sk-x"}, AlwaysConfirm)
	require.Error(t, err)
	assert.True(t, IsPermission(err))
	assert.FileExists(t, paths.CodexConfig, "config is written before the auth file fails")
	assert.NoFileExists(t, paths.CodexAuth)
}

func TestErrorKinds(t *testing.T) {
	err := newError(KindNotFound, "read claude settings", "/x", os.ErrNotExist)
	assert.Equal(t, "read claude settings /x: file does not exist", err.Error())
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, "not found", KindNotFound.String())

	_, ok := KindOf(os.ErrNotExist)
	assert.False(t, ok)
	assert.False(t, IsNotFound(os.ErrNotExist))
}

func boolPtr(b bool) *bool {
	return &b
}
