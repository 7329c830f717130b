package main

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/naapi/naapi-config/pkg/profile"
	"github.com/naapi/naapi-config/pkg/store"
)

var (
	codexConfigKeys  = []string{"base_url", "model", "reasoning_effort", "verbosity", "api_key"}
	claudeConfigKeys = []string{"base_url", "auth_token", "default_opus_model", "disable_nonessential_traffic"}
)

func init() {
	initViper()
}

func initViper() {
	// Environment variables
	viper.SetEnvPrefix("NAAPI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.naapi-config")
	viper.AddConfigPath(".")

	viper.SetDefault("log_level", "warn")
	viper.SetDefault("log_format", "text")
}

// loadConfig reads the env file, if any, and then the config file. A missing
// default config file is not an error; a missing explicit one is.
func loadConfig(envFile, configFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return errors.Wrapf(err, "failed to load env file %s", envFile)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	}
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return errors.Wrap(err, "failed to read config file")
	}
	return nil
}

// configuredSection collects the keys of a config section that are set in
// the config file or the environment.
func configuredSection(section string, keys []string) map[string]any {
	out := make(map[string]any)
	for _, k := range keys {
		key := section + "." + k
		if viper.IsSet(key) {
			out[k] = viper.Get(key)
		}
	}
	return out
}

// baseCodexProfile returns the built-in defaults with configured values applied.
func baseCodexProfile() (profile.CodexProfile, error) {
	p := profile.DefaultCodex()
	if err := profile.ApplyCodexOverrides(&p, configuredSection("codex", codexConfigKeys)); err != nil {
		return p, err
	}
	return p, nil
}

// baseClaudeProfile returns the built-in defaults with configured values applied.
func baseClaudeProfile() (profile.ClaudeProfile, error) {
	p := profile.DefaultClaude()
	if err := profile.ApplyClaudeOverrides(&p, configuredSection("claude", claudeConfigKeys)); err != nil {
		return p, err
	}
	return p, nil
}

func expandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + path[1:]
		}
	}
	return os.ExpandEnv(path)
}

// newStore builds a store at the standard locations, with any paths from the
// config file taking precedence.
func newStore() (*store.Store, error) {
	paths, err := store.DefaultPaths()
	if err != nil {
		return nil, err
	}
	paths = paths.WithOverrides(store.Paths{
		CodexConfig:    expandPath(viper.GetString("paths.codex_config")),
		CodexAuth:      expandPath(viper.GetString("paths.codex_auth")),
		ClaudeSettings: expandPath(viper.GetString("paths.claude_settings")),
	})
	return store.New(paths), nil
}

// modelList returns the suggested Codex models.
func modelList() []string {
	path := expandPath(viper.GetString("models_file"))
	if path == "" {
		path = profile.DefaultModelsFile()
	}
	return profile.LoadModelList(path)
}
