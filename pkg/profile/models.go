package profile

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ModelsFileName is the model list looked up next to the executable.
const ModelsFileName = "naapigpt"

var modelSeparator = regexp.MustCompile(`[,\n]`)

// DefaultModelsFile returns the path of the model list beside the running
// executable, or an empty string if the executable cannot be located.
func DefaultModelsFile() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Join(filepath.Dir(exe), ModelsFileName)
}

// LoadModelList reads suggested Codex models from path. Entries are separated
// by commas or newlines. Any failure, or a file without entries, falls back to
// the default model alone.
func LoadModelList(path string) []string {
	fallback := []string{DefaultCodexModel}
	if path == "" {
		return fallback
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fallback
	}

	models := ParseModelList(string(content))
	if len(models) == 0 {
		return fallback
	}
	return models
}

// ParseModelList splits a comma or newline separated model list.
func ParseModelList(content string) []string {
	var models []string
	for _, m := range modelSeparator.Split(content, -1) {
		if m = strings.TrimSpace(m); m != "" {
			models = append(models, m)
		}
	}
	return models
}
