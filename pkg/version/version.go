// Package version holds build metadata injected at link time.
package version

import (
	"encoding/json"
	"fmt"
	"runtime"
)

var (
	// Version is the release of naapi-config, set with -ldflags at build time.
	Version = "dev"

	// GitCommit is the commit the binary was built from.
	GitCommit = "unknown"
)

// Info represents version information
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// Get returns the version information
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String returns the one-line form of the version info
func (i Info) String() string {
	return fmt.Sprintf("naapi-config %s (%s, %s, %s)", i.Version, i.GitCommit, i.GoVersion, i.Platform)
}

// JSON returns the indented JSON form of the version info
func (i Info) JSON() (string, error) {
	bytes, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
