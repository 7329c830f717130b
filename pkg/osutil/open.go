// Package osutil wraps the platform integrations the configuration tool
// needs: revealing files in the system file manager and the clipboard.
package osutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"
)

// commandStarter starts an external command without waiting for it.
type commandStarter func(name string, args ...string) error

func startCommand(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Opener reveals paths in the platform file manager.
type Opener struct {
	goos  string
	start commandStarter
}

// NewOpener returns an Opener for the running platform.
func NewOpener() *Opener {
	return &Opener{goos: runtime.GOOS, start: startCommand}
}

// RevealTarget returns what OpenPath actually opens: the path itself when it
// exists, otherwise its parent directory.
func RevealTarget(path string) string {
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return filepath.Dir(path)
}

// OpenPath opens path, or its parent directory if path does not exist, and
// returns the target that was opened.
func (o *Opener) OpenPath(path string) (string, error) {
	target := RevealTarget(path)

	name, args, err := openCommand(o.goos, target)
	if err != nil {
		return target, err
	}
	if err := o.start(name, args...); err != nil {
		return target, errors.Wrapf(err, "failed to open %s", target)
	}
	return target, nil
}

func openCommand(goos, target string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{target}, nil
	case "windows":
		return "explorer", []string{target}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{target}, nil
	default:
		return "", nil, errors.Errorf("unsupported operating system %q", goos)
	}
}

