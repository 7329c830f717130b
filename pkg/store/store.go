// Package store reads and writes the configuration files of the Codex CLI
// and Claude Code. Every write is split into a plan (validation and
// rendering), a confirmation gate for warnings and overwrites, and an apply
// step that creates directories and writes files.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/pkg/errors"

	"github.com/naapi/naapi-config/pkg/logger"
)

// Target identifies which tool a plan writes for.
type Target string

const (
	TargetCodex  Target = "codex"
	TargetClaude Target = "claude"
)

// Result is the outcome of a write that returned no error.
type Result int

const (
	// Declined means the user turned down a confirmation and nothing was written.
	Declined Result = iota
	// Written means every planned file was written.
	Written
)

func (r Result) String() string {
	if r == Written {
		return "written"
	}
	return "declined"
}

// Store reads and writes the target files at a fixed set of paths.
type Store struct {
	paths Paths
}

// New creates a Store for the given paths.
func New(paths Paths) *Store {
	return &Store{paths: paths}
}

// Paths returns the target paths of the store.
func (s *Store) Paths() Paths {
	return s.paths
}

// PlannedFile is one rendered file of a plan.
type PlannedFile struct {
	Name     string
	Path     string
	Content  []byte
	Perm     fs.FileMode
	Exists   bool
	Previous []byte
}

// Diff returns a unified diff of the current file against the planned
// content, or an empty string when the file does not exist yet.
func (f PlannedFile) Diff() string {
	if !f.Exists {
		return ""
	}
	return udiff.Unified(f.Path, f.Path, string(f.Previous), string(f.Content))
}

// Unchanged reports whether the file already holds the planned content.
func (f PlannedFile) Unchanged() bool {
	return f.Exists && bytes.Equal(f.Previous, f.Content)
}

func planFile(name, path string, content []byte, perm fs.FileMode) PlannedFile {
	f := PlannedFile{
		Name:    name,
		Path:    path,
		Content: content,
		Perm:    perm,
		Exists:  exists(path),
	}
	if f.Exists {
		// unreadable targets still count as existing, only the diff is lost
		f.Previous, _ = os.ReadFile(path)
	}
	return f
}

// Plan is a validated, rendered write that has not touched disk yet.
type Plan struct {
	Target   Target
	Files    []PlannedFile
	Warnings []string
}

// Overwrite names an existing file a plan would replace.
type Overwrite struct {
	Path string
	Diff string
}

// Overwrites lists the planned files that already exist, in write order.
func (p *Plan) Overwrites() []Overwrite {
	var out []Overwrite
	for _, f := range p.Files {
		if f.Exists {
			out = append(out, Overwrite{Path: f.Path, Diff: f.Diff()})
		}
	}
	return out
}

// ExistingPaths lists the paths of Overwrites.
func (p *Plan) ExistingPaths() []string {
	var paths []string
	for _, o := range p.Overwrites() {
		paths = append(paths, o.Path)
	}
	return paths
}

// Confirmer mediates the human decisions a write needs. Both methods block
// until the user answers.
type Confirmer interface {
	ConfirmWarning(ctx context.Context, message string) bool
	ConfirmOverwrite(ctx context.Context, files []Overwrite) bool
}

type staticConfirmer bool

func (c staticConfirmer) ConfirmWarning(context.Context, string) bool { return bool(c) }
func (c staticConfirmer) ConfirmOverwrite(context.Context, []Overwrite) bool { return bool(c) }

var (
	// AlwaysConfirm approves every prompt.
	AlwaysConfirm Confirmer = staticConfirmer(true)
	// NeverConfirm declines every prompt.
	NeverConfirm Confirmer = staticConfirmer(false)
)

// Confirm runs the confirmation gate of a plan: every warning, then the list
// of existing files. A nil confirmer declines whenever a question is asked.
func Confirm(ctx context.Context, plan *Plan, c Confirmer) bool {
	if c == nil {
		c = NeverConfirm
	}
	for _, w := range plan.Warnings {
		if !c.ConfirmWarning(ctx, w) {
			return false
		}
	}
	if overwrites := plan.Overwrites(); len(overwrites) > 0 {
		return c.ConfirmOverwrite(ctx, overwrites)
	}
	return true
}

func (s *Store) confirmAndApply(ctx context.Context, plan *Plan, c Confirmer) (Result, error) {
	if !Confirm(ctx, plan, c) {
		logger.G(ctx).WithField("target", plan.Target).Info("write declined")
		return Declined, nil
	}
	if err := s.Apply(ctx, plan); err != nil {
		return Declined, err
	}
	return Written, nil
}

// Apply writes every file of the plan in order, creating parent directories
// as needed. Files are written independently: a failure leaves earlier files
// written and later ones untouched.
func (s *Store) Apply(ctx context.Context, plan *Plan) error {
	for _, f := range plan.Files {
		log := logger.G(ctx).WithField("path", f.Path)

		if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
			return writeError("create directory for "+f.Name, filepath.Dir(f.Path), err)
		}
		if err := os.WriteFile(f.Path, f.Content, f.Perm); err != nil {
			return writeError("write "+f.Name, f.Path, err)
		}
		log.Debug("wrote file")
	}
	logger.G(ctx).WithField("target", plan.Target).Info("profile written")
	return nil
}

// decodeObject decodes a JSON document that must be an object. Numbers are
// kept in their literal form.
func decodeObject(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "invalid json")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("invalid json: unexpected data after top-level value")
	}
	if doc == nil {
		return map[string]any{}, nil
	}
	return doc, nil
}

// stringField extracts a trimmed, non-empty string. Absent, null and empty
// values yield nil.
func stringField(doc map[string]any, key string) (*string, error) {
	switch v := doc[key].(type) {
	case nil:
		return nil, nil
	case string:
		if v = strings.TrimSpace(v); v == "" {
			return nil, nil
		}
		return &v, nil
	default:
		return nil, errors.Errorf("%s must be a string, got %T", key, v)
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
