// Package depsfile reads gclient-style DEPS manifests.
//
// A DEPS file is a sequence of Python assignments. Instead of executing it,
// the loader parses it with the Starlark grammar and evaluates a small,
// closed subset of expressions: literals, dict/list/tuple displays, string
// concatenation and formatting, and the Var()/Str() helpers. Python-only
// string forms such as implicit concatenation of adjacent literals ('a' 'b')
// and u'' prefixes are rejected as parse errors.
package depsfile

import (
	"errors"
	"io/fs"
	"os"

	"go.starlark.net/syntax"
	"go.trai.ch/pinsync/internal/core/domain"
	"go.trai.ch/zerr"
)

// VarsName is the top-level binding holding the manifest pins.
const VarsName = "vars"

// Loader implements ports.ManifestLoader for DEPS files on disk.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and evaluates the manifest at path.
func (l *Loader) Load(path string) (*domain.Manifest, error) {
	//nolint:gosec // Manifest paths are operator supplied
	src, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(domain.ErrManifestNotFound, "path", path)
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "path", path)
	}
	return Parse(path, src)
}

// Parse evaluates src as a DEPS manifest. path is only used for diagnostics.
func Parse(path string, src []byte) (*domain.Manifest, error) {
	f, err := syntax.Parse(path, src, 0)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestParseFailed.Error()), "path", path)
	}

	ev := newEvaluator(path)
	if err := ev.execFile(f); err != nil {
		return nil, err
	}

	m := domain.NewManifest(path)
	raw, ok := ev.globals[VarsName]
	if !ok {
		return m, nil
	}
	vars, ok := raw.(map[string]any)
	if !ok {
		return nil, zerr.With(
			zerr.With(domain.ErrManifestParseFailed, "path", path),
			"reason", "vars is not a dict",
		)
	}
	for k, v := range vars {
		m.Vars[k] = v
	}
	return m, nil
}
