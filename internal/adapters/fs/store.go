// Package fs implements filesystem access for manifests.
package fs

import (
	"errors"
	iofs "io/fs"
	"os"

	"go.trai.ch/pinsync/internal/core/domain"
	"go.trai.ch/pinsync/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ManifestStore = (*Store)(nil)

// Store stages rewritten manifests next to their target and swaps them in.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Read returns the content of the manifest at path.
func (s *Store) Read(path string) ([]byte, error) {
	//nolint:gosec // Manifest paths are operator supplied
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, zerr.With(domain.ErrManifestNotFound, "path", path)
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrTargetReadFailed.Error()), "path", path)
	}
	return data, nil
}

// Stage writes data to the intermediate file of target, keeping target's mode.
func (s *Store) Stage(target string, data []byte) (string, error) {
	staged := domain.StagedPath(target)

	mode := iofs.FileMode(domain.FilePerm)
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}

	if err := os.WriteFile(staged, data, mode); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrStageWriteFailed.Error()), "path", staged)
	}
	// WriteFile leaves the mode of an existing file untouched.
	if err := os.Chmod(staged, mode); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrStageWriteFailed.Error()), "path", staged)
	}
	return staged, nil
}

// Promote renames staged over target. On POSIX systems readers observe
// either the old or the new content, never a partial file.
func (s *Store) Promote(staged, target string) error {
	if err := os.Rename(staged, target); err != nil {
		return zerr.With(
			zerr.With(zerr.Wrap(err, domain.ErrPromoteFailed.Error()), "staged", staged),
			"target", target,
		)
	}
	return nil
}

// Discard removes a staged file. A missing file is not an error.
func (s *Store) Discard(staged string) error {
	if err := os.Remove(staged); err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, "failed to remove intermediate manifest"), "path", staged)
	}
	return nil
}
