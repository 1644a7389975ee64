// Package config provides the settings loader for pinsync.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.trai.ch/pinsync/internal/core/domain"
	"go.trai.ch/pinsync/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the settings file version this loader understands.
const SupportedVersion = "1"

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	FS     FileSystem
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return NewLoaderWithFS(logger, NewOSFS())
}

// NewLoaderWithFS creates a new Loader reading through fsys.
func NewLoaderWithFS(logger ports.Logger, fsys FileSystem) *Loader {
	return &Loader{Logger: logger, FS: fsys}
}

// Load reads the settings file at path, relative to cwd unless absolute.
// With an empty path the default settings file is tried and its absence
// yields the default settings. Manifest paths in the file are resolved
// against the directory holding it.
func (l *Loader) Load(cwd, path string) (*domain.Settings, error) {
	explicit := path != ""
	if !explicit {
		path = domain.SettingsFileName
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}

	data, err := l.read(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return domain.DefaultSettings(), nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(domain.ErrConfigNotFound, "path", path)
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var file Settingsfile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	if file.Version != "" && file.Version != SupportedVersion {
		l.Logger.Warn(fmt.Sprintf("%s declares version %q, expected %q", path, file.Version, SupportedVersion))
	}

	settings := merge(domain.DefaultSettings(), &file, filepath.Dir(path))
	if err := validate(settings); err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return settings, nil
}

func (l *Loader) read(path string) ([]byte, error) {
	info, err := l.FS.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, zerr.New("settings path is a directory")
	}
	return l.FS.ReadFile(path)
}

func merge(s *domain.Settings, file *Settingsfile, dir string) *domain.Settings {
	if file.Source != "" {
		s.Source = resolvePath(dir, file.Source)
	}
	if file.Target != "" {
		s.Target = resolvePath(dir, file.Target)
	}
	if file.Prefix != "" {
		s.Prefix = file.Prefix
	}
	if file.Exclude != nil {
		s.Exclude = file.Exclude
	}
	if file.Marker != "" {
		s.Marker = file.Marker
	}
	if file.Placeholder != "" {
		s.Placeholder = file.Placeholder
	}
	if file.PinMarker != nil {
		s.PinMarker = *file.PinMarker
	}
	if file.Warning != nil {
		s.Warning = file.Warning
	}
	return s
}

func resolvePath(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func validate(s *domain.Settings) error {
	if s.Prefix == "" {
		return zerr.With(domain.ErrInvalidSettings, "field", "prefix")
	}
	if strings.TrimSpace(s.Marker) == "" {
		return zerr.With(domain.ErrInvalidSettings, "field", "marker")
	}
	if utf8.RuneCountInString(s.PinMarker) > 1 {
		return zerr.With(zerr.With(domain.ErrInvalidSettings, "field", "pinMarker"), "value", s.PinMarker)
	}
	for _, line := range s.Warning {
		if strings.TrimSpace(line) == "" || strings.Contains(line, "\n") {
			// A blank warning line would end the generated block early.
			return zerr.With(domain.ErrInvalidSettings, "field", "warning")
		}
	}
	return nil
}
