package domain

import "path/filepath"

const (
	// SettingsFileName is the name of the optional settings file.
	SettingsFileName = ".pinsync.yaml"

	// StagedSuffix is appended to the target path to form the intermediate file.
	StagedSuffix = ".new"

	// DefaultPrefix is the key prefix of target pins that mirror source pins.
	DefaultPrefix = "dart_"

	// DefaultMarker starts the line that anchors the generated block.
	DefaultMarker = "  'dart_revision':"

	// DefaultPlaceholder is written for pins missing from the source manifest.
	DefaultPlaceholder = "???"

	// DefaultPinMarker is stripped once from the front of source pin values.
	DefaultPinMarker = "@"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultExclude lists prefixed keys that are never regenerated.
func DefaultExclude() []string {
	return []string{"dart_revision", "dart_git"}
}

// DefaultWarning returns the comment lines that open the generated block.
func DefaultWarning() []string {
	return []string{
		"  # WARNING: DO NOT EDIT MANUALLY",
		"  # The lines between blank lines above and below are generated by a script. See pinsync.",
	}
}

// DefaultSourcePath returns the default source manifest, relative to the checkout root.
// It joins third_party, dart and DEPS.
func DefaultSourcePath() string {
	return filepath.Join("third_party", "dart", "DEPS")
}

// DefaultTargetPath returns the default target manifest, relative to the checkout root.
// It joins flutter and DEPS.
func DefaultTargetPath() string {
	return filepath.Join("flutter", "DEPS")
}

// StagedPath returns the intermediate file path for a target manifest.
func StagedPath(target string) string {
	return target + StagedSuffix
}
