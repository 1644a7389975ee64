package domain

import "go.trai.ch/zerr"

var (
	// ErrManifestNotFound is returned when a manifest file does not exist.
	ErrManifestNotFound = zerr.New("manifest file not found")

	// ErrManifestReadFailed is returned when a manifest file exists but cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read manifest file")

	// ErrManifestParseFailed is returned when a manifest is not a valid declaration set.
	ErrManifestParseFailed = zerr.New("failed to parse manifest")

	// ErrUndefinedVar is returned when a manifest references a variable that was not declared.
	ErrUndefinedVar = zerr.New("var is not defined")

	// ErrPinNotString is returned when a source pin resolves to a non-string value.
	ErrPinNotString = zerr.New("pin value is not a string")

	// ErrMissingDependencies is returned when target pins have no counterpart in the source manifest.
	ErrMissingDependencies = zerr.New("dependencies missing from source manifest")

	// ErrTargetOutOfDate is returned in check mode when the target manifest would change.
	ErrTargetOutOfDate = zerr.New("target manifest is out of date")

	// ErrStageWriteFailed is returned when the intermediate manifest cannot be written.
	ErrStageWriteFailed = zerr.New("failed to write intermediate manifest")

	// ErrPromoteFailed is returned when the intermediate manifest cannot replace the target.
	ErrPromoteFailed = zerr.New("failed to replace target manifest")

	// ErrTargetReadFailed is returned when the target manifest text cannot be read for rewriting.
	ErrTargetReadFailed = zerr.New("failed to read target manifest")

	// ErrConfigNotFound is returned when an explicitly requested settings file does not exist.
	ErrConfigNotFound = zerr.New("settings file not found")

	// ErrConfigReadFailed is returned when the settings file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read settings file")

	// ErrConfigParseFailed is returned when the settings file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse settings file")

	// ErrInvalidSettings is returned when settings fail validation.
	ErrInvalidSettings = zerr.New("invalid settings")
)
