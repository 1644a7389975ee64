package domain

import "slices"

// Settings holds the tunables of a sync run.
type Settings struct {
	Source      string
	Target      string
	Prefix      string
	Exclude     []string
	Marker      string
	Placeholder string
	PinMarker   string
	Warning     []string
}

// DefaultSettings returns the settings used when nothing overrides them.
func DefaultSettings() *Settings {
	return &Settings{
		Source:      DefaultSourcePath(),
		Target:      DefaultTargetPath(),
		Prefix:      DefaultPrefix,
		Exclude:     DefaultExclude(),
		Marker:      DefaultMarker,
		Placeholder: DefaultPlaceholder,
		PinMarker:   DefaultPinMarker,
		Warning:     DefaultWarning(),
	}
}

// Excluded reports whether key is never regenerated.
func (s *Settings) Excluded(key string) bool {
	return slices.Contains(s.Exclude, key)
}
