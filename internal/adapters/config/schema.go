package config

// Settingsfile represents the structure of the .pinsync.yaml settings file.
type Settingsfile struct {
	Version     string   `yaml:"version"`
	Source      string   `yaml:"source"`
	Target      string   `yaml:"target"`
	Prefix      string   `yaml:"prefix"`
	Exclude     []string `yaml:"exclude"`
	Marker      string   `yaml:"marker"`
	Placeholder string   `yaml:"placeholder"`
	PinMarker   *string  `yaml:"pinMarker"`
	Warning     []string `yaml:"warning"`
}
