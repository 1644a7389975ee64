package domain

import (
	"slices"
	"strings"
)

// Manifest is the evaluated "vars" mapping of a dependency manifest.
// Values hold what the declaration evaluated to: string, bool, int64,
// float64, []any, map[string]any or nil.
type Manifest struct {
	Path string
	Vars map[string]any
}

// NewManifest returns a manifest for path with an empty mapping.
func NewManifest(path string) *Manifest {
	return &Manifest{
		Path: path,
		Vars: make(map[string]any),
	}
}

// Lookup returns the raw value declared for name.
func (m *Manifest) Lookup(name string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.Vars[name]
	return v, ok
}

// Pins returns the string-valued entries of the manifest.
func (m *Manifest) Pins() map[string]string {
	pins := make(map[string]string)
	if m == nil {
		return pins
	}
	for k, v := range m.Vars {
		if s, ok := v.(string); ok {
			pins[k] = s
		}
	}
	return pins
}

// KeysWithPrefix returns the sorted keys starting with prefix.
func (m *Manifest) KeysWithPrefix(prefix string) []string {
	if m == nil {
		return nil
	}
	var keys []string
	for k := range m.Vars {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}
