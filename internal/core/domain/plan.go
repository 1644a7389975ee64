package domain

// PinUpdate is one line of the generated block.
type PinUpdate struct {
	Key     string
	Value   string
	Missing bool
}

// Plan is the ordered set of pin updates computed for a target manifest.
type Plan struct {
	// Updates are sorted ascending by Key.
	Updates []PinUpdate
	// Missing lists target keys with no source counterpart, sorted.
	Missing []string
}

// Complete reports whether every selected pin was resolved.
func (p *Plan) Complete() bool {
	return len(p.Missing) == 0
}
