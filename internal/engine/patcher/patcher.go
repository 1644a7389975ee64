// Package patcher computes pin updates and regenerates the generated block of a manifest.
package patcher

import (
	"bytes"
	"fmt"
	"strings"

	"go.trai.ch/pinsync/internal/core/domain"
	"go.trai.ch/zerr"
)

// Patcher applies one set of settings to a pair of manifests.
type Patcher struct {
	settings *domain.Settings
}

// New creates a new Patcher. A nil settings value selects the defaults.
func New(settings *domain.Settings) *Patcher {
	if settings == nil {
		settings = domain.DefaultSettings()
	}
	return &Patcher{settings: settings}
}

// Plan selects the prefixed pins of target and resolves each against source.
// Pins with no source counterpart get the placeholder and are listed in Plan.Missing.
func (p *Patcher) Plan(target, source *domain.Manifest) (*domain.Plan, error) {
	plan := &domain.Plan{}

	for _, key := range target.KeysWithPrefix(p.settings.Prefix) {
		if p.settings.Excluded(key) {
			continue
		}

		name := strings.TrimPrefix(key, p.settings.Prefix)
		raw, ok := source.Lookup(name)
		if !ok {
			plan.Updates = append(plan.Updates, domain.PinUpdate{
				Key:     key,
				Value:   p.settings.Placeholder,
				Missing: true,
			})
			plan.Missing = append(plan.Missing, key)
			continue
		}

		value, ok := raw.(string)
		if !ok {
			return nil, zerr.With(
				zerr.With(domain.ErrPinNotString, "key", name),
				"type", fmt.Sprintf("%T", raw),
			)
		}

		plan.Updates = append(plan.Updates, domain.PinUpdate{
			Key:   key,
			Value: strings.TrimPrefix(value, p.settings.PinMarker),
		})
	}

	return plan, nil
}

// Rewrite returns content with the generated block following the first marker
// line replaced by one rendered from plan. Lines outside the block are copied
// verbatim. found is false when no line starts with the marker; content is
// then returned unchanged.
func (p *Patcher) Rewrite(content []byte, plan *domain.Plan) (out []byte, found bool) {
	lines := splitLines(content)

	var b bytes.Buffer
	b.Grow(len(content))

	for i := 0; i < len(lines); i++ {
		b.WriteString(lines[i])
		if found || !strings.HasPrefix(lines[i], p.settings.Marker) {
			continue
		}
		found = true
		terminate(&b, lines[i])

		// The line after the marker separates it from the block.
		i++
		if i < len(lines) {
			b.WriteString(lines[i])
			terminate(&b, lines[i])
			i++
		}

		// Skip the previous block up to its closing blank line, which the
		// loop increment then drops.
		for i < len(lines) && !isBlank(lines[i]) {
			i++
		}

		p.writeBlock(&b, plan)
	}

	return b.Bytes(), found
}

// Block renders the generated block alone.
func (p *Patcher) Block(plan *domain.Plan) string {
	var b bytes.Buffer
	p.writeBlock(&b, plan)
	return b.String()
}

func (p *Patcher) writeBlock(b *bytes.Buffer, plan *domain.Plan) {
	for _, line := range p.settings.Warning {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	for _, u := range plan.Updates {
		fmt.Fprintf(b, "  '%s': '%s',\n", u.Key, u.Value)
	}
	b.WriteByte('\n')
}

// splitLines splits content after each newline, keeping the terminators.
func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	parts := strings.SplitAfter(string(content), "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// terminate adds the newline missing from a final unterminated line so that
// generated lines never join it.
func terminate(b *bytes.Buffer, line string) {
	if !strings.HasSuffix(line, "\n") {
		b.WriteByte('\n')
	}
}
