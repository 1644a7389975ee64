// Package output creates termenv outputs with pinsync's color rules.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ColorProfile returns the profile for writing to w.
// NO_COLOR and writers that are not terminals get plain ASCII. CI systems
// that capture the stream still get basic ANSI colors.
func ColorProfile(w io.Writer) termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	if isCI() {
		return termenv.ANSI
	}
	if !IsTerminal(w) {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) // #nosec G115 -- file descriptors fit in int
}

// New creates a new termenv.Output for w. A nil writer selects os.Stderr.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	opts = append(opts,
		termenv.WithProfile(ColorProfile(w)),
		termenv.WithTTY(true),
	)

	return termenv.NewOutput(w, opts...)
}

func isCI() bool {
	ci := os.Getenv("CI")
	return ci == "true" || ci == "1"
}
