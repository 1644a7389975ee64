package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/pinsync/internal/ui/output"
	"go.trai.ch/pinsync/internal/ui/style"
)

// PrettyHandler is a slog.Handler producing human-readable, colored lines.
type PrettyHandler struct {
	out   *termenv.Output
	level slog.Leveler
	attrs []string
	group string
}

// NewPrettyHandler creates a new PrettyHandler writing to w.
// A nil writer selects os.Stderr; a nil level selects info.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		out:   output.New(w),
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes the record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var msg string
	var color termenv.Color

	switch {
	case r.Level >= slog.LevelError:
		msg = style.Cross + " " + r.Message
		color = termenv.RGBColor(string(style.Red))
	case r.Level >= slog.LevelWarn:
		msg = style.Warning + " " + r.Message
		color = termenv.RGBColor(string(style.Yellow))
	default:
		msg = r.Message
		color = termenv.RGBColor(string(style.Slate))
	}

	parts := make([]string, 0, len(h.attrs)+r.NumAttrs())
	parts = append(parts, h.attrs...)
	r.Attrs(func(attr slog.Attr) bool {
		parts = appendAttr(parts, h.group, attr)
		return true
	})
	if len(parts) > 0 {
		msg += " " + strings.Join(parts, " ")
	}

	styled := h.out.String(msg).Foreground(color)
	_, err := h.out.WriteString(styled.String() + "\n")
	return err
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]string, len(h.attrs), len(h.attrs)+len(attrs))
	copy(next.attrs, h.attrs)
	for _, attr := range attrs {
		next.attrs = appendAttr(next.attrs, h.group, attr)
	}
	return &next
}

// WithGroup returns a new Handler qualifying later keys with name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group = qualify(h.group, name)
	return &next
}

// appendAttr renders attr as key=value, flattening groups into dotted keys.
func appendAttr(parts []string, group string, attr slog.Attr) []string {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return parts
	}

	if attr.Value.Kind() == slog.KindGroup {
		prefix := group
		if attr.Key != "" {
			prefix = qualify(group, attr.Key)
		}
		for _, ga := range attr.Value.Group() {
			parts = appendAttr(parts, prefix, ga)
		}
		return parts
	}

	return append(parts, qualify(group, attr.Key)+"="+attr.Value.String())
}

func qualify(group, key string) string {
	if group == "" {
		return key
	}
	return group + "." + key
}
