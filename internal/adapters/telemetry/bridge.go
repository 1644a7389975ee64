package telemetry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/pinsync/internal/core/ports"
	"go.trai.ch/pinsync/internal/ui/style"
)

// LogBridge implements sdktrace.SpanProcessor by reporting finished spans
// to a logger at info level.
type LogBridge struct {
	logger ports.Logger
}

// NewLogBridge returns a new LogBridge.
func NewLogBridge(logger ports.Logger) *LogBridge {
	return &LogBridge{logger: logger}
}

// OnStart does nothing.
func (b *LogBridge) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

// OnEnd logs the span name, duration, status and attributes.
func (b *LogBridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil || !s.SpanContext().IsValid() {
		return
	}

	elapsed := s.EndTime().Sub(s.StartTime()).Round(time.Microsecond)

	var msg strings.Builder
	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "failed"
		}
		fmt.Fprintf(&msg, "%s %s failed after %s: %s", style.Cross, s.Name(), elapsed, desc)
	} else {
		fmt.Fprintf(&msg, "%s %s (%s)", style.Check, s.Name(), elapsed)
	}

	for _, kv := range s.Attributes() {
		fmt.Fprintf(&msg, " %s=%s", kv.Key, kv.Value.Emit())
	}

	b.logger.Info(msg.String())
}

// ForceFlush does nothing.
func (b *LogBridge) ForceFlush(context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *LogBridge) Shutdown(context.Context) error {
	return nil
}
