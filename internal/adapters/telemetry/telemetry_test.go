package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pinsync/internal/adapters/telemetry"
	"go.trai.ch/pinsync/internal/core/ports"
	"go.trai.ch/pinsync/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestInterfaceSatisfaction(_ *testing.T) {
	var _ ports.Tracer = (*telemetry.OTelTracer)(nil)
	var _ ports.Span = (*telemetry.OTelSpan)(nil)
	var _ ports.Tracer = (*telemetry.NoOpTracer)(nil)
	var _ ports.Span = telemetry.NoOpSpan{}
}

func captureInfo(t *testing.T) (*mocks.MockLogger, *[]string) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	var got []string
	log.EXPECT().Info(gomock.Any()).Do(func(msg string) {
		got = append(got, msg)
	}).AnyTimes()
	return log, &got
}

func TestOTelTracer_ReportsFinishedSpans(t *testing.T) {
	log, got := captureInfo(t)
	tracer := telemetry.NewOTelTracer("test", telemetry.NewLogBridge(log))

	ctx, span := tracer.Start(context.Background(), "load source")
	span.SetAttribute("path", "third_party/dart/DEPS")
	span.SetAttribute("pins", 3)
	_, child := tracer.Start(ctx, "plan")
	child.End()
	span.End()

	require.NoError(t, tracer.Shutdown(context.Background()))

	require.Len(t, *got, 2)
	assert.Contains(t, (*got)[0], "✓ plan (")
	assert.Contains(t, (*got)[1], "✓ load source (")
	assert.Contains(t, (*got)[1], "path=third_party/dart/DEPS")
	assert.Contains(t, (*got)[1], "pins=3")
}

func TestOTelTracer_RecordError(t *testing.T) {
	log, got := captureInfo(t)
	tracer := telemetry.NewOTelTracer("test", telemetry.NewLogBridge(log))

	_, span := tracer.Start(context.Background(), "promote")
	span.RecordError(errors.New("permission denied"))
	span.RecordError(nil)
	span.End()

	require.Len(t, *got, 1)
	assert.Contains(t, (*got)[0], "✗ promote failed after")
	assert.Contains(t, (*got)[0], "permission denied")
}

func TestOTelTracer_NoProcessors(t *testing.T) {
	tracer := telemetry.NewOTelTracer("test")

	_, span := tracer.Start(context.Background(), "rewrite")
	assert.NotPanics(t, func() {
		span.SetAttribute("keys", []string{"dart_a"})
		span.SetAttribute("other", struct{}{})
		span.End()
	})
	require.NoError(t, tracer.Shutdown(context.Background()))
}

func TestNoOpTracer(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()

	ctx := context.Background()
	got, span := tracer.Start(ctx, "plan")
	assert.Equal(t, ctx, got)

	span.SetAttribute("key", "value")
	span.RecordError(errors.New("ignored"))
	span.End()
	require.NoError(t, tracer.Shutdown(ctx))
}
