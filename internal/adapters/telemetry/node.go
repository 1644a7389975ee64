package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.opentelemetry.io/otel"
	"go.trai.ch/pinsync/internal/adapters/logger"
	"go.trai.ch/pinsync/internal/core/ports"
)

// TracerNodeID is the unique identifier for the Telemetry adapter Graft node.
const TracerNodeID graft.ID = "adapter.telemetry"

// InstrumentationName names the tracer of sync steps.
const InstrumentationName = "pinsync"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Tracer, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			tracer := NewOTelTracer(InstrumentationName, NewLogBridge(log))
			otel.SetTracerProvider(tracer.Provider())
			return tracer, nil
		},
	})
}
