package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pinsync/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/pinsync/internal/adapters/depsfile"  //nolint:depguard // Wired in app layer
	"go.trai.ch/pinsync/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/pinsync/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/pinsync/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/pinsync/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains the initialized components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			depsfile.NodeID,
			fs.StoreNodeID,
			fs.HasherNodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	configLoader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	manifestLoader, err := graft.Dep[ports.ManifestLoader](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.ManifestStore](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	return New(configLoader, manifestLoader, store, hasher, log, tracer), nil
}
