// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/pinsync/internal/adapters/config"
	_ "go.trai.ch/pinsync/internal/adapters/depsfile"
	_ "go.trai.ch/pinsync/internal/adapters/fs"
	_ "go.trai.ch/pinsync/internal/adapters/logger"
	_ "go.trai.ch/pinsync/internal/adapters/telemetry"
	// Register app nodes.
	_ "go.trai.ch/pinsync/internal/app"
)
