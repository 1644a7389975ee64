// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/pinsync/internal/core/domain"

// ManifestLoader defines the interface for reading a dependency manifest.
//
//go:generate mockgen -source=manifest_loader.go -destination=mocks/mock_manifest_loader.go -package=mocks
type ManifestLoader interface {
	// Load evaluates the manifest at path and returns its declared vars.
	Load(path string) (*domain.Manifest, error)
}
