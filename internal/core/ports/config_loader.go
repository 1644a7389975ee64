package ports

import "go.trai.ch/pinsync/internal/core/domain"

// ConfigLoader defines the interface for loading sync settings.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load returns the settings found at path, falling back to defaults.
	// An empty path means the default settings file in cwd, which may be absent.
	Load(cwd, path string) (*domain.Settings, error)
}
