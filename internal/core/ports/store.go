package ports

// ManifestStore defines the interface for staging and replacing manifest files.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ManifestStore interface {
	// Read returns the current content of the manifest at path.
	Read(path string) ([]byte, error)

	// Stage writes data next to target and returns the intermediate path.
	Stage(target string, data []byte) (string, error)

	// Promote replaces target with the staged file.
	Promote(staged, target string) error

	// Discard removes a staged file.
	Discard(staged string) error
}
