package ports

// Hasher defines the interface for fingerprinting manifest content.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// Sum returns a stable hex digest of data.
	Sum(data []byte) string
}
