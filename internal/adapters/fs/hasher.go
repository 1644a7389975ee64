package fs

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/pinsync/internal/core/ports"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher fingerprints manifest content with XXHash.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// Sum returns the XXHash of data as 16 hex digits.
func (h *Hasher) Sum(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
