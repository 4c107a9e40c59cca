package util

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID returns a short random hex identifier. Ten characters matches the
// IDs already present in legacy data files, so old and new records are
// indistinguishable on disk.
func NewID() string {
	bytes := make([]byte, 5)
	_, _ = rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// NewToken returns a long random hex string for use as an opaque secret.
func NewToken() string {
	bytes := make([]byte, 24)
	_, _ = rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
