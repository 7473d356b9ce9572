package storage

import (
	"crypto/sha256"
	"fmt"
)

// DocumentKey derives the on-disk bundle directory name for a document
// path. It is a pure function of the raw path bytes: no normalization is
// applied, so two spellings of the same physical file ("C:\a.pdf" vs
// "c:\A.PDF") map to distinct bundles.
//
// The derivation (version 1) is the first 8 bytes of SHA-256 over the
// path, hex encoded. Changing it orphans every existing bundle, so it
// must never change without migration tooling.
func DocumentKey(path string) string {
	sum := sha256.Sum256([]byte(path))
	return fmt.Sprintf("%x", sum[:8])
}
