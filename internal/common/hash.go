package common

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sha256HexParts hashes parts joined by a NUL separator so that
// ("ab","c") and ("a","bc") produce different digests.
func Sha256HexParts(parts ...[]byte) string {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			_, _ = h.Write([]byte{0})
		}
		_, _ = h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}
