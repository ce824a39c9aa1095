package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashKey returns a filesystem safe representation of arg.
// Used to derive cache file names from request URLs.
func HashKey(arg string) string {
	hasher := sha256.New()
	hasher.Write([]byte(arg))
	return hex.EncodeToString(hasher.Sum(nil))
}
