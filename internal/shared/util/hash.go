package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashUserKey derives a stable, filesystem-safe key from a user ID.
func HashUserKey(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return hex.EncodeToString(sum[:16])
}
