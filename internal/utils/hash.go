package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/docvault/docvault/models"
)

// HashString computes an HMAC-SHA256 signature over the given string using
// the provided hash key and returns the result as a hex-encoded string.
func HashString(data string, hashKey string) string {
	return hex.EncodeToString(hashString([]byte(data), hashKey))
}

// hashString computes an HMAC-SHA256 digest over the given byte slice using
// the provided hash key.
func hashString(data []byte, hashKey string) []byte {
	hasher := hmac.New(sha256.New, []byte(hashKey))
	hasher.Write(data)
	return hasher.Sum(nil)
}

// DocumentContentHash computes the keyed content digest stored in
// Document.ContentHash. Field order is fixed so the digest is stable across
// devices for identical content.
func DocumentContentHash(doc models.Document, hashKey string) string {
	parts := []string{
		doc.Title,
		doc.Category,
		doc.Notes,
		strings.Join(doc.FilePaths, "\x00"),
	}
	return HashString(strings.Join(parts, "\x1f"), hashKey)
}
