package glossa

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText returns the hex SHA-256 of text with surrounding whitespace
// removed, so prompts that differ only in padding share a cache entry.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(sum[:])
}

// CacheKey joins a prompt hash with the settings that change the answer for
// the same prompt (backend, model, response field). Empty parts are skipped.
func CacheKey(hash string, parts ...string) string {
	var b strings.Builder
	b.WriteString(hash)
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteByte(':')
		b.WriteString(p)
	}
	return b.String()
}
