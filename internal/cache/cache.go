package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores fetched document bodies between requests. A TTL of zero on
// Set means "use the cache's default".
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a stable cache key from a document URL.
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "dnafl:v1:" + hex.EncodeToString(sum[:])
}
