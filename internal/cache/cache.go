package cache

import (
	"crypto/sha256"
	"fmt"
	"time"

	"vaani/internal/chat"
)

// CachedResponse represents a cached completion
type CachedResponse struct {
	Response  string
	Timestamp time.Time
}

// Key derives a cache key from a message stream. Identical streams produce
// identical keys, so a repeated prompt reuses the earlier completion.
func Key(messages []chat.Message) string {
	h := sha256.New()
	for _, msg := range messages {
		h.Write([]byte(msg.Role))
		h.Write([]byte(msg.Content))
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
