package compare

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/caselight/caselight/pkg/models"
)

// Cache stores comparison results keyed by their input descriptors.
// Cached results are shared between callers and must be treated as
// read-only; resolution state lives on the persisted copy, never here.
type Cache interface {
	Get(key string) (*models.ComparisonResult, bool)
	Set(key string, result *models.ComparisonResult)
}

// CacheKey derives the cache key for a comparison run. The resolved
// sources are part of the key: descriptors alone would serve a stale
// snapshot after the stored source changes, and the source ref must
// always snapshot the text in effect at comparison time.
func CacheKey(opts Options, a, b ResolvedSource) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s:%d|%s:%d|%t|",
		opts.SourceAType, opts.SourceAID, opts.SourceBType, opts.SourceBID, opts.DetectConflicts)
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s", a.Text, a.Citation, b.Text, b.Citation)
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*models.ComparisonResult
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]*models.ComparisonResult)}
}

// Get retrieves a cached result.
func (c *MemoryCache) Get(key string) (*models.ComparisonResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result, ok := c.entries[key]
	return result, ok
}

// Set stores a result.
func (c *MemoryCache) Set(key string, result *models.ComparisonResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = result
}

// NoOpCache caches nothing (for testing and cache-disabled deployments).
type NoOpCache struct{}

func (c *NoOpCache) Get(key string) (*models.ComparisonResult, bool) {
	return nil, false
}

func (c *NoOpCache) Set(key string, result *models.ComparisonResult) {
}
