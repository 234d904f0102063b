package violation

import (
	"crypto/sha256"
	"encoding/json"
	"slices"
	"sync"

	"github.com/jscales4000/LotPlanner-sub000/internal/geometry"
)

// Logger defines the logging interface used by the Cache.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Cache memoises Detect for the most recent input.
//
// The key is a hash of everything that can change the result: each
// item's id, name, position, rotation, dimensions and clearances, plus the
// scale. Anything else (selection, labels shown elsewhere) leaves the
// cached result in place.
//
// All public methods are thread-safe.
type Cache struct {
	opts   Options
	logger Logger

	mu     sync.Mutex
	key    [sha256.Size]byte
	valid  bool
	result []Violation
	hits   int
	misses int
}

// NewCache creates a cache that detects with opts.
func NewCache(opts Options) *Cache {
	return &Cache{
		opts:   opts.withDefaults(),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the cache.
func (c *Cache) SetLogger(logger Logger) {
	c.logger = logger
}

// Detect returns the violations for items, recomputing only when the
// content hash differs from the previous call. The returned slice is a
// copy and may be modified by the caller.
func (c *Cache) Detect(items []Item, scale geometry.Scale) []Violation {
	key, err := ContentHash(items, scale)
	if err != nil {
		c.logger.Warn("hashing items for violation cache", "error", err)
		return Detect(items, scale, c.opts)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && key == c.key {
		c.hits++
		return slices.Clone(c.result)
	}

	c.misses++
	c.result = Detect(items, scale, c.opts)
	c.key = key
	c.valid = true
	c.logger.Debug("violations recomputed", "items", len(items), "violations", len(c.result))
	return slices.Clone(c.result)
}

// Invalidate drops the cached result.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.result = nil
	c.mu.Unlock()
}

// Stats returns the number of cache hits and misses so far.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// ContentHash returns the SHA-256 of the detector inputs.
func ContentHash(items []Item, scale geometry.Scale) ([sha256.Size]byte, error) {
	data, err := json.Marshal(struct {
		Scale geometry.Scale `json:"scale"`
		Items []Item         `json:"items"`
	}{scale, items})
	if err != nil {
		return [sha256.Size]byte{}, err
	}
	return sha256.Sum256(data), nil
}
