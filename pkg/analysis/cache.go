package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"

	"github.com/nithinmohantk/claimguard/pkg/claims"
)

// Cache memoizes analysis reports keyed by a content address of the
// (snapshot, configuration) pair. The pipeline itself stays a pure
// function of its inputs; the cache sits entirely outside it.
type Cache struct {
	pipeline *Pipeline

	mu      sync.Mutex
	reports map[string]*Report
}

// NewCache wraps a pipeline with content-addressed memoization.
func NewCache(p *Pipeline) *Cache {
	return &Cache{pipeline: p, reports: make(map[string]*Report)}
}

// Run returns the cached report for an identical (records, cfg) pair,
// or executes the pipeline and stores the result.
func (c *Cache) Run(ctx context.Context, records []claims.ClaimRecord, cfg Config) (*Report, error) {
	key, err := Fingerprint(records, cfg)
	if err != nil {
		return c.pipeline.Run(ctx, records, cfg)
	}

	c.mu.Lock()
	if report, ok := c.reports[key]; ok {
		c.mu.Unlock()
		return report, nil
	}
	c.mu.Unlock()

	report, err := c.pipeline.Run(ctx, records, cfg)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.reports[key] = report
	c.mu.Unlock()
	return report, nil
}

// Len returns the number of cached reports.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.reports)
}

// Fingerprint computes the content address of a snapshot and its
// configuration: the hex SHA-256 of their canonical JSON encoding.
func Fingerprint(records []claims.ClaimRecord, cfg Config) (string, error) {
	h := sha256.New()
	enc := json.NewEncoder(h)
	if err := enc.Encode(cfg); err != nil {
		return "", err
	}
	if err := enc.Encode(records); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
