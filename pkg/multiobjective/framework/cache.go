package framework

import (
	"encoding/binary"
	"math"
	"sync/atomic"

	"github.com/patrickmn/go-cache"
)

// CachedEvaluator memoises an Evaluator by the exact bits of the decision
// vector. It is meant for expensive objective functions; entries never expire.
type CachedEvaluator struct {
	eval  Evaluator
	cache *cache.Cache

	hits   atomic.Int64
	misses atomic.Int64
}

func NewCachedEvaluator(eval Evaluator) *CachedEvaluator {
	return &CachedEvaluator{
		eval:  eval,
		cache: cache.New(cache.NoExpiration, 0),
	}
}

// Evaluate returns the cached objective vector of x, computing it on a miss.
// The returned slice is shared and must not be modified.
func (c *CachedEvaluator) Evaluate(x []float64) ObjectiveSpacePoint {
	key := vectorKey(x)
	if v, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		return v.(ObjectiveSpacePoint)
	}
	c.misses.Add(1)
	v := c.eval(x)
	c.cache.Set(key, v, cache.NoExpiration)
	return v
}

// Evaluator returns c.Evaluate as an Evaluator.
func (c *CachedEvaluator) Evaluator() Evaluator {
	return c.Evaluate
}

// Hits returns the number of lookups answered from the cache.
func (c *CachedEvaluator) Hits() int64 { return c.hits.Load() }

// Misses returns the number of evaluations of the wrapped function.
func (c *CachedEvaluator) Misses() int64 { return c.misses.Load() }

// Len returns the number of cached vectors.
func (c *CachedEvaluator) Len() int { return c.cache.ItemCount() }

func vectorKey(x []float64) string {
	buf := make([]byte, 8*len(x))
	for i, v := range x {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return string(buf)
}
