package inference

import (
	"encoding/binary"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
)

// resultCache memoizes predictions keyed by the exact bits of the feature vector.
// A nil cache never hits.
type resultCache[V any] struct {
	lru *lru.Cache[string, V]
}

func newResultCache[V any](size int) (*resultCache[V], error) {
	if size <= 0 {
		return nil, nil
	}
	c, err := lru.New[string, V](size)
	if err != nil {
		return nil, err
	}
	return &resultCache[V]{lru: c}, nil
}

func vectorKey(x []float64) string {
	buf := make([]byte, 8*len(x))
	for i, v := range x {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	return string(buf)
}

func (c *resultCache[V]) get(x []float64) (V, bool) {
	if c == nil {
		var zero V
		return zero, false
	}
	return c.lru.Get(vectorKey(x))
}

func (c *resultCache[V]) add(x []float64, v V) {
	if c == nil {
		return
	}
	c.lru.Add(vectorKey(x), v)
}

func (c *resultCache[V]) len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
