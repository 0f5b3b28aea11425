// Package id hands out identifiers that are stable across replays.
package id

import (
	"strconv"
	"sync/atomic"
)

// Generator produces unique IDs.
type Generator interface {
	Generate() string
}

// NewGenerator returns a sequential generator. The first ID it emits is
// prefix followed by "1".
func NewGenerator(prefix string) Generator {
	return &sequentialGenerator{prefix: prefix}
}

type sequentialGenerator struct {
	prefix string
	nextID uint64
}

func (g *sequentialGenerator) Generate() string {
	n := atomic.AddUint64(&g.nextID, 1)
	return g.prefix + strconv.FormatUint(n, 10)
}
