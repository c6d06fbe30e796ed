// Package idalloc issues node identifiers of the form "<type>-<n>".
//
// Counters are kept per type, start at 1 and only ever grow, so an id is never
// handed out twice even after the node it named has been removed.
package idalloc

import (
	"strconv"

	"github.com/meikuraledutech/pipeline"
)

// Allocator holds one counter per node kind. The zero value is ready to use.
// An Allocator is not safe for concurrent use.
type Allocator struct {
	counters map[pipeline.Kind]int
}

// New returns an empty Allocator.
func New() *Allocator {
	return &Allocator{counters: make(map[pipeline.Kind]int)}
}

// Next bumps the counter for kind and returns the new id.
func (a *Allocator) Next(kind pipeline.Kind) string {
	if a.counters == nil {
		a.counters = make(map[pipeline.Kind]int)
	}
	a.counters[kind]++
	return string(kind) + "-" + strconv.Itoa(a.counters[kind])
}

// Counter reports the highest suffix issued for kind, 0 if none.
func (a *Allocator) Counter(kind pipeline.Kind) int {
	return a.counters[kind]
}

// Reset forgets every counter.
func (a *Allocator) Reset() {
	a.counters = make(map[pipeline.Kind]int)
}
