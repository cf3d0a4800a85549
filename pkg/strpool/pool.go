// Package strpool provides a bounded pool of filler characters for building
// fixed-size string payloads cheaply.
//
// The pool allocates its backing buffer once; every Slice call returns a
// prefix view of it, so inflating thousands of documents to a target byte
// size costs a single allocation at construction time.
package strpool

import (
	"fmt"
	"strings"
)

// Filler is the character the pool is filled with.
const Filler = "x"

// Pool holds one precomputed buffer of filler characters.
type Pool struct {
	buf string
}

// New returns a pool holding max filler bytes. New panics if max is
// negative.
func New(max int) *Pool {
	if max < 0 {
		panic(fmt.Sprintf("strpool: negative capacity %d", max))
	}
	return &Pool{buf: strings.Repeat(Filler, max)}
}

// Cap returns the pool capacity in bytes.
func (p *Pool) Cap() int {
	return len(p.buf)
}

// Slice returns a filler string of exactly n bytes.
//
// Requesting more than the pool capacity is a configuration error on the
// caller's side (the pool must be sized for the largest payload it serves)
// and panics rather than returning a short string.
func (p *Pool) Slice(n int) string {
	if n < 0 || n > len(p.buf) {
		panic(fmt.Sprintf("strpool: slice of %d bytes out of bounds for capacity %d", n, len(p.buf)))
	}
	return p.buf[:n]
}
