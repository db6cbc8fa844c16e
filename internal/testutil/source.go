package testutil

import (
	"sync"
)

// ConstSource always returns v modulo n.
type ConstSource int

func (s ConstSource) IntN(n int) (int, error) {
	return int(s) % n, nil
}

// SequenceSource returns its values in order, wrapping around, each taken
// modulo n.
type SequenceSource struct {
	mu     sync.Mutex
	values []int
	pos    int
}

func NewSequenceSource(values ...int) *SequenceSource {
	return &SequenceSource{values: values}
}

func (s *SequenceSource) IntN(n int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0, nil
	}
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v % n, nil
}

// ErrSource fails every draw with Err.
type ErrSource struct {
	Err error
}

func (s ErrSource) IntN(int) (int, error) { return 0, s.Err }

// IntSource is satisfied by passgen.Source.
type IntSource interface {
	IntN(n int) (int, error)
}

// CountingSource counts draws made through it.
type CountingSource struct {
	mu    sync.Mutex
	Inner IntSource
	calls int
}

func (s *CountingSource) IntN(n int) (int, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.Inner.IntN(n)
}

// Calls returns the number of draws so far.
func (s *CountingSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
