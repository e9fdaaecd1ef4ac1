// Package testutil provides deterministic helpers shared by package tests.
package testutil

import "sync"

// ScriptedSource replays a fixed sequence of values, cycling when exhausted.
// Each value is reduced modulo n so it always satisfies the dice.Source contract.
type ScriptedSource struct {
	mu     sync.Mutex
	values []int
	next   int
	calls  int
}

// NewScriptedSource returns a ScriptedSource replaying values in order.
// With no values every call returns 0.
func NewScriptedSource(values ...int) *ScriptedSource {
	return &ScriptedSource{values: values}
}

// Intn returns the next scripted value modulo n.
func (s *ScriptedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Calls reports how many times Intn has been invoked.
func (s *ScriptedSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// MaxSource always returns n-1: every die rolls its maximum face and every
// probability check fails unless its chance is certain.
type MaxSource struct{}

// Intn returns n-1.
func (MaxSource) Intn(n int) int { return n - 1 }

// MinSource always returns 0: every die rolls 1 and every probability check with
// a non-zero chance succeeds.
type MinSource struct{}

// Intn returns 0.
func (MinSource) Intn(int) int { return 0 }
