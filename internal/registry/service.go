// Package registry provides the job registry: the deduplicated FIFO work
// queue of classes pending analysis.
package registry

import (
	"sync"

	"github.com/griffnb/jaxdoc/internal/domain"
)

type status int

const (
	statusPending status = iota
	statusInProgress
	statusDone
)

type entry struct {
	name   string
	result *domain.ClassResult
	status status
}

// Service is a thread-safe work queue keyed by binary class name. Enqueue
// is idempotent; classes discovered during analysis join the tail.
type Service struct {
	mu      sync.Mutex
	entries map[string]*entry
	order   []*entry
	next    int
}

// NewService creates an empty registry.
func NewService() *Service {
	return &Service{
		entries: make(map[string]*entry),
	}
}

// Enqueue registers a class for analysis. If the class is already known the
// existing ClassResult is returned and the queue is unchanged.
func (s *Service) Enqueue(binaryName string) *domain.ClassResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[binaryName]; ok {
		return e.result
	}
	e := &entry{
		name:   binaryName,
		result: &domain.ClassResult{OriginalClass: binaryName},
	}
	s.entries[binaryName] = e
	s.order = append(s.order, e)
	return e.result
}

// NextPending atomically pops the oldest pending entry and marks it
// in-progress. ok is false when the queue is drained.
func (s *Service) NextPending() (binaryName string, result *domain.ClassResult, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.next < len(s.order) {
		e := s.order[s.next]
		s.next++
		if e.status == statusPending {
			e.status = statusInProgress
			return e.name, e.result, true
		}
	}
	return "", nil, false
}

// MarkDone records completed analysis for a class.
func (s *Service) MarkDone(binaryName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[binaryName]; ok {
		e.status = statusDone
	}
}

// Results returns every ClassResult in first-enqueue order.
func (s *Service) Results() []*domain.ClassResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.ClassResult, 0, len(s.order))
	for _, e := range s.order {
		out = append(out, e.result)
	}
	return out
}
