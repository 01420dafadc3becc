// Package rules implements the fact store, trigger-spec compiler and
// forward-chaining inference engine. Everything in this package is pure:
// no I/O, no shared state between requests.
package rules

import (
	"iter"

	"github.com/phoa-app/sentinel/internal/domain"
)

// FactStore is an append-only set of fact triples, built fresh per request.
// Asserting an already-present triple is a no-op, so query results never
// contain duplicates.
type FactStore struct {
	facts []domain.Fact
	seen  map[domain.Fact]struct{}
}

func NewFactStore() *FactStore {
	return &FactStore{seen: make(map[domain.Fact]struct{})}
}

func (s *FactStore) Assert(subject, predicate string, v domain.Value) {
	f := domain.Fact{Subject: subject, Predicate: predicate, Value: v}
	if _, ok := s.seen[f]; ok {
		return
	}
	s.seen[f] = struct{}{}
	s.facts = append(s.facts, f)
}

func (s *FactStore) Contains(f domain.Fact) bool {
	_, ok := s.seen[f]
	return ok
}

func (s *FactStore) Len() int {
	return len(s.facts)
}

// Pattern is a partial fact; nil fields are wildcards.
type Pattern struct {
	Subject   *string
	Predicate *string
	Value     *domain.Value
}

// Query returns the facts matching the pattern, in assertion order. The
// sequence is restartable and snapshots the store at call time, so callers
// may assert new facts while ranging.
func (s *FactStore) Query(p Pattern) iter.Seq[domain.Fact] {
	snapshot := s.facts
	return func(yield func(domain.Fact) bool) {
		for _, f := range snapshot {
			if p.Subject != nil && f.Subject != *p.Subject {
				continue
			}
			if p.Predicate != nil && f.Predicate != *p.Predicate {
				continue
			}
			if p.Value != nil && !f.Value.Equal(*p.Value) {
				continue
			}
			if !yield(f) {
				return
			}
		}
	}
}
