package rules

import (
	"errors"

	"github.com/phoa-app/sentinel/internal/domain"
)

// ErrNoFixedPoint reports a saturation run that kept deriving new facts past
// the theoretical bound. Conclusions never feed another rule's conjuncts in
// this domain, so hitting the bound means compilation produced a defective
// rule set; the whole request fails rather than returning ambiguous alerts.
var ErrNoFixedPoint = errors.New("inference did not reach a fixed point")

// Infer evaluates all rules against the store to saturation and returns the
// derived needsAlert facts in rule order. A rule that could match several
// ways still derives its conclusion exactly once: conclusions are
// deduplicated on the full triple.
func Infer(store *FactStore, compiled []*CompiledRule) ([]domain.Fact, error) {
	var derived []domain.Fact

	// Each pass can only add conclusion facts, and conclusions are capped at
	// one per rule, so saturation needs at most len(compiled) productive
	// passes plus the final quiescent one.
	for pass := 0; ; pass++ {
		if pass > len(compiled)+1 {
			return nil, ErrNoFixedPoint
		}

		changed := false
		for _, rule := range compiled {
			if !satisfied(store, rule) {
				continue
			}
			conclusion := rule.Conclusion()
			if store.Contains(conclusion) {
				continue
			}
			store.Assert(conclusion.Subject, conclusion.Predicate, conclusion.Value)
			derived = append(derived, conclusion)
			changed = true
		}
		if !changed {
			return derived, nil
		}
	}
}

// satisfied reports whether every conjunct of the rule holds against the
// current store. Conjuncts bind their variables independently: each one only
// needs some fact of the right subject and predicate to pass its test.
func satisfied(store *FactStore, rule *CompiledRule) bool {
	for _, c := range rule.conjuncts {
		if !holds(store, c) {
			return false
		}
	}
	return true
}

func holds(store *FactStore, c conjunct) bool {
	for f := range store.Query(Pattern{Subject: &c.subject, Predicate: &c.predicate}) {
		switch c.kind {
		case conjExact:
			if f.Value.Equal(c.match) {
				return true
			}
		case conjRange:
			// Bounds are inclusive on both ends.
			if f.Value.Kind == domain.ValueNumber && f.Value.Num >= c.min && f.Value.Num <= c.max {
				return true
			}
		case conjText:
			if f.Value.Kind == domain.ValueString && c.pattern.MatchString(f.Value.Str) {
				return true
			}
		}
	}
	return false
}
