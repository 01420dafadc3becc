package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/phoa-app/sentinel/internal/domain"
)

var (
	ErrMissingPhobiaID   = errors.New("trigger spec has no phobiaId")
	ErrMissingSensorName = errors.New("sensor predicate has no name")
	ErrUnknownKind       = errors.New("unknown predicate kind")
	ErrBadComparison     = errors.New("comparison value does not fit predicate kind")
)

// toleranceByName widens the numeric interval for the sensors whose readings
// jitter. Unknown sensor names get zero tolerance; this default is a
// documented contract, not an accident.
var toleranceByName = map[string]float64{
	"heart_rate":  10,
	"altitude":    50,
	"noise_level": 5,
	"temperature": 2,
}

func toleranceFor(sensor string) float64 {
	return toleranceByName[sensor]
}

type conjunctKind int

const (
	// conjExact matches a fact value exactly (ownership, categorical, boolean).
	conjExact conjunctKind = iota
	// conjRange matches a numeric fact value inside a closed interval.
	conjRange
	// conjText matches a string fact value against a pattern.
	conjText
)

type conjunct struct {
	kind      conjunctKind
	subject   string
	predicate string
	match     domain.Value
	min, max  float64
	pattern   *regexp.Regexp
}

// CompiledRule is the executable form of one trigger spec: a conjunction of
// structured predicate tests and a single needsAlert conclusion. Rules are
// assembled as typed values, never as interpolated rule text.
type CompiledRule struct {
	PhobiaID  string
	user      string
	conjuncts []conjunct
}

// Conclusion returns the fact this rule derives when it fires.
func (r *CompiledRule) Conclusion() domain.Fact {
	return domain.Fact{
		Subject:   r.user,
		Predicate: domain.PredicateNeedsAlert,
		Value:     domain.StringValue(r.PhobiaID),
	}
}

// Compile turns one trigger spec into a rule for the given user entity.
// Conjunct order is fixed: phobia ownership first, sensor predicates in spec
// order, the text trigger last. Order changes nothing semantically but keeps
// rule dumps deterministic.
//
// A malformed spec fails compilation for its phobia only; callers skip it
// and keep compiling the rest.
func Compile(spec domain.TriggerSpec, userSubject string) (*CompiledRule, error) {
	if spec.PhobiaID == "" {
		return nil, ErrMissingPhobiaID
	}

	rule := &CompiledRule{PhobiaID: spec.PhobiaID, user: userSubject}
	rule.conjuncts = append(rule.conjuncts, conjunct{
		kind:      conjExact,
		subject:   userSubject,
		predicate: domain.PredicateHasPhobia,
		match:     domain.StringValue(spec.PhobiaID),
	})

	for _, sensor := range spec.Sensors {
		if sensor.Value == nil {
			// An absent comparison value is an omission, not a negation.
			continue
		}
		c, err := compileSensor(sensor)
		if err != nil {
			return nil, fmt.Errorf("sensor %q: %w", sensor.Name, err)
		}
		rule.conjuncts = append(rule.conjuncts, c)
	}

	if strings.TrimSpace(spec.MainTrigger) != "" {
		pattern, err := compileTrigger(spec.MainTrigger)
		if err != nil {
			return nil, fmt.Errorf("main trigger %q: %w", spec.MainTrigger, err)
		}
		rule.conjuncts = append(rule.conjuncts, conjunct{
			kind:      conjText,
			subject:   domain.SubjectContext,
			predicate: domain.PredicateGroupText,
			pattern:   pattern,
		})
	}

	return rule, nil
}

func compileSensor(sensor domain.SensorPredicate) (conjunct, error) {
	if sensor.Name == "" {
		return conjunct{}, ErrMissingSensorName
	}

	switch sensor.Kind {
	case domain.KindCategorical:
		v, ok := domain.NormalizeScalar(sensor.Value)
		if !ok {
			return conjunct{}, ErrBadComparison
		}
		if v.Kind != domain.ValueString {
			v = domain.StringValue(strings.ToLower(v.String()))
		}
		return conjunct{
			kind:      conjExact,
			subject:   domain.SubjectContext,
			predicate: sensor.Name,
			match:     v,
		}, nil

	case domain.KindNumeric:
		n, ok := toFloat(sensor.Value)
		if !ok {
			return conjunct{}, ErrBadComparison
		}
		tol := toleranceFor(sensor.Name)
		return conjunct{
			kind:      conjRange,
			subject:   domain.SubjectContext,
			predicate: sensor.Name,
			min:       n - tol,
			max:       n + tol,
		}, nil

	case domain.KindBoolean:
		b, ok := sensor.Value.(bool)
		if !ok {
			return conjunct{}, ErrBadComparison
		}
		return conjunct{
			kind:      conjExact,
			subject:   domain.SubjectContext,
			predicate: sensor.Name,
			match:     domain.BoolValue(b),
		}, nil

	default:
		return conjunct{}, ErrUnknownKind
	}
}

// compileTrigger builds the case-insensitive text pattern for a trigger
// phrase. Whitespace inside the phrase becomes a wildcard gap so that
// paraphrased chat text still matches: "loud noise" matches
// "a LOUD, sudden noise erupted".
func compileTrigger(phrase string) (*regexp.Regexp, error) {
	words := strings.Fields(phrase)
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.Compile("(?is)" + strings.Join(quoted, ".*"))
}

// toFloat accepts the numeric shapes a knowledge source may hand over:
// JSON numbers, Go ints from static templates, and numeric strings from
// legacy records.
func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return n, err == nil
	default:
		return 0, false
	}
}
