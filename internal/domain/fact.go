package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind tags the variant held by a Value.
type ValueKind string

const (
	ValueString ValueKind = "string"
	ValueNumber ValueKind = "number"
	ValueBool   ValueKind = "bool"
)

// Value is the tagged-variant object of a fact triple. Exactly one of the
// payload fields is meaningful, selected by Kind. Values are comparable, so
// facts can be deduplicated with map keys.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
}

func StringValue(s string) Value {
	return Value{Kind: ValueString, Str: s}
}

func NumberValue(n float64) Value {
	return Value{Kind: ValueNumber, Num: n}
}

func BoolValue(b bool) Value {
	return Value{Kind: ValueBool, Bool: b}
}

func (v Value) Equal(o Value) bool {
	return v == o
}

func (v Value) String() string {
	switch v.Kind {
	case ValueNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Str
	}
}

// NormalizeScalar converts a decoded JSON value into a fact Value. Numbers
// stay numbers and booleans stay booleans; strings are lower-cased because
// categorical matching is exact. Nil and non-scalar values are rejected.
func NormalizeScalar(raw any) (Value, bool) {
	switch v := raw.(type) {
	case nil:
		return Value{}, false
	case bool:
		return BoolValue(v), true
	case float64:
		return NumberValue(v), true
	case float32:
		return NumberValue(float64(v)), true
	case int:
		return NumberValue(float64(v)), true
	case int64:
		return NumberValue(float64(v)), true
	case string:
		return StringValue(strings.ToLower(v)), true
	default:
		return Value{}, false
	}
}

// Fact is an asserted (subject, predicate, value) triple. Facts are immutable
// and identical triples collapse to one.
type Fact struct {
	Subject   string
	Predicate string
	Value     Value
}

func (f Fact) String() string {
	return fmt.Sprintf("(%s %s %s)", f.Subject, f.Predicate, f.Value)
}

// Well-known subjects and predicates. Each request gets exactly one user
// entity and one context entity.
const (
	SubjectContext = "context/session"

	PredicateHasPhobia  = "hasPhobia"
	PredicateGroupText  = "groupText"
	PredicateNeedsAlert = "needsAlert"
)

// UserSubject returns the subject identifier for the requesting user.
// An empty id means the implicit current user.
func UserSubject(userID string) string {
	if userID == "" {
		userID = "current"
	}
	return "user/" + userID
}
