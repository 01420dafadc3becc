package rules

import (
	"errors"
	"testing"

	"github.com/phoa-app/sentinel/internal/domain"
)

const testUser = "user/current"

func TestCompile_OwnershipOnly(t *testing.T) {
	rule, err := Compile(domain.TriggerSpec{PhobiaID: "acrophobia"}, testUser)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(rule.conjuncts) != 1 {
		t.Fatalf("expected only the ownership conjunct, got %d", len(rule.conjuncts))
	}
	c := rule.conjuncts[0]
	if c.predicate != domain.PredicateHasPhobia || c.subject != testUser {
		t.Fatalf("unexpected ownership conjunct: %+v", c)
	}

	want := domain.Fact{Subject: testUser, Predicate: domain.PredicateNeedsAlert, Value: domain.StringValue("acrophobia")}
	if rule.Conclusion() != want {
		t.Fatalf("unexpected conclusion: %v", rule.Conclusion())
	}
}

func TestCompile_ConjunctOrder(t *testing.T) {
	spec := domain.TriggerSpec{
		PhobiaID:    "astraphobia",
		MainTrigger: "thunder storm",
		Sensors: []domain.SensorPredicate{
			{Name: "weather_code", Kind: domain.KindNumeric, Value: float64(95)},
			{Name: "is_night", Kind: domain.KindBoolean, Value: true},
		},
	}

	rule, err := Compile(spec, testUser)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(rule.conjuncts) != 4 {
		t.Fatalf("expected 4 conjuncts, got %d", len(rule.conjuncts))
	}
	if rule.conjuncts[0].predicate != domain.PredicateHasPhobia {
		t.Error("ownership must come first")
	}
	if rule.conjuncts[1].predicate != "weather_code" || rule.conjuncts[2].predicate != "is_night" {
		t.Error("sensor conjuncts must keep spec order")
	}
	if rule.conjuncts[3].kind != conjText {
		t.Error("text trigger must come last")
	}
}

func TestCompile_NilComparisonSkipped(t *testing.T) {
	spec := domain.TriggerSpec{
		PhobiaID: "acrophobia",
		Sensors: []domain.SensorPredicate{
			{Name: "altitude", Kind: domain.KindNumeric, Value: nil},
			{Name: "heart_rate", Kind: domain.KindNumeric, Value: float64(120)},
		},
	}

	rule, err := Compile(spec, testUser)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// Ownership plus heart_rate only; the nil predicate is omitted, not negated.
	if len(rule.conjuncts) != 2 {
		t.Fatalf("expected 2 conjuncts, got %d", len(rule.conjuncts))
	}
	if rule.conjuncts[1].predicate != "heart_rate" {
		t.Fatalf("expected heart_rate conjunct, got %s", rule.conjuncts[1].predicate)
	}
}

func TestCompile_NumericTolerance(t *testing.T) {
	tests := []struct {
		sensor  string
		value   float64
		wantMin float64
		wantMax float64
	}{
		{"heart_rate", 110, 100, 120},
		{"temperature", 30, 28, 32},
		{"noise_level", 90, 85, 95},
		{"altitude", 1000, 950, 1050},
		{"pressure", 1013, 1013, 1013}, // unknown sensor: zero tolerance
	}

	for _, tt := range tests {
		t.Run(tt.sensor, func(t *testing.T) {
			spec := domain.TriggerSpec{
				PhobiaID: "p",
				Sensors:  []domain.SensorPredicate{{Name: tt.sensor, Kind: domain.KindNumeric, Value: tt.value}},
			}
			rule, err := Compile(spec, testUser)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			c := rule.conjuncts[1]
			if c.min != tt.wantMin || c.max != tt.wantMax {
				t.Errorf("interval = [%v, %v], want [%v, %v]", c.min, c.max, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestCompile_NumericStringComparison(t *testing.T) {
	spec := domain.TriggerSpec{
		PhobiaID: "agoraphobia",
		Sensors:  []domain.SensorPredicate{{Name: "heart_rate", Kind: domain.KindNumeric, Value: "110"}},
	}
	rule, err := Compile(spec, testUser)
	if err != nil {
		t.Fatalf("expected numeric strings to be accepted, got %v", err)
	}
	if rule.conjuncts[1].min != 100 || rule.conjuncts[1].max != 120 {
		t.Fatalf("unexpected interval [%v, %v]", rule.conjuncts[1].min, rule.conjuncts[1].max)
	}
}

func TestCompile_CategoricalLowerCased(t *testing.T) {
	spec := domain.TriggerSpec{
		PhobiaID: "claustrophobia",
		Sensors:  []domain.SensorPredicate{{Name: "roomSize", Kind: domain.KindCategorical, Value: "Small"}},
	}
	rule, err := Compile(spec, testUser)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := rule.conjuncts[1].match; got != domain.StringValue("small") {
		t.Fatalf("expected lower-cased match value, got %v", got)
	}
}

func TestCompile_TriggerPattern(t *testing.T) {
	tests := []struct {
		name    string
		trigger string
		text    string
		match   bool
	}{
		{"exact", "crowded", "it's so crowded here", true},
		{"case-insensitive", "crowded", "SO CROWDED", true},
		{"wildcard gap", "loud noise", "a LOUD, sudden noise erupted", true},
		{"gap spans messages", "dark room", "it is dark in this tiny room", true},
		{"order matters", "loud noise", "noise that was loud", false},
		{"absent", "snake", "just a rope", false},
		{"meta characters quoted", "why? panic", "why panic now", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := domain.TriggerSpec{PhobiaID: "p", MainTrigger: tt.trigger}
			rule, err := Compile(spec, testUser)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			c := rule.conjuncts[len(rule.conjuncts)-1]
			if got := c.pattern.MatchString(tt.text); got != tt.match {
				t.Errorf("pattern %q on %q = %v, want %v", tt.trigger, tt.text, got, tt.match)
			}
		})
	}
}

func TestCompile_Failures(t *testing.T) {
	tests := []struct {
		name string
		spec domain.TriggerSpec
		want error
	}{
		{
			"missing phobia id",
			domain.TriggerSpec{},
			ErrMissingPhobiaID,
		},
		{
			"missing sensor name",
			domain.TriggerSpec{PhobiaID: "p", Sensors: []domain.SensorPredicate{{Kind: domain.KindNumeric, Value: float64(1)}}},
			ErrMissingSensorName,
		},
		{
			"unknown kind",
			domain.TriggerSpec{PhobiaID: "p", Sensors: []domain.SensorPredicate{{Name: "x", Kind: "fuzzy", Value: "y"}}},
			ErrUnknownKind,
		},
		{
			"numeric with non-number",
			domain.TriggerSpec{PhobiaID: "p", Sensors: []domain.SensorPredicate{{Name: "heart_rate", Kind: domain.KindNumeric, Value: "fast"}}},
			ErrBadComparison,
		},
		{
			"boolean with non-bool",
			domain.TriggerSpec{PhobiaID: "p", Sensors: []domain.SensorPredicate{{Name: "is_night", Kind: domain.KindBoolean, Value: "yes"}}},
			ErrBadComparison,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.spec, testUser)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
