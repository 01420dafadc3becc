// Package knowledge provides the built-in knowledge source: trigger
// templates, phobia metadata and treatment records compiled into the binary.
// It backs deployments without a database and every unit test that needs
// canned specs.
package knowledge

import (
	"context"

	"github.com/phoa-app/sentinel/internal/domain"
)

type Static struct {
	triggers   map[string]domain.TriggerSpec
	phobias    map[string]domain.Phobia
	order      []string
	treatments map[string][]domain.Treatment
}

// NewStatic returns the source with the default template set.
func NewStatic() *Static {
	s := &Static{
		triggers:   make(map[string]domain.TriggerSpec),
		phobias:    make(map[string]domain.Phobia),
		treatments: make(map[string][]domain.Treatment),
	}
	for _, e := range defaultEntries {
		s.phobias[e.phobia.ID] = e.phobia
		s.order = append(s.order, e.phobia.ID)
		s.triggers[e.phobia.ID] = e.spec
		if len(e.treatments) > 0 {
			s.treatments[e.phobia.ID] = e.treatments
		}
	}
	return s
}

func (s *Static) TriggerSpec(_ context.Context, phobiaID string) (*domain.TriggerSpec, error) {
	spec, ok := s.triggers[phobiaID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := spec
	return &out, nil
}

func (s *Static) Phobia(_ context.Context, phobiaID string) (*domain.Phobia, error) {
	p, ok := s.phobias[phobiaID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := p
	return &out, nil
}

func (s *Static) List(_ context.Context) ([]domain.Phobia, error) {
	out := make([]domain.Phobia, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.phobias[id])
	}
	return out, nil
}

func (s *Static) Treatments(_ context.Context, phobiaID string) ([]domain.Treatment, error) {
	return s.treatments[phobiaID], nil
}

type entry struct {
	phobia     domain.Phobia
	spec       domain.TriggerSpec
	treatments []domain.Treatment
}

// Rule conditions are conjunctive: a template carrying both a chat trigger
// and a sensor predicate only fires when all of them hold. Templates keyed
// to a single signal (a room sensor, a chat phrase) list only that
// condition; display metadata may mention a trigger phrase the rule itself
// does not test.
var defaultEntries = []entry{
	{
		phobia: domain.Phobia{
			ID:          "claustrophobia",
			Name:        "Claustrophobia",
			Description: "Fear of confined spaces",
			MainTrigger: "confined space",
		},
		spec: domain.TriggerSpec{
			PhobiaID: "claustrophobia",
			Sensors: []domain.SensorPredicate{
				{Name: "roomSize", Kind: domain.KindCategorical, Value: "Small"},
			},
		},
		treatments: []domain.Treatment{
			{Name: "Focus on exit points", Description: "Locate the nearest door or window and keep it in view"},
			{Name: "Grounding exercise", Description: "Name five things you can see and four you can touch"},
		},
	},
	{
		phobia: domain.Phobia{
			ID:          "agoraphobia",
			Name:        "Agoraphobia",
			Description: "Fear of crowded or open places",
			MainTrigger: "crowded",
		},
		spec: domain.TriggerSpec{
			PhobiaID:    "agoraphobia",
			MainTrigger: "crowded",
		},
		treatments: []domain.Treatment{
			{Name: "Step outside the crowd", Description: "Move to the edge of the space and slow your breathing"},
		},
	},
	{
		phobia: domain.Phobia{
			ID:          "acrophobia",
			Name:        "Acrophobia",
			Description: "Fear of heights",
			MainTrigger: "high up",
		},
		spec: domain.TriggerSpec{
			PhobiaID:    "acrophobia",
			MainTrigger: "high up",
			Sensors: []domain.SensorPredicate{
				{Name: "altitude", Kind: domain.KindNumeric, Value: 1000},
			},
		},
	},
	{
		phobia: domain.Phobia{
			ID:          "nyctophobia",
			Name:        "Nyctophobia",
			Description: "Fear of darkness",
		},
		spec: domain.TriggerSpec{
			PhobiaID: "nyctophobia",
			Sensors: []domain.SensorPredicate{
				{Name: "is_night", Kind: domain.KindBoolean, Value: true},
			},
		},
	},
	{
		phobia: domain.Phobia{
			ID:          "astraphobia",
			Name:        "Astraphobia",
			Description: "Fear of thunder and lightning",
			MainTrigger: "thunder",
		},
		spec: domain.TriggerSpec{
			PhobiaID:    "astraphobia",
			MainTrigger: "thunder",
			Sensors: []domain.SensorPredicate{
				{Name: "weather_code", Kind: domain.KindNumeric, Value: 95},
				{Name: "noise_level", Kind: domain.KindNumeric, Value: 90},
			},
		},
	},
	{
		phobia: domain.Phobia{
			ID:          "pollenAllergy",
			Name:        "Pollen allergy",
			Description: "Seasonal allergic reaction to pollen",
		},
		spec: domain.TriggerSpec{
			PhobiaID: "pollenAllergy",
			Sensors: []domain.SensorPredicate{
				{Name: "season", Kind: domain.KindCategorical, Value: "Spring"},
				{Name: "pollenLevel", Kind: domain.KindCategorical, Value: "High"},
			},
		},
		treatments: []domain.Treatment{
			{Name: "Stay indoors", Description: "Keep windows closed while pollen is high"},
			{Name: "Take antihistamine", URL: "https://www.nhs.uk/conditions/antihistamines/"},
		},
	},
}
