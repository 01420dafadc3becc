package domain

import (
	"context"
	"errors"
)

// ErrNotFound is returned by knowledge sources when a phobia id has no
// record. It is the only lookup error callers are expected to branch on.
var ErrNotFound = errors.New("not found")

// Phobia is the display metadata for one phobia.
type Phobia struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MainTrigger string `json:"trigger,omitempty"`
}

// Treatment is one recommended action for a phobia.
type Treatment struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

// TriggerSource supplies per-phobia trigger specs. Implementations must be
// safe for concurrent use; the core never mutates returned specs.
type TriggerSource interface {
	TriggerSpec(ctx context.Context, phobiaID string) (*TriggerSpec, error)
}

// PhobiaMetadataSource resolves phobia display metadata.
type PhobiaMetadataSource interface {
	Phobia(ctx context.Context, phobiaID string) (*Phobia, error)
	List(ctx context.Context) ([]Phobia, error)
}

// RecommendationSource resolves the treatment records associated with a
// phobia. An empty slice is a valid result; the enricher substitutes its
// generic guidance.
type RecommendationSource interface {
	Treatments(ctx context.Context, phobiaID string) ([]Treatment, error)
}

// TriggerStore is a TriggerSource whose specs can be replaced, backing the
// admin trigger endpoints.
type TriggerStore interface {
	TriggerSource
	Upsert(ctx context.Context, spec *TriggerSpec) error
}
