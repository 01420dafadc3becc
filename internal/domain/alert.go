package domain

import "time"

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// severityByPhobia is the static severity policy. Severity is assigned per
// phobia, never computed from how a rule matched.
var severityByPhobia = map[string]Severity{
	"claustrophobia": SeverityMedium,
	"nyctophobia":    SeverityMedium,
	"pollenAllergy":  SeverityHigh,
	"agoraphobia":    SeverityHigh,
	"acrophobia":     SeverityHigh,
}

func SeverityFor(phobiaID string) Severity {
	if s, ok := severityByPhobia[phobiaID]; ok {
		return s
	}
	return SeverityHigh
}

// AlertRecord is one fully enriched alert. IDs are unique within a response
// only; nothing is persisted.
type AlertRecord struct {
	ID              string    `json:"id"`
	PhobiaID        string    `json:"phobiaId"`
	PhobiaName      string    `json:"phobiaName"`
	Severity        Severity  `json:"severity"`
	Message         string    `json:"message"`
	Recommendations []string  `json:"recommendations"`
	CreatedAt       time.Time `json:"createdAt"`
}
