package domain

// PredicateKind classifies how a sensor predicate is matched.
type PredicateKind string

const (
	KindCategorical PredicateKind = "categorical"
	KindNumeric     PredicateKind = "numeric"
	KindBoolean     PredicateKind = "boolean"
)

func ValidPredicateKind(k string) bool {
	switch PredicateKind(k) {
	case KindCategorical, KindNumeric, KindBoolean:
		return true
	}
	return false
}

// SensorPredicate describes one sensor condition of a trigger spec. Value is
// the raw comparison value as supplied by the knowledge source; a nil value
// means the sensor is not part of the rule and the predicate is skipped
// during compilation.
type SensorPredicate struct {
	Name  string        `json:"name"`
	Kind  PredicateKind `json:"kind"`
	Value any           `json:"value"`
}

// TriggerSpec is the externally supplied description of when a phobia's
// alert should fire. Specs are read-only inputs to rule compilation.
type TriggerSpec struct {
	PhobiaID    string            `json:"phobiaId"`
	MainTrigger string            `json:"mainTrigger,omitempty"`
	Sensors     []SensorPredicate `json:"sensorPredicates"`
}

// GroupMessage is one chat message observed near the user.
type GroupMessage struct {
	Text string `json:"text"`
}

// EvaluateRequest is the alert evaluation payload.
type EvaluateRequest struct {
	UserID        string         `json:"userId,omitempty"`
	Phobias       []string       `json:"phobias"`
	Context       map[string]any `json:"context"`
	GroupMessages []GroupMessage `json:"groupMessages,omitempty"`
}
