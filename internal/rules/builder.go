package rules

import (
	"strings"

	"github.com/phoa-app/sentinel/internal/domain"
)

// BuildFacts converts a request payload into a fact store. Phobia ownership
// goes on the user entity; sensor readings and group text go on the context
// entity. Null sensor readings are ignored; the caller has already rejected
// non-scalar values.
//
// All group messages are space-joined into one lower-cased groupText fact.
// Message boundaries are not preserved, so a multi-word trigger phrase can
// match across adjacent messages.
func BuildFacts(req domain.EvaluateRequest) *FactStore {
	store := NewFactStore()
	user := domain.UserSubject(req.UserID)

	for _, id := range req.Phobias {
		if id == "" {
			continue
		}
		store.Assert(user, domain.PredicateHasPhobia, domain.StringValue(id))
	}

	for name, raw := range req.Context {
		v, ok := domain.NormalizeScalar(raw)
		if !ok {
			continue
		}
		store.Assert(domain.SubjectContext, name, v)
	}

	if len(req.GroupMessages) > 0 {
		parts := make([]string, 0, len(req.GroupMessages))
		for _, m := range req.GroupMessages {
			parts = append(parts, m.Text)
		}
		text := strings.ToLower(strings.Join(parts, " "))
		if strings.TrimSpace(text) != "" {
			store.Assert(domain.SubjectContext, domain.PredicateGroupText, domain.StringValue(text))
		}
	}

	return store
}
