package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/phoa-app/sentinel/internal/domain"
	"go.uber.org/zap"
)

// genericRecommendations is substituted whenever the recommendation lookup
// yields no usable records. Alerts never carry an empty recommendation list.
var genericRecommendations = []string{
	"Practice deep breathing exercises",
	"Find a safe space",
}

// enrichAll maps each derived needsAlert fact to one alert record. Lookups
// for different phobias are read-only and address disjoint keys, so they run
// concurrently; the output keeps trigger-fire order.
func (s *AlertService) enrichAll(ctx context.Context, derived []domain.Fact) []domain.AlertRecord {
	alerts := make([]domain.AlertRecord, len(derived))

	var wg sync.WaitGroup
	for i, fact := range derived {
		wg.Add(1)
		go func() {
			defer wg.Done()
			alerts[i] = s.enrich(ctx, fact.Value.Str)
		}()
	}
	wg.Wait()

	return alerts
}

func (s *AlertService) enrich(ctx context.Context, phobiaID string) domain.AlertRecord {
	name := s.resolveName(ctx, phobiaID)

	return domain.AlertRecord{
		ID:              uuid.NewString(),
		PhobiaID:        phobiaID,
		PhobiaName:      name,
		Severity:        domain.SeverityFor(phobiaID),
		Message:         name + " trigger detected",
		Recommendations: s.resolveRecommendations(ctx, phobiaID),
		CreatedAt:       s.now(),
	}
}

// resolveName falls back to the phobia id when metadata is missing or the
// source is unreachable.
func (s *AlertService) resolveName(ctx context.Context, phobiaID string) string {
	ctx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	p, err := s.phobias.Phobia(ctx, phobiaID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("phobia name lookup failed", zap.String("phobia_id", phobiaID), zap.Error(err))
		}
		return phobiaID
	}
	if p.Name == "" {
		return phobiaID
	}
	return p.Name
}

// resolveRecommendations formats each treatment record as
// "name: description [url]"; description and url are optional. Records with
// no name are dropped.
func (s *AlertService) resolveRecommendations(ctx context.Context, phobiaID string) []string {
	ctx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	treatments, err := s.treatments.Treatments(ctx, phobiaID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("recommendation lookup failed", zap.String("phobia_id", phobiaID), zap.Error(err))
	}

	recs := make([]string, 0, len(treatments))
	for _, t := range treatments {
		if t.Name == "" {
			continue
		}
		var b strings.Builder
		b.WriteString(t.Name)
		if t.Description != "" {
			b.WriteString(": ")
			b.WriteString(t.Description)
		}
		if t.URL != "" {
			b.WriteString(" [")
			b.WriteString(t.URL)
			b.WriteString("]")
		}
		recs = append(recs, b.String())
	}

	if len(recs) == 0 {
		return append([]string(nil), genericRecommendations...)
	}
	return recs
}
