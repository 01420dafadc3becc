package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/phoa-app/sentinel/internal/domain"
	"github.com/phoa-app/sentinel/internal/rules"
	"go.uber.org/zap"
)

var (
	ErrPhobiasMissing  = errors.New("phobias is required")
	ErrBadContextValue = errors.New("context values must be numbers, booleans or strings")
	ErrEngineInvariant = errors.New("inference engine invariant violated")
)

const defaultLookupTimeout = 3 * time.Second

// AlertService runs the evaluation pipeline: build facts, compile rules from
// the trigger source, infer needsAlert conclusions, enrich them into alert
// records. Every request is self-contained; nothing is retained between
// calls.
type AlertService struct {
	triggers   domain.TriggerSource
	phobias    domain.PhobiaMetadataSource
	treatments domain.RecommendationSource
	logger     *zap.Logger

	lookupTimeout time.Duration
	now           func() time.Time
}

func NewAlertService(
	triggers domain.TriggerSource,
	phobias domain.PhobiaMetadataSource,
	treatments domain.RecommendationSource,
	lookupTimeout time.Duration,
	logger *zap.Logger,
) *AlertService {
	if lookupTimeout <= 0 {
		lookupTimeout = defaultLookupTimeout
	}
	return &AlertService{
		triggers:      triggers,
		phobias:       phobias,
		treatments:    treatments,
		logger:        logger,
		lookupTimeout: lookupTimeout,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Evaluate determines which phobia alerts should fire for the request.
// An empty alert list is a normal outcome. Only malformed input and engine
// invariant violations surface as errors; per-phobia compilation failures
// and per-lookup enrichment failures degrade locally.
func (s *AlertService) Evaluate(ctx context.Context, req domain.EvaluateRequest) ([]domain.AlertRecord, error) {
	if req.Phobias == nil {
		return nil, ErrPhobiasMissing
	}
	for name, raw := range req.Context {
		if raw == nil {
			continue
		}
		if _, ok := domain.NormalizeScalar(raw); !ok {
			return nil, fmt.Errorf("%w: %s", ErrBadContextValue, name)
		}
	}

	store := rules.BuildFacts(req)
	user := domain.UserSubject(req.UserID)

	compiled := s.compileRules(ctx, req.Phobias, user)

	derived, err := rules.Infer(store, compiled)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineInvariant, err)
	}

	s.logger.Debug("inference complete",
		zap.Int("facts", store.Len()),
		zap.Int("rules", len(compiled)),
		zap.Int("fired", len(derived)),
	)

	return s.enrichAll(ctx, derived), nil
}

// compileRules fetches and compiles one rule per distinct phobia, preserving
// request order. A phobia with no trigger spec contributes no rule at all; a
// spec that fails to compile is skipped the same way. Both are logged and
// absorbed.
func (s *AlertService) compileRules(ctx context.Context, phobias []string, user string) []*rules.CompiledRule {
	compiled := make([]*rules.CompiledRule, 0, len(phobias))
	seen := make(map[string]struct{}, len(phobias))

	for _, id := range phobias {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		spec, err := s.fetchSpec(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				s.logger.Debug("no trigger spec", zap.String("phobia_id", id))
			} else {
				s.logger.Warn("trigger spec lookup failed", zap.String("phobia_id", id), zap.Error(err))
			}
			continue
		}

		rule, err := rules.Compile(*spec, user)
		if err != nil {
			s.logger.Warn("trigger spec failed to compile", zap.String("phobia_id", id), zap.Error(err))
			continue
		}
		compiled = append(compiled, rule)
	}
	return compiled
}

func (s *AlertService) fetchSpec(ctx context.Context, phobiaID string) (*domain.TriggerSpec, error) {
	ctx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()
	return s.triggers.TriggerSpec(ctx, phobiaID)
}
