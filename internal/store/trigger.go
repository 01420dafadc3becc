package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phoa-app/sentinel/internal/domain"
)

type TriggerStore struct {
	db *pgxpool.Pool
}

func NewTriggerStore(db *pgxpool.Pool) *TriggerStore {
	return &TriggerStore{db: db}
}

func (s *TriggerStore) TriggerSpec(ctx context.Context, phobiaID string) (*domain.TriggerSpec, error) {
	spec := &domain.TriggerSpec{}
	var sensors []byte
	err := s.db.QueryRow(ctx,
		`SELECT phobia_id, COALESCE(main_trigger, ''), sensor_predicates
		 FROM trigger_specs WHERE phobia_id = $1`,
		phobiaID,
	).Scan(&spec.PhobiaID, &spec.MainTrigger, &sensors)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(sensors) > 0 {
		if err := json.Unmarshal(sensors, &spec.Sensors); err != nil {
			return nil, fmt.Errorf("decode sensor predicates for %s: %w", phobiaID, err)
		}
	}
	return spec, nil
}

func (s *TriggerStore) Upsert(ctx context.Context, spec *domain.TriggerSpec) error {
	sensors, err := json.Marshal(spec.Sensors)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO trigger_specs (phobia_id, main_trigger, sensor_predicates)
		 VALUES ($1, NULLIF($2, ''), $3)
		 ON CONFLICT (phobia_id)
		 DO UPDATE SET main_trigger = EXCLUDED.main_trigger,
		               sensor_predicates = EXCLUDED.sensor_predicates,
		               updated_at = NOW()`,
		spec.PhobiaID, spec.MainTrigger, sensors,
	)
	return err
}
