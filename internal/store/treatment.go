package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phoa-app/sentinel/internal/domain"
)

type TreatmentStore struct {
	db *pgxpool.Pool
}

func NewTreatmentStore(db *pgxpool.Pool) *TreatmentStore {
	return &TreatmentStore{db: db}
}

// Treatments returns the recommendation records for a phobia in insertion
// order. No rows is a valid result; the enricher supplies the fallback.
func (s *TreatmentStore) Treatments(ctx context.Context, phobiaID string) ([]domain.Treatment, error) {
	rows, err := s.db.Query(ctx,
		`SELECT name, COALESCE(description, ''), COALESCE(url, '')
		 FROM treatments WHERE phobia_id = $1
		 ORDER BY id`,
		phobiaID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var treatments []domain.Treatment
	for rows.Next() {
		var t domain.Treatment
		if err := rows.Scan(&t.Name, &t.Description, &t.URL); err != nil {
			return nil, err
		}
		treatments = append(treatments, t)
	}
	return treatments, rows.Err()
}
