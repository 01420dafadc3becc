package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phoa-app/sentinel/internal/domain"
)

type PhobiaStore struct {
	db *pgxpool.Pool
}

func NewPhobiaStore(db *pgxpool.Pool) *PhobiaStore {
	return &PhobiaStore{db: db}
}

func (s *PhobiaStore) Phobia(ctx context.Context, phobiaID string) (*domain.Phobia, error) {
	p := &domain.Phobia{}
	err := s.db.QueryRow(ctx,
		`SELECT id, name, COALESCE(description, ''), COALESCE(main_trigger, '')
		 FROM phobias WHERE id = $1`,
		phobiaID,
	).Scan(&p.ID, &p.Name, &p.Description, &p.MainTrigger)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *PhobiaStore) List(ctx context.Context) ([]domain.Phobia, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, COALESCE(description, ''), COALESCE(main_trigger, '')
		 FROM phobias ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var phobias []domain.Phobia
	for rows.Next() {
		var p domain.Phobia
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.MainTrigger); err != nil {
			return nil, err
		}
		phobias = append(phobias, p)
	}
	return phobias, rows.Err()
}
