package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"talentvet/internal/domain"
	"talentvet/internal/port"
)

type duplicateCheckRepo struct {
	db *sqlx.DB
}

// NewDuplicateCheckRepo creates a new PostgreSQL-backed DuplicateCheckRepository.
func NewDuplicateCheckRepo(db *sqlx.DB) port.DuplicateCheckRepository {
	return &duplicateCheckRepo{db: db}
}

func (r *duplicateCheckRepo) Insert(ctx context.Context, check *domain.DuplicateCheck) error {
	if check.ID == uuid.Nil {
		check.ID = uuid.New()
	}
	if check.CheckedAt.IsZero() {
		check.CheckedAt = time.Now().UTC()
	}

	query := `INSERT INTO duplicate_checks (id, source_hash, matched_id, match_type,
		match_score, resolution, actor, checked_at, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		check.ID, check.SourceHash, check.MatchedID, check.MatchType,
		check.MatchScore, check.Resolution, check.Actor, check.CheckedAt, check.ResolvedAt)
	if err != nil {
		return fmt.Errorf("duplicateCheckRepo.Insert: %w", err)
	}
	return nil
}

func (r *duplicateCheckRepo) RecordResolution(ctx context.Context, checkID uuid.UUID, resolution domain.Resolution, actor string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE duplicate_checks SET resolution = $1, actor = $2, resolved_at = NOW()
		 WHERE id = $3`,
		string(resolution), actor, checkID)
	if err != nil {
		return fmt.Errorf("duplicateCheckRepo.RecordResolution: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrCandidateNotFound
	}
	return nil
}

func (r *duplicateCheckRepo) ListBySource(ctx context.Context, sourceHash string) ([]domain.DuplicateCheck, error) {
	var checks []domain.DuplicateCheck
	err := r.db.SelectContext(ctx, &checks,
		"SELECT * FROM duplicate_checks WHERE source_hash = $1 ORDER BY checked_at DESC",
		sourceHash)
	if err != nil {
		return nil, fmt.Errorf("duplicateCheckRepo.ListBySource: %w", err)
	}
	return checks, nil
}
