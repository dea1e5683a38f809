package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"talentvet/internal/domain"
	"talentvet/internal/port"
)

type candidateRepo struct {
	db *sqlx.DB
}

// NewCandidateRepo creates a new PostgreSQL-backed CandidateRepository.
func NewCandidateRepo(db *sqlx.DB) port.CandidateRepository {
	return &candidateRepo{db: db}
}

func (r *candidateRepo) Upsert(ctx context.Context, c *domain.Candidate) error {
	query := `INSERT INTO candidates (id, name, email, phone, linkedin_url, location,
		resume_hash, record, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (LOWER(email)) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			linkedin_url = EXCLUDED.linkedin_url,
			location = EXCLUDED.location,
			resume_hash = EXCLUDED.resume_hash,
			record = EXCLUDED.record,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Email, c.Phone, c.LinkedIn, c.Location,
		c.ResumeHash, c.Record, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("candidateRepo.Upsert: %w", err)
	}
	return nil
}

func (r *candidateRepo) FetchByEmail(ctx context.Context, email string) (*domain.Candidate, error) {
	var c domain.Candidate
	err := r.db.GetContext(ctx, &c,
		"SELECT * FROM candidates WHERE LOWER(email) = LOWER($1) LIMIT 1", email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCandidateNotFound
		}
		return nil, fmt.Errorf("candidateRepo.FetchByEmail: %w", err)
	}
	return &c, nil
}

func (r *candidateRepo) FetchByPhone(ctx context.Context, phoneSuffix string) (*domain.Candidate, error) {
	// Phone numbers are compared on their last 10 digits; strip formatting
	// on the stored side before suffix-matching.
	var c domain.Candidate
	err := r.db.GetContext(ctx, &c,
		`SELECT * FROM candidates
		 WHERE RIGHT(REGEXP_REPLACE(phone, '[^0-9]', '', 'g'), 10) = $1
		 LIMIT 1`, phoneSuffix)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCandidateNotFound
		}
		return nil, fmt.Errorf("candidateRepo.FetchByPhone: %w", err)
	}
	return &c, nil
}

func (r *candidateRepo) ListIdentifiers(ctx context.Context) ([]port.CandidateIdentifier, error) {
	var ids []port.CandidateIdentifier
	err := r.db.SelectContext(ctx, &ids,
		"SELECT id, name, email, phone FROM candidates ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("candidateRepo.ListIdentifiers: %w", err)
	}
	return ids, nil
}
