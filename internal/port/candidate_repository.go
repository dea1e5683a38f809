package port

import (
	"context"

	"github.com/google/uuid"

	"talentvet/internal/domain"
)

// CandidateIdentifier carries the minimal identifying fields needed for
// duplicate detection without loading full records.
type CandidateIdentifier struct {
	ID    uuid.UUID `db:"id"`
	Name  string    `db:"name"`
	Email string    `db:"email"`
	Phone string    `db:"phone"`
}

// CandidateRepository is the persistence sink for candidate records. The
// core never talks to a database directly; this narrow contract is all it
// knows.
type CandidateRepository interface {
	Upsert(ctx context.Context, c *domain.Candidate) error
	FetchByEmail(ctx context.Context, email string) (*domain.Candidate, error)
	FetchByPhone(ctx context.Context, phoneSuffix string) (*domain.Candidate, error)
	ListIdentifiers(ctx context.Context) ([]CandidateIdentifier, error)
}
