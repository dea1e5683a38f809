package port

import (
	"context"

	"github.com/google/uuid"

	"talentvet/internal/domain"
)

// DuplicateCheckRepository records duplicate lookups and the caller's
// eventual resolution as a durable audit trail.
type DuplicateCheckRepository interface {
	Insert(ctx context.Context, check *domain.DuplicateCheck) error
	RecordResolution(ctx context.Context, checkID uuid.UUID, resolution domain.Resolution, actor string) error
	ListBySource(ctx context.Context, sourceHash string) ([]domain.DuplicateCheck, error)
}
