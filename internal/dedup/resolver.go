package dedup

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"talentvet/internal/domain"
	"talentvet/internal/port"
)

// DefaultNameThreshold is the minimum Levenshtein ratio for an advisory
// name match.
const DefaultNameThreshold = 0.85

// Resolver detects duplicate candidates by email, phone, and fuzzy name
// match, recording every check to a durable audit trail.
type Resolver struct {
	candidates    port.CandidateRepository
	checks        port.DuplicateCheckRepository
	nameThreshold float64
}

// NewResolver creates a Resolver with the default name threshold.
func NewResolver(candidates port.CandidateRepository, checks port.DuplicateCheckRepository) *Resolver {
	return &Resolver{
		candidates:    candidates,
		checks:        checks,
		nameThreshold: DefaultNameThreshold,
	}
}

// FindDuplicates returns matches ordered by precedence: exact email, then
// normalized phone, then fuzzy name. Email and phone matches are definitive
// and returned alone; name matches are advisory and may be multiple.
// sourceHash keys the audit records to the document being promoted.
func (r *Resolver) FindDuplicates(ctx context.Context, sourceHash string, candidate *domain.StructuredCandidate) ([]domain.DuplicateMatch, error) {
	email := NormalizeEmail(candidate.Email)
	if email != "" {
		existing, err := r.candidates.FetchByEmail(ctx, email)
		if err != nil && !errors.Is(err, domain.ErrCandidateNotFound) {
			return nil, fmt.Errorf("email lookup: %w", err)
		}
		if existing != nil {
			match := domain.DuplicateMatch{
				CandidateID: existing.ID,
				MatchType:   domain.MatchTypeEmail,
				MatchScore:  1.0,
				Name:        existing.Name,
				Email:       existing.Email,
				Phone:       existing.Phone,
			}
			r.audit(ctx, sourceHash, &match)
			return []domain.DuplicateMatch{match}, nil
		}
	}

	phone := NormalizePhone(candidate.Phone)
	if phone != "" {
		existing, err := r.candidates.FetchByPhone(ctx, phone)
		if err != nil && !errors.Is(err, domain.ErrCandidateNotFound) {
			return nil, fmt.Errorf("phone lookup: %w", err)
		}
		if existing != nil {
			match := domain.DuplicateMatch{
				CandidateID: existing.ID,
				MatchType:   domain.MatchTypePhone,
				MatchScore:  1.0,
				Name:        existing.Name,
				Email:       existing.Email,
				Phone:       existing.Phone,
			}
			r.audit(ctx, sourceHash, &match)
			return []domain.DuplicateMatch{match}, nil
		}
	}

	return r.fuzzyNameMatches(ctx, sourceHash, candidate.Name)
}

// fuzzyNameMatches compares the lowercased full name against every known
// candidate. Advisory only; never blocks creation.
func (r *Resolver) fuzzyNameMatches(ctx context.Context, sourceHash, name string) ([]domain.DuplicateMatch, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return nil, nil
	}

	identifiers, err := r.candidates.ListIdentifiers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing candidates: %w", err)
	}

	var matches []domain.DuplicateMatch
	for _, id := range identifiers {
		score := NameSimilarity(normalized, strings.ToLower(strings.TrimSpace(id.Name)))
		if score < r.nameThreshold {
			continue
		}
		match := domain.DuplicateMatch{
			CandidateID: id.ID,
			MatchType:   domain.MatchTypeName,
			MatchScore:  score,
			Name:        id.Name,
			Email:       id.Email,
			Phone:       id.Phone,
		}
		r.audit(ctx, sourceHash, &match)
		matches = append(matches, match)
	}
	return matches, nil
}

// audit records one duplicate check. Audit failures are logged, never
// propagated: detection results matter more than the trail.
func (r *Resolver) audit(ctx context.Context, sourceHash string, match *domain.DuplicateMatch) {
	matchedID := match.CandidateID
	check := &domain.DuplicateCheck{
		ID:         uuid.New(),
		SourceHash: sourceHash,
		MatchedID:  &matchedID,
		MatchType:  string(match.MatchType),
		MatchScore: match.MatchScore,
		CheckedAt:  time.Now().UTC(),
	}
	if err := r.checks.Insert(ctx, check); err != nil {
		log.Printf("dedup: recording duplicate check for %s: %v", sourceHash, err)
	}
}

// Resolve records the caller's decision on a prior duplicate check.
func (r *Resolver) Resolve(ctx context.Context, checkID uuid.UUID, resolution domain.Resolution, actor string) error {
	return r.checks.RecordResolution(ctx, checkID, resolution, actor)
}

// ChecksFor returns the audit trail for one source document.
func (r *Resolver) ChecksFor(ctx context.Context, sourceHash string) ([]domain.DuplicateCheck, error) {
	return r.checks.ListBySource(ctx, sourceHash)
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone reduces a phone number to its last 10 digits, or all
// digits when fewer than 10 remain.
func NormalizePhone(phone string) string {
	var digits []rune
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
		}
	}
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	return string(digits)
}

// NameSimilarity returns the Levenshtein ratio between two strings in
// [0, 1], where 1 is identical.
func NameSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	return 1 - float64(dist)/float64(longest)
}
