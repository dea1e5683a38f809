package intake

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"talentvet/internal/domain"
)

// documentStore keeps scanned documents on disk under their content hash
// so promotion can re-read the bytes without the caller re-uploading.
type documentStore struct {
	dir string
}

func newDocumentStore(dir string) *documentStore {
	return &documentStore{dir: dir}
}

func (s *documentStore) save(contentHash, ext string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(s.dir, contentHash+"."+ext)
	if _, err := os.Stat(path); err == nil {
		return nil // already stored under this hash
	}
	return os.WriteFile(path, data, 0o644)
}

// load returns the stored bytes and a filename with the original
// extension, located by content hash.
func (s *documentStore) load(contentHash string) ([]byte, string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, contentHash+".*"))
	if err != nil {
		return nil, "", err
	}
	if len(matches) == 0 {
		return nil, "", fmt.Errorf("%w: no stored document for hash", domain.ErrScanNotFound)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		return nil, "", err
	}
	return data, filepath.Base(matches[0]), nil
}

func candidateRecord(sc *domain.StructuredCandidate, contentHash string) (*domain.Candidate, error) {
	record, err := json.Marshal(sc)
	if err != nil {
		return nil, fmt.Errorf("encoding candidate record: %w", err)
	}
	now := time.Now().UTC()
	return &domain.Candidate{
		ID:         uuid.New(),
		Name:       sc.Name,
		Email:      sc.Email,
		Phone:      sc.Phone,
		LinkedIn:   sc.LinkedInURL,
		Location:   sc.Location,
		ResumeHash: contentHash,
		Record:     record,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}
