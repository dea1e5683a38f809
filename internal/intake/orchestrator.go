package intake

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"talentvet/internal/authenticity"
	"talentvet/internal/cache"
	"talentvet/internal/config"
	"talentvet/internal/dedup"
	"talentvet/internal/domain"
	"talentvet/internal/matcher"
	"talentvet/internal/port"
	"talentvet/internal/quota"
	"talentvet/internal/session"
)

// ScanRequest carries one document through the pipeline. Everything the
// scan needs travels explicitly; there is no ambient request context.
type ScanRequest struct {
	Bytes     []byte
	Filename  string
	JDText    string
	SessionID string
	Actor     string
}

// ScanFile is one entry of a batch request.
type ScanFile struct {
	Bytes    []byte
	Filename string
}

// TextExtractor is the slice of the document extractor the orchestrator
// needs.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, filename string) (*domain.ExtractedText, error)
}

// Orchestrator composes the intake pipeline: extraction, authenticity
// scoring, JD matching, caching, session bookkeeping, and promotion.
type Orchestrator struct {
	extractor  TextExtractor
	analyzer   *authenticity.Analyzer
	matcher    *matcher.Matcher
	scores     *cache.ScoreCache
	sessions   *session.Store
	tracker    *quota.Tracker
	extractors map[domain.Provider]port.CandidateExtractor
	resolver   *dedup.Resolver
	candidates port.CandidateRepository
	documents  *documentStore
	cfg        config.IntakeConfig
	allowed    map[string]bool
	maxBytes   int64
}

// NewOrchestrator wires the pipeline. extractors maps each configured LLM
// provider to its client; missing providers are reported as unavailable at
// promote time. upload.AllowedExtensions narrows the accepted extensions;
// an empty list falls back to everything the extractor can handle.
func NewOrchestrator(
	extractor TextExtractor,
	analyzer *authenticity.Analyzer,
	m *matcher.Matcher,
	scores *cache.ScoreCache,
	sessions *session.Store,
	tracker *quota.Tracker,
	extractors map[domain.Provider]port.CandidateExtractor,
	resolver *dedup.Resolver,
	candidates port.CandidateRepository,
	upload config.UploadConfig,
	cfg config.IntakeConfig,
) *Orchestrator {
	allowed := make(map[string]bool, len(upload.AllowedExtensions))
	for _, ext := range upload.AllowedExtensions {
		allowed[strings.ToLower(ext)] = true
	}
	return &Orchestrator{
		extractor:  extractor,
		analyzer:   analyzer,
		matcher:    m,
		scores:     scores,
		sessions:   sessions,
		tracker:    tracker,
		extractors: extractors,
		resolver:   resolver,
		candidates: candidates,
		documents:  newDocumentStore(upload.UploadDir),
		cfg:        cfg,
		allowed:    allowed,
		maxBytes:   upload.MaxFileSizeBytes,
	}
}

// extAllowed applies the configured upload filter on top of the extractor's
// capability set.
func (o *Orchestrator) extAllowed(ext string) bool {
	if _, ok := domain.AllowedExtensions[ext]; !ok {
		return false
	}
	if len(o.allowed) == 0 {
		return true
	}
	return o.allowed[ext]
}

// Scan runs the full pipeline for one document: cache lookup, extraction,
// authenticity scoring, optional JD matching, cache store, session update.
func (o *Orchestrator) Scan(ctx context.Context, req ScanRequest) (*domain.ScanOutcome, error) {
	if len(req.Bytes) == 0 {
		return nil, domain.ErrEmptyDocument
	}
	if o.maxBytes > 0 && int64(len(req.Bytes)) > o.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", domain.ErrOversizedDocument, len(req.Bytes))
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(req.Filename), "."))
	if !o.extAllowed(ext) {
		return nil, fmt.Errorf("%w: .%s", domain.ErrUnsupportedType, ext)
	}

	contentHash := domain.HashBytes(req.Bytes)
	key := cache.Key(req.Bytes, req.JDText)

	if payload, ok := o.scores.Get(key); ok {
		outcome := o.buildOutcome(req.Filename, contentHash, payload, true)
		o.attachToSession(req.SessionID, outcome)
		return outcome, nil
	}

	scanCtx := ctx
	if o.cfg.ScanTimeout > 0 {
		var cancel context.CancelFunc
		scanCtx, cancel = context.WithTimeout(ctx, o.cfg.ScanTimeout)
		defer cancel()
	}

	extracted, err := o.extractor.Extract(scanCtx, req.Bytes, req.Filename)
	if err != nil {
		if scanCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: scan exceeded %s", domain.ErrTimeout, o.cfg.ScanTimeout)
		}
		return nil, err
	}

	payload := cache.Payload{
		Authenticity: *o.analyzer.Analyze(extracted.Text, extracted.Structure),
	}
	if req.JDText != "" {
		payload.Match = o.matcher.Match(extracted.Text, req.JDText)
	}

	o.scores.Set(key, payload)
	if err := o.documents.save(contentHash, ext, req.Bytes); err != nil {
		log.Printf("orchestrator: storing document %s: %v", contentHash[:12], err)
	}

	outcome := o.buildOutcome(req.Filename, contentHash, payload, false)
	o.attachToSession(req.SessionID, outcome)
	return outcome, nil
}

func (o *Orchestrator) buildOutcome(filename, contentHash string, payload cache.Payload, fromCache bool) *domain.ScanOutcome {
	auth := payload.Authenticity
	return &domain.ScanOutcome{
		Filename:     filename,
		ContentHash:  contentHash,
		Authenticity: &auth,
		Match:        payload.Match,
		Status:       domain.ScanStatusPending,
		FromCache:    fromCache,
		ScannedAt:    time.Now().UTC(),
	}
}

func (o *Orchestrator) attachToSession(sessionID string, outcome *domain.ScanOutcome) {
	if sessionID == "" {
		return
	}
	o.sessions.RecordScan(sessionID, *outcome)
}

// BatchScan fans out concurrent scans bounded by the configured
// concurrency. A failed file never aborts the batch; per-file errors are
// collected alongside successes. Batches above the cap are rejected before
// any work starts.
func (o *Orchestrator) BatchScan(ctx context.Context, files []ScanFile, jdText, sessionID string) (*domain.BatchResult, error) {
	if len(files) == 0 {
		return nil, domain.ErrEmptyDocument
	}
	if len(files) > o.cfg.MaxBatchFiles {
		return nil, fmt.Errorf("%w: %d files (max %d)", domain.ErrBatchTooLarge, len(files), o.cfg.MaxBatchFiles)
	}
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	o.sessions.Open(sessionID)

	concurrency := o.cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)

	type indexed struct {
		idx     int
		outcome *domain.ScanOutcome
		err     error
	}
	results := make([]indexed, len(files))

	var wg sync.WaitGroup
	for i := range files {
		if ctx.Err() != nil {
			results[i] = indexed{idx: i, err: fmt.Errorf("%w: batch canceled", domain.ErrTimeout)}
			continue
		}
		file := files[i]
		idx := i

		sem <- struct{}{} // acquire
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }() // release

			outcome, err := o.Scan(ctx, ScanRequest{
				Bytes:     file.Bytes,
				Filename:  file.Filename,
				JDText:    jdText,
				SessionID: sessionID,
			})
			results[idx] = indexed{idx: idx, outcome: outcome, err: err}
		}()
	}
	wg.Wait()

	batch := &domain.BatchResult{SessionID: sessionID}
	for i, r := range results {
		if r.err != nil {
			batch.Errors = append(batch.Errors, domain.BatchError{
				Filename: files[i].Filename,
				Error:    r.err.Error(),
			})
			continue
		}
		if r.outcome != nil {
			batch.Results = append(batch.Results, *r.outcome)
		}
	}
	return batch, nil
}

// Promote materializes an approved scan into a candidate record: quota
// check, LLM extraction, duplicate resolution, and either a created record
// or the matches the caller must resolve.
func (o *Orchestrator) Promote(ctx context.Context, contentHash, sessionID, actor string, provider domain.Provider) (*domain.CandidateDecision, error) {
	outcome, err := o.sessions.GetScan(sessionID, contentHash)
	if err != nil {
		return nil, err
	}
	if outcome.Status != domain.ScanStatusApproved {
		return nil, domain.ErrNotApproved
	}

	if provider == "" {
		provider = domain.ProviderGemini
	}
	extractorClient, ok := o.extractors[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderUnavailable, provider)
	}

	allowed, warning := o.tracker.CanRequest(provider)
	if !allowed {
		return nil, fmt.Errorf("%w: %s", domain.ErrQuotaExceeded, warning)
	}
	if warning != "" {
		log.Printf("orchestrator: quota warning for %s: %s", provider, warning)
	}

	data, filename, err := o.documents.load(contentHash)
	if err != nil {
		return nil, fmt.Errorf("loading document %s: %w", contentHash[:12], err)
	}
	extracted, err := o.extractor.Extract(ctx, data, filename)
	if err != nil {
		return nil, err
	}

	output, err := extractorClient.Extract(ctx, port.ExtractInput{Text: extracted.Text})
	if err != nil {
		o.tracker.Record(provider, false, 0, 0)
		return nil, err
	}
	o.tracker.Record(provider, true, output.InputTokens, output.OutputTokens)

	matches, err := o.resolver.FindDuplicates(ctx, contentHash, output.Candidate)
	if err != nil {
		return nil, fmt.Errorf("duplicate resolution: %w", err)
	}
	if len(matches) > 0 {
		if matches[0].Definitive() {
			return &domain.CandidateDecision{
				Kind:    domain.DecisionDuplicateFound,
				Matches: matches,
			}, nil
		}
		return &domain.CandidateDecision{
			Kind:      domain.DecisionRequiresResolution,
			Candidate: output.Candidate,
			Matches:   matches,
		}, nil
	}

	record, err := candidateRecord(output.Candidate, contentHash)
	if err != nil {
		return nil, err
	}
	if err := o.candidates.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("persisting candidate: %w", err)
	}

	return &domain.CandidateDecision{
		Kind:      domain.DecisionCreate,
		Candidate: output.Candidate,
	}, nil
}

// ErrIsClientFault reports whether err maps to a caller mistake rather
// than a pipeline failure. Used by batch reporting and the HTTP adapter.
func ErrIsClientFault(err error) bool {
	return errors.Is(err, domain.ErrUnsupportedType) ||
		errors.Is(err, domain.ErrOversizedDocument) ||
		errors.Is(err, domain.ErrEmptyDocument) ||
		errors.Is(err, domain.ErrCorruptDocument)
}
