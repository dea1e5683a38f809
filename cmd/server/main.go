package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"talentvet/internal/authenticity"
	"talentvet/internal/cache"
	"talentvet/internal/config"
	"talentvet/internal/dedup"
	"talentvet/internal/domain"
	"talentvet/internal/extractor"
	"talentvet/internal/handler"
	"talentvet/internal/intake"
	"talentvet/internal/matcher"
	geminiparser "talentvet/internal/parser/gemini"
	openaiparser "talentvet/internal/parser/openai"
	"talentvet/internal/port"
	"talentvet/internal/quota"
	"talentvet/internal/repository/postgres"
	"talentvet/internal/router"
	"talentvet/internal/session"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	candidateRepo := postgres.NewCandidateRepo(db)
	checkRepo := postgres.NewDuplicateCheckRepo(db)

	// Initialize pipeline components
	docExtractor := extractor.New(cfg.Upload.TempDir, cfg.Intake.OCRPageTimeout)
	analyzer := authenticity.NewAnalyzer(authenticity.DefaultWeights())
	jdMatcher := matcher.NewMatcher()
	scores := cache.New(cfg.Cache.TTL, cfg.Cache.MaxEntries)
	sessions := session.NewStore(cfg.Intake.Session.Dir)

	tracker := quota.New(&cfg.Quota)
	defer tracker.Shutdown()
	tracker.SetCostRates(domain.ProviderGemini, cfg.Parser.Gemini.InputCostPM, cfg.Parser.Gemini.OutputCostPM)
	tracker.SetCostRates(domain.ProviderOpenAI, cfg.Parser.OpenAI.InputCostPM, cfg.Parser.OpenAI.OutputCostPM)

	// Register only the LLM providers that have API keys configured.
	extractors := make(map[domain.Provider]port.CandidateExtractor)
	if cfg.Parser.Gemini.Available() {
		extractors[domain.ProviderGemini] = geminiparser.NewExtractor(&cfg.Parser.Gemini)
	}
	if cfg.Parser.OpenAI.Available() {
		extractors[domain.ProviderOpenAI] = openaiparser.NewExtractor(&cfg.Parser.OpenAI)
	}
	if len(extractors) == 0 {
		log.Printf("server: no LLM provider configured; promotion is disabled")
	}

	resolver := dedup.NewResolver(candidateRepo, checkRepo)

	orchestrator := intake.NewOrchestrator(
		docExtractor, analyzer, jdMatcher, scores, sessions, tracker,
		extractors, resolver, candidateRepo,
		cfg.Upload, cfg.Intake,
	)

	// Initialize handlers
	scanH := handler.NewScanHandler(orchestrator, cfg.Intake.MaxBatchFiles)
	sessionH := handler.NewSessionHandler(sessions)
	duplicateH := handler.NewDuplicateHandler(resolver)
	quotaH := handler.NewQuotaHandler(tracker)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(scanH, sessionH, duplicateH, quotaH, healthH, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	janitor := intake.NewSessionJanitor(sessions, intake.JanitorConfig{
		Interval:  time.Hour,
		Retention: cfg.Intake.Session.Retention,
	})
	go janitor.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Printf("Server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
