package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kittipatc/opsdesk/internal/config"
	"github.com/kittipatc/opsdesk/internal/core/ports"
	"github.com/kittipatc/opsdesk/internal/core/usecase"
	"github.com/kittipatc/opsdesk/internal/infrastructure/chunking"
	"github.com/kittipatc/opsdesk/internal/infrastructure/extractor"
	"github.com/kittipatc/opsdesk/internal/infrastructure/extractor/excel"
	"github.com/kittipatc/opsdesk/internal/infrastructure/extractor/pdf"
	"github.com/kittipatc/opsdesk/internal/infrastructure/extractor/plaintext"
	"github.com/kittipatc/opsdesk/internal/infrastructure/llm/ollama"
	"github.com/kittipatc/opsdesk/internal/infrastructure/queue/nats"
	"github.com/kittipatc/opsdesk/internal/infrastructure/repository/postgres"
	"github.com/kittipatc/opsdesk/internal/infrastructure/resilience"
	"github.com/kittipatc/opsdesk/internal/infrastructure/storage/localfs"
	"github.com/kittipatc/opsdesk/internal/infrastructure/vector/qdrant"
	"github.com/kittipatc/opsdesk/internal/observability/logging"
)

// App wires configuration, infrastructure and use cases for both the
// api and worker entrypoints.
type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue     ports.MessageQueue
	Documents ports.DocumentRepository

	IngestUC    ports.DocumentIngestor
	ProcessUC   ports.DocumentProcessor
	ChatUC      ports.ChatService
	RetrieveUC  *usecase.RetrieveUseCase
	DashboardUC *usecase.DashboardUseCase

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, service string) (*App, error) {
	logger := logging.NewJSONLogger(service, cfg.LogLevel)

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	documents := postgres.NewDocumentRepository(db)
	alerts := postgres.NewAlertRepository(db)
	cases := postgres.NewCaseRepository(db)
	feed := postgres.NewFeedRepository(db)
	conversations := postgres.NewConversationRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultPolicy())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	ollamaClient := ollama.NewWithOptions(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, ollama.Options{
		ResilienceExecutor: executor,
	})
	classifier := ollama.NewClassifier(ollamaClient)
	embedder := ollama.NewEmbedder(ollamaClient)
	generator := ollama.NewGenerator(ollamaClient)

	vectorDB := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection)
	chunker := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	extract := extractor.NewComposite(
		pdf.NewExtractor(storage),
		excel.NewExtractor(storage),
		plaintext.NewExtractor(storage),
	)

	cues, err := config.LoadCueTable(cfg.RAGIntentCueTablePath)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, fmt.Errorf("load intent cue table: %w", err)
	}

	// The completer is always wired; RAG_USE_RERANKER only seeds the
	// default config, so per-request use_reranker overrides work in both
	// directions.
	retrieveUC := usecase.NewRetrieveUseCase(
		embedder,
		vectorDB,
		ollamaClient,
		cues,
		usecase.DefaultIntentProfiles(cfg.RAGTopK),
		usecase.Tuning{
			CategoryBoost:       cfg.RAGCategoryBoost,
			CandidateMultiplier: cfg.RAGCandidateMultiplier,
			RerankTimeout:       time.Duration(cfg.RAGRerankTimeoutSeconds) * time.Second,
			RerankByDefault:     cfg.RAGUseReranker,
		},
	)

	ingestUC := usecase.NewIngestDocumentUseCase(documents, storage, queue, feed)
	processUC := usecase.NewProcessDocumentUseCase(documents, extract, classifier, chunker, embedder, vectorDB)
	chatUC := usecase.NewChatUseCase(retrieveUC, generator, conversations)
	dashboardUC := usecase.NewDashboardUseCase(alerts, cases, feed)

	return &App{
		Config: cfg,
		Logger: logger,

		Queue:     queue,
		Documents: documents,

		IngestUC:    ingestUC,
		ProcessUC:   processUC,
		ChatUC:      chatUC,
		RetrieveUC:  retrieveUC,
		DashboardUC: dashboardUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
