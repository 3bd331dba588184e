package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"compare-quiz-service/internal/app"
	"compare-quiz-service/internal/catalog"
	"compare-quiz-service/internal/config"
	"compare-quiz-service/internal/domain"
	"compare-quiz-service/internal/infra/memory"
	pginfra "compare-quiz-service/internal/infra/postgres"
	redisinfra "compare-quiz-service/internal/infra/redis"
	transport "compare-quiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the questionnaire server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	// Catalog source: explicit file > Postgres > built-in samples. A
	// malformed catalog fails right here, before the server ever listens.
	var loader catalog.Loader = catalog.NewStaticLoader(sampleQuizzes())
	switch {
	case cfg.Catalog.Path != "":
		loader = catalog.NewFileLoader(cfg.Catalog.Path)
	case pool != nil:
		loader = pginfra.NewCatalogLoader(pool)
	}
	cat, err := catalog.Load(ctx, loader)
	if err != nil {
		return err
	}

	var attempts app.AttemptStore
	switch {
	case pool != nil:
		attempts = pginfra.NewAttemptStore(pool)
	case redisClient != nil:
		attempts = redisinfra.NewAttemptStore(redisClient)
	default:
		attempts = memory.NewAttemptStore()
	}

	service := app.NewQuizService(cat, attempts)
	handler := transport.NewHandler(service, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting questionnaire service", zap.String("port", finalPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuizzes is the built-in catalog used when neither a catalog file nor
// Postgres is configured: the flag quiz (categorical) and the language quiz
// (scalar).
func sampleQuizzes() []domain.Quiz {
	return []domain.Quiz{
		{
			ID:    "flag",
			Title: "Flag Quiz",
			Style: domain.StyleCategorical,
			Questions: []domain.Question{
				{
					ID:     "flag-q1",
					Order:  1,
					Prompt: "Which flag design do you find most striking?",
					Choices: []domain.Choice{
						{ID: "nordic-cross", Label: "A Nordic cross"},
						{ID: "tricolour", Label: "A tricolour"},
						{ID: "single-emblem", Label: "A single central emblem"},
					},
				},
				{
					ID:     "flag-q2",
					Order:  2,
					Prompt: "How many national flags could you draw from memory?",
					Choices: []domain.Choice{
						{ID: "under-5", Label: "Fewer than 5"},
						{ID: "5-to-20", Label: "5 to 20"},
						{ID: "over-20", Label: "More than 20"},
					},
				},
			},
		},
		{
			ID:    "language",
			Title: "Language Quiz",
			Style: domain.StyleScalar,
			Questions: []domain.Question{
				{
					ID:     "lang-q1",
					Order:  1,
					Prompt: "How many languages do you speak?",
					Min:    1,
					Max:    10,
				},
				{
					ID:     "lang-q2",
					Order:  2,
					Prompt: "On a scale of 1-7, how confident are you speaking a foreign language?",
					Min:    1,
					Max:    7,
				},
			},
		},
	}
}
