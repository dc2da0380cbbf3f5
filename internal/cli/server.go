package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finergy-service/internal/app"
	"finergy-service/internal/auth"
	"finergy-service/internal/collab/advisor"
	"finergy-service/internal/collab/news"
	"finergy-service/internal/collab/zipcode"
	"finergy-service/internal/config"
	"finergy-service/internal/docstore"
	"finergy-service/internal/infra/memory"
	pgstore "finergy-service/internal/infra/postgres"
	redisinfra "finergy-service/internal/infra/redis"
	transport "finergy-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the energy companion server",
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

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var store docstore.Store = memory.NewStore()
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		store = pgstore.NewStore(pool)
	} else {
		log.Printf("postgres not configured, using in-memory document store")
	}

	sessionTTL := config.TTLDuration(cfg.Auth.SessionTTL, 24*time.Hour)
	var tokens auth.TokenStore
	if redisClient != nil {
		tokens = redisinfra.NewSessionStore(redisClient, sessionTTL)
	} else {
		tokens = memory.NewSessionStore(sessionTTL)
	}

	authSvc := auth.NewService(store, tokens)
	evaluation := app.NewEvaluationService(store)
	challenges := app.NewChallengeService(store)

	var taskSets transport.TaskSetResolver = challenges
	if redisClient != nil {
		taskTTL := config.TTLDuration(cfg.Redis.TaskTTL, 24*time.Hour)
		taskSets = redisinfra.NewTaskSetCache(redisClient, challenges, taskTTL)
	}

	hub := app.NewCohortHub(challenges)
	evaluation.SetNotifier(hub)
	challenges.SetNotifier(hub)

	newsSvc := app.NewNewsService(
		news.NewClient(cfg.News.BaseURL, cfg.News.APIKey),
		zipcode.NewClient(cfg.ZipCode.BaseURL, cfg.ZipCode.APIKey),
	)
	budget := app.NewBudgetService(store, advisor.NewClient(cfg.Advisor.BaseURL, cfg.Advisor.APIKey, cfg.Advisor.Model))

	handler := transport.NewHandler(authSvc, evaluation, challenges, taskSets, hub, newsSvc, budget)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting finergy service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
