package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"circuitquest-service/internal/app"
	"circuitquest-service/internal/config"
	"circuitquest-service/internal/infra/memory"
	pgloader "circuitquest-service/internal/infra/postgres"
	redisinfra "circuitquest-service/internal/infra/redis"
	transport "circuitquest-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the round server",
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
	teamTTL := config.TTLDuration(cfg.Redis.TTL, 0) // 0 = keep team records until the round is over

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.CatalogLoader = memory.NewStaticCatalogLoader(sampleQuestions(), sampleComponents())
	if pool != nil {
		loader = pgloader.NewCatalogLoader(pool)
	}

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	var questions app.QuestionRepository
	var components app.ComponentRepository
	if redisClient != nil {
		catalog := redisinfra.NewCatalog(redisClient, loader, catalogTTL)
		questions, components = catalog, catalog
	} else {
		catalog := memory.NewCatalog(loader, catalogTTL)
		questions, components = catalog, catalog
	}

	var teams app.TeamStore
	if redisClient != nil {
		teams = redisinfra.NewTeamStore(redisClient, teamTTL)
	} else {
		teams = memory.NewTeamStore()
	}

	settings := app.Settings{
		BonusAmount:       config.IntOrDefault(cfg.Round.BonusAmount, 1200),
		PointsPerQuestion: config.IntOrDefault(cfg.Round.PointsPerQuestion, 100),
		QuestionLimit:     config.IntOrDefault(cfg.Round.QuestionLimit, 12),
		PurchaseCount:     config.IntOrDefault(cfg.Round.PurchaseCount, 6),
	}
	service := app.NewRoundService(teams, questions, components, settings)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	transport.NewHandler(service).Register(mux)
	mux.HandleFunc("/ws", transport.NewWSHandler(service).ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting round service on :%s", finalPort)
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
