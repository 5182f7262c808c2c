package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"

	"symptom-checker/internal/agent"
	"symptom-checker/internal/assessment"
	"symptom-checker/internal/catalog"
	"symptom-checker/internal/config"
	"symptom-checker/internal/health"
	"symptom-checker/internal/platform/ratelimit"
	"symptom-checker/internal/platform/telegram"
	"symptom-checker/internal/report"
)

const shutdownTimeout = 10 * time.Second

type app struct {
	catalog *catalog.Catalog
	svc     assessment.Service
	checker *health.Checker
	rdb     *redis.Client
	qps     int
}

func serve(ctx context.Context, cfg *config.AppConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Infrastructure
	db := connectDB(ctx, cfg.Database)
	if db != nil {
		defer db.Close()
		if err := runMigrations(cfg.Database, "up"); err != nil {
			log.Printf("Migration up failed: %v", err)
		}
	}

	var rdb *redis.Client
	if cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("Redis unreachable at %s, rate limiting fails open: %v", cfg.Redis.Address, err)
		}
	}

	// 2. Clients
	chatID := cfg.Telegram.ClinicianChatID
	if cfg.Telegram.BotToken == "" || chatID == 0 {
		log.Println("Warning: telegram.bot_token or telegram.clinician_chat_id not set. Clinician reports are disabled.")
		chatID = 0
	}
	reportSvc := report.NewService(telegram.NewClient(cfg.Telegram.BotToken), chatID, cfg.Report.FontPaths)

	// 3. Services
	cat := catalog.Default()
	store := assessment.NewStore(assessment.WithSessionTTL(cfg.Store.SessionTTL))
	var dbPinger health.Pinger
	if db != nil {
		dbPinger = db.PingContext
	}

	a := &app{
		catalog: cat,
		svc:     assessment.NewService(store, cat, assessment.NewArchive(db), reportSvc, agent.NewAnalyst()),
		checker: health.NewChecker(cfg.Version, dbPinger, health.RedisPinger(rdb)),
		rdb:     rdb,
		qps:     cfg.Redis.RateLimitQPS,
	}

	go assessment.RunSweeper(ctx, store, cfg.Store.SweepInterval)

	// 4. Router
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           a.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on port %d (%s)...", cfg.Port, cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (a *app) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Route("/api", func(r chi.Router) {
		health.RegisterRoutes(r, a.checker)
		catalog.RegisterRoutes(r, catalog.NewHandler(a.catalog))
		assessment.RegisterRoutes(r, assessment.NewHandler(a.svc), ratelimit.Middleware(a.rdb, a.qps))
	})
	return r
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
		if r.Method == http.MethodOptions {
			return
		}
		next.ServeHTTP(w, r)
	})
}

// connectDB returns nil when no database is configured or reachable; the
// service then runs without the archive.
func connectDB(ctx context.Context, cfg config.DatabaseConfig) *sql.DB {
	if cfg.URL == "" {
		log.Println("database.url not set. Running without the assessment archive.")
		return nil
	}

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		log.Printf("Could not open DB: %v", err)
		return nil
	}

	retries := max(cfg.ConnectRetries, 1)
	for i := 0; i < retries; i++ {
		if err = db.PingContext(ctx); err == nil {
			log.Println("Connected to Database.")
			return db
		}
		log.Printf("Waiting for DB... (%d/%d)", i+1, retries)
		select {
		case <-ctx.Done():
			db.Close()
			return nil
		case <-time.After(2 * time.Second):
		}
	}

	log.Printf("Could not connect to DB: %v. Continuing without the archive.", err)
	db.Close()
	return nil
}
