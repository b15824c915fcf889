package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smartcity-ops/internal/authz"
	"smartcity-ops/internal/client"
	"smartcity-ops/internal/config"
	"smartcity-ops/internal/monitor"
	"smartcity-ops/internal/observability/metrics"
	"smartcity-ops/internal/ops"
	"smartcity-ops/internal/readings"
	readingspg "smartcity-ops/internal/readings/postgres"
	"smartcity-ops/internal/session"
	"smartcity-ops/internal/store"
	"smartcity-ops/internal/transport"
	"smartcity-ops/internal/vision"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := log.New(os.Stdout, "", log.LstdFlags)

	metrics.Init()

	sess := session.Open(cfg.SessionFile)
	tr, err := transport.NewClient(cfg.Backend.BaseURL, sess)
	if err != nil {
		logger.Fatalf("transport error: %v", err)
	}
	api := client.NewAPI(tr)
	auth := client.NewAuthClient(api, sess)
	st := store.New(api, sess, logger)

	archive, closeArchive, err := openArchive(cfg, logger)
	if err != nil {
		logger.Fatalf("archive error: %v", err)
	}
	defer closeArchive()

	creds := client.Credentials{Username: cfg.Backend.Login, Password: cfg.Backend.Password}
	mon := monitor.New(api, auth, st, archive, creds, cfg.Monitor.Interval, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := mon.Run(ctx); err != nil && err != context.Canceled {
			logger.Printf("monitor stopped: %v", err)
		}
	}()

	var classifier vision.Classifier
	if cfg.Vision.Endpoint != "" && cfg.Vision.APIKey != "" {
		classifier, err = vision.NewHTTPClassifier(cfg.Vision.Endpoint, cfg.Vision.APIKey, logger)
		if err != nil {
			logger.Fatalf("vision error: %v", err)
		}
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	ops.NewHandler(api, st, mon, archive, classifier, logger).Register(mux)

	var handler http.Handler = mux
	if cfg.Server.JWTSecret != "" {
		mw := authz.NewMiddleware([]byte(cfg.Server.JWTSecret), authz.NewDefaultPolicy())
		handler = mw.Wrap(mux)
	} else {
		logger.Printf("jwt secret not set; operator endpoints are open")
	}

	server := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Printf("listening on %s, backend %s", cfg.Server.ListenAddr, cfg.Backend.BaseURL)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal(err)
	}
}

// openArchive picks the readings backend: Postgres when configured,
// in-memory otherwise.
func openArchive(cfg config.Config, logger *log.Logger) (readings.Repository, func(), error) {
	if cfg.Readings.DatabaseURL == "" {
		logger.Printf("no database configured; readings archive is in-memory")
		return readings.NewMemoryRepository(), func() {}, nil
	}
	db, err := sql.Open("pgx", cfg.Readings.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, err
	}
	repo := readingspg.NewRepository(db)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repo.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return repo, func() { db.Close() }, nil
}
