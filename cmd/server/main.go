package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/paystream/payments-engine/internal/config"
	"github.com/paystream/payments-engine/internal/handlers"
	mw "github.com/paystream/payments-engine/internal/middleware"
	"github.com/paystream/payments-engine/internal/services"
	"github.com/paystream/payments-engine/internal/stream"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: %s [transactions.csv]\n\nWith a CSV path, processes the file and writes the account snapshot to stdout.\nWithout one, serves the HTTP API.\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	logger = logger.With(zap.String("run_id", uuid.NewString()))

	engine := services.NewPaymentEngine(cfg.Engine, logger)

	if path := flag.Arg(0); path != "" {
		code := runBatch(cfg, engine, logger, path)
		logger.Sync()
		os.Exit(code)
	}
	runServer(cfg, engine, logger)
}

// runBatch streams one CSV file through the engine and emits the snapshot on
// stdout. Logs go to stderr so the snapshot stays clean. A fatal stream error
// still emits the partial snapshot, with a non-zero exit code.
func runBatch(cfg *config.Config, engine *services.PaymentEngine, logger *zap.Logger, path string) int {
	file, err := os.Open(path)
	if err != nil {
		logger.Error("cannot open transactions file", zap.String("path", path), zap.Error(err))
		return 1
	}
	defer file.Close()

	stats, procErr := stream.Process(context.Background(), stream.NewReader(file), engine, logger)
	logger.Info("processing finished",
		zap.Uint64("applied", stats.Applied),
		zap.Uint64("rejected", stats.Rejected),
		zap.Uint64("ignored", stats.Ignored),
		zap.Uint64("malformed", stats.Malformed),
	)

	writer := stream.NewWriter(os.Stdout, cfg.Engine.OutputPrecision)
	if err := writer.WriteSnapshot(engine.Accounts()); err != nil {
		logger.Error("cannot write account snapshot", zap.Error(err))
		return 1
	}

	if procErr != nil {
		logger.Error("stream failed, snapshot is partial", zap.Error(procErr))
		return 1
	}
	return 0
}

func runServer(cfg *config.Config, engine *services.PaymentEngine, logger *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker := services.NewEngineWorker(engine, logger)
	worker.Start(ctx)

	handler := handlers.NewTransactionHandler(worker, engine, logger)

	r := chi.NewRouter()
	r.Use(mw.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(chimw.Timeout(cfg.Server.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         86400,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/transactions", handler.SubmitTransaction)
		r.Get("/accounts", handler.ListAccounts)
		r.Get("/accounts/{clientID}", handler.GetAccount)
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := zcfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
