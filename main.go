package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/vault/cliparse"
	"github.com/danielhkuo/vault/db"
	"github.com/danielhkuo/vault/middleware"
	"github.com/danielhkuo/vault/notify"
	"github.com/danielhkuo/vault/router"
	"github.com/danielhkuo/vault/session"
	"github.com/danielhkuo/vault/storage"
)

func main() {
	var err error

	setupLogger()

	// .env is optional; real environment variables take precedence
	if err := cliparse.LoadEnv(); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the database
	dbConn, err := db.Open(db.Dialect(cfg.DatabaseType), cfg.DatabaseURL, cfg.BusyTimeout)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Verify connection
	if err := dbConn.PingContext(ctx); err != nil {
		slog.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	// Create schema (tables)
	if err := db.CreateSchema(ctx, dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// Session store
	var store session.Store
	switch cfg.SessionBackend {
	case cliparse.SessionBackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Error("redis ping failed", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		store = session.NewRedisStore(rdb)
	default:
		store = session.NewSQLStore(dbConn)
	}
	sessions := session.NewManager(store, cfg.SessionSecret, cfg.SessionTTL, cfg.SecureCookie)
	slog.Info("Sessions ready", "backend", cfg.SessionBackend, "ttl", cfg.SessionTTL)

	sweeper, err := startSweeper(cfg, store)
	if err != nil {
		slog.Error("session sweeper setup failed", "error", err)
		os.Exit(1)
	}

	// Optional object storage for /upload
	var objects storage.ObjectStore
	if cfg.UploadsEnabled() {
		minioStore, err := storage.NewMinioStore(cfg)
		if err != nil {
			slog.Error("object storage setup failed", "error", err)
			os.Exit(1)
		}
		if err := minioStore.EnsureBucket(ctx); err != nil {
			slog.Error("object storage bucket check failed", "error", err)
			os.Exit(1)
		}
		objects = minioStore
		slog.Info("Uploads enabled", "endpoint", cfg.MinioEndpoint, "bucket", cfg.MinioBucket)
	}

	notifier := notify.New(cfg)
	if cfg.NotificationsEnabled() {
		slog.Info("Mail notifications enabled", "host", cfg.SMTPHost)
	}

	// Create router
	mux := router.NewRouter(router.Deps{
		DB:       dbConn,
		Config:   cfg,
		Sessions: sessions,
		Notifier: notifier,
		Store:    objects,
	})

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}

	// Let a running sweep finish before the database closes
	if sweeper != nil {
		<-sweeper.Stop().Done()
	}
}

// startSweeper schedules expired-session cleanup for the SQL backend.
// Redis expires keys itself, so it gets no sweeper.
func startSweeper(cfg cliparse.Config, store session.Store) (*session.Sweeper, error) {
	if cfg.SessionBackend != cliparse.SessionBackendSQL {
		return nil, nil
	}
	sweeper, err := session.NewSweeper(store, cfg.SessionSweep)
	if err != nil {
		return nil, err
	}
	sweeper.Start()
	return sweeper, nil
}

// setupLogger installs the default slog handler from LOG_LEVEL and LOG_FORMAT
func setupLogger() {
	var level slog.Level
	if err := level.UnmarshalText([]byte(os.Getenv("LOG_LEVEL"))); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
