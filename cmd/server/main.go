package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/taskstack/api/internal/adapters/avatar"
	"github.com/taskstack/api/internal/adapters/email"
	"github.com/taskstack/api/internal/adapters/handler/http"
	"github.com/taskstack/api/internal/adapters/repository/postgres"
	"github.com/taskstack/api/internal/core/ports"
	"github.com/taskstack/api/internal/core/services"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	log := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(log)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	db, err := sql.Open("postgres", dbConnString())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to reach database: %w", err)
	}
	if err := postgres.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	userRepo := postgres.NewUserRepository(db)
	tokenRepo := postgres.NewTokenRepository(db)
	taskRepo := postgres.NewTaskRepository(db)

	authSvc := services.NewAuthService(userRepo, tokenRepo, []byte(jwtSecret))
	userSvc := services.NewUserService(userRepo, authSvc, emailSender(log), avatar.NewProcessor(), log)
	taskSvc := services.NewTaskService(taskRepo)

	handler := http.NewHandler(
		http.NewUserHandler(userSvc, authSvc),
		http.NewTaskHandler(taskSvc),
		authSvc,
	)

	addr := "0.0.0.0:" + envOr("PORT", "8080")
	server := &stdhttp.Server{Addr: addr, Handler: handler}

	go func() {
		log.Info("server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

// emailSender wires the SMTP sender when configured and a logging no-op
// otherwise, so local runs work without a mail setup.
func emailSender(log *slog.Logger) ports.EmailSender {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return &email.NopSender{Log: log}
	}

	port, err := strconv.Atoi(envOr("SMTP_PORT", "587"))
	if err != nil {
		log.Warn("invalid SMTP_PORT, falling back to 587")
		port = 587
	}

	sender, err := email.NewSMTPSender(email.Config{
		Host:     host,
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("EMAIL_FROM"),
	})
	if err != nil {
		log.Warn("failed to configure smtp sender, emails disabled", "error", err)
		return &email.NopSender{Log: log}
	}
	return sender
}

func dbConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		envOr("POSTGRES_HOST", "localhost"),
		envOr("POSTGRES_PORT", "5432"),
		os.Getenv("POSTGRES_DB"),
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
