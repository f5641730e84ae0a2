package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"libraryhub/database"
	"libraryhub/internal/cache"
	"libraryhub/internal/config"
	"libraryhub/internal/logger"
	"libraryhub/internal/microservices/http-api/handler"
	"libraryhub/internal/microservices/http-api/middleware"
	"libraryhub/internal/microservices/http-api/repository"
	"libraryhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	appLogger := logger.New(cfg)

	if err := run(cfg, appLogger); err != nil {
		appLogger.Error("api server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, appLogger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.ConnectDB(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer db.Close()

	rdb, err := cache.NewClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer rdb.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db.Gorm)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db.Gorm)
	bookRepo := repository.NewBookRepository(db.Gorm)
	requestRepo := repository.NewRequestRepository(db.Gorm)
	loanRepo := repository.NewLoanRepository(db.Gorm)
	fineRepo := repository.NewFineRepository(db.Gorm)
	summaryRepo := repository.NewSummaryRepository(db.Gorm)

	// Services
	finePolicy, err := service.NewFinePolicy(cfg)
	if err != nil {
		return err
	}
	guard := service.NewGuard(userRepo)
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cache.NewTokenBlacklist(rdb), cfg, appLogger)
	requestService := service.NewRequestService(guard, requestRepo, bookRepo, cfg.LoanPeriod, appLogger)
	loanService := service.NewLoanService(guard, loanRepo, finePolicy, cfg.OverdueScanWorkers, appLogger)
	fineService := service.NewFineService(guard, fineRepo, appLogger)
	userService := service.NewUserService(guard, userRepo, appLogger)
	bookService := service.NewBookService(guard, bookRepo)
	summaryService := service.NewSummaryService(guard, summaryRepo,
		cache.NewJSONCache(rdb, "summary", cfg.SummaryCacheTTL), appLogger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(handler.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Request: handler.NewRequestHandler(requestService),
		Loan:    handler.NewLoanHandler(loanService),
		Fine:    handler.NewFineHandler(fineService),
		User:    handler.NewUserHandler(userService),
		Book:    handler.NewBookHandler(bookService),
		Summary: handler.NewSummaryHandler(summaryService),
		Health: handler.NewHealthHandler(map[string]handler.Check{
			"database": db.Ping,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
	}, handler.RouterOptions{
		Logger:      appLogger,
		Validator:   authService,
		RateLimiter: middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		appLogger.Info("starting api server", "addr", srv.Addr, "env", cfg.GoEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		appLogger.Info("received shutdown signal")
	case err := <-errChan:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	appLogger.Info("server stopped gracefully")
	return nil
}
