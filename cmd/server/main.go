package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scholar-lens/internal/config"
	"scholar-lens/internal/handler"

	"github.com/joho/godotenv"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = 5 * time.Minute
	limiterIdle     = 30 * time.Minute
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}
	// Wiring
	container := config.NewContainer()
	defer container.Close()

	if err := container.Config.Validate(); err != nil {
		container.Logger.Error("Invalid configuration", err)
		os.Exit(1)
	}

	// Handlers
	annotationHandler := handler.NewAnnotationHandler(
		container.AnnotationService,
		container.Logger,
	)

	profileHandler := handler.NewProfileHandler(
		container.ProfileService,
		container.Logger,
	)

	authHandler := handler.NewAuthHandler()

	authMiddleware := handler.AnonymousMiddleware
	if container.Authenticated() {
		authMiddleware = handler.NewAuthMiddleware(
			container.AuthService,
			container.Logger,
		).Middleware
	}

	backendLimiter := handler.NewRateLimiter(
		container.Config.GetRateLimit(),
		container.Config.GetRateBurst(),
	)

	// Router
	router := handler.NewRouter(
		authHandler,
		annotationHandler,
		profileHandler,
		authMiddleware,
		backendLimiter,
		container.Config.GetAllowedOrigins(),
	)

	// start server
	server := &http.Server{
		Addr:              ":" + container.Config.GetServerPort(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sweep(ctx, container, backendLimiter)

	// Run server
	go func() {
		container.Logger.Info("Server listening", "address", server.Addr, "authenticated", container.Authenticated())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Error("Server failed to start", err)
			os.Exit(1)
		}
	}()
	// Graceful shutdown
	<-ctx.Done()

	container.Logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Server forced to shutdown", err)
	}

	container.Logger.Info("Server exited")
}

// sweep drops expired annotation workspaces and idle rate limiters until ctx
// is done.
func sweep(ctx context.Context, container *config.Container, limiter *handler.RateLimiter) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			container.AnnotationService.Sweep()
			limiter.Prune(limiterIdle)
		}
	}
}
