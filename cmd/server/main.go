package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"idreview/internal/config"
	"idreview/internal/gateway"
	"idreview/internal/handler"
	"idreview/internal/metrics"
	"idreview/internal/port"
	"idreview/internal/preview"
	"idreview/internal/router"
	"idreview/internal/service"
	s3storage "idreview/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recorder := metrics.NewRecorder()

	// Initialize the remote classifier / document store client
	gw := gateway.NewClient(&cfg.Gateway, &cfg.Resilience, recorder)
	log.Printf("Gateway: %s (timeout %s, breaker=%v)", cfg.Gateway.BaseURL, cfg.Gateway.Timeout(), cfg.Resilience.BreakerEnabled)

	// Initialize preview storage
	var previews port.PreviewStore
	switch cfg.Preview.Backend {
	case "s3":
		s3Store, err := s3storage.NewPreviewStore(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 preview store: %w", err)
		}
		previews = s3Store
		log.Printf("Previews: s3://%s/%s", cfg.S3.Bucket, cfg.S3.Prefix)
	case "", "memory":
		previews = preview.NewStore()
		log.Printf("Previews: in memory")
	default:
		return fmt.Errorf("unknown preview backend %q", cfg.Preview.Backend)
	}

	// Initialize services
	sessionSvc := service.NewSessionService(gw, previews, recorder, service.SessionServiceConfig{
		HistoryLimit: cfg.History.Limit,
		MaxFileBytes: cfg.Preview.MaxBytes(),
	})
	defer sessionSvc.CloseAll()

	reaper := service.NewSessionReaper(sessionSvc, service.SessionReaperConfig{
		SweepInterval: cfg.Session.SweepInterval,
		IdleTimeout:   cfg.Session.IdleTimeout,
	})
	reaperDone := make(chan struct{})
	go func() {
		defer close(reaperDone)
		reaper.Start(ctx)
	}()

	// Initialize handlers
	sessionH := handler.NewSessionHandler(sessionSvc, cfg.Preview.MaxBytes())
	healthH := handler.NewHealthHandler(gw)

	// Setup router
	r := router.Setup(sessionH, healthH, recorder, cfg.CORS.AllowedOrigins)

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	<-reaperDone
	log.Printf("Server stopped, %d session(s) open at shutdown", sessionSvc.Count())

	return nil
}
