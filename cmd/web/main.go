package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/taskfolio/taskfolio-web/config"
	"github.com/taskfolio/taskfolio-web/internal/apiclient"
	"github.com/taskfolio/taskfolio-web/internal/auth/middleware"
	"github.com/taskfolio/taskfolio-web/internal/auth/repository"
	"github.com/taskfolio/taskfolio-web/internal/bootstrap"
	"github.com/taskfolio/taskfolio-web/internal/logging"
	"github.com/taskfolio/taskfolio-web/internal/monitor"
)

const serviceName = "taskfolio-web"

func main() {
	if err := run(); err != nil {
		log.Fatalf("%s: %v", serviceName, err)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)
	level, _ := logging.ParseLevel(cfg.App.LogLevel)
	logging.SetLevel(level)

	rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	client, err := apiclient.New(apiclient.Options{
		BaseURL:       cfg.API.BaseURL,
		Timeout:       cfg.API.Timeout,
		UploadTimeout: cfg.API.UploadTimeout,
		RateLimit:     rate.Limit(cfg.API.RateLimit),
		RateBurst:     cfg.API.RateBurst,
	})
	if err != nil {
		return fmt.Errorf("api client: %w", err)
	}

	backend := monitor.NewBackendMonitor(client, cfg.API.Timeout)
	scheduler := monitor.NewScheduler()
	if err := scheduler.Start(ctx, cfg.Monitor.BackendProbeSchedule, backend); err != nil {
		return err
	}
	defer scheduler.Stop()

	router, err := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		API:         client,
		Sessions:    repository.NewSessionRepository(rdb, cfg.Session.TTL),
		SessionOptions: middleware.SessionOptions{
			CookieName: cfg.Session.CookieName,
			TTL:        cfg.Session.TTL,
			Secure:     cfg.Session.SecureCookie,
		},
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Backend:        backend,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("listening on :%s (backend %s)", cfg.Server.Port, client.BaseURL())
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Println("shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Println("server stopped gracefully")
	return nil
}
