// Package main provides the entry point for the training-plan intake service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/wattgod/training-plans-component/internal/config"
	"github.com/wattgod/training-plans-component/internal/enrich"
	"github.com/wattgod/training-plans-component/internal/handler"
	"github.com/wattgod/training-plans-component/internal/logger"
	"github.com/wattgod/training-plans-component/internal/metrics"
	"github.com/wattgod/training-plans-component/internal/notify"
	"github.com/wattgod/training-plans-component/internal/validation"
)

// Run is the testable entrypoint for the application.
func Run(ctx context.Context) error {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	defer func() { _ = log.Sync() }()

	notifiers, err := buildNotifiers(ctx, cfg, log)
	if err != nil {
		log.Error("unable to configure notifications", zap.Error(err))
		return err
	}

	m := metrics.New()
	dispatcher := notify.NewDispatcher(log, m, cfg.NotifyTimeout, notifiers...)
	h := handler.New(log,
		validation.New(cfg.SchemaVersion, cfg.BlockedDomains...),
		enrich.New(cfg.SchemaVersion),
		dispatcher, m, cfg.AllowedOrigins)

	log.Info("Starting training plan intake",
		zap.String("addr", cfg.Addr),
		zap.Stringer("schema", cfg.SchemaVersion),
		zap.Strings("allowed_origins", cfg.AllowedOrigins),
		zap.Strings("channels", dispatcher.Channels()))

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler.NewRouter(log, h),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down server")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	if err := dispatcher.Stop(ctxShutdown); err != nil {
		log.Warn("notifications still in flight at shutdown", zap.Error(err))
	}
	return nil
}

// buildNotifiers returns one notifier per channel with credentials present.
func buildNotifiers(ctx context.Context, cfg *config.Config, log *zap.Logger) ([]notify.Notifier, error) {
	var notifiers []notify.Notifier

	if cfg.EmailEnabled() {
		renderer, err := notify.NewRenderer()
		if err != nil {
			return nil, err
		}

		var mailer notify.Mailer
		switch cfg.EmailProvider {
		case config.ProviderSES:
			mailer, err = notify.NewSESMailer(ctx, cfg.AWSRegion, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey)
			if err != nil {
				return nil, err
			}
		default:
			mailer = notify.NewSendGridMailer(cfg.SendGridAPIKey,
				notify.WithSendGridBaseURL(cfg.SendGridBaseURL),
				notify.WithSendGridTimeout(cfg.NotifyTimeout))
		}
		notifiers = append(notifiers, notify.NewEmailNotifier(log, mailer, renderer, cfg.NotificationEmail, cfg.FromEmail, cfg.FromName))
	} else {
		log.Warn("email notifications disabled: credentials not configured")
	}

	if cfg.AutomationEnabled() {
		notifiers = append(notifiers, notify.NewGitHubTrigger(cfg.GitHubToken, cfg.GitHubRepo, cfg.DispatchEventType,
			notify.WithGitHubBaseURL(cfg.GitHubAPIURL),
			notify.WithGitHubTimeout(cfg.NotifyTimeout)))
	}
	return notifiers, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := Run(ctx); err != nil {
		os.Exit(1)
	}
}
