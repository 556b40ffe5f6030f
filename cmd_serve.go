package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gorilla/csrf"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/LianHaeming/llmguide/feedback"
	"github.com/LianHaeming/llmguide/handlers"
	"github.com/LianHaeming/llmguide/session"
	"github.com/LianHaeming/llmguide/storage"
	"github.com/LianHaeming/llmguide/tmpl"
)

func runServe(cmd *cobra.Command, args []string) error {
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	// Initialize storage
	progressStore := storage.NewProgressStore(cfg.ProgressPath)
	feedbackTable := storage.NewFeedbackTable(cfg.FeedbackPath)

	if cfg.AdminPassphrase == "" {
		logger.Warn("ADMIN_PASSPHRASE is not set; feedback export and clear are disabled")
	}

	deps := &handlers.Deps{
		Catalog:   catalog,
		Sessions:  session.NewManager(progressStore, logger.Named("session"), cfg.SecureCookies),
		Progress:  progressStore,
		Feedback:  feedback.NewService(feedbackTable, cfg.AdminPassphrase, logger.Named("feedback")),
		Templates: tmpl.Load(assetVersion()),
		Logger:    logger.Named("http"),
		StaticDir: cfg.StaticDir,
	}

	handler, err := protect(deps.Routes())
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("LLM Guide listening",
			zap.String("url", "http://localhost:"+cfg.Port),
			zap.Int("pages", len(catalog.Pages)),
			zap.String("progress", progressStore.Path()),
			zap.String("feedback", feedbackTable.Path()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

// protect wraps h with CSRF protection. Without SECURE_COOKIES requests are
// marked plaintext so the referer check meant for HTTPS is skipped.
func protect(h http.Handler) (http.Handler, error) {
	key, err := cfg.CSRFKeyBytes()
	if err != nil {
		return nil, err
	}
	if key == nil {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate CSRF key: %w", err)
		}
		logger.Warn("CSRF_KEY is not set; using a per-process key")
	}

	mw := csrf.Protect(key,
		csrf.Secure(cfg.SecureCookies),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("CSRF check failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Error(csrf.FailureReason(r)),
			)
			http.Error(w, "Forbidden - the form has expired, please reload the page", http.StatusForbidden)
		})),
	)

	protected := mw(h)
	if cfg.SecureCookies {
		return protected, nil
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	}), nil
}
