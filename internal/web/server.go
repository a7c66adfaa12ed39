// Package web exposes the studio over a JSON API plus an HTML report
// page.
package web

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"nanopack/internal/studio"
)

// NewServer creates and configures the HTTP server.
func NewServer(database *sql.DB, session *studio.Session, skus SKUSearcher, exporter Exporter, version, bind string, port int, log *zap.Logger) *http.Server {
	if log == nil {
		log = zap.NewNop()
	}

	h := &Handlers{
		db:       database,
		session:  session,
		skus:     skus,
		exporter: exporter,
		version:  version,
		log:      log,
	}

	mux := http.NewServeMux()

	// Routes using Go 1.22+ pattern syntax
	mux.HandleFunc("GET /api/assets", h.HandleListAssets)
	mux.HandleFunc("POST /api/assets", h.HandleSaveAsset)
	mux.HandleFunc("GET /api/assets/{id}", h.HandleGetAsset)
	mux.HandleFunc("POST /api/assets/delete", h.HandleBatchDelete)
	mux.HandleFunc("POST /api/bundle", h.HandleBundle)
	mux.HandleFunc("GET /api/templates", h.HandleTemplates)
	mux.HandleFunc("GET /api/skus", h.HandleSearchSKUs)

	mux.HandleFunc("GET /api/session", h.HandleSessionState)
	mux.HandleFunc("POST /api/session/source", h.HandleLoadSource)
	mux.HandleFunc("POST /api/session/project", h.HandleSetProject)
	mux.HandleFunc("POST /api/session/template", h.HandleSetTemplate)
	mux.HandleFunc("POST /api/session/sku", h.HandleLinkSKU)
	mux.HandleFunc("POST /api/session/load/{id}", h.HandleLoadAsset)
	mux.HandleFunc("POST /api/generate", h.HandleGenerate)
	mux.HandleFunc("POST /api/vectorize", h.HandleVectorize)
	mux.HandleFunc("POST /api/scan", h.HandleScan)
	mux.HandleFunc("POST /api/save", h.HandleSaveSession)

	mux.HandleFunc("POST /api/selection/toggle", h.HandleSelectionToggle)
	mux.HandleFunc("POST /api/selection/all", h.HandleSelectionAll)
	mux.HandleFunc("POST /api/selection/clear", h.HandleSelectionClear)

	mux.HandleFunc("POST /api/export/doc", h.HandleExportDoc)
	mux.HandleFunc("POST /api/export/sheet", h.HandleExportSheet)
	mux.HandleFunc("POST /api/export/email", h.HandleExportEmail)

	mux.HandleFunc("GET /report", h.HandleReport)

	handler := securityHeaders(mux)

	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", bind, port),
		Handler: handler,
	}
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Info("NanoPack Studio running", zap.String("addr", srv.Addr))

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		log.Warn("server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
