package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vk/plugreg/internal/ctxlog"
	"github.com/vk/plugreg/internal/services"
)

// RegistryView is the JSON document served on /registry.
type RegistryView struct {
	Entries    []EntryView       `json:"entries"`
	Assemblers map[string]string `json:"assemblers"`
	Weavers    map[string]string `json:"weavers"`
	Runtimes   map[string]string `json:"runtimes"`
	Beliefs    map[string]string `json:"beliefs"`
}

// EntryView describes one registry entry.
type EntryView struct {
	Key  string `json:"key"`
	Type string `json:"type"`
}

// NewRegistryView summarizes s.
func NewRegistryView(s *services.Services) RegistryView {
	reg := s.Registry()
	view := RegistryView{
		Assemblers: describe(reg.Assemblers().All()),
		Weavers:    describe(reg.Weavers().All()),
		Runtimes:   describe(reg.Runtimes().All()),
		Beliefs:    describe(reg.Beliefs().All()),
	}
	for _, key := range reg.Keys() {
		v, _ := reg.Lookup(key)
		view.Entries = append(view.Entries, EntryView{Key: key, Type: fmt.Sprintf("%T", v)})
	}
	return view
}

func describe[K ~string, V any](all iter.Seq2[K, V]) map[string]string {
	out := make(map[string]string)
	for k, v := range all {
		out[string(k)] = fmt.Sprintf("%T", v)
	}
	return out
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (a *App) registryHandler(w http.ResponseWriter, r *http.Request) {
	s, err := a.Services(r.Context())
	if err != nil {
		a.logger.Error("Registry unavailable.", "error", err)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(NewRegistryView(s)); err != nil {
		a.logger.Error("Failed to encode registry view.", "error", err)
	}
}

// Handler returns the HTTP handler serving /health, /metrics and /registry.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(a.promReg, promhttp.HandlerOpts{Registry: a.promReg}))
	mux.HandleFunc("/registry", a.registryHandler)
	return mux
}

// Serve runs discovery, then serves Handler on the configured address until
// ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	logger := ctxlog.FromContext(a.ctx)

	if _, err := a.Services(ctx); err != nil {
		return err
	}

	ln, err := net.Listen("tcp", a.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.config.ListenAddr, err)
	}
	a.httpServer = &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("🩺 Health check server starting", "address", fmt.Sprintf("http://%s/health", ln.Addr()))
		if err := a.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		return a.closeHealthCheckServer(shutdownCtx)
	case err := <-errCh:
		if err != nil {
			logger.Error("Health check server failed unexpectedly", "error", err)
		}
		return err
	}
}

func (a *App) closeHealthCheckServer(ctx context.Context) error {
	logger := ctxlog.FromContext(a.ctx)

	if a.httpServer == nil {
		logger.Debug("Health check server was not running.")
		return nil
	}

	logger.Info("🩺 Shutting down health check server...")
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logger.Error("Health check server shutdown failed", "error", err)
		return err
	}
	a.httpServer = nil
	logger.Debug("Health check server shut down gracefully.")
	return nil
}
