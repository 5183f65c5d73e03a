package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huangsam/relwatch/internal/contract"
)

// shutdownTimeout bounds the graceful shutdown.
const shutdownTimeout = 30 * time.Second

// NewServer builds the HTTP server for addr.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Serve runs the API on baseCfg.ListenAddr until ctx is canceled, then shuts down gracefully.
func Serve(ctx context.Context, baseCfg *contract.Config, src contract.ReleaseSource) error {
	gin.SetMode(gin.ReleaseMode)
	h := NewHandler(baseCfg, src, NewMetrics())
	srv := NewServer(baseCfg.ListenAddr, h.SetupRouter())

	errCh := make(chan error, 1)
	go func() {
		contract.LogInfo("Server is starting", "addr", baseCfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	contract.LogInfo("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	contract.LogInfo("Server exited gracefully")
	return nil
}
