package types

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/canopy-network/pos-gateway/pkg/config"
	"github.com/canopy-network/pos-gateway/pkg/metrics"
	"github.com/canopy-network/pos-gateway/pkg/pos"
	"github.com/canopy-network/pos-gateway/pkg/rpc"
	"github.com/canopy-network/pos-gateway/pkg/tracing"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	Config *config.Config
	// Chain is the shared node client. It is built once and never replaced.
	Chain   rpc.Client
	Service *pos.Service
	Metrics metrics.Monitor
	// Cron runs the upstream health probe. Nil when probing is disabled.
	Cron *cron.Cron
	// Zap Logger
	Logger *zap.Logger
	// Server represents the HTTP server instance used to handle incoming client requests and manage HTTP routes.
	Server          *http.Server
	ShutdownTracing tracing.ShutdownFunc
}

// Start serves until ctx is cancelled or the server fails, then shuts everything down.
func (a *App) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if a.Cron != nil {
		a.Cron.Start()
		a.Logger.Info("Upstream probe started", zap.String("cronSpec", a.Config.HealthProbeSpec))
	}

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if a.Cron != nil {
			<-a.Cron.Stop().Done()
		}

		err := a.Server.Shutdown(shutdownCtx)
		if a.Service != nil {
			a.Service.Close()
		}
		if a.ShutdownTracing != nil {
			if tErr := a.ShutdownTracing(shutdownCtx); tErr != nil {
				a.Logger.Error("Failed to shut down tracing", zap.Error(tErr))
			}
		}
		return err
	})

	err := g.Wait()
	a.Logger.Info("さようなら!")
	return err
}
