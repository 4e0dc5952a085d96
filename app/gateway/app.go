package gateway

import (
	"context"
	"fmt"

	"github.com/canopy-network/pos-gateway/app/gateway/types"
	"github.com/canopy-network/pos-gateway/pkg/config"
	"github.com/canopy-network/pos-gateway/pkg/logging"
	"github.com/canopy-network/pos-gateway/pkg/metrics"
	"github.com/canopy-network/pos-gateway/pkg/metrics/null"
	"github.com/canopy-network/pos-gateway/pkg/metrics/prometheus"
	"github.com/canopy-network/pos-gateway/pkg/pos"
	"github.com/canopy-network/pos-gateway/pkg/rpc"
	"github.com/canopy-network/pos-gateway/pkg/tracing"
	"go.uber.org/zap"
)

// ReleaseVersion is reported in traces.
var ReleaseVersion = "dev"

// Initialize builds the application from cfg.
func Initialize(ctx context.Context, cfg *config.Config) (*types.App, error) {
	logger, err := logging.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	shutdownTracing, err := tracing.Init(ctx, cfg.TracingAddress, ReleaseVersion, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize tracing: %w", err)
	}

	var monitor metrics.Monitor = null.New()
	if cfg.MetricsEnabled {
		monitor, err = prometheus.New(logger)
		if err != nil {
			return nil, fmt.Errorf("initialize metrics: %w", err)
		}
	}

	chain := rpc.NewHTTPWithOpts(rpc.Opts{
		Endpoints:       cfg.RPCURLs,
		Timeout:         cfg.RPCTimeout,
		RPS:             cfg.RPCRPS,
		Burst:           cfg.RPCBurst,
		BreakerFailures: cfg.RPCBreakerFailures,
		BreakerCooldown: cfg.RPCBreakerCooldown,
		MaxAttempts:     cfg.RPCMaxAttempts,
		Logger:          logger,
		Monitor:         monitor,
	})

	app := &types.App{
		Config:  cfg,
		Chain:   chain,
		Metrics: monitor,
		Service: pos.New(pos.Opts{
			Chain:       chain,
			AddressHRP:  cfg.AddressHRP,
			PageWorkers: cfg.PageWorkers,
			Logger:      logger,
		}),
		Logger:          logger,
		ShutdownTracing: shutdownTracing,
	}

	if cfg.HealthProbeSpec != "" {
		if err := SetupScheduler(ctx, app, cfg.HealthProbeSpec); err != nil {
			return nil, fmt.Errorf("schedule upstream probe: %w", err)
		}
	}

	logger.Info("Gateway initialized",
		zap.Strings("rpcEndpoints", chain.Endpoints()),
		zap.String("metrics", monitor.Presenter()),
	)

	return app, nil
}
