package gateway

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/canopy-network/pos-gateway/app/gateway/types"
	"github.com/canopy-network/pos-gateway/pkg/config"
	"github.com/canopy-network/pos-gateway/pkg/metrics"
	"github.com/canopy-network/pos-gateway/pkg/rpc"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const probeTimeout = 5 * time.Second

const (
	upstreamUnknown int32 = iota
	upstreamUp
	upstreamDown
)

// upstreamProbe pings the node and records reachability. Only transitions are logged.
type upstreamProbe struct {
	chain   rpc.Client
	monitor metrics.ChainMonitor
	logger  *zap.Logger
	state   atomic.Int32
}

func (p *upstreamProbe) run(ctx context.Context) bool {
	pctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	err := p.chain.Ping(pctx)
	up := err == nil
	p.monitor.UpstreamUp(up)

	next := upstreamDown
	if up {
		next = upstreamUp
	}
	if prev := p.state.Swap(next); prev != next {
		if up {
			p.logger.Info("Upstream node reachable")
		} else {
			p.logger.Warn("Upstream node unreachable", zap.Error(err))
		}
	}
	return up
}

// SetupScheduler schedules the upstream probe on app.Cron and runs it once right away.
func SetupScheduler(ctx context.Context, app *types.App, spec string) error {
	app.Cron = cron.New(
		cron.WithParser(config.ScheduleParser),
		cron.WithChain(cron.Recover(cron.PrintfLogger(zap.NewStdLog(app.Logger)))),
	)

	probe := &upstreamProbe{chain: app.Chain, monitor: app.Metrics, logger: app.Logger}
	if _, err := app.Cron.AddFunc(spec, func() {
		probe.run(ctx)
	}); err != nil {
		return err
	}

	probe.run(ctx)
	return nil
}
