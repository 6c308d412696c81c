package workers

import (
	"context"
	"log/slog"
	"time"
)

// ConnectivityProbe polls the ingestion service and feeds the result into
// the connectivity monitor.
type ConnectivityProbe struct {
	pinger   Pinger
	status   StatusSetter
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

func NewConnectivityProbe(pinger Pinger, status StatusSetter, interval, timeout time.Duration, logger *slog.Logger) *ConnectivityProbe {
	if timeout <= 0 || timeout > interval {
		timeout = interval
	}
	return &ConnectivityProbe{
		pinger:   pinger,
		status:   status,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

func (p *ConnectivityProbe) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Probe(ctx)
		}
	}
}

// Probe runs a single check and returns the observed state.
func (p *ConnectivityProbe) Probe(ctx context.Context) bool {
	pctx, cancel := context.WithTimeout(ctx, p.timeout)
	err := p.pinger.Ping(pctx)
	cancel()

	if ctx.Err() != nil {
		return false
	}

	online := err == nil
	if p.status.Set(online) {
		if online {
			p.logger.Info("connectivity restored")
		} else {
			p.logger.Warn("connectivity lost", slog.Any("error", err))
		}
	}
	return online
}
