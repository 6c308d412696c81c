package workers_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"hazardsync/internal/connectivity"
	"hazardsync/internal/workers"
	mock_workers "hazardsync/internal/workers/mocks"
)

func TestProbe_FeedsMonitor(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	pinger := mock_workers.NewMockPinger(ctrl)
	mon := connectivity.NewMonitor(false, newTestLogger())

	var events []bool
	unsubscribe := mon.Subscribe(func(ev connectivity.Event) { events = append(events, ev.Online) })
	defer unsubscribe()

	gomock.InOrder(
		pinger.EXPECT().Ping(gomock.Any()).Return(nil),
		pinger.EXPECT().Ping(gomock.Any()).Return(nil),
		pinger.EXPECT().Ping(gomock.Any()).Return(errors.New("no route to host")),
	)

	p := workers.NewConnectivityProbe(pinger, mon, time.Minute, time.Second, newTestLogger())

	if !p.Probe(context.Background()) {
		t.Fatalf("expected online")
	}
	if !p.Probe(context.Background()) {
		t.Fatalf("expected online")
	}
	if p.Probe(context.Background()) {
		t.Fatalf("expected offline")
	}

	if len(events) != 2 || !events[0] || events[1] {
		t.Fatalf("expected [true false] transitions, got %v", events)
	}
}

func TestProbe_BoundedByTimeout(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	pinger := mock_workers.NewMockPinger(ctrl)
	status := mock_workers.NewMockStatusSetter(ctrl)

	pinger.EXPECT().
		Ping(gomock.Any()).
		DoAndReturn(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})
	status.EXPECT().Set(false).Return(false)

	p := workers.NewConnectivityProbe(pinger, status, time.Minute, 20*time.Millisecond, newTestLogger())

	start := time.Now()
	if p.Probe(context.Background()) {
		t.Fatalf("expected offline")
	}
	if time.Since(start) > time.Second {
		t.Fatalf("probe not bounded by timeout")
	}
}
