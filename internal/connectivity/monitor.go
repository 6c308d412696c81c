// Package connectivity tracks best-effort network reachability and notifies
// subscribers once per online/offline transition.
package connectivity

import (
	"log/slog"
	"sync"
	"time"
)

type Event struct {
	Online bool      `json:"online"`
	At     time.Time `json:"at"`
}

type Status struct {
	Online bool      `json:"online"`
	Since  time.Time `json:"since"`
}

type Monitor struct {
	// emitMu serializes Set so listeners observe transitions in order.
	emitMu sync.Mutex

	mu        sync.RWMutex
	online    bool
	since     time.Time
	nextID    int
	listeners map[int]func(Event)

	logger *slog.Logger
	now    func() time.Time
}

func NewMonitor(initialOnline bool, logger *slog.Logger) *Monitor {
	return &Monitor{
		online:    initialOnline,
		since:     time.Now(),
		listeners: make(map[int]func(Event)),
		logger:    logger,
		now:       time.Now,
	}
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Status{Online: m.online, Since: m.since}
}

// Set records the platform's latest reachability signal. Listeners run
// synchronously only when the state actually changes; they must not call Set.
func (m *Monitor) Set(online bool) bool {
	m.emitMu.Lock()
	defer m.emitMu.Unlock()

	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return false
	}
	m.online = online
	m.since = m.now()
	ev := Event{Online: online, At: m.since}
	listeners := make([]func(Event), 0, len(m.listeners))
	for _, fn := range m.listeners {
		listeners = append(listeners, fn)
	}
	m.mu.Unlock()

	if online {
		m.logger.Info("connectivity: online")
	} else {
		m.logger.Warn("connectivity: offline")
	}

	for _, fn := range listeners {
		fn(ev)
	}
	return true
}

// Subscribe registers fn for transition events and returns a function removing it.
func (m *Monitor) Subscribe(fn func(Event)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// OnOnline is a convenience for the common "do something when we reconnect" hook.
func (m *Monitor) OnOnline(fn func()) func() {
	return m.Subscribe(func(ev Event) {
		if ev.Online {
			fn()
		}
	})
}
