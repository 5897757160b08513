// Package monitor keeps a scheduled view of whether the REST backend is
// reachable.
package monitor

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/taskfolio/taskfolio-web/internal/logging"
)

const (
	StatusUnknown = "unknown"
	StatusUp      = "up"
	StatusDown    = "down"
)

// Pinger sends one anonymous probe and returns the status code.
type Pinger interface {
	Ping(ctx context.Context) (int, error)
}

// BackendMonitor records the outcome of the latest probe. Any answer below
// 500, a 401 included, counts as up.
type BackendMonitor struct {
	pinger  Pinger
	timeout time.Duration

	mu        sync.RWMutex
	status    string
	checkedAt time.Time
}

func NewBackendMonitor(p Pinger, timeout time.Duration) *BackendMonitor {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &BackendMonitor{pinger: p, timeout: timeout, status: StatusUnknown}
}

// Check probes the backend now and stores the result.
func (m *BackendMonitor) Check(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	status := StatusUp
	code, err := m.pinger.Ping(ctx)
	switch {
	case err != nil:
		logging.New(ctx).LogWarnf("backend_probe", "backend unreachable: %v", err)
		status = StatusDown
	case code >= http.StatusInternalServerError:
		logging.New(ctx).LogWarnf("backend_probe", "backend answered %d", code)
		status = StatusDown
	}

	m.mu.Lock()
	if m.status != status {
		logging.New(ctx).LogInfof("backend_probe", "backend status %s -> %s", m.status, status)
	}
	m.status = status
	m.checkedAt = time.Now()
	m.mu.Unlock()
	return status
}

func (m *BackendMonitor) Status() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// CheckedAt is the time of the last probe, zero before the first one.
func (m *BackendMonitor) CheckedAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.checkedAt
}
