package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/allinsys/contactforms/internal/logging"
	"github.com/allinsys/contactforms/internal/metrics"
)

const pingTimeout = 5 * time.Second

// Pinger is the part of the contact store the monitor needs
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreMonitor periodically pings the document store and publishes its
// reachability on the store-up gauge.
type StoreMonitor struct {
	store    Pinger
	metrics  *metrics.Metrics
	interval time.Duration
	done     chan struct{}
	wg       sync.WaitGroup

	// last result, only touched by the monitor goroutine
	healthy *bool
}

// NewStoreMonitor creates a store monitor; a non-positive interval disables it
func NewStoreMonitor(store Pinger, m *metrics.Metrics, interval time.Duration) *StoreMonitor {
	return &StoreMonitor{
		store:    store,
		metrics:  m,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins the monitor in the background
func (sm *StoreMonitor) Start() {
	if sm.interval <= 0 {
		logging.GetGlobalLogger().Info("StoreMonitor: interval not set, skipping background store checks")
		return
	}
	sm.wg.Add(1)
	go sm.runPeriodically()
}

// Stop gracefully stops the monitor
func (sm *StoreMonitor) Stop() {
	if sm.interval <= 0 {
		return
	}
	close(sm.done)
	sm.wg.Wait()
}

func (sm *StoreMonitor) runPeriodically() {
	defer sm.wg.Done()
	logger := logging.GetGlobalLogger()

	logger.Info("Starting store monitor every %s", sm.interval)
	sm.check()

	ticker := time.NewTicker(sm.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sm.check()
		case <-sm.done:
			logger.Info("Store monitor stopped")
			return
		}
	}
}

// check pings the store once and logs only on state changes
func (sm *StoreMonitor) check() {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	err := sm.store.Ping(ctx)
	up := err == nil
	sm.metrics.SetStoreUp(up)

	changed := sm.healthy == nil || *sm.healthy != up
	sm.healthy = &up

	if !changed {
		return
	}
	logger := logging.GetGlobalLogger()
	if up {
		logger.Info("Contact store is reachable")
	} else {
		logger.Error("Contact store is unreachable: %v", err)
	}
}
