package monitor

import (
	"context"
	"sync"

	"github.com/cosmotree/sage/internal/driver"
	"github.com/cosmotree/sage/internal/eventbus"
)

// ProgressSnapshot is a point-in-time, JSON-serializable copy of
// Progress's counters.
type ProgressSnapshot struct {
	FilesProcessed int          `json:"filesProcessed"`
	TreesProcessed int          `json:"treesProcessed"`
	TotalGalaxies  int64        `json:"totalGalaxies"`
	Last           driver.Event `json:"lastEvent"`
}

// Progress accumulates the driver's tree.completed/file.completed
// events into the counters GET /progress reports, and is the in-memory
// side of the same events the Hub broadcasts over the WebSocket.
type Progress struct {
	mu   sync.RWMutex
	data ProgressSnapshot
}

// NewProgress returns a zeroed Progress tracker.
func NewProgress() *Progress { return &Progress{} }

// Observe folds one driver event into the running totals.
func (p *Progress) Observe(e driver.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data.Last = e
	switch e.Topic {
	case driver.TopicTreeCompleted:
		p.data.TreesProcessed++
		p.data.TotalGalaxies += int64(e.Galaxies)
	case driver.TopicFileCompleted:
		p.data.FilesProcessed++
	}
}

// Snapshot returns a copy safe to serialize outside the lock.
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.data
}

// Subscribe wires bus's tree/file-completed topics into both progress
// (for GET /progress) and hub (for GET /ws), the pairing internal/driver
// is built against via its EventBus field.
func Subscribe(ctx context.Context, bus eventbus.EventBus, progress *Progress, hub *Hub) error {
	relay := func(e eventbus.Event) {
		evt, ok := e.Data.(driver.Event)
		if !ok {
			return
		}
		progress.Observe(evt)
		if hub != nil {
			hub.Broadcast(e.Type, evt)
		}
	}
	if _, err := bus.Subscribe(ctx, driver.TopicTreeCompleted, relay); err != nil {
		return err
	}
	if _, err := bus.Subscribe(ctx, driver.TopicFileCompleted, relay); err != nil {
		return err
	}
	return nil
}
