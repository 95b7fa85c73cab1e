package monitor_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmotree/sage/internal/driver"
	"github.com/cosmotree/sage/internal/eventbus"
	"github.com/cosmotree/sage/internal/monitor"
)

func TestProgressObserveAccumulates(t *testing.T) {
	p := monitor.NewProgress()
	p.Observe(driver.Event{Topic: driver.TopicTreeCompleted, Galaxies: 3})
	p.Observe(driver.Event{Topic: driver.TopicTreeCompleted, Galaxies: 2})
	p.Observe(driver.Event{Topic: driver.TopicFileCompleted})

	snap := p.Snapshot()
	assert.Equal(t, 2, snap.TreesProcessed)
	assert.Equal(t, int64(5), snap.TotalGalaxies)
	assert.Equal(t, 1, snap.FilesProcessed)
}

func TestSubscribeRelaysBusEventsToProgressAndHub(t *testing.T) {
	bus := eventbus.NewInMemoryBus()
	progress := monitor.NewProgress()
	hub := monitor.NewHub(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	require.NoError(t, monitor.Subscribe(ctx, bus, progress, hub))

	require.NoError(t, bus.Publish(ctx, driver.TopicTreeCompleted, driver.Event{Topic: driver.TopicTreeCompleted, Galaxies: 4}))

	require.Eventually(t, func() bool {
		return progress.Snapshot().TreesProcessed == 1
	}, time.Second, time.Millisecond)
}
