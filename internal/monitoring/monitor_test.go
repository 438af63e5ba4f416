package monitoring

import (
	"testing"
	"time"

	"github.com/MapColonies/cesium-standalone/internal/quadtree"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMonitorFrameTiming(t *testing.T) {
	m := NewMonitor(prometheus.NewRegistry())

	timer := m.StartFrame()
	time.Sleep(10 * time.Millisecond)
	timer.EndFrame()

	snapshot := m.Snapshot()
	require.Equal(t, uint64(1), snapshot.FrameCount)
	require.GreaterOrEqual(t, snapshot.AverageFrameTime, 10*time.Millisecond)
	require.Greater(t, snapshot.FramesPerSecond, 0.0)
	require.Equal(t, 1, testutil.CollectAndCount(m.frameDuration))
}

func TestMonitorObserveSurface(t *testing.T) {
	m := NewMonitor(prometheus.NewRegistry())

	m.ObserveSurface(quadtree.Statistics{
		TilesVisited:  12,
		TilesCulled:   4,
		TilesRendered: 6,
		TilesResident: 20,
		QueueHigh:     1,
		QueueMedium:   2,
		QueueLow:      3,
		TilesEvicted:  5,
	})
	m.ObserveSurface(quadtree.Statistics{TilesEvicted: 2})

	require.Equal(t, 0.0, testutil.ToFloat64(m.tilesVisited))
	require.Equal(t, 7.0, testutil.ToFloat64(m.evictions))
	require.Equal(t, 0.0, testutil.ToFloat64(m.loadQueue.WithLabelValues("medium")))

	m.ObserveSurface(quadtree.Statistics{TilesRendered: 6, QueueMedium: 2})
	require.Equal(t, 6.0, testutil.ToFloat64(m.tilesRendered))
	require.Equal(t, 2.0, testutil.ToFloat64(m.loadQueue.WithLabelValues("medium")))
}

func TestMonitorCounters(t *testing.T) {
	m := NewMonitor(prometheus.NewRegistry())

	m.TileLoad(LoadLoaded)
	m.TileLoad(LoadLoaded)
	m.TileLoad(LoadFailed)
	m.NormalMapFetch(FetchStale)

	require.Equal(t, 2.0, testutil.ToFloat64(m.tileLoads.WithLabelValues(LoadLoaded)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.tileLoads.WithLabelValues(LoadFailed)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.normalMapFetches.WithLabelValues(FetchStale)))
	require.Equal(t, 0.0, testutil.ToFloat64(m.normalMapFetches.WithLabelValues(FetchInstalled)))
}

func TestNilMonitor(t *testing.T) {
	var m *Monitor

	m.ObserveSurface(quadtree.Statistics{TilesRendered: 1})
	m.TileLoad(LoadLoaded)
	m.NormalMapFetch(FetchInstalled)
	m.StartFrame().EndFrame()
	require.Equal(t, Snapshot{}, m.Snapshot())
}
