// Package monitoring exposes frame and tile metrics to Prometheus and keeps a
// few in-process counters for the viewer overlay.
package monitoring

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MapColonies/cesium-standalone/internal/quadtree"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	priorityLabel = "priority"
	resultLabel   = "result"
)

// Tile load results.
const (
	LoadLoaded = "loaded"
	LoadFailed = "failed"
	LoadStale  = "stale"
)

// Normal map fetch results.
const (
	FetchInstalled = "installed"
	FetchStale     = "stale"
	FetchFailed    = "failed"
)

// Monitor records surface metrics. A nil *Monitor is valid and records
// nothing.
type Monitor struct {
	frameDuration    prometheus.Histogram
	tilesVisited     prometheus.Gauge
	tilesCulled      prometheus.Gauge
	tilesRendered    prometheus.Gauge
	tilesResident    prometheus.Gauge
	loadQueue        *prometheus.GaugeVec
	tileLoads        *prometheus.CounterVec
	evictions        prometheus.Counter
	normalMapFetches *prometheus.CounterVec

	frameCount atomic.Uint64
	frameTime  atomic.Uint64 // nanoseconds

	mutex        sync.RWMutex
	avgFrameTime float64
	startTime    time.Time
}

// NewMonitor creates a monitor whose collectors are registered with reg.
// Passing prometheus.DefaultRegisterer exposes them on promhttp.Handler.
func NewMonitor(reg prometheus.Registerer) *Monitor {
	factory := promauto.With(reg)

	return &Monitor{
		frameDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "globe_frame_duration_seconds",
			Help:    "The time spent between BeginFrame and EndFrame.",
			Buckets: []float64{0.001, 0.002, 0.004, 0.008, 0.016, 0.033, 0.066, 0.133, 0.25, 0.5},
		}),
		tilesVisited: factory.NewGauge(prometheus.GaugeOpts{
			Name: "surface_tiles_visited",
			Help: "The number of tiles visited by the last traversal.",
		}),
		tilesCulled: factory.NewGauge(prometheus.GaugeOpts{
			Name: "surface_tiles_culled",
			Help: "The number of tiles culled by the last traversal.",
		}),
		tilesRendered: factory.NewGauge(prometheus.GaugeOpts{
			Name: "surface_tiles_rendered",
			Help: "The number of tiles selected for rendering by the last traversal.",
		}),
		tilesResident: factory.NewGauge(prometheus.GaugeOpts{
			Name: "surface_tiles_resident",
			Help: "The number of tiles holding loaded data.",
		}),
		loadQueue: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "surface_load_queue_length",
			Help: "The number of tiles waiting in each load queue.",
		}, []string{priorityLabel}),
		tileLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "surface_tile_loads_total",
			Help: "The number of finished tile loads.",
		}, []string{resultLabel}),
		evictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "surface_tile_evictions_total",
			Help: "The number of tiles whose data was evicted from the cache.",
		}),
		normalMapFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "globe_normal_map_fetches_total",
			Help: "The number of finished ocean normal map fetches.",
		}, []string{resultLabel}),
		startTime: time.Now(),
	}
}

// ObserveSurface publishes the statistics of one frame.
func (m *Monitor) ObserveSurface(stats quadtree.Statistics) {
	if m == nil {
		return
	}

	m.tilesVisited.Set(float64(stats.TilesVisited))
	m.tilesCulled.Set(float64(stats.TilesCulled))
	m.tilesRendered.Set(float64(stats.TilesRendered))
	m.tilesResident.Set(float64(stats.TilesResident))
	m.loadQueue.With(prometheus.Labels{priorityLabel: "high"}).Set(float64(stats.QueueHigh))
	m.loadQueue.With(prometheus.Labels{priorityLabel: "medium"}).Set(float64(stats.QueueMedium))
	m.loadQueue.With(prometheus.Labels{priorityLabel: "low"}).Set(float64(stats.QueueLow))
	m.evictions.Add(float64(stats.TilesEvicted))
}

// TileLoad counts a finished tile load.
func (m *Monitor) TileLoad(result string) {
	if m == nil {
		return
	}
	m.tileLoads.With(prometheus.Labels{resultLabel: result}).Inc()
}

// NormalMapFetch counts a finished ocean normal map fetch.
func (m *Monitor) NormalMapFetch(result string) {
	if m == nil {
		return
	}
	m.normalMapFetches.With(prometheus.Labels{resultLabel: result}).Inc()
}

// FrameTimer measures a single frame.
type FrameTimer struct {
	monitor   *Monitor
	startTime time.Time
}

// StartFrame begins frame timing.
func (m *Monitor) StartFrame() *FrameTimer {
	return &FrameTimer{
		monitor:   m,
		startTime: time.Now(),
	}
}

// EndFrame completes frame timing. It is safe to call on a nil timer.
func (ft *FrameTimer) EndFrame() {
	if ft == nil || ft.monitor == nil {
		return
	}

	m := ft.monitor
	frameTime := time.Since(ft.startTime)
	m.frameDuration.Observe(frameTime.Seconds())
	m.frameTime.Store(uint64(frameTime.Nanoseconds()))
	count := m.frameCount.Add(1)

	// Running mean.
	m.mutex.Lock()
	m.avgFrameTime += (float64(frameTime.Nanoseconds()) - m.avgFrameTime) / float64(count)
	m.mutex.Unlock()
}

// Snapshot is a point-in-time summary for display.
type Snapshot struct {
	Uptime           time.Duration
	FrameCount       uint64
	FramesPerSecond  float64
	AverageFrameTime time.Duration
	MemoryUsageMB    uint64
	Goroutines       int
}

// Snapshot returns the current frame counters and process statistics.
func (m *Monitor) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}

	m.mutex.RLock()
	avg := m.avgFrameTime
	m.mutex.RUnlock()

	fps := 0.0
	if frameTime := m.frameTime.Load(); frameTime > 0 {
		fps = float64(time.Second) / float64(frameTime)
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return Snapshot{
		Uptime:           time.Since(m.startTime),
		FrameCount:       m.frameCount.Load(),
		FramesPerSecond:  fps,
		AverageFrameTime: time.Duration(avg),
		MemoryUsageMB:    memStats.Alloc / 1024 / 1024,
		Goroutines:       runtime.NumGoroutine(),
	}
}
