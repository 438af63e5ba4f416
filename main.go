package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"syscall"

	"github.com/MapColonies/cesium-standalone/internal/admin"
	"github.com/MapColonies/cesium-standalone/internal/config"
	"github.com/MapColonies/cesium-standalone/internal/geo"
	"github.com/MapColonies/cesium-standalone/internal/globe"
	"github.com/MapColonies/cesium-standalone/internal/inspect"
	"github.com/MapColonies/cesium-standalone/internal/resource"
	"github.com/MapColonies/cesium-standalone/internal/threading"
	"github.com/MapColonies/cesium-standalone/internal/viewer"
	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/encoding/json"
	"golang.org/x/sync/errgroup"
)

var (
	// The viewer version. Set at build.
	version = "v0.1.0"

	infoGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name:        "globe_viewer_info",
		Help:        "Globe viewer information.",
		ConstLabels: prometheus.Labels{"version": version},
	})
)

type options struct {
	Config   string `cli:""        env:"GLOBE_CONFIG"    help:"Path of the yaml configuration file."`
	LogLevel string `cli:",hidden" env:"GLOBE_LOG_LEVEL" help:"Overrides the configured log level (debug|info|warning|error)."`
	Version  bool   `cli:""        env:"-"               help:"Show version."`
	Help     bool   `cli:""        env:"-"               help:"Show help."`
}

func main() {
	opts := options{
		Config: "config.yaml",
	}

	infoGauge.Set(1)

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Starts the terrain globe viewer.").
		Options(&opts)
	cli.Load()

	if opts.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	cfg, err := config.LoadConfig(opts.Config)
	if err != nil {
		logs.Fatal(err)
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	logs.SetLevel(logs.ParseLevel(cfg.Log.Level))
	logs.Encoder = json.Marshal
	if cfg.Log.Indent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}
	errors.Encoder = json.Marshal

	components := threading.NewComponents(cfg.Threading.Workers, prometheus.DefaultRegisterer)
	defer components.Shutdown()

	pool := components.WorkerPool
	monitor := components.Monitor
	ellipsoid := viewer.Ellipsoid(cfg)

	// Submit blocks once the pool queue is full.
	tunables := viewer.Tunables(cfg)
	if tunables.MaximumConcurrentLoads == 0 {
		tunables.MaximumConcurrentLoads = components.MaximumConcurrentLoads()
	}

	g := globe.New(ellipsoid, globe.Options{
		TerrainProvider:   viewer.TerrainProvider(cfg, ellipsoid),
		Executor:          pool,
		Fetcher:           resource.NewHTTPFetcher(nil),
		Monitor:           monitor,
		Tunables:          tunables,
		OceanNormalMapURL: cfg.Globe.OceanNormalMapURL,
	})
	g.Show = cfg.Globe.Show
	defer g.Destroy()

	mode, _ := geo.ParseSceneMode(cfg.Display.SceneMode)
	inspector := inspect.NewServer(cfg.Inspect.Interval)

	var servers []*http.Server
	if cfg.Metrics.Addr != "" {
		servers = append(servers, &http.Server{
			Addr:    cfg.Metrics.Addr,
			Handler: admin.NewHandler(prometheus.DefaultGatherer),
		})
	}
	if cfg.Inspect.Addr != "" {
		servers = append(servers, &http.Server{
			Addr:    cfg.Inspect.Addr,
			Handler: inspector,
		})
	}

	background, ctx := errgroup.WithContext(ctx)
	background.Go(func() error {
		return inspector.Run(ctx)
	})
	background.Go(func() error {
		return admin.ListenAndServe(ctx, servers...)
	})

	logs.WithTag("version", version).
		WithTag("log_level", cfg.Log.Level).
		WithTag("scene_mode", mode).
		WithTag("terrain", cfg.Terrain.Provider).
		WithTag("workers", pool.GetNumWorkers()).
		Info("starting globe viewer")

	ebiten.SetWindowSize(cfg.GetScreenWidth(), cfg.GetScreenHeight())
	ebiten.SetWindowTitle(cfg.Display.WindowTitle)
	if cfg.Display.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	v := viewer.New(viewer.Options{
		Globe:   g,
		Camera:  viewer.Camera(cfg),
		Mode:    mode,
		Monitor: monitor,
		Inspect: inspector,
		Width:   cfg.GetScreenWidth(),
		Height:  cfg.GetScreenHeight(),
	})
	if err := ebiten.RunGame(v); err != nil {
		logs.Warn(errors.New("running viewer failed").Wrap(err))
	}

	cancel()
	if err := background.Wait(); err != nil {
		logs.Warn(err)
	}
}
