package injector

import (
	"fmt"
	"time"

	"github.com/google/wire"

	"github.com/zeusync/htmlbox/internal/config"
	"github.com/zeusync/htmlbox/internal/core/board"
	"github.com/zeusync/htmlbox/internal/core/events/bus"
	"github.com/zeusync/htmlbox/internal/core/grid"
	"github.com/zeusync/htmlbox/internal/core/observability/log"
	"github.com/zeusync/htmlbox/internal/core/prism"
	"github.com/zeusync/htmlbox/internal/core/scene"
	"github.com/zeusync/htmlbox/internal/server"
)

// App is the fully wired object graph.
type App struct {
	Config config.Config
	Logger *log.Logger
	Bus    bus.EventBus
	Scene  *scene.Scene
	Prism  *prism.Prism
	Grid   *grid.Grid
	Board  *board.Board
	Bridge *server.Bridge
	HTTP   *server.HTTPServer
}

// ProviderSet builds an App from a config.Config.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	ProvideBus,
	ProvideScene,
	ProvidePrism,
	ProvideGrid,
	ProvideBoard,
	ProvideServerConfig,
	ProvideBridge,
	ProvideHTTPServer,
	wire.Struct(new(App), "*"),
)

func ProvideLogger(cfg config.Config) (*log.Logger, error) {
	return log.Build(log.ParseLevel(cfg.Log.Level), log.Options{Format: cfg.Log.Format})
}

// slowDelivery is a fifth of the default roll step.
const slowDelivery = 2 * time.Millisecond

// ProvideBus returns a bus whose failed and slow deliveries are logged. The
// observer also turns on the counters served at /metrics.
func ProvideBus(logger log.Log) bus.EventBus {
	eb := bus.New()
	eb.AddObserver(bus.NewLogObserver(logger, slowDelivery))
	return eb
}

func ProvideScene(logger log.Log) *scene.Scene {
	return scene.New(logger)
}

func ProvidePrism(sc *scene.Scene, cfg config.Config, eb bus.EventBus, logger log.Log) (*prism.Prism, error) {
	faces, err := cfg.Prism.FaceContents()
	if err != nil {
		return nil, err
	}
	return prism.New(sc, cfg.Prism.Prism(),
		prism.WithBus(eb),
		prism.WithLogger(logger),
		prism.WithFaces(faces),
	)
}

// ProvideGrid lays out the configured pattern and builds it into the scene.
func ProvideGrid(sc *scene.Scene, cfg config.Config, eb bus.EventBus, logger log.Log) (*grid.Grid, error) {
	g, err := grid.New(sc,
		grid.WithBus(eb),
		grid.WithLogger(logger),
		grid.WithTileSize(cfg.Grid.TileSize),
	)
	if err != nil {
		return nil, err
	}
	g.CreatePattern(cfg.Grid.Pattern, cfg.Grid.OriginX, cfg.Grid.OriginZ)
	if _, err = g.Build(); err != nil {
		return nil, fmt.Errorf("build grid: %w", err)
	}
	return g, nil
}

func ProvideBoard(p *prism.Prism, g *grid.Grid, cfg config.Config, logger log.Log) *board.Board {
	return board.New(p, g, cfg.Grid.GateMoves, logger)
}

func ProvideServerConfig(cfg config.Config) server.Config {
	sc := server.DefaultConfig()
	sc.Addr = cfg.Server.Addr
	sc.Path = cfg.Server.Path
	if cfg.Server.WriteTimeout > 0 {
		sc.WriteTimeout = cfg.Server.WriteTimeout
	}
	sc.AllowedOrigins = cfg.Server.AllowedOrigins
	return sc
}

func ProvideBridge(b *board.Board, eb bus.EventBus, sc server.Config, logger log.Log) (*server.Bridge, error) {
	return server.NewBridge(b, eb, sc, logger)
}

func ProvideHTTPServer(sc server.Config, br *server.Bridge, logger log.Log) *server.HTTPServer {
	return server.NewHTTPServer(sc, br, logger)
}
