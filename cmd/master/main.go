// Package main is the entry point for the graph master: the XML-RPC
// server that implements the Registration Manager, Parameter Cache, and
// RPC Facade. It wires configuration, logging, tracing, and every
// optional domain-stack export. Only the stale-node reaper is started and
// stopped through pkg/lifecycle.Manager; the notification dispatcher, the
// MQTT bridge, and the livefeed hub are closed with plain defers, and the
// XML-RPC server is served and shut down from an errgroup.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nmxmxh/rosmaster/internal/bridge"
	"github.com/nmxmxh/rosmaster/internal/catalog"
	"github.com/nmxmxh/rosmaster/internal/config"
	"github.com/nmxmxh/rosmaster/internal/livefeed"
	"github.com/nmxmxh/rosmaster/internal/notify"
	"github.com/nmxmxh/rosmaster/internal/paramtree"
	"github.com/nmxmxh/rosmaster/internal/reaper"
	"github.com/nmxmxh/rosmaster/internal/rpcmaster"
	"github.com/nmxmxh/rosmaster/internal/xmlrpc"
	"github.com/nmxmxh/rosmaster/pkg/di"
	"github.com/nmxmxh/rosmaster/pkg/lifecycle"
	"github.com/nmxmxh/rosmaster/pkg/logger"
	"github.com/nmxmxh/rosmaster/pkg/tracing"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Environment: cfg.Environment,
		LogLevel:    cfg.LogLevel,
		ServiceName: "rosmaster",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() {
		if err := log.Sync(); err != nil {
			log.Warn("failed to sync logger", zap.Error(err))
		}
	}()
	zlog := log.GetZapLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TracingEndpoint != "" {
		tracingCfg := tracing.DefaultConfig()
		tracingCfg.ServiceName = "rosmaster"
		tracingCfg.ServiceVersion = "1.0.0"
		tracingCfg.Environment = cfg.Environment
		tracingCfg.JaegerEndpoint = cfg.TracingEndpoint
		tp, shutdownTracing, err := tracing.Init(tracingCfg)
		if err != nil {
			log.Warn("failed to initialize tracing, continuing without it", zap.Error(err))
		} else if tp != nil {
			defer func() {
				if err := shutdownTracing(context.Background()); err != nil {
					log.Warn("failed to shutdown tracing", zap.Error(err))
				}
			}()
		}
	}

	tree := paramtree.New()
	if cfg.ParamSeedPath != "" {
		seed, err := paramtree.LoadSeed(cfg.ParamSeedPath)
		if err != nil {
			zlog.Fatal("failed to load parameter seed", zap.Error(err))
		}
		if err := tree.Set("/", seed); err != nil {
			zlog.Fatal("failed to apply parameter seed", zap.Error(err))
		}
		log.Info("loaded parameter seed", zap.String("path", cfg.ParamSeedPath))

		if cfg.ParamSeedWatch {
			watcher, err := paramtree.WatchSeed(cfg.ParamSeedPath, zlog, func(v paramtree.Value) {
				if err := tree.Set("/", v); err != nil {
					zlog.Warn("failed to apply reloaded parameter seed", zap.Error(err))
				}
			})
			if err != nil {
				log.Warn("failed to start parameter seed watcher", zap.Error(err))
			} else {
				defer watcher.Close()
			}
		}
	}

	if cfg.MetricsAddr != "" {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, metricsMux); err != nil {
				zlog.Warn("metrics server exited", zap.Error(err))
			}
		}()
	}

	dispatcher := notify.New(cfg.NotifyWorkers, zlog)
	dispatcher.Start()
	defer dispatcher.Stop()

	cat := catalog.New(dispatcher, zlog)

	var br *bridge.Bridge
	var hub *livefeed.Hub
	if cfg.MQTTBrokerURL != "" || cfg.LivefeedAddr != "" {
		if cfg.MQTTBrokerURL != "" {
			br, err = bridge.Connect(cfg.MQTTBrokerURL, "rosmaster", zlog)
			if err != nil {
				log.Warn("failed to connect MQTT bridge, continuing without it", zap.Error(err))
				br = nil
			} else {
				defer br.Close()
			}
		}
		if cfg.LivefeedAddr != "" {
			hub = livefeed.NewHub(zlog)
			defer hub.Close()
		}
		cat.SetObserver(func(kind string, data interface{}) {
			if hub != nil {
				hub.Broadcast(livefeed.Event{Kind: kind, Data: data})
			}
			if br == nil {
				return
			}
			switch kind {
			case "topic_registered":
				m := data.(map[string]string)
				br.TopicRegistered(m["topic"], m["type"])
			case "topic_retired":
				br.TopicRetired(data.(string))
			case "publisher_update":
				m := data.(map[string]interface{})
				br.PublisherUpdate(m["topic"].(string), m["publishers"].([]string))
			}
		})
	}

	// The DI container wires the parameter cache, the registration
	// manager, and the RPC facade together the way the teacher composes
	// its own services: each is registered as a factory resolving its own
	// dependencies out of the same container, rather than threaded
	// through main by hand.
	shutdownRequested := make(chan string, 1)
	container := di.New()
	_ = container.Register((*paramtree.Tree)(nil), func(*di.Container) (interface{}, error) {
		return tree, nil
	})
	_ = container.Register((*catalog.Manager)(nil), func(*di.Container) (interface{}, error) {
		return cat, nil
	})
	_ = container.Register((*rpcmaster.Facade)(nil), func(c *di.Container) (interface{}, error) {
		var t *paramtree.Tree
		if err := c.Resolve(&t); err != nil {
			return nil, err
		}
		var m *catalog.Manager
		if err := c.Resolve(&m); err != nil {
			return nil, err
		}
		return rpcmaster.New(t, m, zlog, func(msg string) {
			shutdownRequested <- msg
		}), nil
	})
	var facade *rpcmaster.Facade
	if err := container.MustResolve(&facade); err != nil {
		zlog.Fatal("failed to wire rpc facade", zap.Error(err))
	}

	server := xmlrpc.NewServer(xmlrpc.NewHandler(facade.Handlers(), zlog))
	server.Handle("/debug/state", facade.DebugStateHandler())
	if hub != nil {
		server.Handle("/debug/live", hub.Handler())
	}

	if err := server.Listen(cfg.BindHost, cfg.BindPort); err != nil {
		zlog.Fatal("failed to bind xmlrpc listener", zap.Error(err))
	}
	uri := fmt.Sprintf("http://%s/", server.Addr().String())
	facade.SetURI(uri)
	log.Info("master listening", zap.String("uri", uri))

	lm := lifecycle.NewManager(zlog)
	_ = lm.Register(lifecycle.NewServiceAdapter("reaper").
		WithStart(func(context.Context) error {
			rp, err := reaper.New(cfg.ReaperSchedule, cat, zlog)
			if err != nil {
				return err
			}
			rp.Start()
			lm.ScheduleCleanup("reaper", func() error { rp.Stop(); return nil })
			return nil
		}))
	if err := lm.Start(ctx); err != nil {
		zlog.Fatal("failed to start lifecycle resources", zap.Error(err))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Serve()
	})
	g.Go(func() error {
		select {
		case msg := <-shutdownRequested:
			log.Info("shutdown requested via RPC", zap.String("msg", msg))
		case <-gctx.Done():
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warn("xmlrpc server shutdown error", zap.Error(err))
		}
		if err := lm.Stop(shutdownCtx); err != nil {
			log.Warn("lifecycle shutdown error", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Warn("master exited with error", zap.Error(err))
	}
	log.Info("master stopped")
}
