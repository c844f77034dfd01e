package main

import (
	"fmt"
	"os"

	"github.com/qnetlab/topoforge/pkg/api"
	"github.com/qnetlab/topoforge/pkg/canvas"
	"github.com/qnetlab/topoforge/pkg/config"
	"github.com/qnetlab/topoforge/pkg/events"
	"github.com/qnetlab/topoforge/pkg/linker"
	"github.com/qnetlab/topoforge/pkg/logging"
	"github.com/qnetlab/topoforge/pkg/metrics"
	"github.com/qnetlab/topoforge/pkg/server"
	"github.com/qnetlab/topoforge/pkg/topology"
)

func main() {
	flags := config.Flags()
	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "parse flags: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logging.NewJSONLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel))
	reg := metrics.NewRegistry()
	bus := events.NewBus()
	defer bus.Shutdown()

	c := canvas.New(
		canvas.WithLogger(log),
		canvas.WithNodeHalfExtent(cfg.NodeHalfExtent),
	)
	topo := topology.NewManager(c,
		topology.WithLogger(log),
		topology.WithMetrics(reg),
		topology.WithBus(bus),
	)
	links := linker.New(c, topo,
		linker.WithLogger(log),
		linker.WithMetrics(reg),
		linker.WithBus(bus),
	)

	srv, err := api.NewServer(c, links, topo,
		api.WithLogger(log),
		api.WithMetrics(reg),
	)
	if err != nil {
		log.Error("wire server", logging.Error(err))
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	gs := server.NewGracefulServer(addr, srv.Handler(), log)
	if err := gs.Start(); err != nil {
		log.Error("server failed", logging.Error(err))
		os.Exit(1)
	}
}
