// Package main provides the chat server binary: lobby registries, the packet
// dispatcher, and the TCP and WebSocket frontends.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/chatserver/internal/chatserver"
	"github.com/cory-johannsen/chatserver/internal/config"
	"github.com/cory-johannsen/chatserver/internal/frontend/netio"
	"github.com/cory-johannsen/chatserver/internal/frontend/tcpserv"
	"github.com/cory-johannsen/chatserver/internal/frontend/ws"
	"github.com/cory-johannsen/chatserver/internal/lobby"
	"github.com/cory-johannsen/chatserver/internal/observability"
	"github.com/cory-johannsen/chatserver/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	lobbiesPath := flag.String("lobbies", "", "path to lobby definitions YAML; overrides config when set")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(cfg, *lobbiesPath, logger, start); err != nil {
		logger.Error("server exited with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg config.Config, lobbiesPath string, logger *zap.Logger, start time.Time) error {
	defsPath := cfg.Lobby.DefinitionsPath
	if lobbiesPath != "" {
		defsPath = lobbiesPath
	}

	defs, err := lobby.LoadDefinitionsFromFile(defsPath)
	if err != nil {
		return fmt.Errorf("loading lobby definitions: %w", err)
	}

	registry := netio.NewRegistry(logger)
	users := lobby.NewUserManager()

	lobbies, err := lobby.NewManager(defs, registry, logger)
	if err != nil {
		return fmt.Errorf("building lobbies: %w", err)
	}
	logger.Info("lobbies configured",
		zap.Int("count", lobbies.Count()),
		zap.String("definitions", defsPath),
	)

	process := chatserver.NewPacketProcess(users, lobbies, registry, logger)
	dispatcher := chatserver.NewDispatcher(process, cfg.Dispatch.Workers, cfg.Dispatch.QueueDepth, logger)
	tcpAcceptor := tcpserv.NewAcceptor(cfg.TCP, registry, dispatcher, logger)

	life := server.NewLifecycle(logger)
	life.Add("dispatcher",
		func() error { dispatcher.Start(); return nil },
		dispatcher.Stop,
	)
	life.Add("tcp", tcpAcceptor.ListenAndServe, tcpAcceptor.Stop)

	if cfg.Websocket.Enabled {
		wsAcceptor := ws.NewAcceptor(cfg.Websocket, registry, dispatcher, logger)
		life.Add("websocket", wsAcceptor.ListenAndServe, wsAcceptor.Stop)
	}

	logger.Info("chatserver starting",
		zap.String("tcp_addr", cfg.TCP.Addr()),
		zap.Bool("websocket", cfg.Websocket.Enabled),
		zap.Duration("init", time.Since(start)),
	)

	return life.Run(context.Background())
}
