// Package control wires the application together and manages its lifecycle.
package control

import (
	"context"
	"log/slog"

	"github.com/vietddude/walletbridge/internal/connect"
	"github.com/vietddude/walletbridge/internal/core/config"
	"github.com/vietddude/walletbridge/internal/core/networks"
	"github.com/vietddude/walletbridge/internal/infra/backend"
	"github.com/vietddude/walletbridge/internal/infra/flagstore"
	"github.com/vietddude/walletbridge/internal/infra/provider"
	"github.com/vietddude/walletbridge/internal/infra/status"
)

// App is the assembled application: provider bridge, connection manager and
// the control HTTP server.
type App struct {
	cfg     *config.AppConfig
	bridge  *provider.Bridge
	manager *connect.Manager
	server  *status.Server
	flags   connect.FlagStore
	log     *slog.Logger
}

// NewApp creates an App with all dependencies initialized.
func NewApp(cfg *config.AppConfig, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}

	target := networks.ResolveName(cfg.Network.Target)
	log.Info("Target network resolved", "name", cfg.Network.Target, "chain", target)

	// 1. Provider transport. An empty endpoint models a machine without a
	// wallet daemon; the bridge then reports the provider as unavailable.
	var transport provider.Transport
	if cfg.Provider.Endpoint != "" {
		transport = provider.NewHTTPTransport(cfg.Provider.Endpoint, cfg.Provider.Timeout)
	} else {
		log.Warn("No provider endpoint configured, wallet operations will be unavailable")
	}
	bridge := provider.NewBridge(transport, cfg.Provider.PollInterval, log)

	// 2. Flag persistence: Redis when configured, in-memory otherwise.
	var flags connect.FlagStore
	if cfg.Redis.URL != "" {
		store, err := flagstore.NewRedisStore(cfg.Redis)
		if err != nil {
			log.Warn("Failed to connect to Redis, using in-memory flag store", "error", err)
			flags = flagstore.NewMemoryStore()
		} else {
			log.Info("Using Redis flag store")
			flags = store
		}
	} else {
		log.Info("Using in-memory flag store")
		flags = flagstore.NewMemoryStore()
	}

	// 3. Optional backend profile sync.
	var syncer connect.AddressSyncer
	if cfg.Backend.URL != "" {
		syncer = backend.NewSyncer(
			cfg.Backend.URL,
			backend.StaticToken(cfg.Backend.Token),
			cfg.Backend.Timeout,
			log,
		)
	}

	manager := connect.NewManager(bridge, flags, syncer, target, log)
	server := status.NewServer(manager, cfg.Network.BlockchainMode, cfg.Server.Port, log)

	return &App{
		cfg:     cfg,
		bridge:  bridge,
		manager: manager,
		server:  server,
		flags:   flags,
		log:     log,
	}, nil
}

// Manager exposes the connection manager, mainly for tests and tooling.
func (a *App) Manager() *connect.Manager {
	return a.manager
}

// Start starts the provider watcher, restores any previous connection and
// serves the control API.
func (a *App) Start(ctx context.Context) error {
	go a.bridge.Watch(ctx)

	if err := a.manager.Restore(ctx); err != nil {
		a.log.Warn("Could not restore previous connection", "error", err)
	}

	go func() {
		a.log.Info("Control server listening", "port", a.cfg.Server.Port)
		if err := a.server.Start(); err != nil {
			a.log.Error("Control server failed", "error", err)
		}
	}()

	return nil
}

// Stop stops the application.
func (a *App) Stop(ctx context.Context) error {
	a.log.Info("Stopping walletbridge...")

	a.manager.Close()

	if closer, ok := a.flags.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			a.log.Warn("Failed to close flag store", "error", err)
		}
	}

	return a.server.Stop(ctx)
}
