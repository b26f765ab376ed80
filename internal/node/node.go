// Package node wires storage, the chain registry and the RPC server into a
// runnable maspd instance.
package node

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/Klingon-tech/klingnet-masp/config"
	klog "github.com/Klingon-tech/klingnet-masp/internal/log"
	"github.com/Klingon-tech/klingnet-masp/internal/notes"
	"github.com/Klingon-tech/klingnet-masp/internal/registry"
	"github.com/Klingon-tech/klingnet-masp/internal/rpc"
	"github.com/Klingon-tech/klingnet-masp/internal/storage"
	"github.com/rs/zerolog"
)

// Node is a fully-initialized maspd instance.
type Node struct {
	cfg    *config.Config
	logger zerolog.Logger

	// Storage
	db      storage.DB
	notes   *notes.Store
	bundles *registry.Store

	// Registry
	live   *registry.Live
	loadMu sync.Mutex

	// RPC
	rpcServer *rpc.Server
}

// New creates and initializes a new Node: logger, storage, registry and
// RPC server. The RPC listener is not bound until Start.
func New(cfg *config.Config) (*Node, error) {
	// ── 1. Init logger ──────────────────────────────────────────────
	logFile := cfg.Log.File
	if logFile == "" {
		logsDir := cfg.LogsDir()
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			return nil, fmt.Errorf("creating logs dir: %w", err)
		}
		logFile = filepath.Join(logsDir, "maspd.log")
	}
	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, logFile); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	logger := klog.Node

	logger.Info().
		Str("network", string(cfg.Network)).
		Bool("ledger", cfg.Ledger.Enabled).
		Int("max_inputs", cfg.Ledger.MaxInputs).
		Msg("Starting Klingnet MASP daemon")

	// ── 2. Open storage ─────────────────────────────────────────────
	db, err := storage.NewBadger(cfg.DBDir())
	if err != nil {
		return nil, fmt.Errorf("open database at %s: %w", cfg.DBDir(), err)
	}
	logger.Info().Str("path", cfg.DBDir()).Msg("Database opened")

	n := &Node{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		notes:   notes.NewStore(storage.NewPrefixDB(db, storage.NamespaceNotes)),
		bundles: registry.NewStore(storage.NewPrefixDB(db, storage.NamespaceRegistry)),
	}

	// ── 3. Chain registry ───────────────────────────────────────────
	reg, err := n.loadRegistry()
	switch {
	case errors.Is(err, registry.ErrNoBundle):
		logger.Warn().Msg("No registry file configured and none stored; starting with an empty registry")
		reg = registry.New(nil, nil)
	case err != nil:
		n.Stop()
		return nil, fmt.Errorf("load registry: %w", err)
	}
	n.live = registry.NewLive(reg)

	// ── 4. RPC server ───────────────────────────────────────────────
	if cfg.RPC.Enabled {
		addr := net.JoinHostPort(cfg.RPC.Addr, strconv.Itoa(cfg.RPC.Port))
		n.rpcServer = rpc.New(addr, n.notes, n.live, cfg.RPC)
		n.rpcServer.SetLedger(cfg.Ledger)
		n.rpcServer.SetReloader(n.loadRegistry)
	} else {
		logger.Warn().Msg("RPC disabled by config")
	}

	return n, nil
}

// Start binds the RPC listener.
func (n *Node) Start() error {
	if n.rpcServer != nil {
		if err := n.rpcServer.Start(); err != nil {
			return fmt.Errorf("start rpc: %w", err)
		}
		n.logger.Info().Str("addr", n.rpcServer.Addr()).Msg("RPC server started")
	}

	reg := n.live.Load()
	n.logger.Info().
		Str("digest", reg.Digest()).
		Strs("partitions", reg.PartitionNames()).
		Int("chains", len(reg.Chains())).
		Msg("Node started successfully")
	return nil
}

// Stop performs graceful shutdown in reverse order.
func (n *Node) Stop() {
	if n.rpcServer != nil {
		n.rpcServer.Stop()
	}
	if n.db != nil {
		n.db.Close()
	}

	n.logger.Info().Msg("Goodbye!")
}

// RPCAddr returns the address the RPC server is listening on.
func (n *Node) RPCAddr() string {
	if n.rpcServer == nil {
		return ""
	}
	return n.rpcServer.Addr()
}

// Registry returns the registry currently served.
func (n *Node) Registry() *registry.Registry {
	return n.live.Load()
}

// Notes returns the note snapshot store.
func (n *Node) Notes() *notes.Store {
	return n.notes
}

// Reload re-reads the registry from its source and swaps it in. It reports
// whether the registry content changed.
func (n *Node) Reload() (bool, error) {
	reg, err := n.loadRegistry()
	if err != nil {
		return false, err
	}
	changed := n.live.Store(reg)
	n.logger.Info().Str("digest", reg.Digest()).Bool("changed", changed).Msg("Registry reloaded")
	return changed, nil
}

// loadRegistry builds a registry from the configured file, storing the
// bundle for later starts, or from the stored bundle when no file is set.
func (n *Node) loadRegistry() (*registry.Registry, error) {
	n.loadMu.Lock()
	defer n.loadMu.Unlock()

	logger := klog.Registry
	var bundle *registry.Bundle

	if path := n.cfg.Registry.File; path != "" {
		done := klog.Benchmark("registry.LoadFile")
		b, err := registry.LoadFile(expandHome(path))
		done()
		if err != nil {
			return nil, err
		}
		if err := n.bundles.Save(b); err != nil {
			return nil, err
		}
		logger.Info().Str("file", path).Int("partitions", len(b.Partitions)).Int("ibc", len(b.IBC)).Msg("Registry file loaded")
		bundle = b
	} else {
		b, err := n.bundles.Load()
		if err != nil {
			return nil, err
		}
		logger.Info().Int("partitions", len(b.Partitions)).Msg("Registry loaded from database")
		bundle = b
	}

	return bundle.Reorder(n.cfg.Registry.Order).Registry(), nil
}
