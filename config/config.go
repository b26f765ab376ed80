// Package config handles maspd configuration.
//
// Settings are resolved in layers: built-in defaults, then the maspd.conf
// file in the data directory, then command-line flags. The result is
// checked by Validate before the node starts.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// NetworkType identifies mainnet or testnet.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
)

// Config holds the daemon's runtime configuration.
type Config struct {
	// Core
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	// RPC server
	RPC RPCConfig

	// Chain registry source
	Registry RegistryConfig

	// Hardware signer limits for note selection
	Ledger LedgerConfig

	// Logging
	Log LogConfig
}

// RPCConfig holds RPC server settings.
type RPCConfig struct {
	Enabled     bool     `conf:"rpc.enabled"`
	Addr        string   `conf:"rpc.addr"`
	Port        int      `conf:"rpc.port"`
	AllowedIPs  []string `conf:"rpc.allowed"`
	CORSOrigins []string `conf:"rpc.cors"` // Allowed CORS origins ("*" = all).
}

// RegistryConfig says where the chain registry comes from.
type RegistryConfig struct {
	// File is a .json, .toml or .yaml registry bundle. When empty the last bundle
	// stored in the database is used.
	File string `conf:"registry.file"`
	// Order is the partition search order for name lookups.
	Order []string `conf:"registry.order"`
}

// LedgerConfig holds hardware signer settings.
type LedgerConfig struct {
	Enabled   bool `conf:"ledger.enabled"`
	MaxInputs int  `conf:"ledger.maxinputs"` // Max shielded inputs per transaction.
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.klingnet-masp
//	macOS:   ~/Library/Application Support/KlingnetMASP
//	Windows: %APPDATA%\KlingnetMASP
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".klingnet-masp"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "KlingnetMASP")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "KlingnetMASP")
		}
		return filepath.Join(home, "AppData", "Roaming", "KlingnetMASP")
	default:
		return filepath.Join(home, ".klingnet-masp")
	}
}

// NetworkDataDir returns the network-specific data directory.
func (c *Config) NetworkDataDir() string {
	return filepath.Join(c.DataDir, string(c.Network))
}

// DBDir returns the database directory.
func (c *Config) DBDir() string {
	return filepath.Join(c.NetworkDataDir(), "db")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "maspd.conf")
}
