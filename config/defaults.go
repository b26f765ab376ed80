package config

import (
	"github.com/Klingon-tech/klingnet-masp/internal/notes"
	"github.com/Klingon-tech/klingnet-masp/internal/registry"
)

// DefaultMainnet returns the default configuration for mainnet.
func DefaultMainnet() *Config {
	return &Config{
		Network: Mainnet,
		DataDir: DefaultDataDir(),
		RPC: RPCConfig{
			Enabled:    true,
			Addr:       "127.0.0.1",
			Port:       8575,
			AllowedIPs: []string{"127.0.0.1"},
		},
		Registry: RegistryConfig{
			Order: []string{registry.PartitionIBC, registry.PartitionNative},
		},
		Ledger: LedgerConfig{
			Enabled:   true,
			MaxInputs: notes.DefaultLedgerMaxInputs,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// DefaultTestnet returns the default configuration for testnet.
func DefaultTestnet() *Config {
	cfg := DefaultMainnet()
	cfg.Network = Testnet
	cfg.RPC.Port = 8675
	return cfg
}

// Default returns the default configuration for the given network.
func Default(network NetworkType) *Config {
	switch network {
	case Testnet:
		return DefaultTestnet()
	default:
		return DefaultMainnet()
	}
}
