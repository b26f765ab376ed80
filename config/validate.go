package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Validate checks the config for obvious operator mistakes. It normalizes
// registry.order in place.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Network != Mainnet && cfg.Network != Testnet {
		return fmt.Errorf("network must be %q or %q", Mainnet, Testnet)
	}
	if cfg.RPC.Port < 0 || cfg.RPC.Port > 65535 {
		return fmt.Errorf("rpc.port must be in range [0, 65535]")
	}
	if cfg.Ledger.MaxInputs < 1 {
		return fmt.Errorf("ledger.maxinputs must be at least 1")
	}
	switch cfg.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error")
	}
	if f := cfg.Registry.File; f != "" {
		switch strings.ToLower(filepath.Ext(f)) {
		case ".json", ".toml", ".yaml", ".yml":
		default:
			return fmt.Errorf("registry.file must end in .json, .toml or .yaml")
		}
	}
	return validateOrder(cfg.Registry.Order)
}

func validateOrder(order []string) error {
	seen := make(map[string]struct{}, len(order))
	for i, name := range order {
		s := strings.TrimSpace(name)
		if s == "" {
			return fmt.Errorf("registry.order[%d] is empty", i)
		}
		if _, ok := seen[s]; ok {
			return fmt.Errorf("registry.order has duplicate partition %q", s)
		}
		seen[s] = struct{}{}
		order[i] = s
	}
	return nil
}
