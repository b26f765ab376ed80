package config

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultMainnet()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default mainnet config invalid: %v", err)
	}
	if cfg.Ledger.MaxInputs != 4 {
		t.Errorf("ledger.maxinputs = %d, want 4", cfg.Ledger.MaxInputs)
	}
	if len(cfg.Registry.Order) != 2 || cfg.Registry.Order[0] != "ibc" {
		t.Errorf("registry.order = %v, want [ibc native]", cfg.Registry.Order)
	}

	tn := Default(Testnet)
	if tn.Network != Testnet || tn.RPC.Port == cfg.RPC.Port {
		t.Errorf("testnet defaults = %s:%d", tn.Network, tn.RPC.Port)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maspd.conf")
	content := `# comment
network = testnet
rpc.port = 9000
rpc.allowed = 127.0.0.1, 10.0.0.2
registry.file = "/etc/masp/registry.toml"
registry.order = native,ibc
ledger.maxinputs = 8
ledger.enabled = no
log.json = on
unknown.key = ignored
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	cfg := DefaultMainnet()
	if err := ApplyFileConfig(cfg, values); err != nil {
		t.Fatalf("ApplyFileConfig: %v", err)
	}

	if cfg.Network != Testnet {
		t.Errorf("network = %s", cfg.Network)
	}
	if cfg.RPC.Port != 9000 {
		t.Errorf("rpc.port = %d", cfg.RPC.Port)
	}
	if len(cfg.RPC.AllowedIPs) != 2 || cfg.RPC.AllowedIPs[1] != "10.0.0.2" {
		t.Errorf("rpc.allowed = %v", cfg.RPC.AllowedIPs)
	}
	if cfg.Registry.File != "/etc/masp/registry.toml" {
		t.Errorf("registry.file = %q (quotes should be stripped)", cfg.Registry.File)
	}
	if len(cfg.Registry.Order) != 2 || cfg.Registry.Order[0] != "native" {
		t.Errorf("registry.order = %v", cfg.Registry.Order)
	}
	if cfg.Ledger.MaxInputs != 8 || cfg.Ledger.Enabled {
		t.Errorf("ledger = %+v", cfg.Ledger)
	}
	if !cfg.Log.JSON {
		t.Error("log.json should be true")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	values, err := LoadFile(filepath.Join(t.TempDir(), "nope.conf"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("values = %v", values)
	}
}

func TestLoadFile_BadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maspd.conf")
	if err := os.WriteFile(path, []byte("network = mainnet\njust words\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for line without '='")
	}
}

func TestApplyFileConfig_BadNumber(t *testing.T) {
	cfg := DefaultMainnet()
	err := ApplyFileConfig(cfg, map[string]string{"ledger.maxinputs": "four"})
	if err == nil {
		t.Fatal("expected error for non-numeric ledger.maxinputs")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad network", func(c *Config) { c.Network = "devnet" }},
		{"bad port", func(c *Config) { c.RPC.Port = 70000 }},
		{"zero max inputs", func(c *Config) { c.Ledger.MaxInputs = 0 }},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }},
		{"bad registry ext", func(c *Config) { c.Registry.File = "registry.xml" }},
		{"empty order entry", func(c *Config) { c.Registry.Order = []string{"ibc", " "} }},
		{"duplicate order", func(c *Config) { c.Registry.Order = []string{"ibc", "ibc"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultMainnet()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if err := Validate(nil); err == nil {
		t.Error("nil config should fail")
	}

	cfg := DefaultMainnet()
	cfg.Registry.Order = []string{" native ", "ibc"}
	cfg.Registry.File = "Registry.TOML"
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Registry.Order[0] != "native" {
		t.Errorf("order not trimmed: %q", cfg.Registry.Order[0])
	}
}

func TestParseArgs(t *testing.T) {
	f, err := ParseArgs([]string{
		"--testnet",
		"--rpc=false",
		"--registry", "reg.json",
		"--registry-order", "native,ibc",
		"--ledger-max-inputs", "2",
		"--log-json",
	}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if f.Network != "testnet" {
		t.Errorf("network = %q", f.Network)
	}
	if !f.SetRPC || f.RPC {
		t.Errorf("rpc set=%v value=%v", f.SetRPC, f.RPC)
	}
	if f.SetLedger {
		t.Error("ledger flag was not given")
	}

	cfg := DefaultMainnet()
	ApplyFlags(cfg, f)
	if cfg.Network != Testnet || cfg.RPC.Enabled {
		t.Errorf("network=%s rpc=%v", cfg.Network, cfg.RPC.Enabled)
	}
	if cfg.Registry.File != "reg.json" || cfg.Registry.Order[0] != "native" {
		t.Errorf("registry = %+v", cfg.Registry)
	}
	if cfg.Ledger.MaxInputs != 2 || !cfg.Ledger.Enabled {
		t.Errorf("ledger = %+v", cfg.Ledger)
	}
	if !cfg.Log.JSON {
		t.Error("log.json should be true")
	}
}

func TestParseArgs_Errors(t *testing.T) {
	if _, err := ParseArgs([]string{"--no-such-flag"}, &bytes.Buffer{}); err == nil {
		t.Error("unknown flag should fail")
	}
	if _, err := ParseArgs([]string{"stray", "--rpc-port", "1"}, &bytes.Buffer{}); err == nil {
		t.Error("flag after positional argument should fail")
	}
	var out bytes.Buffer
	_, err := ParseArgs([]string{"--help"}, &out)
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		t.Errorf("--help err = %v", err)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	f, err := ParseArgs([]string{"--datadir", dir, "--rpc-port", "9100"}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := Resolve(f)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.RPC.Port != 9100 {
		t.Errorf("rpc.port = %d, flag should win", cfg.RPC.Port)
	}
	if _, err := os.Stat(cfg.ConfigFile()); err != nil {
		t.Errorf("default config not written: %v", err)
	}
	if _, err := os.Stat(cfg.DBDir()); err != nil {
		t.Errorf("db dir not created: %v", err)
	}

	// The written default file must round-trip through the loader.
	values, err := LoadFile(cfg.ConfigFile())
	if err != nil {
		t.Fatal(err)
	}
	check := DefaultMainnet()
	if err := ApplyFileConfig(check, values); err != nil {
		t.Fatal(err)
	}
	if err := Validate(check); err != nil {
		t.Errorf("default config file invalid: %v", err)
	}
}

func TestResolve_FileThenFlags(t *testing.T) {
	dir := t.TempDir()
	conf := filepath.Join(dir, "custom.conf")
	if err := os.WriteFile(conf, []byte("ledger.maxinputs = 6\nlog.level = debug\n"), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := ParseArgs([]string{"--datadir", dir, "-c", conf, "--log-level", "warn"}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := Resolve(f)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Ledger.MaxInputs != 6 {
		t.Errorf("ledger.maxinputs = %d, want 6 from file", cfg.Ledger.MaxInputs)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want flag value", cfg.Log.Level)
	}
}
