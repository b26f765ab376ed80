// maspd serves shielded-note selection and chain-registry resolution over
// JSON-RPC.
//
// Usage:
//
//	maspd [--registry=<file>] [--ledger-max-inputs=N]  Run daemon
//	maspd --help                                       Show help
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Klingon-tech/klingnet-masp/config"
	"github.com/Klingon-tech/klingnet-masp/internal/node"
)

func main() {
	cfg, _, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	n, err := node.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := n.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		n.Stop()
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	for sig := range sigCh {
		if sig != syscall.SIGHUP {
			break
		}
		// SIGHUP re-reads the registry file without a restart.
		if _, err := n.Reload(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: reload registry: %v\n", err)
		}
	}

	n.Stop()
}
