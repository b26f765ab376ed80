// masp-cli is a command-line client for interacting with a maspd daemon.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Klingon-tech/klingnet-masp/config"
	"github.com/Klingon-tech/klingnet-masp/internal/notes"
	"github.com/Klingon-tech/klingnet-masp/internal/registry"
	"github.com/Klingon-tech/klingnet-masp/internal/rpc"
	"github.com/Klingon-tech/klingnet-masp/internal/rpcclient"
	"github.com/shopspring/decimal"
)

// globalOpts holds the flags accepted before the subcommand.
type globalOpts struct {
	rpcURL  string
	network string
	json    bool
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	opts, args := parseGlobal(os.Args[1:])
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	client := rpcclient.New(opts.rpcURL)
	out := newPrinter(os.Stdout, opts.json)
	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "snapshot":
		cmdSnapshot(client, out, cmdArgs)
	case "select":
		cmdSelect(client, out, cmdArgs)
	case "watch":
		cmdWatch(client, out, cmdArgs)
	case "latest":
		cmdLatest(client, out, cmdArgs)
	case "chains":
		cmdChains(client, out, cmdArgs)
	case "chain":
		cmdChain(client, out, cmdArgs)
	case "endpoint":
		cmdEndpoint(client, out, cmdArgs)
	case "denom":
		cmdDenom(client, out, cmdArgs)
	case "channels":
		cmdChannels(client, out, cmdArgs)
	case "counterpart":
		cmdCounterpart(client, out, cmdArgs)
	case "ibc-denom":
		cmdIBCDenom(client, out, cmdArgs)
	case "digest":
		cmdDigest(client, out, "registry_digest")
	case "reload":
		cmdDigest(client, out, "registry_reload")
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

// parseGlobal scans --rpc, --network and --json before the subcommand. The
// RPC URL defaults to the daemon's port for the chosen network.
func parseGlobal(args []string) (globalOpts, []string) {
	opts := globalOpts{network: string(config.Mainnet)}
	for len(args) > 0 {
		switch {
		case args[0] == "--rpc" && len(args) > 1:
			opts.rpcURL = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--rpc="):
			opts.rpcURL = args[0][len("--rpc="):]
			args = args[1:]
		case args[0] == "--network" && len(args) > 1:
			opts.network = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--network="):
			opts.network = args[0][len("--network="):]
			args = args[1:]
		case args[0] == "--json":
			opts.json = true
			args = args[1:]
		default:
			goto done
		}
	}

done:
	if opts.rpcURL == "" {
		opts.rpcURL = defaultRPCURL(opts.network)
	}
	return opts, args
}

func defaultRPCURL(network string) string {
	rpcCfg := config.Default(config.NetworkType(strings.ToLower(network))).RPC
	return fmt.Sprintf("http://%s:%d", rpcCfg.Addr, rpcCfg.Port)
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: masp-cli [global flags] <command> [flags]

Global flags:
  --rpc <url>         RPC endpoint (default: http://127.0.0.1:8575, testnet 8675)
  --network <net>     mainnet (default) or testnet
  --json              Print JSON even on a terminal

Notes:
  snapshot set --account <a> --notes <file.json|->
                                  Store the account's note snapshot
  snapshot get <account>          Show the stored snapshot
  select --asset <addr> (--account <a> | --notes <file>) (--fee <n> | --gas-limit <n> --gas-price <n>)
         [--max-inputs <n>] [--exponent <e>] [--places <p>]
                                  Select notes and compute the spend budget
  watch --account <a> --asset <addr> (--fee <n> | --gas-limit <n> --gas-price <n>)
                                  Track the account's selection on the daemon
  watch --account <a> --clear     Stop tracking an asset for the account
  latest <account>                Show the tracked selection

Registry:
  chains [--exclude a,b]          List chains in partition order
  chain <name|id>                 Show a chain descriptor
  endpoint <chain> [--protocol rpc|rest|grpc] [--index <n>]
                                  Pick an endpoint (index clamps to the last)
  denom <trace>                   Strip transfer/channel-N/ from a denom trace
  channels <local> <remote>       Show the channel pair between two chains
  counterpart --source <chain> --base <denom> --target <chain>
                                  Find the matching asset on another chain
  ibc-denom <port/channel/denom>  Compute the ibc/<hash> voucher denom
  ibc-denom --channel <c> --base <denom> [--port transfer]
  digest                          Show the registry digest
  reload                          Re-read the registry file on the daemon
`)
}

// ── snapshot ────────────────────────────────────────────────────────────

func cmdSnapshot(client *rpcclient.Client, out *printer, args []string) {
	if len(args) < 1 {
		fatal("Usage: masp-cli snapshot set|get ...")
	}
	switch args[0] {
	case "set":
		fs := flag.NewFlagSet("snapshot set", flag.ExitOnError)
		account := fs.String("account", "", "Shielded account")
		notesFile := fs.String("notes", "", "Notes JSON file (- for stdin)")
		fs.Parse(args[1:])

		if *account == "" || *notesFile == "" {
			fatal("Usage: masp-cli snapshot set --account <a> --notes <file.json|->")
		}
		noteList, err := readNotes(*notesFile)
		if err != nil {
			fatal("%v", err)
		}

		var res rpc.SnapshotResult
		if err := client.Call("notes_setSnapshot", rpc.SnapshotParam{Account: *account, Notes: noteList}, &res); err != nil {
			fatal("notes_setSnapshot: %v", err)
		}
		out.snapshotResult(&res)
	case "get":
		if len(args) < 2 {
			fatal("Usage: masp-cli snapshot get <account>")
		}
		var snap notes.Snapshot
		if err := client.Call("notes_getSnapshot", rpc.AccountParam{Account: args[1]}, &snap); err != nil {
			fatal("notes_getSnapshot: %v", err)
		}
		out.snapshot(&snap)
	default:
		fatal("Unknown snapshot command: %s", args[0])
	}
}

// ── select ──────────────────────────────────────────────────────────────

func cmdSelect(client *rpcclient.Client, out *printer, args []string) {
	fs := flag.NewFlagSet("select", flag.ExitOnError)
	asset := fs.String("asset", "", "Asset address to spend")
	account := fs.String("account", "", "Use the account's stored snapshot")
	notesFile := fs.String("notes", "", "Notes JSON file (- for stdin)")
	fee := fs.String("fee", "", "Fee in minimal denomination")
	gasLimit := fs.String("gas-limit", "", "Gas limit")
	gasPrice := fs.String("gas-price", "", "Gas price in minimal denomination")
	maxInputs := fs.Int("max-inputs", 0, "Maximum notes per transaction (default: daemon setting)")
	exponent := fs.Int("exponent", -1, "Display exponent of the asset")
	places := fs.Int("places", -1, "Display decimals (default: exponent)")
	fs.Parse(args)

	if *asset == "" || (*account == "" && *notesFile == "") {
		fatal("Usage: masp-cli select --asset <addr> (--account <a> | --notes <file>) --fee <n>")
	}

	params := rpc.SelectParam{Account: *account, Asset: *asset}
	if *notesFile != "" {
		noteList, err := readNotes(*notesFile)
		if err != nil {
			fatal("%v", err)
		}
		params.Notes = noteList
	}
	var err error
	params.Fee, params.Gas, err = parseFee(*fee, *gasLimit, *gasPrice)
	if err != nil {
		fatal("%v", err)
	}
	if isFlagSet(fs, "max-inputs") {
		params.MaxInputs = maxInputs
	}
	if *exponent >= 0 {
		e := int32(*exponent)
		params.Exponent = &e
		if *places >= 0 {
			p := int32(*places)
			params.Places = &p
		}
	}

	var res rpc.SelectResult
	if err := client.Call("notes_select", params, &res); err != nil {
		fatal("notes_select: %v", err)
	}
	out.selection(&res)
}

// ── watch / latest ──────────────────────────────────────────────────────

func cmdWatch(client *rpcclient.Client, out *printer, args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	account := fs.String("account", "", "Shielded account")
	asset := fs.String("asset", "", "Asset address to spend")
	fee := fs.String("fee", "", "Fee in minimal denomination")
	gasLimit := fs.String("gas-limit", "", "Gas limit")
	gasPrice := fs.String("gas-price", "", "Gas price in minimal denomination")
	clearSel := fs.Bool("clear", false, "Clear the tracked selection")
	fs.Parse(args)

	if *account == "" || (*asset == "" && !*clearSel) {
		fatal("Usage: masp-cli watch --account <a> --asset <addr> --fee <n>")
	}

	params := rpc.WatchParam{Account: *account}
	if !*clearSel {
		params.Asset = *asset
		var err error
		params.Fee, params.Gas, err = parseFee(*fee, *gasLimit, *gasPrice)
		if err != nil {
			fatal("%v", err)
		}
	}

	var res rpc.WatchResult
	if err := client.Call("notes_watch", params, &res); err != nil {
		fatal("notes_watch: %v", err)
	}
	out.watch(&res)
}

func cmdLatest(client *rpcclient.Client, out *printer, args []string) {
	if len(args) < 1 {
		fatal("Usage: masp-cli latest <account>")
	}
	var res rpc.WatchResult
	if err := client.Call("notes_latest", rpc.AccountParam{Account: args[0]}, &res); err != nil {
		fatal("notes_latest: %v", err)
	}
	out.watch(&res)
}

// ── chains ──────────────────────────────────────────────────────────────

func cmdChains(client *rpcclient.Client, out *printer, args []string) {
	fs := flag.NewFlagSet("chains", flag.ExitOnError)
	exclude := fs.String("exclude", "", "Comma-separated chain names to hide")
	fs.Parse(args)

	var list []rpc.ChainSummary
	if err := client.Call("registry_listChains", rpc.ListChainsParam{Exclude: splitList(*exclude)}, &list); err != nil {
		fatal("registry_listChains: %v", err)
	}
	out.chains(list)
}

func cmdChain(client *rpcclient.Client, out *printer, args []string) {
	if len(args) < 1 {
		fatal("Usage: masp-cli chain <name|id>")
	}

	// Names take precedence; fall back to a chain id lookup.
	var c registry.Chain
	err := client.Call("registry_getChainByName", rpc.NameParam{Name: args[0]}, &c)
	if rpcclient.IsCode(err, rpc.CodeNotFound) {
		err = client.Call("registry_getChainById", rpc.IDParam{ID: args[0]}, &c)
	}
	if err != nil {
		fatal("chain %s: %v", args[0], err)
	}
	out.chain(&c)
}

func cmdEndpoint(client *rpcclient.Client, out *printer, args []string) {
	if len(args) < 1 {
		fatal("Usage: masp-cli endpoint <chain> [--protocol rpc|rest|grpc] [--index <n>]")
	}
	fs := flag.NewFlagSet("endpoint", flag.ExitOnError)
	protocol := fs.String("protocol", string(registry.ProtocolRPC), "Endpoint protocol")
	index := fs.Int("index", 0, "Endpoint index (clamped to the last)")
	fs.Parse(args[1:])

	var res rpc.EndpointResult
	params := rpc.EndpointParam{Chain: args[0], Protocol: *protocol, Index: *index}
	if err := client.Call("registry_getEndpoint", params, &res); err != nil {
		fatal("registry_getEndpoint: %v", err)
	}
	out.endpoint(&res)
}

// ── denoms ──────────────────────────────────────────────────────────────

func cmdDenom(client *rpcclient.Client, out *printer, args []string) {
	if len(args) < 1 {
		fatal("Usage: masp-cli denom <trace>")
	}
	var res rpc.DenomResult
	if err := client.Call("registry_denomFromTrace", rpc.TraceParam{Path: args[0]}, &res); err != nil {
		fatal("registry_denomFromTrace: %v", err)
	}
	out.denom(&res)
}

func cmdIBCDenom(client *rpcclient.Client, out *printer, args []string) {
	var params rpc.IBCDenomParam
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		params.Path = args[0]
	} else {
		fs := flag.NewFlagSet("ibc-denom", flag.ExitOnError)
		port := fs.String("port", "transfer", "Port id")
		channel := fs.String("channel", "", "Channel id on the receiving chain")
		base := fs.String("base", "", "Base denom on the sending chain")
		fs.Parse(args)
		if *channel == "" || *base == "" {
			fatal("Usage: masp-cli ibc-denom --channel <c> --base <denom> [--port transfer]")
		}
		params.Port, params.Channel, params.Base = *port, *channel, *base
	}

	var res rpc.DenomResult
	if err := client.Call("registry_ibcDenom", params, &res); err != nil {
		fatal("registry_ibcDenom: %v", err)
	}
	out.denom(&res)
}

// ── IBC ─────────────────────────────────────────────────────────────────

func cmdChannels(client *rpcclient.Client, out *printer, args []string) {
	if len(args) < 2 {
		fatal("Usage: masp-cli channels <local> <remote>")
	}
	var res rpc.ChannelsResult
	if err := client.Call("registry_pairChannels", rpc.PairChannelsParam{Local: args[0], Remote: args[1]}, &res); err != nil {
		fatal("registry_pairChannels: %v", err)
	}
	out.channels(args[0], args[1], &res)
}

func cmdCounterpart(client *rpcclient.Client, out *printer, args []string) {
	fs := flag.NewFlagSet("counterpart", flag.ExitOnError)
	source := fs.String("source", "", "Chain holding the asset")
	base := fs.String("base", "", "Base denom of the asset on the source chain")
	target := fs.String("target", "", "Chain to search")
	fs.Parse(args)

	if *source == "" || *base == "" || *target == "" {
		fatal("Usage: masp-cli counterpart --source <chain> --base <denom> --target <chain>")
	}

	var asset registry.Asset
	params := rpc.CounterpartParam{SourceChain: *source, Base: *base, TargetChain: *target}
	if err := client.Call("registry_assetCounterpart", params, &asset); err != nil {
		fatal("registry_assetCounterpart: %v", err)
	}
	out.asset(&asset)
}

func cmdDigest(client *rpcclient.Client, out *printer, method string) {
	var res rpc.DigestResult
	if err := client.Call(method, nil, &res); err != nil {
		fatal("%s: %v", method, err)
	}
	out.digest(&res)
}

// ── Helpers ─────────────────────────────────────────────────────────────

// readNotes decodes a JSON array of notes from path, or stdin when path is "-".
func readNotes(path string) ([]notes.Note, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read notes: %w", err)
	}
	return decodeNotes(data)
}

// parseFee returns the fee, or the gas config when no fee is given.
func parseFee(fee, gasLimit, gasPrice string) (*decimal.Decimal, *notes.GasConfig, error) {
	if fee != "" {
		d, err := decimal.NewFromString(fee)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid fee: %w", err)
		}
		if d.IsNegative() {
			return nil, nil, errors.New("fee must not be negative")
		}
		return &d, nil, nil
	}
	if gasLimit == "" || gasPrice == "" {
		return nil, nil, errors.New("--fee or both --gas-limit and --gas-price are required")
	}
	limit, err := decimal.NewFromString(gasLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid gas limit: %w", err)
	}
	price, err := decimal.NewFromString(gasPrice)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid gas price: %w", err)
	}
	return nil, &notes.GasConfig{GasLimit: limit, GasPriceInMinDenom: price}, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// ── Error helper ────────────────────────────────────────────────────────

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
