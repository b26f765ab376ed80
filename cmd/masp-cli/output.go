package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Klingon-tech/klingnet-masp/internal/notes"
	"github.com/Klingon-tech/klingnet-masp/internal/registry"
	"github.com/Klingon-tech/klingnet-masp/internal/rpc"
	"golang.org/x/term"
)

// printer renders results as aligned text on a terminal and as indented JSON
// when piped or when --json is given.
type printer struct {
	w    io.Writer
	json bool
}

func newPrinter(f *os.File, forceJSON bool) *printer {
	return &printer{
		w:    f,
		json: forceJSON || !term.IsTerminal(int(f.Fd())),
	}
}

// emit writes v as JSON and reports true when the printer is in JSON mode.
func (p *printer) emit(v interface{}) bool {
	if !p.json {
		return false
	}
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fatal("encode output: %v", err)
	}
	return true
}

func (p *printer) table() *tabwriter.Writer {
	return tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
}

func (p *printer) snapshotResult(res *rpc.SnapshotResult) {
	if p.emit(res) {
		return
	}
	fmt.Fprintf(p.w, "Account:      %s\n", res.Account)
	fmt.Fprintf(p.w, "Notes:        %d\n", res.Notes)
	fmt.Fprintf(p.w, "Fingerprint:  %s\n", res.Fingerprint)
	if res.Changed {
		fmt.Fprintln(p.w, "Status:       updated")
	} else {
		fmt.Fprintln(p.w, "Status:       unchanged")
	}
}

func (p *printer) snapshot(snap *notes.Snapshot) {
	if p.emit(snap) {
		return
	}
	fmt.Fprintf(p.w, "Account:      %s\n", snap.Account)
	fmt.Fprintf(p.w, "Fingerprint:  %s\n", snap.Fingerprint)
	if snap.SyncedAt > 0 {
		ts := time.Unix(snap.SyncedAt, 0).UTC()
		fmt.Fprintf(p.w, "Synced:       %s\n", ts.Format("2006-01-02 15:04:05 UTC"))
	}
	p.noteTable(snap.Notes)
}

func (p *printer) noteTable(list []notes.Note) {
	if len(list) == 0 {
		fmt.Fprintln(p.w, "No notes.")
		return
	}
	tw := p.table()
	fmt.Fprintln(tw, "#\tASSET\tVALUE")
	for i, n := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i, n.AssetAddress, n.Value.String())
	}
	tw.Flush()
}

func (p *printer) selection(res *rpc.SelectResult) {
	if p.emit(res) {
		return
	}
	p.noteTable(res.Selected)
	fmt.Fprintf(p.w, "Total:        %s\n", res.Total.String())
	fmt.Fprintf(p.w, "Spendable:    %s\n", res.AvailableToSpend.String())
	if res.Display != "" {
		fmt.Fprintf(p.w, "Display:      %s\n", res.Display)
	}
	fmt.Fprintf(p.w, "Inputs:       %d of %d (max %d)\n", len(res.Selected), res.Candidates, res.MaxInputs)
	if res.Insufficient {
		fmt.Fprintln(p.w, "Warning: selected notes do not cover the fee")
	}
	if res.Truncated {
		fmt.Fprintln(p.w, "Note: more notes remain; you can spend more after this transaction")
	}
}

func (p *printer) watch(res *rpc.WatchResult) {
	if p.emit(res) {
		return
	}
	fmt.Fprintf(p.w, "Account:      %s\n", res.Account)
	fmt.Fprintf(p.w, "Generation:   %d\n", res.Generation)
	if !res.Ready || res.Selection == nil {
		fmt.Fprintln(p.w, "Selection:    none")
		return
	}
	p.selection(res.Selection)
}

func (p *printer) chains(list []rpc.ChainSummary) {
	if p.emit(list) {
		return
	}
	if len(list) == 0 {
		fmt.Fprintln(p.w, "No chains.")
		return
	}
	tw := p.table()
	fmt.Fprintln(tw, "NAME\tCHAIN ID\tRPC\tREST\tASSETS")
	for _, c := range list {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n", c.Name, c.ID, c.RPC, c.REST, c.Assets)
	}
	tw.Flush()
}

func (p *printer) chain(c *registry.Chain) {
	if p.emit(c) {
		return
	}
	fmt.Fprintf(p.w, "Name:         %s\n", c.Name)
	fmt.Fprintf(p.w, "Chain ID:     %s\n", c.ID)
	if c.PrettyName != "" {
		fmt.Fprintf(p.w, "Pretty name:  %s\n", c.PrettyName)
	}
	for _, proto := range []registry.Protocol{registry.ProtocolRPC, registry.ProtocolREST, registry.ProtocolGRPC} {
		for i, ep := range c.Endpoints(proto) {
			fmt.Fprintf(p.w, "%-5s [%d]     %s\n", strings.ToUpper(string(proto)), i, ep.Address)
		}
	}
	if len(c.Assets) == 0 {
		return
	}
	fmt.Fprintln(p.w)
	tw := p.table()
	fmt.Fprintln(tw, "SYMBOL\tBASE\tEXP\tADDRESS")
	for i := range c.Assets {
		a := &c.Assets[i]
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", a.Symbol, a.Base, a.Exponent(), a.Address)
	}
	tw.Flush()
}

func (p *printer) asset(a *registry.Asset) {
	if p.emit(a) {
		return
	}
	fmt.Fprintf(p.w, "Symbol:       %s\n", a.Symbol)
	fmt.Fprintf(p.w, "Base:         %s\n", a.Base)
	fmt.Fprintf(p.w, "Exponent:     %d\n", a.Exponent())
	if a.Address != "" {
		fmt.Fprintf(p.w, "Address:      %s\n", a.Address)
	}
	if tr, ok := a.IBCTrace(); ok {
		fmt.Fprintf(p.w, "IBC origin:   %s (%s via %s)\n",
			tr.Counterparty.BaseDenom, tr.Counterparty.ChainName, tr.Counterparty.ChannelID)
	}
}

func (p *printer) endpoint(res *rpc.EndpointResult) {
	if p.emit(res) {
		return
	}
	fmt.Fprintln(p.w, res.Address)
}

func (p *printer) denom(res *rpc.DenomResult) {
	if p.emit(res) {
		return
	}
	fmt.Fprintln(p.w, res.Denom)
}

func (p *printer) channels(local, remote string, res *rpc.ChannelsResult) {
	if p.emit(res) {
		return
	}
	tw := p.table()
	fmt.Fprintln(tw, "CHAIN\tCHANNEL")
	fmt.Fprintf(tw, "%s\t%s\n", local, res.LocalChannel)
	fmt.Fprintf(tw, "%s\t%s\n", remote, res.RemoteChannel)
	tw.Flush()
}

func (p *printer) digest(res *rpc.DigestResult) {
	if p.emit(res) {
		return
	}
	fmt.Fprintf(p.w, "Digest:       %s\n", res.Digest)
	fmt.Fprintf(p.w, "Partitions:   %s\n", strings.Join(res.Partitions, ", "))
	fmt.Fprintf(p.w, "Chains:       %d\n", res.Chains)
	if res.Changed {
		fmt.Fprintln(p.w, "Status:       reloaded")
	}
}

// decodeNotes accepts a JSON array of notes, or an object with a "notes"
// array as written by snapshot get --json.
func decodeNotes(data []byte) ([]notes.Note, error) {
	var list []notes.Note
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var snap notes.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}
	if snap.Notes == nil {
		return nil, fmt.Errorf("decode notes: no notes array")
	}
	return snap.Notes, nil
}
