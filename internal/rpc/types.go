package rpc

import (
	"github.com/Klingon-tech/klingnet-masp/internal/notes"
	"github.com/Klingon-tech/klingnet-masp/internal/registry"
	"github.com/shopspring/decimal"
)

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeNotFound       = -32000
	CodeRegistryData   = -32001 // Registry entry is incomplete or malformed.
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      interface{} `json:"id"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ── Param types ─────────────────────────────────────────────────────────

// AccountParam is used by endpoints that take a shielded account.
type AccountParam struct {
	Account string `json:"account"`
}

// SnapshotParam is used by notes_setSnapshot.
type SnapshotParam struct {
	Account string       `json:"account"`
	Notes   []notes.Note `json:"notes"`
}

// SelectParam is used by notes_select. Notes come inline or from the stored
// snapshot of Account. The fee is Fee when set, otherwise Gas.Fee().
type SelectParam struct {
	Account   string           `json:"account,omitempty"`
	Notes     []notes.Note     `json:"notes,omitempty"`
	Asset     string           `json:"asset"`
	Fee       *decimal.Decimal `json:"fee,omitempty"`
	Gas       *notes.GasConfig `json:"gas,omitempty"`
	MaxInputs *int             `json:"max_inputs,omitempty"`
	Exponent  *int32           `json:"exponent,omitempty"` // Display exponent; enables Display.
	Places    *int32           `json:"places,omitempty"`   // Display decimals (default: exponent).
}

// WatchParam is used by notes_watch.
type WatchParam struct {
	Account string           `json:"account"`
	Asset   string           `json:"asset"`
	Fee     *decimal.Decimal `json:"fee,omitempty"`
	Gas     *notes.GasConfig `json:"gas,omitempty"`
}

// ListChainsParam is used by registry_listChains.
type ListChainsParam struct {
	Exclude []string `json:"exclude,omitempty"`
}

// NameParam is used by registry_getChainByName.
type NameParam struct {
	Name string `json:"name"`
}

// IDParam is used by registry_getChainById.
type IDParam struct {
	ID string `json:"id"`
}

// EndpointParam is used by registry_getEndpoint.
type EndpointParam struct {
	Chain    string `json:"chain"`
	Protocol string `json:"protocol,omitempty"` // rpc (default), rest or grpc.
	Index    int    `json:"index"`
}

// TraceParam is used by registry_denomFromTrace.
type TraceParam struct {
	Path string `json:"path"`
}

// PairChannelsParam is used by registry_pairChannels.
type PairChannelsParam struct {
	Local  string `json:"local"`
	Remote string `json:"remote"`
}

// CounterpartParam is used by registry_assetCounterpart.
type CounterpartParam struct {
	SourceChain string `json:"source_chain"`
	Base        string `json:"base"`
	TargetChain string `json:"target_chain"`
}

// IBCDenomParam is used by registry_ibcDenom. Path, when set, is a full
// "port/channel/.../denom" trace and the other fields are ignored.
type IBCDenomParam struct {
	Port    string `json:"port,omitempty"`
	Channel string `json:"channel,omitempty"`
	Base    string `json:"base,omitempty"`
	Path    string `json:"path,omitempty"`
}

// ── Result types ────────────────────────────────────────────────────────

// SnapshotResult is returned by notes_setSnapshot.
type SnapshotResult struct {
	Account     string `json:"account"`
	Fingerprint string `json:"fingerprint"`
	Notes       int    `json:"notes"`
	Changed     bool   `json:"changed"`
}

// SelectResult is returned by notes_select.
type SelectResult struct {
	Selected         []notes.Note    `json:"selected"`
	AvailableToSpend decimal.Decimal `json:"available_to_spend"`
	Total            decimal.Decimal `json:"total"`
	Candidates       int             `json:"candidates"`
	MaxInputs        int             `json:"max_inputs"`
	Truncated        bool            `json:"truncated"`
	Insufficient     bool            `json:"insufficient"`
	Display          string          `json:"display,omitempty"`
}

// NewSelectResult flattens a selection for the wire.
func NewSelectResult(r notes.SelectionResult) *SelectResult {
	return &SelectResult{
		Selected:         r.Selected,
		AvailableToSpend: r.AvailableToSpend,
		Total:            r.Total(),
		Candidates:       r.Candidates,
		MaxInputs:        r.MaxInputs,
		Truncated:        r.Truncated(),
		Insufficient:     r.Insufficient(),
	}
}

// WatchResult is returned by notes_watch and notes_latest.
type WatchResult struct {
	Account    string        `json:"account"`
	Generation uint64        `json:"generation"`
	Ready      bool          `json:"ready"`
	Selection  *SelectResult `json:"selection,omitempty"`
}

// ChainSummary is one entry of registry_listChains.
type ChainSummary struct {
	Name       string `json:"chain_name"`
	ID         string `json:"chain_id"`
	PrettyName string `json:"pretty_name,omitempty"`
	RPC        int    `json:"rpc"`
	REST       int    `json:"rest"`
	Assets     int    `json:"assets"`
}

// NewChainSummary summarizes a chain.
func NewChainSummary(c *registry.Chain) ChainSummary {
	return ChainSummary{
		Name:       c.Name,
		ID:         c.ID,
		PrettyName: c.PrettyName,
		RPC:        len(c.Endpoints(registry.ProtocolRPC)),
		REST:       len(c.Endpoints(registry.ProtocolREST)),
		Assets:     len(c.Assets),
	}
}

// EndpointResult is returned by registry_getEndpoint.
type EndpointResult struct {
	Chain    string `json:"chain"`
	Protocol string `json:"protocol"`
	Address  string `json:"address"`
	Provider string `json:"provider,omitempty"`
	Index    int    `json:"index"` // Echo of the requested index.
}

// DenomResult is returned by registry_denomFromTrace and registry_ibcDenom.
type DenomResult struct {
	Denom string `json:"denom"`
}

// ChannelsResult is returned by registry_pairChannels.
type ChannelsResult struct {
	LocalChannel  string `json:"local_channel"`
	RemoteChannel string `json:"remote_channel"`
}

// DigestResult is returned by registry_digest and registry_reload.
type DigestResult struct {
	Digest     string   `json:"digest"`
	Partitions []string `json:"partitions"`
	Chains     int      `json:"chains"`
	Changed    bool     `json:"changed,omitempty"`
}
