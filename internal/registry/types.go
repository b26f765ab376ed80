// Package registry resolves chains, endpoints, IBC channels and asset
// counterparts from a chain-registry snapshot.
//
// A Registry is immutable once built. Reloading the registry means building
// a new one and swapping it in (see Live); no lookup result should be reused
// across a reload.
package registry

import "errors"

// Resolution errors. They indicate malformed or incomplete registry data.
var (
	ErrNoEndpointsAvailable = errors.New("no endpoints available")
	ErrNoMatchingSide       = errors.New("chain is on neither side of the IBC connection")
	ErrEmptyChannelList     = errors.New("no channel entry found in IBC connection")
	ErrNoConnection         = errors.New("no IBC connection between chains")
)

// Protocol names an API kind in a chain's endpoint lists.
type Protocol string

const (
	ProtocolRPC  Protocol = "rpc"
	ProtocolREST Protocol = "rest"
	ProtocolGRPC Protocol = "grpc"
)

// TraceTypeIBC marks a trace describing an IBC transfer path.
const TraceTypeIBC = "ibc"

// Endpoint is one API address of a chain.
type Endpoint struct {
	Address  string `json:"address" toml:"address" yaml:"address"`
	Provider string `json:"provider,omitempty" toml:"provider,omitempty" yaml:"provider,omitempty"`
}

// Chain describes one chain in the registry.
type Chain struct {
	Name         string                `json:"chain_name" toml:"chain_name" yaml:"chain_name"`
	ID           string                `json:"chain_id" toml:"chain_id" yaml:"chain_id"`
	PrettyName   string                `json:"pretty_name,omitempty" toml:"pretty_name,omitempty" yaml:"pretty_name,omitempty"`
	Bech32Prefix string                `json:"bech32_prefix,omitempty" toml:"bech32_prefix,omitempty" yaml:"bech32_prefix,omitempty"`
	APIs         map[string][]Endpoint `json:"apis,omitempty" toml:"apis,omitempty" yaml:"apis,omitempty"`
	Assets       []Asset               `json:"assets,omitempty" toml:"assets,omitempty" yaml:"assets,omitempty"`
}

// Endpoints returns the endpoint list for protocol, possibly empty.
func (c *Chain) Endpoints(p Protocol) []Endpoint {
	return c.APIs[string(p)]
}

// AssetsByAddress maps each asset that carries an on-chain address to
// itself. Assets without an address are left out.
func (c *Chain) AssetsByAddress() map[string]*Asset {
	out := make(map[string]*Asset)
	for i := range c.Assets {
		a := &c.Assets[i]
		if a.Address != "" {
			out[a.Address] = a
		}
	}
	return out
}

// AssetByBase returns the chain's asset with the given base denom.
func (c *Chain) AssetByBase(base string) (*Asset, bool) {
	for i := range c.Assets {
		if c.Assets[i].Base == base {
			return &c.Assets[i], true
		}
	}
	return nil, false
}

// DenomUnit is one denomination of an asset.
type DenomUnit struct {
	Denom    string `json:"denom" toml:"denom" yaml:"denom"`
	Exponent uint32 `json:"exponent" toml:"exponent" yaml:"exponent"`
}

// TraceCounterparty identifies where a traced asset came from.
type TraceCounterparty struct {
	ChainName string `json:"chain_name,omitempty" toml:"chain_name,omitempty" yaml:"chain_name,omitempty"`
	BaseDenom string `json:"base_denom" toml:"base_denom" yaml:"base_denom"`
	ChannelID string `json:"channel_id,omitempty" toml:"channel_id,omitempty" yaml:"channel_id,omitempty"`
}

// Trace records one hop of an asset's origin.
type Trace struct {
	Type         string            `json:"type" toml:"type" yaml:"type"`
	Counterparty TraceCounterparty `json:"counterparty" toml:"counterparty" yaml:"counterparty"`
}

// Asset is a chain-registry asset entry.
type Asset struct {
	Base       string      `json:"base" toml:"base" yaml:"base"`
	Symbol     string      `json:"symbol" toml:"symbol" yaml:"symbol"`
	Name       string      `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`
	Display    string      `json:"display,omitempty" toml:"display,omitempty" yaml:"display,omitempty"`
	Address    string      `json:"address,omitempty" toml:"address,omitempty" yaml:"address,omitempty"`
	DenomUnits []DenomUnit `json:"denom_units,omitempty" toml:"denom_units,omitempty" yaml:"denom_units,omitempty"`
	Traces     []Trace     `json:"traces,omitempty" toml:"traces,omitempty" yaml:"traces,omitempty"`
}

// IBCTrace returns the asset's first IBC trace.
func (a *Asset) IBCTrace() (*Trace, bool) {
	for i := range a.Traces {
		if a.Traces[i].Type == TraceTypeIBC {
			return &a.Traces[i], true
		}
	}
	return nil, false
}

// Exponent returns the exponent of the display denom unit, falling back to
// the highest exponent listed. Zero when the asset has no units.
func (a *Asset) Exponent() uint32 {
	var highest uint32
	for _, u := range a.DenomUnits {
		if a.Display != "" && u.Denom == a.Display {
			return u.Exponent
		}
		if u.Exponent > highest {
			highest = u.Exponent
		}
	}
	return highest
}

// ChainRef is one side of an IBC connection record.
type ChainRef struct {
	ChainName    string `json:"chain_name" toml:"chain_name" yaml:"chain_name"`
	ClientID     string `json:"client_id,omitempty" toml:"client_id,omitempty" yaml:"client_id,omitempty"`
	ConnectionID string `json:"connection_id,omitempty" toml:"connection_id,omitempty" yaml:"connection_id,omitempty"`
}

// ChannelEnd is the channel and port on one side of a channel pair.
type ChannelEnd struct {
	ChannelID string `json:"channel_id" toml:"channel_id" yaml:"channel_id"`
	PortID    string `json:"port_id" toml:"port_id" yaml:"port_id"`
}

// ChannelPair is one bilateral channel between the two sides of a
// connection.
type ChannelPair struct {
	ChainA   ChannelEnd `json:"chain_1" toml:"chain_1" yaml:"chain_1"`
	ChainB   ChannelEnd `json:"chain_2" toml:"chain_2" yaml:"chain_2"`
	Ordering string     `json:"ordering,omitempty" toml:"ordering,omitempty" yaml:"ordering,omitempty"`
	Version  string     `json:"version,omitempty" toml:"version,omitempty" yaml:"version,omitempty"`
}

// Connection is a bilateral IBC registry record. Which chain is stored as
// ChainA is arbitrary.
type Connection struct {
	ChainA   ChainRef      `json:"chain_1" toml:"chain_1" yaml:"chain_1"`
	ChainB   ChainRef      `json:"chain_2" toml:"chain_2" yaml:"chain_2"`
	Channels []ChannelPair `json:"channels" toml:"channels" yaml:"channels"`
}

// Involves reports whether chainName is on either side of the connection.
func (c *Connection) Involves(chainName string) bool {
	return c.ChainA.ChainName == chainName || c.ChainB.ChainName == chainName
}
