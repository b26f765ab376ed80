package registry

import (
	"fmt"
	"regexp"
	"strings"

	transfertypes "github.com/cosmos/ibc-go/v7/modules/apps/transfer/types"
)

// EndpointByIndex picks the chain's protocol endpoint at index for
// round-robin rotation. An index past the end is clamped to the last
// endpoint, and a negative one to the first. The requested index is echoed
// back unchanged so callers can tell the list is exhausted and stop rotating.
func EndpointByIndex(chain *Chain, p Protocol, index int) (Endpoint, int, error) {
	endpoints := chain.Endpoints(p)
	if len(endpoints) == 0 {
		return Endpoint{}, index, fmt.Errorf("%w: no %s endpoints for %s", ErrNoEndpointsAvailable, p, chain.Name)
	}
	effective := index
	if effective > len(endpoints)-1 {
		effective = len(endpoints) - 1
	}
	if effective < 0 {
		effective = 0
	}
	return endpoints[effective], index, nil
}

// RPCByIndex is EndpointByIndex for RPC endpoints.
func (c *Chain) RPCByIndex(index int) (Endpoint, int, error) {
	return EndpointByIndex(c, ProtocolRPC, index)
}

// RESTByIndex is EndpointByIndex for REST endpoints.
func (c *Chain) RESTByIndex(index int) (Endpoint, int, error) {
	return EndpointByIndex(c, ProtocolREST, index)
}

var channelSegment = regexp.MustCompile(`^channel-\d+/`)

// DenomFromTrace strips a leading "transfer/" and then a leading
// "channel-<digits>/" from an IBC denom path. Both are optional; anything
// else is returned unchanged. Only a single hop is removed, and the channel
// id is not validated beyond being numeric.
func DenomFromTrace(path string) string {
	out := strings.TrimPrefix(path, "transfer/")
	if loc := channelSegment.FindStringIndex(out); loc != nil {
		out = out[loc[1]:]
	}
	return out
}

// PairChannels returns the channel id on localChainName's side of the
// connection and the channel id on the other side, using the first channel
// pair. The result does not depend on which side was stored as ChainA.
// An empty channel list is reported before a missing side.
func PairChannels(localChainName string, conn *Connection) (localChannel, remoteChannel string, err error) {
	if len(conn.Channels) == 0 {
		return "", "", fmt.Errorf("%w: %s <-> %s", ErrEmptyChannelList, conn.ChainA.ChainName, conn.ChainB.ChainName)
	}
	ch := conn.Channels[0]
	switch localChainName {
	case conn.ChainA.ChainName:
		return ch.ChainA.ChannelID, ch.ChainB.ChannelID, nil
	case conn.ChainB.ChainName:
		return ch.ChainB.ChannelID, ch.ChainA.ChannelID, nil
	default:
		return "", "", fmt.Errorf("%w: %s not in %s <-> %s", ErrNoMatchingSide,
			localChainName, conn.ChainA.ChainName, conn.ChainB.ChainName)
	}
}

// AssetCounterpart finds source's representation among candidates, in
// this order:
//  1. the first candidate whose base is source's IBC trace base_denom;
//  2. the first candidate whose IBC trace base_denom is source's base;
//  3. the first candidate with the same base as source.
//
// This is best-effort matching on denom strings, not a verified trace.
func AssetCounterpart(source *Asset, candidates []Asset) (*Asset, bool) {
	if trace, ok := source.IBCTrace(); ok && trace.Counterparty.BaseDenom != "" {
		for i := range candidates {
			if candidates[i].Base == trace.Counterparty.BaseDenom {
				return &candidates[i], true
			}
		}
	}
	for i := range candidates {
		if trace, ok := candidates[i].IBCTrace(); ok && trace.Counterparty.BaseDenom == source.Base {
			return &candidates[i], true
		}
	}
	for i := range candidates {
		if candidates[i].Base == source.Base {
			return &candidates[i], true
		}
	}
	return nil, false
}

// IBCDenom returns the ibc/<hash> voucher denom baseDenom gets after
// crossing the given port and channel.
func IBCDenom(port, channel, baseDenom string) string {
	return IBCDenomFromPath(transfertypes.GetPrefixedDenom(port, channel, baseDenom))
}

// IBCDenomFromPath hashes a full "port/channel/.../denom" trace. A path
// without hops is returned as is.
func IBCDenomFromPath(path string) string {
	return transfertypes.ParseDenomTrace(path).IBCDenom()
}
