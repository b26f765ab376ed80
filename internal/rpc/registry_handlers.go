package rpc

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/klingnet-masp/internal/registry"
)

// ── Registry endpoints ──────────────────────────────────────────────────

func (s *Server) currentRegistry() (*registry.Registry, *Error) {
	if s.registry == nil {
		return nil, &Error{Code: CodeInternalError, Message: "registry not loaded"}
	}
	r := s.registry.Load()
	if r == nil {
		return nil, &Error{Code: CodeInternalError, Message: "registry not loaded"}
	}
	return r, nil
}

// registryError maps resolver errors onto RPC codes: data problems in the
// registry get CodeRegistryData, missing records CodeNotFound.
func registryError(err error) *Error {
	switch {
	case errors.Is(err, registry.ErrNoEndpointsAvailable),
		errors.Is(err, registry.ErrNoMatchingSide),
		errors.Is(err, registry.ErrEmptyChannelList):
		return &Error{Code: CodeRegistryData, Message: err.Error()}
	case errors.Is(err, registry.ErrNoConnection):
		return &Error{Code: CodeNotFound, Message: err.Error()}
	default:
		return &Error{Code: CodeInternalError, Message: err.Error()}
	}
}

func (s *Server) handleRegistryListChains(req *Request) (interface{}, *Error) {
	r, rpcErr := s.currentRegistry()
	if rpcErr != nil {
		return nil, rpcErr
	}
	var params ListChainsParam
	if err := parseOptionalParams(req, &params); err != nil {
		return nil, err
	}

	exclude := make(map[string]struct{}, len(params.Exclude))
	for _, name := range params.Exclude {
		exclude[name] = struct{}{}
	}
	chains := r.AvailableChains(func(c *registry.Chain) bool {
		_, skip := exclude[c.Name]
		return skip
	})

	out := make([]ChainSummary, 0, len(chains))
	for _, c := range chains {
		out = append(out, NewChainSummary(c))
	}
	return out, nil
}

func (s *Server) handleRegistryGetChainByName(req *Request) (interface{}, *Error) {
	r, rpcErr := s.currentRegistry()
	if rpcErr != nil {
		return nil, rpcErr
	}
	var params NameParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	c, ok := r.ChainByName(params.Name)
	if !ok {
		return nil, &Error{Code: CodeNotFound, Message: fmt.Sprintf("chain %q not found", params.Name)}
	}
	return c, nil
}

func (s *Server) handleRegistryGetChainByID(req *Request) (interface{}, *Error) {
	r, rpcErr := s.currentRegistry()
	if rpcErr != nil {
		return nil, rpcErr
	}
	var params IDParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	c, ok := r.ChainByID(params.ID)
	if !ok {
		return nil, &Error{Code: CodeNotFound, Message: fmt.Sprintf("chain id %q not found", params.ID)}
	}
	return c, nil
}

func (s *Server) handleRegistryGetEndpoint(req *Request) (interface{}, *Error) {
	r, rpcErr := s.currentRegistry()
	if rpcErr != nil {
		return nil, rpcErr
	}
	var params EndpointParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}

	proto := registry.Protocol(params.Protocol)
	switch proto {
	case "":
		proto = registry.ProtocolRPC
	case registry.ProtocolRPC, registry.ProtocolREST, registry.ProtocolGRPC:
	default:
		return nil, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("unknown protocol %q", params.Protocol)}
	}

	c, ok := r.ChainByName(params.Chain)
	if !ok {
		return nil, &Error{Code: CodeNotFound, Message: fmt.Sprintf("chain %q not found", params.Chain)}
	}
	ep, idx, err := registry.EndpointByIndex(c, proto, params.Index)
	if err != nil {
		return nil, registryError(err)
	}
	return &EndpointResult{
		Chain:    c.Name,
		Protocol: string(proto),
		Address:  ep.Address,
		Provider: ep.Provider,
		Index:    idx,
	}, nil
}

func (s *Server) handleRegistryDenomFromTrace(req *Request) (interface{}, *Error) {
	var params TraceParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	return &DenomResult{Denom: registry.DenomFromTrace(params.Path)}, nil
}

func (s *Server) handleRegistryPairChannels(req *Request) (interface{}, *Error) {
	r, rpcErr := s.currentRegistry()
	if rpcErr != nil {
		return nil, rpcErr
	}
	var params PairChannelsParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	if params.Local == "" || params.Remote == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "local and remote are required"}
	}
	local, remote, err := r.ChannelsBetween(params.Local, params.Remote)
	if err != nil {
		return nil, registryError(err)
	}
	return &ChannelsResult{LocalChannel: local, RemoteChannel: remote}, nil
}

func (s *Server) handleRegistryAssetCounterpart(req *Request) (interface{}, *Error) {
	r, rpcErr := s.currentRegistry()
	if rpcErr != nil {
		return nil, rpcErr
	}
	var params CounterpartParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}

	src, ok := r.ChainByName(params.SourceChain)
	if !ok {
		return nil, &Error{Code: CodeNotFound, Message: fmt.Sprintf("chain %q not found", params.SourceChain)}
	}
	dst, ok := r.ChainByName(params.TargetChain)
	if !ok {
		return nil, &Error{Code: CodeNotFound, Message: fmt.Sprintf("chain %q not found", params.TargetChain)}
	}
	asset, ok := src.AssetByBase(params.Base)
	if !ok {
		return nil, &Error{Code: CodeNotFound, Message: fmt.Sprintf("asset %q not found on %s", params.Base, src.Name)}
	}
	match, ok := registry.AssetCounterpart(asset, dst.Assets)
	if !ok {
		return nil, &Error{Code: CodeNotFound, Message: fmt.Sprintf("no counterpart of %s on %s", params.Base, dst.Name)}
	}
	return match, nil
}

func (s *Server) handleRegistryIBCDenom(req *Request) (interface{}, *Error) {
	var params IBCDenomParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	if params.Path != "" {
		return &DenomResult{Denom: registry.IBCDenomFromPath(params.Path)}, nil
	}
	if params.Channel == "" || params.Base == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "path, or channel and base, is required"}
	}
	port := params.Port
	if port == "" {
		port = "transfer"
	}
	return &DenomResult{Denom: registry.IBCDenom(port, params.Channel, params.Base)}, nil
}

func (s *Server) handleRegistryReload(_ *Request) (interface{}, *Error) {
	if s.reload == nil || s.registry == nil {
		return nil, &Error{Code: CodeInternalError, Message: "registry reload not enabled"}
	}
	r, err := s.reload()
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: fmt.Sprintf("reload registry: %v", err)}
	}
	changed := s.registry.Store(r)
	s.logger.Info().Str("digest", r.Digest()).Bool("changed", changed).Msg("Registry reloaded")

	res := newDigestResult(r)
	res.Changed = changed
	return res, nil
}

func (s *Server) handleRegistryDigest(_ *Request) (interface{}, *Error) {
	r, rpcErr := s.currentRegistry()
	if rpcErr != nil {
		return nil, rpcErr
	}
	return newDigestResult(r), nil
}

func newDigestResult(r *registry.Registry) *DigestResult {
	return &DigestResult{
		Digest:     r.Digest(),
		Partitions: r.PartitionNames(),
		Chains:     len(r.Chains()),
	}
}
