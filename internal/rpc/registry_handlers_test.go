package rpc

import (
	"errors"
	"testing"

	"github.com/Klingon-tech/klingnet-masp/internal/registry"
)

func TestRPC_RegistryListChains(t *testing.T) {
	env := setupTestEnv(t)

	var all []ChainSummary
	decodeResult(t, rpcCall(t, env.url, "registry_listChains", nil), &all)
	if len(all) != 4 {
		t.Fatalf("chains = %d, want 4", len(all))
	}
	if all[0].Name != "osmosis" || all[0].RPC != 2 || all[0].REST != 1 {
		t.Errorf("first chain = %+v", all[0])
	}

	var filtered []ChainSummary
	decodeResult(t, rpcCall(t, env.url, "registry_listChains", ListChainsParam{Exclude: []string{"housefire"}}), &filtered)
	for _, c := range filtered {
		if c.Name == "housefire" {
			t.Error("housefire should be excluded")
		}
	}
	if len(filtered) != 3 {
		t.Errorf("filtered chains = %d, want 3", len(filtered))
	}
}

func TestRPC_RegistryGetChain(t *testing.T) {
	env := setupTestEnv(t)

	var c registry.Chain
	decodeResult(t, rpcCall(t, env.url, "registry_getChainByName", NameParam{Name: "namada"}), &c)
	if c.ID != "namada.5f5de2dd1b88cba30586420" {
		t.Errorf("chain id = %q", c.ID)
	}

	var byID registry.Chain
	decodeResult(t, rpcCall(t, env.url, "registry_getChainById", IDParam{ID: "osmosis-1"}), &byID)
	if byID.Name != "osmosis" || len(byID.Assets) != 2 {
		t.Errorf("chain = %+v", byID)
	}

	expectCode(t, rpcCall(t, env.url, "registry_getChainByName", NameParam{Name: "Osmosis"}), CodeNotFound)
	expectCode(t, rpcCall(t, env.url, "registry_getChainById", IDParam{ID: "nope"}), CodeNotFound)
}

func TestRPC_RegistryGetEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	var ep EndpointResult
	decodeResult(t, rpcCall(t, env.url, "registry_getEndpoint", EndpointParam{Chain: "osmosis", Index: 7}), &ep)
	if ep.Address != "https://osmosis-rpc.polkachu.com" || ep.Index != 7 || ep.Protocol != "rpc" {
		t.Errorf("endpoint = %+v", ep)
	}

	var rest EndpointResult
	decodeResult(t, rpcCall(t, env.url, "registry_getEndpoint", EndpointParam{Chain: "osmosis", Protocol: "rest"}), &rest)
	if rest.Address != "https://lcd.osmosis.zone" {
		t.Errorf("rest endpoint = %+v", rest)
	}

	expectCode(t, rpcCall(t, env.url, "registry_getEndpoint", EndpointParam{Chain: "namada", Protocol: "rest"}), CodeRegistryData)
	expectCode(t, rpcCall(t, env.url, "registry_getEndpoint", EndpointParam{Chain: "osmosis", Protocol: "ws"}), CodeInvalidParams)
	expectCode(t, rpcCall(t, env.url, "registry_getEndpoint", EndpointParam{Chain: "atlantis"}), CodeNotFound)
}

func TestRPC_RegistryDenomFromTrace(t *testing.T) {
	env := setupTestEnv(t)

	var d DenomResult
	decodeResult(t, rpcCall(t, env.url, "registry_denomFromTrace", TraceParam{Path: "transfer/channel-0/uosmo"}), &d)
	if d.Denom != "uosmo" {
		t.Errorf("denom = %q, want uosmo", d.Denom)
	}
}

func TestRPC_RegistryPairChannels(t *testing.T) {
	env := setupTestEnv(t)

	var ch ChannelsResult
	decodeResult(t, rpcCall(t, env.url, "registry_pairChannels", PairChannelsParam{Local: "osmosis", Remote: "namada"}), &ch)
	if ch.LocalChannel != "channel-7" || ch.RemoteChannel != "channel-1" {
		t.Errorf("channels = %+v", ch)
	}

	expectCode(t, rpcCall(t, env.url, "registry_pairChannels", PairChannelsParam{Local: "broken", Remote: "osmosis"}), CodeRegistryData)
	expectCode(t, rpcCall(t, env.url, "registry_pairChannels", PairChannelsParam{Local: "namada", Remote: "housefire"}), CodeNotFound)
	expectCode(t, rpcCall(t, env.url, "registry_pairChannels", PairChannelsParam{Local: "namada"}), CodeInvalidParams)
}

func TestRPC_RegistryAssetCounterpart(t *testing.T) {
	env := setupTestEnv(t)

	var a registry.Asset
	decodeResult(t, rpcCall(t, env.url, "registry_assetCounterpart", CounterpartParam{
		SourceChain: "osmosis",
		Base:        "ibc/C7110DEC66869DAE9BE9C3C60F4B5313B16A2204AE020C3B0527DD6B322386A3",
		TargetChain: "namada",
	}), &a)
	if a.Base != "unam" || a.Address != namAddr {
		t.Errorf("counterpart = %+v", a)
	}

	expectCode(t, rpcCall(t, env.url, "registry_assetCounterpart", CounterpartParam{
		SourceChain: "osmosis", Base: "uosmo", TargetChain: "namada",
	}), CodeNotFound)
	expectCode(t, rpcCall(t, env.url, "registry_assetCounterpart", CounterpartParam{
		SourceChain: "osmosis", Base: "uatom", TargetChain: "namada",
	}), CodeNotFound)
}

func TestRPC_RegistryIBCDenom(t *testing.T) {
	env := setupTestEnv(t)

	const atom = "ibc/27394FB092D2ECCD56123C74F36E4C1F926001CEADA9CA97EA622B25F41E5EB2"

	var d DenomResult
	decodeResult(t, rpcCall(t, env.url, "registry_ibcDenom", IBCDenomParam{Channel: "channel-0", Base: "uatom"}), &d)
	if d.Denom != atom {
		t.Errorf("denom = %q", d.Denom)
	}

	var p DenomResult
	decodeResult(t, rpcCall(t, env.url, "registry_ibcDenom", IBCDenomParam{Path: "transfer/channel-0/uatom"}), &p)
	if p.Denom != atom {
		t.Errorf("denom from path = %q", p.Denom)
	}

	expectCode(t, rpcCall(t, env.url, "registry_ibcDenom", IBCDenomParam{Base: "uatom"}), CodeInvalidParams)
}

func TestRPC_RegistryDigestAndReload(t *testing.T) {
	env := setupTestEnv(t)

	var d DigestResult
	decodeResult(t, rpcCall(t, env.url, "registry_digest", nil), &d)
	if d.Digest != env.live.Load().Digest() || d.Chains != 4 {
		t.Errorf("digest = %+v", d)
	}

	expectCode(t, rpcCall(t, env.url, "registry_reload", nil), CodeInternalError)

	env.server.SetReloader(func() (*registry.Registry, error) { return testRegistry(), nil })
	var same DigestResult
	decodeResult(t, rpcCall(t, env.url, "registry_reload", nil), &same)
	if same.Changed || same.Digest != d.Digest {
		t.Errorf("reload of identical data = %+v", same)
	}

	env.server.SetReloader(func() (*registry.Registry, error) {
		return registry.New([]registry.Partition{{Name: registry.PartitionNative}}, nil), nil
	})
	var changed DigestResult
	decodeResult(t, rpcCall(t, env.url, "registry_reload", nil), &changed)
	if !changed.Changed || changed.Chains != 0 {
		t.Errorf("reload of new data = %+v", changed)
	}
	expectCode(t, rpcCall(t, env.url, "registry_getChainByName", NameParam{Name: "osmosis"}), CodeNotFound)

	env.server.SetReloader(func() (*registry.Registry, error) { return nil, errors.New("disk on fire") })
	expectCode(t, rpcCall(t, env.url, "registry_reload", nil), CodeInternalError)
}
