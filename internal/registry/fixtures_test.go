package registry

func osmosisChain() *Chain {
	return &Chain{
		Name:         "osmosis",
		ID:           "osmosis-1",
		PrettyName:   "Osmosis",
		Bech32Prefix: "osmo",
		APIs: map[string][]Endpoint{
			"rpc":  {{Address: "https://rpc.osmosis.zone"}, {Address: "https://osmosis-rpc.polkachu.com"}},
			"rest": {{Address: "https://lcd.osmosis.zone"}},
		},
		Assets: []Asset{
			{Base: "uosmo", Symbol: "OSMO", Display: "osmo", DenomUnits: []DenomUnit{{Denom: "uosmo"}, {Denom: "osmo", Exponent: 6}}},
			{
				Base:   "ibc/C7110DEC66869DAE9BE9C3C60F4B5313B16A2204AE020C3B0527DD6B322386A3",
				Symbol: "NAM",
				Traces: []Trace{{
					Type:         TraceTypeIBC,
					Counterparty: TraceCounterparty{ChainName: "namada", BaseDenom: "unam", ChannelID: "channel-1"},
				}},
			},
		},
	}
}

func namadaChain() *Chain {
	return &Chain{
		Name: "namada",
		ID:   "namada.5f5de2dd1b88cba30586420",
		APIs: map[string][]Endpoint{
			"rpc": {{Address: "https://rpc.namada.tududes.com"}},
		},
		Assets: []Asset{
			{Base: "unam", Symbol: "NAM", Address: "tnam1qxvg64psvhwumv3mwrrjfcz0h3t3274hwggyzcee"},
			{
				Base:    "transfer/channel-1/uosmo",
				Symbol:  "OSMO",
				Address: "tnam1p5z8ruwyu7ha8urhq2l0dhpk2f5dv3ts7uyf2n75",
				Traces: []Trace{{
					Type:         TraceTypeIBC,
					Counterparty: TraceCounterparty{ChainName: "osmosis", BaseDenom: "uosmo", ChannelID: "channel-7"},
				}},
			},
		},
	}
}

func housefireChain() *Chain {
	return &Chain{Name: "housefire", ID: "housefire-envelope.b8f955720ab"}
}

func namadaOsmosisConnection() Connection {
	return Connection{
		ChainA: ChainRef{ChainName: "namada", ClientID: "07-tendermint-1", ConnectionID: "connection-1"},
		ChainB: ChainRef{ChainName: "osmosis", ClientID: "07-tendermint-3", ConnectionID: "connection-2"},
		Channels: []ChannelPair{{
			ChainA:   ChannelEnd{ChannelID: "channel-1", PortID: "transfer"},
			ChainB:   ChannelEnd{ChannelID: "channel-7", PortID: "transfer"},
			Ordering: "unordered",
			Version:  "ics20-1",
		}},
	}
}

func testRegistry() *Registry {
	shadow := &Chain{Name: "namada", ID: "namada-native-1"}
	return New(
		[]Partition{
			{Name: PartitionIBC, Chains: []*Chain{osmosisChain(), namadaChain()}},
			{Name: PartitionNative, Chains: []*Chain{shadow, housefireChain()}},
		},
		[]Connection{namadaOsmosisConnection()},
	)
}
