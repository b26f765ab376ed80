package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkFixtureRegistry(t *testing.T, b *Bundle) {
	t.Helper()
	r := b.Registry()

	assert.Equal(t, []string{PartitionIBC, PartitionNative}, r.PartitionNames())

	osmosis, ok := r.ChainByName("osmosis")
	require.True(t, ok)
	ep, _, err := osmosis.RPCByIndex(0)
	require.NoError(t, err)
	assert.Equal(t, "https://rpc.osmosis.zone", ep.Address)
	assert.Equal(t, "Osmosis Foundation", ep.Provider)
	uosmo, ok := osmosis.AssetByBase("uosmo")
	require.True(t, ok)
	assert.Equal(t, uint32(6), uosmo.Exponent())

	namada, ok := r.ChainByID("namada.5f5de2dd1b88cba30586420")
	require.True(t, ok)
	assert.Equal(t, "namada", namada.Name)

	local, remote, err := r.ChannelsBetween("osmosis", "namada")
	require.NoError(t, err)
	assert.Equal(t, "channel-7", local)
	assert.Equal(t, "channel-1", remote)
}

func TestLoadFile_JSON(t *testing.T) {
	b, err := LoadFile(filepath.Join("testdata", "registry.json"))
	require.NoError(t, err)
	checkFixtureRegistry(t, b)
}

func TestLoadFile_TOML(t *testing.T) {
	b, err := LoadFile(filepath.Join("testdata", "registry.toml"))
	require.NoError(t, err)
	checkFixtureRegistry(t, b)
}

func TestLoadFile_YAML(t *testing.T) {
	b, err := LoadFile(filepath.Join("testdata", "registry.yaml"))
	require.NoError(t, err)
	checkFixtureRegistry(t, b)
}

func TestLoadFile_SameDigest(t *testing.T) {
	j, err := LoadFile(filepath.Join("testdata", "registry.json"))
	require.NoError(t, err)
	tm, err := LoadFile(filepath.Join("testdata", "registry.toml"))
	require.NoError(t, err)
	ym, err := LoadFile(filepath.Join("testdata", "registry.yaml"))
	require.NoError(t, err)
	assert.Equal(t, j.Registry().Digest(), tm.Registry().Digest())
	assert.Equal(t, j.Registry().Digest(), ym.Registry().Digest())
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join("testdata", "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "registry.xml")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
	_, err = LoadFile(path)
	assert.ErrorContains(t, err, "unsupported extension")

	_, err = ParseJSON([]byte("{not json"))
	assert.Error(t, err)
	_, err = ParseTOML([]byte("partitions = 3"))
	assert.Error(t, err)
	_, err = ParseYAML([]byte("partitions: 3"))
	assert.Error(t, err)
}

func TestBundleValidate(t *testing.T) {
	tests := []struct {
		name    string
		bundle  Bundle
		wantErr string
	}{
		{
			name: "valid with shared name across partitions",
			bundle: Bundle{Partitions: []Partition{
				{Name: PartitionIBC, Chains: []*Chain{{Name: "namada", ID: "a"}}},
				{Name: PartitionNative, Chains: []*Chain{{Name: "namada", ID: "b"}}},
			}},
		},
		{
			name: "duplicate id across partitions",
			bundle: Bundle{Partitions: []Partition{
				{Name: PartitionIBC, Chains: []*Chain{{Name: "osmosis", ID: "x"}}},
				{Name: PartitionNative, Chains: []*Chain{{Name: "namada", ID: "x"}}},
			}},
			wantErr: "chain id",
		},
		{
			name: "duplicate name in partition",
			bundle: Bundle{Partitions: []Partition{
				{Name: PartitionIBC, Chains: []*Chain{{Name: "osmosis", ID: "a"}, {Name: "osmosis", ID: "b"}}},
			}},
			wantErr: "duplicate chain name",
		},
		{
			name:    "missing id",
			bundle:  Bundle{Partitions: []Partition{{Name: PartitionIBC, Chains: []*Chain{{Name: "osmosis"}}}}},
			wantErr: "required",
		},
		{
			name:    "unnamed partition",
			bundle:  Bundle{Partitions: []Partition{{}}},
			wantErr: "empty name",
		},
		{
			name: "repeated partition",
			bundle: Bundle{Partitions: []Partition{
				{Name: PartitionIBC}, {Name: PartitionIBC},
			}},
			wantErr: "listed twice",
		},
		{
			name:    "half connection",
			bundle:  Bundle{IBC: []Connection{{ChainA: ChainRef{ChainName: "namada"}}}},
			wantErr: "ibc record 0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bundle.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestBundleReorder(t *testing.T) {
	b := &Bundle{Partitions: []Partition{
		{Name: PartitionIBC, Chains: []*Chain{{Name: "namada", ID: "ibc-side"}}},
		{Name: PartitionNative, Chains: []*Chain{{Name: "namada", ID: "native-side"}}},
		{Name: "testnet"},
	}}

	out := b.Reorder([]string{PartitionNative})
	assert.Equal(t, []string{PartitionNative, PartitionIBC, "testnet"}, out.Registry().PartitionNames())
	c, ok := out.Registry().ChainByName("namada")
	require.True(t, ok)
	assert.Equal(t, "native-side", c.ID)

	assert.Same(t, b, b.Reorder(nil))
	assert.Equal(t, PartitionIBC, b.Partitions[0].Name, "input bundle is untouched")
}
