package registry

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"
)

// Standard partition names. IBC counterparties are searched before the
// native chains, so a name present in both resolves to the IBC entry.
const (
	PartitionIBC    = "ibc"
	PartitionNative = "native"
)

// Partition is a named group of chains. Registry searches partitions in the
// order they were given.
type Partition struct {
	Name   string   `json:"name" toml:"name" yaml:"name"`
	Chains []*Chain `json:"chains" toml:"chains" yaml:"chains"`
}

// Registry answers chain, endpoint, channel and asset lookups over one
// snapshot. It is immutable and safe for concurrent use.
type Registry struct {
	partitions  []Partition
	connections []Connection
	digest      string
}

// New builds a registry from ordered partitions and connection records.
// The slices are copied; the chains themselves must not be mutated later.
func New(partitions []Partition, connections []Connection) *Registry {
	r := &Registry{
		partitions:  make([]Partition, len(partitions)),
		connections: make([]Connection, len(connections)),
	}
	for i, p := range partitions {
		r.partitions[i] = Partition{Name: p.Name, Chains: append([]*Chain(nil), p.Chains...)}
	}
	copy(r.connections, connections)
	r.digest = computeDigest(r.partitions, r.connections)
	return r
}

// PartitionNames returns the partition names in search order.
func (r *Registry) PartitionNames() []string {
	out := make([]string, len(r.partitions))
	for i, p := range r.partitions {
		out[i] = p.Name
	}
	return out
}

// ChainByName searches the partitions in order for an exact,
// case-sensitive name match. The first match wins.
func (r *Registry) ChainByName(name string) (*Chain, bool) {
	for _, p := range r.partitions {
		for _, c := range p.Chains {
			if c.Name == name {
				return c, true
			}
		}
	}
	return nil, false
}

// ChainByID searches every partition for an exact chain id match.
func (r *Registry) ChainByID(id string) (*Chain, bool) {
	for _, p := range r.partitions {
		for _, c := range p.Chains {
			if c.ID == id {
				return c, true
			}
		}
	}
	return nil, false
}

// Chains returns every chain in partition order. A name shadowed by an
// earlier partition is listed once, as ChainByName would resolve it.
func (r *Registry) Chains() []*Chain {
	return r.AvailableChains(nil)
}

// AvailableChains is Chains without the chains exclude reports true for.
func (r *Registry) AvailableChains(exclude func(*Chain) bool) []*Chain {
	seen := make(map[string]struct{})
	var out []*Chain
	for _, p := range r.partitions {
		for _, c := range p.Chains {
			if _, ok := seen[c.Name]; ok {
				continue
			}
			seen[c.Name] = struct{}{}
			if exclude != nil && exclude(c) {
				continue
			}
			out = append(out, c)
		}
	}
	return out
}

// Connections returns every connection record.
func (r *Registry) Connections() []Connection {
	return append([]Connection(nil), r.connections...)
}

// ConnectionsFor returns the connection records chainName takes part in.
func (r *Registry) ConnectionsFor(chainName string) []Connection {
	var out []Connection
	for _, c := range r.connections {
		if c.Involves(chainName) {
			out = append(out, c)
		}
	}
	return out
}

// ConnectionBetween finds the record linking a and b, whichever side each
// was stored on.
func (r *Registry) ConnectionBetween(a, b string) (*Connection, bool) {
	for i := range r.connections {
		c := &r.connections[i]
		if (c.ChainA.ChainName == a && c.ChainB.ChainName == b) ||
			(c.ChainA.ChainName == b && c.ChainB.ChainName == a) {
			return c, true
		}
	}
	return nil, false
}

// ChannelsBetween returns the channel ids used by local and remote to talk
// to each other.
func (r *Registry) ChannelsBetween(local, remote string) (localChannel, remoteChannel string, err error) {
	conn, ok := r.ConnectionBetween(local, remote)
	if !ok {
		return "", "", fmt.Errorf("%w: %s <-> %s", ErrNoConnection, local, remote)
	}
	return PairChannels(local, conn)
}

// Digest is a BLAKE3 hash of the snapshot. Two registries built from the
// same data share a digest.
func (r *Registry) Digest() string {
	return r.digest
}

func computeDigest(partitions []Partition, connections []Connection) string {
	data, err := json.Marshal(struct {
		Partitions  []Partition  `json:"partitions"`
		Connections []Connection `json:"connections"`
	}{partitions, connections})
	if err != nil {
		return ""
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
