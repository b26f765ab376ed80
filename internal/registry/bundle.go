package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Bundle is the on-disk form of a registry: ordered partitions plus the
// IBC connection records, using chain-registry field names.
type Bundle struct {
	Partitions []Partition  `json:"partitions" toml:"partitions" yaml:"partitions"`
	IBC        []Connection `json:"ibc" toml:"ibc" yaml:"ibc"`
}

// LoadFile reads a bundle from path. The format follows the extension:
// .json, .toml, or .yaml/.yml.
func LoadFile(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseJSON(data)
	case ".toml":
		return ParseTOML(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return nil, fmt.Errorf("registry %s: unsupported extension (want .json, .toml or .yaml)", path)
	}
}

// ParseJSON decodes and validates a JSON bundle.
func ParseJSON(data []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode registry json: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// ParseTOML decodes and validates a TOML bundle.
func ParseTOML(data []byte) (*Bundle, error) {
	var b Bundle
	if err := toml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode registry toml: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// ParseYAML decodes and validates a YAML bundle.
func ParseYAML(data []byte) (*Bundle, error) {
	var b Bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode registry yaml: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Validate checks the registry invariants: chain ids are unique across the
// whole bundle and chain names are unique within a partition.
func (b *Bundle) Validate() error {
	ids := make(map[string]string)
	partitions := make(map[string]struct{})
	for _, p := range b.Partitions {
		if p.Name == "" {
			return fmt.Errorf("registry partition with empty name")
		}
		if _, dup := partitions[p.Name]; dup {
			return fmt.Errorf("registry partition %q listed twice", p.Name)
		}
		partitions[p.Name] = struct{}{}

		names := make(map[string]struct{})
		for i, c := range p.Chains {
			if c == nil || c.Name == "" || c.ID == "" {
				return fmt.Errorf("partition %q chain %d: chain_name and chain_id are required", p.Name, i)
			}
			if _, dup := names[c.Name]; dup {
				return fmt.Errorf("partition %q: duplicate chain name %q", p.Name, c.Name)
			}
			names[c.Name] = struct{}{}
			if other, dup := ids[c.ID]; dup {
				return fmt.Errorf("chain id %q used by both %s and %s", c.ID, other, c.Name)
			}
			ids[c.ID] = c.Name
		}
	}
	for i, conn := range b.IBC {
		if conn.ChainA.ChainName == "" || conn.ChainB.ChainName == "" {
			return fmt.Errorf("ibc record %d: both chain names are required", i)
		}
	}
	return nil
}

// Registry builds a Registry from the bundle.
func (b *Bundle) Registry() *Registry {
	return New(b.Partitions, b.IBC)
}

// Reorder returns a copy of the bundle with partitions in the given order.
// Partitions not named keep their relative order after the named ones.
func (b *Bundle) Reorder(order []string) *Bundle {
	if len(order) == 0 {
		return b
	}
	out := &Bundle{IBC: b.IBC}
	used := make(map[int]bool)
	for _, name := range order {
		for i, p := range b.Partitions {
			if p.Name == name && !used[i] {
				out.Partitions = append(out.Partitions, p)
				used[i] = true
			}
		}
	}
	for i, p := range b.Partitions {
		if !used[i] {
			out.Partitions = append(out.Partitions, p)
		}
	}
	return out
}
