// Package config loads chain and node configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/geanlabs/beacon/types"
)

// Chain holds the chain-level parameters every node on a network must agree on.
type Chain struct {
	GenesisTime        uint64 `yaml:"GENESIS_TIME"`
	GenesisForkVersion string `yaml:"GENESIS_FORK_VERSION"`
	ValidatorCount     uint64 `yaml:"VALIDATOR_COUNT"`
}

// Node holds local operational settings.
type Node struct {
	ListenAddrs    []string      `yaml:"listen_addrs"`
	Bootnodes      []string      `yaml:"bootnodes"`
	RPCTimeout     time.Duration `yaml:"rpc_timeout"`
	DataDir        string        `yaml:"data_dir"`
	ValidatorIndex *uint64       `yaml:"validator_index"`
}

// Config is the full node configuration.
type Config struct {
	Chain Chain `yaml:"chain"`
	Node  Node  `yaml:"node"`
}

// DefaultRPCTimeout bounds every peer req/resp call unless overridden.
const DefaultRPCTimeout = 10 * time.Second

// Load reads a Config from a YAML file and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a Config from YAML bytes and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Chain.GenesisTime == 0 {
		return fmt.Errorf("chain config: GENESIS_TIME is required")
	}
	if c.Chain.ValidatorCount == 0 {
		return fmt.Errorf("chain config: VALIDATOR_COUNT is required")
	}
	if c.Chain.ValidatorCount > types.ValidatorRegistryLimit {
		return fmt.Errorf("chain config: VALIDATOR_COUNT %d exceeds registry limit %d",
			c.Chain.ValidatorCount, types.ValidatorRegistryLimit)
	}
	if _, err := c.Chain.ForkVersion(); err != nil {
		return err
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Node.RPCTimeout == 0 {
		c.Node.RPCTimeout = DefaultRPCTimeout
	}
	if len(c.Node.ListenAddrs) == 0 {
		c.Node.ListenAddrs = []string{"/ip4/0.0.0.0/tcp/9000"}
	}
}

// ForkVersion decodes the genesis fork version. An empty setting means the
// zero version.
func (c *Chain) ForkVersion() (types.Version, error) {
	var v types.Version
	s := c.GenesisForkVersion
	if s == "" {
		return v, nil
	}
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if len(s) != 8 {
		return v, fmt.Errorf("chain config: GENESIS_FORK_VERSION must be 4 bytes of hex")
	}
	for i := 0; i < 4; i++ {
		hi, ok1 := hexNibble(s[i*2])
		lo, ok2 := hexNibble(s[i*2+1])
		if !ok1 || !ok2 {
			return v, fmt.Errorf("chain config: GENESIS_FORK_VERSION has invalid hex")
		}
		v[i] = hi<<4 | lo
	}
	return v, nil
}

func hexNibble(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}
