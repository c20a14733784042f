package config

import (
	"testing"
	"time"

	"github.com/geanlabs/beacon/types"
)

const sampleYAML = `
chain:
  GENESIS_TIME: 1600000000
  GENESIS_FORK_VERSION: "0x01020304"
  VALIDATOR_COUNT: 64
node:
  listen_addrs:
    - /ip4/127.0.0.1/tcp/9001
  rpc_timeout: 5s
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Chain.GenesisTime != 1600000000 {
		t.Errorf("GenesisTime = %d", cfg.Chain.GenesisTime)
	}
	if cfg.Chain.ValidatorCount != 64 {
		t.Errorf("ValidatorCount = %d", cfg.Chain.ValidatorCount)
	}
	v, err := cfg.Chain.ForkVersion()
	if err != nil {
		t.Fatalf("ForkVersion: %v", err)
	}
	if v != (types.Version{0x01, 0x02, 0x03, 0x04}) {
		t.Errorf("ForkVersion = %x", v)
	}
	if cfg.Node.RPCTimeout != 5*time.Second {
		t.Errorf("RPCTimeout = %v", cfg.Node.RPCTimeout)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("chain:\n  GENESIS_TIME: 1\n  VALIDATOR_COUNT: 4\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Node.RPCTimeout != DefaultRPCTimeout {
		t.Errorf("default RPCTimeout = %v", cfg.Node.RPCTimeout)
	}
	if len(cfg.Node.ListenAddrs) != 1 {
		t.Errorf("default ListenAddrs = %v", cfg.Node.ListenAddrs)
	}
	v, err := cfg.Chain.ForkVersion()
	if err != nil {
		t.Fatalf("ForkVersion: %v", err)
	}
	if v != (types.Version{}) {
		t.Errorf("empty fork version should decode to zero, got %x", v)
	}
}

func TestParseRejects(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing genesis time", "chain:\n  VALIDATOR_COUNT: 4\n"},
		{"missing validator count", "chain:\n  GENESIS_TIME: 1\n"},
		{"bad fork version", "chain:\n  GENESIS_TIME: 1\n  VALIDATOR_COUNT: 4\n  GENESIS_FORK_VERSION: \"0x0102\"\n"},
		{"not yaml", ":::"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.yaml)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
