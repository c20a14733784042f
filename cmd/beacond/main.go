package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/geanlabs/beacon/config"
	"github.com/geanlabs/beacon/node"
	"github.com/geanlabs/beacon/observability/logging"
)

func main() {
	var (
		configPath     string
		genesisTime    uint64
		validatorCount uint64
		validatorIndex int64
		listenAddr     string
		bootnodes      string
		dataDir        string
		metricsAddr    string
		logLevel       string
	)

	flag.StringVar(&configPath, "config", "", "Path to YAML config (only -datadir and -validator-index override it)")
	flag.Uint64Var(&genesisTime, "genesis-time", uint64(time.Now().Unix()), "Genesis time (unix timestamp)")
	flag.Uint64Var(&validatorCount, "validator-count", 64, "Number of validators at genesis")
	flag.Int64Var(&validatorIndex, "validator-index", -1, "Validator index (-1 for non-validator)")
	flag.StringVar(&listenAddr, "listen", "/ip4/0.0.0.0/tcp/9000", "Listen multiaddr")
	flag.StringVar(&bootnodes, "bootnodes", "", "Comma-separated bootnode multiaddrs")
	flag.StringVar(&dataDir, "datadir", "", "Data directory (empty for in-memory storage)")
	flag.StringVar(&metricsAddr, "metrics", "", "Metrics listen address (empty disables)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	logger := logging.New(logLevel)

	var cfg *config.Config
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	} else {
		cfg = &config.Config{}
		cfg.Chain.GenesisTime = genesisTime
		cfg.Chain.ValidatorCount = validatorCount
		cfg.Node.ListenAddrs = []string{listenAddr}
		cfg.Node.RPCTimeout = config.DefaultRPCTimeout
		if bootnodes != "" {
			cfg.Node.Bootnodes = strings.Split(bootnodes, ",")
		}
	}
	if dataDir != "" {
		cfg.Node.DataDir = dataDir
	}
	if validatorIndex >= 0 {
		idx := uint64(validatorIndex)
		cfg.Node.ValidatorIndex = &idx
	}

	if metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				logger.Error("metrics server stopped", "err", err)
			}
		}()
	}

	ctx := context.Background()
	n, err := node.New(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create node: %v\n", err)
		os.Exit(1)
	}

	n.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	n.Stop()
}
