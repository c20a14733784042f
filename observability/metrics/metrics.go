// Package metrics registers the Prometheus instruments shared across the
// node. Counters are incremented lock-free from hot paths.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PeerChainValidation counts peer chain validation outcomes by status:
	// started, valid, invalid, error. Every validation increments started
	// plus exactly one of the other three.
	PeerChainValidation = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "peer_chain_validation_attempts",
		Help: "Number of peers chain verification has been performed on",
	}, []string{"status"})

	// BlockImports counts fork-choice block imports by result.
	BlockImports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "beacon_block_import_total",
		Help: "Number of block import attempts by result",
	}, []string{"result"})

	// Reorgs counts emitted reorg events.
	Reorgs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "beacon_reorgs_total",
		Help: "Number of chain reorganisations observed",
	})

	// HeadSlot tracks the fork-choice head slot.
	HeadSlot = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "beacon_head_slot",
		Help: "Slot of the current fork choice head",
	})

	// FinalizedEpoch tracks the finalized checkpoint epoch.
	FinalizedEpoch = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "beacon_finalized_epoch",
		Help: "Epoch of the latest finalized checkpoint",
	})

	// DutiesPerformed counts validator duty results by duty and outcome.
	DutiesPerformed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "validator_duties_performed_total",
		Help: "Number of validator duties performed by type and result",
	}, []string{"duty", "result"})

	// PipelineDropped counts events dropped on actor channel overflow.
	PipelineDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "event_pipeline_dropped_total",
		Help: "Number of pipeline events dropped on overflow by actor",
	}, []string{"actor"})
)
