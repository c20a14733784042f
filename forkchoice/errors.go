package forkchoice

import "errors"

var (
	// ErrHalted is returned after a local invariant violation; the engine
	// refuses further work until restart.
	ErrHalted = errors.New("forkchoice: engine halted by invariant violation")

	// ErrUnknownAttestationTarget reports an attestation voting for a block
	// outside the hot tree.
	ErrUnknownAttestationTarget = errors.New("forkchoice: attestation target not in hot tree")

	// ErrMissingJustifiedState reports a justified checkpoint whose state is
	// absent from the store. This is a store-corruption signal.
	ErrMissingJustifiedState = errors.New("forkchoice: justified checkpoint state missing")
)
