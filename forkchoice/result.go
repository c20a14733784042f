package forkchoice

import (
	"fmt"

	"github.com/geanlabs/beacon/types"
)

// ImportStatus classifies the outcome of a block import.
type ImportStatus int

const (
	// ImportSuccessful: the block and its post-state were committed.
	ImportSuccessful ImportStatus = iota
	// ImportInvalidBlock: the block failed consensus validation.
	ImportInvalidBlock
	// ImportFailedStateTransition: the transition machinery failed.
	ImportFailedStateTransition
	// ImportBlockIsFromFuture: the block's slot is past the wall clock;
	// the caller may retry later.
	ImportBlockIsFromFuture
	// ImportParentUnknown: the parent is neither hot nor finalized; the
	// caller may retry after syncing the parent.
	ImportParentUnknown
	// ImportInternalError: cancellation or an internal failure; the store
	// is unchanged.
	ImportInternalError
)

func (s ImportStatus) String() string {
	switch s {
	case ImportSuccessful:
		return "successful"
	case ImportInvalidBlock:
		return "invalid_block"
	case ImportFailedStateTransition:
		return "failed_state_transition"
	case ImportBlockIsFromFuture:
		return "block_is_from_future"
	case ImportParentUnknown:
		return "parent_unknown"
	default:
		return "internal_error"
	}
}

// ImportResult is the outcome of OnBlock. On success HeadRoot carries the
// head after the import (which the fast path may have advanced).
type ImportResult struct {
	Status   ImportStatus
	HeadRoot types.Root
	Err      error
}

// Successful reports whether the block was imported.
func (r ImportResult) Successful() bool { return r.Status == ImportSuccessful }

func (r ImportResult) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: %v", r.Status, r.Err)
	}
	return r.Status.String()
}

func successful(head types.Root) ImportResult {
	return ImportResult{Status: ImportSuccessful, HeadRoot: head}
}

func invalidBlock(err error) ImportResult {
	return ImportResult{Status: ImportInvalidBlock, Err: err}
}

func failedTransition(err error) ImportResult {
	return ImportResult{Status: ImportFailedStateTransition, Err: err}
}

func internalError(err error) ImportResult {
	return ImportResult{Status: ImportInternalError, Err: err}
}

// ReorgEvent announces a lateral head move: the new head does not extend
// the previous head.
type ReorgEvent struct {
	BestBlockRoot types.Root
	BestSlot      types.Slot
}
