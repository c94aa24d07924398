package models

import "time"

// Checkpoint marks the last successfully processed point of one account's
// remote change stream. The two remote timestamps are opaque server values
// and are persisted verbatim; LastSyncCompletedAt is local wall-clock time
// and bounds the change-log window the classifier inspects.
//
// A cycle persists its Checkpoint only after every other step has succeeded,
// so a crash mid-cycle leaves the previous value intact and the next cycle
// re-detects from the same point.
type Checkpoint struct {
	Login string `json:"login"`

	// DictionaryCheckpoint is the server timestamp of the last dictionary
	// change check (regions and other shared reference data).
	DictionaryCheckpoint string `json:"dictionary_checkpoint"`

	// HierarchyCheckpoint is the server timestamp of the last campaign
	// hierarchy change check.
	HierarchyCheckpoint string `json:"hierarchy_checkpoint"`

	// LastSyncCompletedAt is when the last full cycle finished locally.
	LastSyncCompletedAt time.Time `json:"last_sync_completed_at"`
}

// NeverSynced reports whether the account has no hierarchy checkpoint yet, in
// which case the detector signals a full resync instead of an incremental one.
func (c Checkpoint) NeverSynced() bool {
	return c.HierarchyCheckpoint == ""
}
