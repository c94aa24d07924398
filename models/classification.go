// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// ChangeClass is the push operation a locally dirty record requires.
type ChangeClass int

const (
	// ClassUnchanged — no change-log entries after the last sync; skip.
	ClassUnchanged ChangeClass = iota

	// ClassNew — placeholder id; must be created remotely and remapped.
	ClassNew

	// ClassStateOnly — only the state field changed in the window; maps to
	// a suspend/resume call, never a full update.
	ClassStateOnly

	// ClassContentChanged — some other field (or an embedded child
	// collection) changed; maps to a full update that carries the current
	// state along, so no separate state call is issued.
	ClassContentChanged

	// ClassPendingDelete — state is the synthetic delete-pending marker;
	// maps to a remote delete followed by local removal.
	ClassPendingDelete
)

func (c ChangeClass) String() string {
	switch c {
	case ClassNew:
		return "new"
	case ClassStateOnly:
		return "state-only"
	case ClassContentChanged:
		return "content-changed"
	case ClassPendingDelete:
		return "pending-delete"
	default:
		return "unchanged"
	}
}

// ClassifiedSet partitions one kind's dirty records by the operation they
// need. Every record appears in at most one bucket.
type ClassifiedSet struct {
	New            []SyncRecord
	ContentChanged []SyncRecord
	StateOnly      []SyncRecord
	PendingDelete  []SyncRecord
}

// Empty reports whether no push work exists for the kind.
func (s ClassifiedSet) Empty() bool {
	return len(s.New) == 0 && len(s.ContentChanged) == 0 &&
		len(s.StateOnly) == 0 && len(s.PendingDelete) == 0
}
