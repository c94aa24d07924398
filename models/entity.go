// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package models defines the replica data model shared by every layer of the
// application: campaign hierarchy entities, change-log entries, checkpoints,
// and the wire request/response shapes of the remote advertising platform.
//
// Identifier convention: identifiers >= 0 are assigned by the remote platform
// and are authoritative. Identifiers < 0 are local placeholders minted for
// entities that have not been pushed yet; after a successful remote create the
// placeholder is remapped to the real identifier across all referencing
// records and never reused.
package models

// EntityKind names one level of the campaign hierarchy. The pusher resolves
// its per-kind handler table by this value.
type EntityKind string

const (
	KindCampaign  EntityKind = "Campaigns"
	KindAdGroup   EntityKind = "AdGroups"
	KindAd        EntityKind = "Ads"
	KindCriterion EntityKind = "Keywords"
)

// State is the operational state of an entity as the local replica sees it.
//
// StateDeletePending has no remote equivalent: it is a terminal local marker
// that drives the delete phase of the push pipeline. Once set, no other field
// of the entity may change.
type State string

const (
	StateOn            State = "ON"
	StateOff           State = "OFF"
	StateSuspended     State = "SUSPENDED"
	StateArchived      State = "ARCHIVED"
	StateEnded         State = "ENDED"
	StateOffByMonitor  State = "OFF_BY_MONITORING"
	StateUnknown       State = "UNKNOWN"
	StateDeletePending State = "DELETE"
)

// Status is the platform-assigned review status. It is read-only from the
// local side and never pushed.
type Status string

const (
	StatusAccepted    Status = "ACCEPTED"
	StatusDraft       Status = "DRAFT"
	StatusModeration  Status = "MODERATION"
	StatusPreaccepted Status = "PREACCEPTED"
	StatusRejected    Status = "REJECTED"
	StatusUnknown     Status = "UNKNOWN"
)

// IsPlaceholderID reports whether id is a locally-allocated placeholder that
// the remote platform has never seen.
func IsPlaceholderID(id int64) bool {
	return id < 0
}

// EntityRef identifies one replica record across kinds.
type EntityRef struct {
	Kind EntityKind
	ID   int64
}

// SyncRecord is the classifier's and pusher's flat view of one replica
// record: just enough identity and state to decide which push operation the
// record needs, without loading the full payload.
type SyncRecord struct {
	Kind     EntityKind
	ID       int64
	ParentID int64
	State    State
	Status   Status

	// ChildDirty is set when a child collection that is embedded in this
	// record's wire payload (e.g. an ad group's negative keywords) changed
	// after the last sync, forcing a full resend of the record even though
	// the record's own change log is clean.
	ChildDirty bool
}

// Ref returns the record's EntityRef.
func (r SyncRecord) Ref() EntityRef {
	return EntityRef{Kind: r.Kind, ID: r.ID}
}
