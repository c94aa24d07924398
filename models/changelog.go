// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// ChangeOrigin separates operator edits from loader writes in the change log.
type ChangeOrigin string

const (
	// OriginLocal marks an operator edit. Local entries after the last sync
	// make the record pending for push.
	OriginLocal ChangeOrigin = "local"

	// OriginPulled marks a synthetic entry appended by the remote loader
	// when it overwrites a record with remote truth. Pulled entries never
	// count as pending local changes.
	OriginPulled ChangeOrigin = "pulled"
)

// ChangeLogEntry is one append-only history record of a single field
// mutation. The log is totally ordered by ChangedAt per entity and is the
// sole source of truth for "what must be re-sent": the classifier inspects
// entries strictly after the last sync, never current field values alone.
type ChangeLogEntry struct {
	Kind      EntityKind   `json:"kind"`
	EntityID  int64        `json:"entity_id"`
	Field     string       `json:"field"`
	Origin    ChangeOrigin `json:"origin"`
	ChangedAt time.Time    `json:"changed_at"`
}

// FieldState is the change-log field name of the operational state column.
// A window in which state is the only changed field classifies as
// state-only and maps to a suspend/resume call instead of a full update.
const FieldState = "state"
