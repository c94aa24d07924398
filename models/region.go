package models

// Region is one entry of the platform's geographic dictionary. Regions form a
// tree via ParentID and are reloaded wholesale when the dictionary checkpoint
// reports a change.
type Region struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID int64  `json:"parent_id,omitempty"`
}
