package models

// Account is one advertising account managed by the sync engine. The login is
// the primary key; the remote platform scopes every API call to it.
type Account struct {
	Login     string `json:"login"`
	AuthToken string `json:"auth_token"`
	Sandbox   bool   `json:"sandbox"`

	// Disabled accounts are skipped by SyncAll but keep their replica data.
	Disabled bool `json:"disabled"`
}
