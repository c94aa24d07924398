package models

// ChangeSet is the remote change detector's answer for one account: which
// ids must be re-fetched, which locally-known ids disappeared remotely, and
// the server timestamps to persist once the cycle completes.
type ChangeSet struct {
	// FullResync is set when the account has never been synced. The caller
	// must discard the local hierarchy and reload everything; the id sets
	// below are empty in that case.
	FullResync bool

	// DictionariesChanged is set when shared reference data (regions)
	// changed since the dictionary checkpoint and must be reloaded.
	DictionariesChanged bool

	ChangedCampaigns []int64
	ChangedGroups    []int64
	ChangedAds       []int64

	DeletedCampaigns []int64
	DeletedGroups    []int64
	DeletedAds       []int64

	// HierarchyTimestamp and DictionaryTimestamp are the opaque server
	// timestamps returned by the change checks; they become the next
	// checkpoint after a clean cycle.
	HierarchyTimestamp  string
	DictionaryTimestamp string
}

// Empty reports whether the incremental change set carries no work at all.
func (c ChangeSet) Empty() bool {
	return !c.FullResync && !c.DictionariesChanged &&
		len(c.ChangedCampaigns) == 0 && len(c.ChangedGroups) == 0 && len(c.ChangedAds) == 0 &&
		len(c.DeletedCampaigns) == 0 && len(c.DeletedGroups) == 0 && len(c.DeletedAds) == 0
}
