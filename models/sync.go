package models

type (
	// SyncRequest selects the Splitwise expenses a sync should look at. Dates use the
	// YYYY-MM-DD layout and are optional.
	SyncRequest struct {
		DatedAfter  string `json:"dated_after,omitempty"`
		DatedBefore string `json:"dated_before,omitempty"`
		DryRun      bool   `json:"dry_run,omitempty"`
	}
)

// DateLayout is the layout of the dates in a SyncRequest.
const DateLayout = "2006-01-02"
