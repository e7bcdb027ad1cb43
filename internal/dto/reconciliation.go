package dto

// BackfillResult reports what a full reconciliation run accomplished. Partial
// progress is reported as-is; a failed run still returns the counts of what
// landed before the failure.
type BackfillResult struct {
	OrdersProcessed int      `json:"ordersProcessed"`
	EntriesCreated  int      `json:"entriesCreated"`
	Skipped         int      `json:"skipped"` // already present under the same (order, item) key
	Errors          []string `json:"errors,omitempty"`
}
