package repositories

import (
	"context"
	"time"

	"github.com/obralink/procurement_backend/internal/core/domain"
)

// LedgerDateRange is an optional date window over entry dates. Nil bounds are
// open ends.
type LedgerDateRange struct {
	From *time.Time
	To   *time.Time
}

// LedgerReader defines read operations over the purchase ledger. All listing
// methods return entries sorted ascending by entry date.
type LedgerReader interface {
	// FindEntriesByItemID retrieves all entries for one item within the window.
	FindEntriesByItemID(ctx context.Context, itemID string, window LedgerDateRange) ([]domain.LedgerEntry, error)

	// FindEntriesByProjectID retrieves all entries attributed to a project by id.
	FindEntriesByProjectID(ctx context.Context, projectID string, window LedgerDateRange) ([]domain.LedgerEntry, error)

	// FindEntriesByProjectName retrieves entries by denormalized project name.
	// Fallback path only; callers must try FindEntriesByProjectID first.
	FindEntriesByProjectName(ctx context.Context, projectName string, window LedgerDateRange) ([]domain.LedgerEntry, error)

	// ListAllEntries retrieves every entry within the window. Full-ledger scan;
	// only the fleet-wide variation report uses it.
	ListAllEntries(ctx context.Context, window LedgerDateRange) ([]domain.LedgerEntry, error)

	// LoadKeySet loads the full set of existing (orderID, itemID) keys.
	LoadKeySet(ctx context.Context) (map[domain.LedgerKey]struct{}, error)

	// KeyExists checks a single deduplication key. Point lookup for the
	// incremental reconcile path.
	KeyExists(ctx context.Context, key domain.LedgerKey) (bool, error)
}

// LedgerWriter defines the only write operation the ledger supports.
// Entries are immutable; there is no update or delete.
type LedgerWriter interface {
	// InsertEntries appends entries in chunked batches. Each chunk commits
	// independently; a mid-run failure leaves earlier chunks intact.
	InsertEntries(ctx context.Context, entries []domain.LedgerEntry) (int, error)
}

// LedgerRepositoryFacade combines ledger read and write interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
