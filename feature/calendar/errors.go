package calendar

import (
	"errors"
	"fmt"
)

var (
	// ErrListingNotFound is returned when the target listing does not
	// exist at sync time. It is detected before any fetch or write.
	ErrListingNotFound = errors.New("listing not found")

	// ErrSyncInProgress is returned when another sync run for the same
	// listing currently holds the per-listing lock.
	ErrSyncInProgress = errors.New("a sync for this listing is already running")

	// ErrNoFeedConfigured is returned when a sync is requested without a
	// feed URL and the listing has none configured.
	ErrNoFeedConfigured = errors.New("listing has no calendar feed configured")

	// ErrInvalidFeedURL is returned when a configured feed URL does not
	// look like a calendar endpoint.
	ErrInvalidFeedURL = errors.New("invalid calendar feed URL")
)

// FeedUnavailableError reports that the external calendar document could
// not be fetched or was not a parseable calendar. The listing's stored
// reservations are untouched when this error is returned.
type FeedUnavailableError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FeedUnavailableError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("calendar feed unavailable (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("calendar feed unavailable: %v", e.Err)
}

func (e *FeedUnavailableError) Unwrap() error { return e.Err }

// SyncFailedError wraps a store-layer failure during reconciliation.
// Writes committed before the failure are not rolled back; a re-run of
// the same sync converges to the same state.
type SyncFailedError struct {
	Err error
}

func (e *SyncFailedError) Error() string {
	return fmt.Sprintf("calendar sync failed: %v", e.Err)
}

func (e *SyncFailedError) Unwrap() error { return e.Err }
