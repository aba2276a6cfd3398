package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Listing is a rental unit. Only the columns the sync core reads or
// writes are mapped; the wider listing record (description, pricing,
// amenities) belongs to the CRUD surface outside this service.
type Listing struct {
	ID     string `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID string `gorm:"type:varchar(36);index;not null" json:"user_id"`
	Title  string `gorm:"size:255" json:"title"`
	// FeedURL is the external ICS calendar for this listing. NULL means
	// no feed is configured and fleet sync skips the listing.
	FeedURL *string `gorm:"column:feed_url" json:"feed_url,omitempty"`
	// LastFeedSyncAt is set after each successful fleet sync of the listing.
	LastFeedSyncAt *time.Time `json:"last_feed_sync_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// TableName sets the listings table name.
func (Listing) TableName() string { return "listings" }

// BeforeCreate assigns a UUID identifier when none is set.
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// Reservation is a booked period on a listing. A TotalPrice of exactly
// zero marks a record imported from an external calendar feed; those
// rows are owned by the reconciliation engine. Paid reservations
// (TotalPrice > 0) are never read, updated, or deleted by sync.
type Reservation struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	ListingID  string    `gorm:"type:varchar(36);index;not null" json:"listing_id"`
	UserID     string    `gorm:"type:varchar(36);not null" json:"user_id"`
	StartDate  time.Time `gorm:"index" json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	TotalPrice int       `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName sets the reservations table name.
func (Reservation) TableName() string { return "reservations" }

// BeforeCreate assigns a UUID identifier when none is set.
func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Imported reports whether this reservation came from a calendar feed.
func (r *Reservation) Imported() bool { return r.TotalPrice == 0 }

// Key returns the reservation's natural identity for feed matching.
func (r *Reservation) Key() string { return IntervalKey(r.StartDate, r.EndDate) }

// BusyInterval is one busy period taken from an external feed. It has no
// identity beyond its (start, end) pair; that pair is the natural key
// used to match against stored reservations, since ICS feeds from the
// big booking platforms carry no stable per-event identifier.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// Key returns the interval's natural identity.
func (b BusyInterval) Key() string { return IntervalKey(b.Start, b.End) }

// IntervalKey renders a (start, end) pair as a canonical string key:
// both instants in UTC RFC3339 with nanoseconds, joined by a slash.
func IntervalKey(start, end time.Time) string {
	return start.UTC().Format(time.RFC3339Nano) + "/" + end.UTC().Format(time.RFC3339Nano)
}

// Sync run status values for per-listing fleet results.
const (
	SyncStatusSuccess = "success"
	SyncStatusError   = "error"
)

// SyncResult reports what one listing's sync run changed.
type SyncResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
	// EventsSkipped counts feed entries discarded during normalization
	// (missing or unparseable dates, stale events).
	EventsSkipped int    `json:"events_skipped"`
	Message       string `json:"message"`
}

// ListingSyncStatus is one listing's outcome within a fleet sync.
type ListingSyncStatus struct {
	ListingID string `json:"listing_id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

// FleetSyncResult aggregates a sync run across every listing with a
// configured feed. A fleet run never fails as a whole; per-listing
// failures are contained in Results.
type FleetSyncResult struct {
	Message string              `json:"message"`
	Synced  int                 `json:"synced"`
	Failed  int                 `json:"failed"`
	Results []ListingSyncStatus `json:"results"`
}
