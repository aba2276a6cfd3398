package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rental-manager/feature/calendar/models"

	"gorm.io/gorm"
)

// Store is the persistence boundary of the sync core. It is injected
// into the Engine and Service at construction time so tests can swap in
// doubles, and so nothing in this package reaches for a global handle.
type Store interface {
	// GetListing returns the listing or nil when it does not exist.
	GetListing(ctx context.Context, id string) (*models.Listing, error)
	// ListFeedListings returns every listing with a configured feed URL.
	ListFeedListings(ctx context.Context) ([]models.Listing, error)
	// ListImported returns the listing's imported (zero-price)
	// reservations, restricted to future start dates when futureOnly is set.
	ListImported(ctx context.Context, listingID string, futureOnly bool) ([]models.Reservation, error)
	// CreateReservations bulk-inserts reservations.
	CreateReservations(ctx context.Context, reservations []models.Reservation) error
	// UpdateReservationDates rewrites one reservation's interval in place.
	UpdateReservationDates(ctx context.Context, id string, start, end time.Time) error
	// DeleteReservations removes reservations by identifier set.
	DeleteReservations(ctx context.Context, ids []string) error
	// DeleteAllImported removes every imported reservation of the
	// listing, past or future, and returns the number removed.
	DeleteAllImported(ctx context.Context, listingID string) (int, error)
	// UpdateLastSync records a successful sync instant on the listing.
	UpdateLastSync(ctx context.Context, listingID string, at time.Time) error
	// UpdateFeedURL sets or clears (nil) the listing's feed URL.
	UpdateFeedURL(ctx context.Context, listingID string, feedURL *string) error
}

// gormStore implements Store on a GORM connection.
type gormStore struct {
	db *gorm.DB
}

// NewStore wraps a GORM connection in the Store interface.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.WithContext(ctx).First(&listing, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching listing %s: %w", id, err)
	}
	return &listing, nil
}

func (s *gormStore) ListFeedListings(ctx context.Context) ([]models.Listing, error) {
	var listings []models.Listing
	err := s.db.WithContext(ctx).
		Where("feed_url IS NOT NULL AND feed_url <> ''").
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("listing feed listings: %w", err)
	}
	return listings, nil
}

func (s *gormStore) ListImported(ctx context.Context, listingID string, futureOnly bool) ([]models.Reservation, error) {
	q := s.db.WithContext(ctx).
		Where("listing_id = ? AND total_price = 0", listingID)
	if futureOnly {
		q = q.Where("start_date >= ?", time.Now().UTC())
	}

	var reservations []models.Reservation
	if err := q.Find(&reservations).Error; err != nil {
		return nil, fmt.Errorf("listing imported reservations: %w", err)
	}
	return reservations, nil
}

func (s *gormStore) CreateReservations(ctx context.Context, reservations []models.Reservation) error {
	if len(reservations) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).CreateInBatches(reservations, 100).Error; err != nil {
		return fmt.Errorf("creating reservations: %w", err)
	}
	return nil
}

func (s *gormStore) UpdateReservationDates(ctx context.Context, id string, start, end time.Time) error {
	err := s.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Updates(map[string]any{"start_date": start, "end_date": end}).Error
	if err != nil {
		return fmt.Errorf("updating reservation %s: %w", id, err)
	}
	return nil
}

func (s *gormStore) DeleteReservations(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&models.Reservation{}).Error
	if err != nil {
		return fmt.Errorf("deleting reservations: %w", err)
	}
	return nil
}

func (s *gormStore) DeleteAllImported(ctx context.Context, listingID string) (int, error) {
	res := s.db.WithContext(ctx).
		Where("listing_id = ? AND total_price = 0", listingID).
		Delete(&models.Reservation{})
	if res.Error != nil {
		return 0, fmt.Errorf("deleting imported reservations: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

func (s *gormStore) UpdateLastSync(ctx context.Context, listingID string, at time.Time) error {
	err := s.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ?", listingID).
		Update("last_feed_sync_at", at).Error
	if err != nil {
		return fmt.Errorf("updating last sync timestamp: %w", err)
	}
	return nil
}

func (s *gormStore) UpdateFeedURL(ctx context.Context, listingID string, feedURL *string) error {
	err := s.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ?", listingID).
		Update("feed_url", feedURL).Error
	if err != nil {
		return fmt.Errorf("updating feed URL: %w", err)
	}
	return nil
}
