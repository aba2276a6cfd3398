package mocks

import (
	"context"
	"time"

	"rental-manager/feature/calendar/models"

	"github.com/stretchr/testify/mock"
)

// Store is a mock implementation of calendar.Store
type Store struct {
	mock.Mock
}

func (m *Store) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	args := m.Called(ctx, id)
	if l, ok := args.Get(0).(*models.Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) ListFeedListings(ctx context.Context) ([]models.Listing, error) {
	args := m.Called(ctx)
	if l, ok := args.Get(0).([]models.Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) ListImported(ctx context.Context, listingID string, futureOnly bool) ([]models.Reservation, error) {
	args := m.Called(ctx, listingID, futureOnly)
	if r, ok := args.Get(0).([]models.Reservation); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) CreateReservations(ctx context.Context, reservations []models.Reservation) error {
	args := m.Called(ctx, reservations)
	return args.Error(0)
}

func (m *Store) UpdateReservationDates(ctx context.Context, id string, start, end time.Time) error {
	args := m.Called(ctx, id, start, end)
	return args.Error(0)
}

func (m *Store) DeleteReservations(ctx context.Context, ids []string) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *Store) DeleteAllImported(ctx context.Context, listingID string) (int, error) {
	args := m.Called(ctx, listingID)
	return args.Int(0), args.Error(1)
}

func (m *Store) UpdateLastSync(ctx context.Context, listingID string, at time.Time) error {
	args := m.Called(ctx, listingID, at)
	return args.Error(0)
}

func (m *Store) UpdateFeedURL(ctx context.Context, listingID string, feedURL *string) error {
	args := m.Called(ctx, listingID, feedURL)
	return args.Error(0)
}
