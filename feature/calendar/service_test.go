package calendar

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"rental-manager/feature/calendar/mocks"
	"rental-manager/feature/calendar/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// stubFetcher returns a canned body or error; release, when set, blocks
// the fetch until the channel is closed.
type stubFetcher struct {
	body    string
	err     error
	release chan struct{}
	calls   atomic.Int32
}

func (f *stubFetcher) Fetch(ctx context.Context, feedURL string) (string, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return "", f.err
	}
	return f.body, nil
}

func newTestService(store Store, fetcher FeedFetcher) *Service {
	log := zap.NewNop()
	return NewService(store, fetcher, NewNormalizer(Config{StaleAfterDays: 30}, log),
		NewEngine(store, log), nil, log)
}

func feedListing(id string) *models.Listing {
	url := "https://feeds.example.com/" + id + ".ics"
	return &models.Listing{ID: id, UserID: "user-1", Title: "Loft", FeedURL: &url}
}

func futureFeed() string {
	start := time.Now().UTC().AddDate(0, 1, 0)
	return icsDocument(icsEvent("ev1", start, start.AddDate(0, 0, 4)))
}

func TestSyncListing_ListingNotFound(t *testing.T) {
	store := &mocks.Store{}
	store.On("GetListing", mock.Anything, "missing").Return(nil, nil)
	fetcher := &stubFetcher{body: futureFeed()}

	_, err := newTestService(store, fetcher).SyncListing(context.Background(), "missing", "", false)

	assert.ErrorIs(t, err, ErrListingNotFound)
	assert.Equal(t, int32(0), fetcher.calls.Load(), "existence check must run before any fetch")
}

func TestSyncListing_LookupFailure(t *testing.T) {
	lookupErr := fmt.Errorf("connection refused")
	store := &mocks.Store{}
	store.On("GetListing", mock.Anything, "listing-1").Return(nil, lookupErr)

	_, err := newTestService(store, &stubFetcher{}).SyncListing(context.Background(), "listing-1", "", false)

	assert.ErrorIs(t, err, lookupErr)
	assert.Contains(t, err.Error(), "looking up listing")

	// The apply-failure wrapper is reserved for reconciliation writes;
	// a lookup failure must not masquerade as one.
	var syncErr *SyncFailedError
	assert.False(t, errors.As(err, &syncErr))
}

func TestSyncListing_NoFeedConfigured(t *testing.T) {
	store := &mocks.Store{}
	store.On("GetListing", mock.Anything, "listing-1").
		Return(&models.Listing{ID: "listing-1"}, nil)

	_, err := newTestService(store, &stubFetcher{}).SyncListing(context.Background(), "listing-1", "", false)

	assert.ErrorIs(t, err, ErrNoFeedConfigured)
}

func TestSyncListing_ExplicitURLOverridesConfigured(t *testing.T) {
	store := &mocks.Store{}
	store.On("GetListing", mock.Anything, "listing-1").Return(feedListing("listing-1"), nil)
	store.On("ListImported", mock.Anything, "listing-1", true).
		Return([]models.Reservation{}, nil)
	store.On("CreateReservations", mock.Anything, mock.Anything).Return(nil)

	var gotURL string
	fetcher := fetchFunc(func(ctx context.Context, feedURL string) (string, error) {
		gotURL = feedURL
		return futureFeed(), nil
	})

	res, err := newTestService(store, fetcher).SyncListing(
		context.Background(), "listing-1", "https://other.example.com/cal.ics", false)

	assert.NoError(t, err)
	assert.Equal(t, "https://other.example.com/cal.ics", gotURL)
	assert.Equal(t, 1, res.Created)
}

type fetchFunc func(ctx context.Context, feedURL string) (string, error)

func (f fetchFunc) Fetch(ctx context.Context, feedURL string) (string, error) {
	return f(ctx, feedURL)
}

func TestSyncListing_FeedUnavailable(t *testing.T) {
	store := &mocks.Store{}
	store.On("GetListing", mock.Anything, "listing-1").Return(feedListing("listing-1"), nil)
	fetcher := &stubFetcher{err: &FeedUnavailableError{StatusCode: 503, Err: fmt.Errorf("unavailable")}}

	_, err := newTestService(store, fetcher).SyncListing(context.Background(), "listing-1", "", false)

	var feedErr *FeedUnavailableError
	assert.True(t, errors.As(err, &feedErr))
	store.AssertNotCalled(t, "ListImported", mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncListing_ReportsSkippedEvents(t *testing.T) {
	start := time.Now().UTC().AddDate(0, 1, 0)
	feed := icsDocument(
		icsEvent("good", start, start.AddDate(0, 0, 2)),
		"BEGIN:VEVENT\r\nUID:broken\r\nDTSTART:garbage\r\nEND:VEVENT\r\n",
	)

	store := &mocks.Store{}
	store.On("GetListing", mock.Anything, "listing-1").Return(feedListing("listing-1"), nil)
	store.On("ListImported", mock.Anything, "listing-1", true).
		Return([]models.Reservation{}, nil)
	store.On("CreateReservations", mock.Anything, mock.Anything).Return(nil)

	res, err := newTestService(store, &stubFetcher{body: feed}).SyncListing(
		context.Background(), "listing-1", "", false)

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.EventsSkipped)
}

func TestSyncListing_ConcurrentRunRejected(t *testing.T) {
	store := &mocks.Store{}
	store.On("GetListing", mock.Anything, "listing-1").Return(feedListing("listing-1"), nil)
	store.On("ListImported", mock.Anything, "listing-1", true).
		Return([]models.Reservation{}, nil)

	release := make(chan struct{})
	fetcher := &stubFetcher{body: icsDocument(), release: release}
	svc := newTestService(store, fetcher)

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.SyncListing(context.Background(), "listing-1", "", false)
		firstDone <- err
	}()

	// Wait until the first run holds the lock (it blocks inside Fetch).
	assert.Eventually(t, func() bool { return fetcher.calls.Load() > 0 }, time.Second, 5*time.Millisecond)

	_, err := svc.SyncListing(context.Background(), "listing-1", "", false)
	assert.ErrorIs(t, err, ErrSyncInProgress)

	close(release)
	assert.NoError(t, <-firstDone)
}

func TestSyncAll_EnumerationFailure(t *testing.T) {
	store := &mocks.Store{}
	store.On("ListFeedListings", mock.Anything).
		Return(nil, fmt.Errorf("connection refused"))

	out := newTestService(store, &stubFetcher{}).SyncAll(context.Background())

	assert.Equal(t, 0, out.Synced)
	assert.Equal(t, 0, out.Failed)
	assert.Contains(t, out.Message, "fleet sync failed to enumerate listings")
}

func TestSyncAll_NoListings(t *testing.T) {
	store := &mocks.Store{}
	store.On("ListFeedListings", mock.Anything).Return([]models.Listing{}, nil)

	out := newTestService(store, &stubFetcher{}).SyncAll(context.Background())

	assert.Equal(t, "no listings with calendar feeds found", out.Message)
	assert.Empty(t, out.Results)
}

func TestSyncAll_IsolatesFailures(t *testing.T) {
	good := feedListing("good")
	bad := feedListing("bad")

	store := &mocks.Store{}
	store.On("ListFeedListings", mock.Anything).
		Return([]models.Listing{*good, *bad}, nil)
	store.On("GetListing", mock.Anything, "good").Return(good, nil)
	store.On("GetListing", mock.Anything, "bad").Return(bad, nil)
	store.On("ListImported", mock.Anything, "good", true).
		Return([]models.Reservation{}, nil)
	store.On("CreateReservations", mock.Anything, mock.Anything).Return(nil)
	store.On("UpdateLastSync", mock.Anything, "good", mock.Anything).Return(nil)

	fetcher := fetchFunc(func(ctx context.Context, feedURL string) (string, error) {
		if feedURL == *bad.FeedURL {
			return "", &FeedUnavailableError{URL: feedURL, StatusCode: 500, Err: fmt.Errorf("boom")}
		}
		return futureFeed(), nil
	})

	out := newTestService(store, fetcher).SyncAll(context.Background())

	assert.Equal(t, 1, out.Synced)
	assert.Equal(t, 1, out.Failed)
	assert.Equal(t, "sync completed: 1 successful, 1 failed", out.Message)
	assert.Len(t, out.Results, 2)
	assert.Equal(t, models.SyncStatusSuccess, out.Results[0].Status)
	assert.Equal(t, models.SyncStatusError, out.Results[1].Status)
	assert.NotEmpty(t, out.Results[1].Error)

	// The timestamp is only recorded for the listing that succeeded.
	store.AssertNotCalled(t, "UpdateLastSync", mock.Anything, "bad", mock.Anything)
	store.AssertExpectations(t)
}

func TestConfigureFeed(t *testing.T) {
	validURL := "https://feeds.example.com/listing.ics"

	tests := []struct {
		name    string
		feedURL string
		wantErr error
		stored  bool
	}{
		{"valid ics url", validURL, nil, true},
		{"valid calendar url", "https://example.com/calendar/export?id=1", nil, true},
		{"clear with empty url", "", nil, true},
		{"not a url", "://broken", ErrInvalidFeedURL, false},
		{"missing host", "https:///feed.ics", ErrInvalidFeedURL, false},
		{"not calendar-like", "https://example.com/page.html", ErrInvalidFeedURL, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mocks.Store{}
			store.On("GetListing", mock.Anything, "listing-1").
				Return(feedListing("listing-1"), nil)
			if tt.stored {
				store.On("UpdateFeedURL", mock.Anything, "listing-1", mock.Anything).Return(nil)
			}

			err := newTestService(store, &stubFetcher{}).ConfigureFeed(
				context.Background(), "listing-1", tt.feedURL)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				store.AssertNotCalled(t, "UpdateFeedURL", mock.Anything, mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigureFeed_ListingNotFound(t *testing.T) {
	store := &mocks.Store{}
	store.On("GetListing", mock.Anything, "missing").Return(nil, nil)

	err := newTestService(store, &stubFetcher{}).ConfigureFeed(
		context.Background(), "missing", "https://feeds.example.com/x.ics")

	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestConfigureFeed_ClearPassesNil(t *testing.T) {
	store := &mocks.Store{}
	store.On("GetListing", mock.Anything, "listing-1").Return(feedListing("listing-1"), nil)
	store.On("UpdateFeedURL", mock.Anything, "listing-1", (*string)(nil)).Return(nil)

	err := newTestService(store, &stubFetcher{}).ConfigureFeed(context.Background(), "listing-1", "")

	assert.NoError(t, err)
	store.AssertExpectations(t)
}
