package calendar

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"rental-manager/core/logger"
	"rental-manager/feature/calendar/models"

	"go.uber.org/zap"
)

// Service drives single-listing and fleet sync runs: fetch, normalize,
// reconcile. All collaborators are injected at construction.
type Service struct {
	store      Store
	fetcher    FeedFetcher
	normalizer *Normalizer
	engine     *Engine
	archive    *Archive // nil disables feed snapshotting
	logger     *zap.Logger

	// locks serializes runs per listing. Two overlapping runs of the
	// same listing would diff against the same snapshot and issue
	// conflicting writes, so the second run is rejected outright.
	locks sync.Map // listingID -> *sync.Mutex
}

// NewService creates the sync orchestrator.
func NewService(store Store, fetcher FeedFetcher, normalizer *Normalizer, engine *Engine, archive *Archive, log *zap.Logger) *Service {
	return &Service{
		store:      store,
		fetcher:    fetcher,
		normalizer: normalizer,
		engine:     engine,
		archive:    archive,
		logger:     log,
	}
}

// SyncListing runs one listing's sync. An empty feedURL falls back to the
// listing's configured feed. The listing existence check runs before any
// fetch or parse work, and a concurrent run for the same listing is
// rejected with ErrSyncInProgress.
func (s *Service) SyncListing(ctx context.Context, listingID, feedURL string, force bool) (models.SyncResult, error) {
	var res models.SyncResult

	listing, err := s.store.GetListing(ctx, listingID)
	if err != nil {
		// Not a SyncFailedError: that type is reserved for store
		// failures while applying a plan, and no plan exists yet.
		return res, fmt.Errorf("looking up listing %s: %w", listingID, err)
	}
	if listing == nil {
		return res, ErrListingNotFound
	}

	if feedURL == "" {
		if listing.FeedURL == nil || *listing.FeedURL == "" {
			return res, ErrNoFeedConfigured
		}
		feedURL = *listing.FeedURL
	}

	mu := s.listingLock(listingID)
	if !mu.TryLock() {
		return res, ErrSyncInProgress
	}
	defer mu.Unlock()

	l := logger.WithListing(s.logger, listingID)

	raw, err := s.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		return res, err
	}

	if s.archive != nil {
		s.archive.Snapshot(ctx, listingID, raw)
	}

	intervals, skipped, err := s.normalizer.Normalize(raw, time.Now().UTC())
	if err != nil {
		return res, err
	}
	if skipped > 0 {
		l.Warn("discarded events during normalization", zap.Int("skipped", skipped))
	}

	res, err = s.engine.Reconcile(ctx, *listing, intervals, force)
	if err != nil {
		return res, err
	}
	res.EventsSkipped = skipped

	l.Info("calendar sync completed",
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
		zap.Int("deleted", res.Deleted),
		zap.Int("skipped", skipped),
		zap.Bool("force", force))
	return res, nil
}

// SyncAll syncs every listing with a configured feed, sequentially and in
// incremental mode only. Each listing fails or succeeds on its own; a
// fleet run never returns a hard failure. The last-sync timestamp is
// recorded per listing after a successful run.
func (s *Service) SyncAll(ctx context.Context) models.FleetSyncResult {
	var out models.FleetSyncResult

	listings, err := s.store.ListFeedListings(ctx)
	if err != nil {
		s.logger.Error("fleet sync could not enumerate listings", zap.Error(err))
		out.Message = fmt.Sprintf("fleet sync failed to enumerate listings: %v", err)
		return out
	}
	if len(listings) == 0 {
		out.Message = "no listings with calendar feeds found"
		out.Results = []models.ListingSyncStatus{}
		return out
	}

	for _, listing := range listings {
		status := models.ListingSyncStatus{
			ListingID: listing.ID,
			Title:     listing.Title,
			Status:    models.SyncStatusSuccess,
		}

		if _, err := s.SyncListing(ctx, listing.ID, "", false); err != nil {
			s.logger.Error("listing sync failed",
				zap.String("listing_id", listing.ID), zap.Error(err))
			status.Status = models.SyncStatusError
			status.Error = err.Error()
			out.Failed++
		} else {
			out.Synced++
			if err := s.store.UpdateLastSync(ctx, listing.ID, time.Now().UTC()); err != nil {
				s.logger.Warn("failed to record last sync timestamp",
					zap.String("listing_id", listing.ID), zap.Error(err))
			}
		}

		out.Results = append(out.Results, status)
	}

	out.Message = fmt.Sprintf("sync completed: %d successful, %d failed", out.Synced, out.Failed)
	return out
}

// ConfigureFeed sets or clears a listing's calendar feed URL. An empty
// URL clears the configuration. URLs must parse and look like a calendar
// endpoint (contain ".ics" or "calendar").
func (s *Service) ConfigureFeed(ctx context.Context, listingID, feedURL string) error {
	listing, err := s.store.GetListing(ctx, listingID)
	if err != nil {
		return err
	}
	if listing == nil {
		return ErrListingNotFound
	}

	if feedURL == "" {
		return s.store.UpdateFeedURL(ctx, listingID, nil)
	}

	u, err := url.Parse(feedURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidFeedURL
	}
	if !strings.Contains(feedURL, ".ics") && !strings.Contains(feedURL, "calendar") {
		return ErrInvalidFeedURL
	}

	return s.store.UpdateFeedURL(ctx, listingID, &feedURL)
}

func (s *Service) listingLock(listingID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(listingID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
