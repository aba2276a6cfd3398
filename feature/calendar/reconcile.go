package calendar

import (
	"context"
	"fmt"
	"sync"

	"rental-manager/feature/calendar/models"

	"go.uber.org/zap"
)

// Engine converges a listing's imported reservations to the busy
// intervals of its external feed. It only ever touches zero-price rows;
// paid bookings are invisible to it by query construction.
type Engine struct {
	store  Store
	logger *zap.Logger
}

// NewEngine creates a reconciliation engine on the given store.
func NewEngine(store Store, logger *zap.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// Reconcile computes and applies the minimal create/update/delete set for
// one listing. In incremental mode only future imported reservations are
// considered, preserving the history of past stays. Force mode is the
// destructive recovery path: every imported reservation is wiped, past
// and future, and the feed is imported from scratch.
func (e *Engine) Reconcile(ctx context.Context, listing models.Listing, intervals []models.BusyInterval, force bool) (models.SyncResult, error) {
	if force {
		return e.forceResync(ctx, listing, intervals)
	}
	return e.incremental(ctx, listing, intervals)
}

func (e *Engine) incremental(ctx context.Context, listing models.Listing, intervals []models.BusyInterval) (models.SyncResult, error) {
	var res models.SyncResult

	existing, err := e.store.ListImported(ctx, listing.ID, true)
	if err != nil {
		return res, &SyncFailedError{Err: err}
	}

	// A feed that reports no events means every stored future import is
	// a cancellation.
	if len(intervals) == 0 {
		if len(existing) == 0 {
			res.Message = "no valid events found to sync"
			return res, nil
		}
		ids := make([]string, 0, len(existing))
		for _, r := range existing {
			ids = append(ids, r.ID)
		}
		if err := e.store.DeleteReservations(ctx, ids); err != nil {
			return res, &SyncFailedError{Err: err}
		}
		res.Deleted = len(ids)
		res.Message = fmt.Sprintf("cleaned up %d cancelled reservations", res.Deleted)
		return res, nil
	}

	byKey := make(map[string]models.Reservation, len(existing))
	for _, r := range existing {
		byKey[r.Key()] = r
	}

	seen := make(map[string]struct{}, len(intervals))
	var creates []models.Reservation
	var updates []models.Reservation

	for _, iv := range intervals {
		key := iv.Key()
		if _, dup := seen[key]; dup {
			// Two feed events with identical (start, end) collapse to
			// one record: the system tracks busy intervals, not bookings.
			continue
		}
		seen[key] = struct{}{}

		if r, ok := byKey[key]; ok {
			// Rewriting identical dates is a no-op in effect but still
			// counts as an update.
			r.StartDate, r.EndDate = iv.Start, iv.End
			updates = append(updates, r)
		} else {
			creates = append(creates, models.Reservation{
				ListingID:  listing.ID,
				UserID:     listing.UserID,
				StartDate:  iv.Start,
				EndDate:    iv.End,
				TotalPrice: 0,
			})
		}
	}

	// Stored intervals the feed no longer mentions are cancellations.
	var deletes []string
	for key, r := range byKey {
		if _, ok := seen[key]; !ok {
			deletes = append(deletes, r.ID)
		}
	}

	if err := e.apply(ctx, creates, updates, deletes); err != nil {
		return res, err
	}

	res.Created = len(creates)
	res.Updated = len(updates)
	res.Deleted = len(deletes)
	res.Message = fmt.Sprintf("synced %d new, %d updated, and %d deleted reservations",
		res.Created, res.Updated, res.Deleted)
	return res, nil
}

func (e *Engine) forceResync(ctx context.Context, listing models.Listing, intervals []models.BusyInterval) (models.SyncResult, error) {
	var res models.SyncResult

	deleted, err := e.store.DeleteAllImported(ctx, listing.ID)
	if err != nil {
		return res, &SyncFailedError{Err: err}
	}
	res.Deleted = deleted

	// No matching phase: nothing remains to match against. Duplicate
	// intervals still collapse to one record each.
	seen := make(map[string]struct{}, len(intervals))
	var creates []models.Reservation
	for _, iv := range intervals {
		key := iv.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		creates = append(creates, models.Reservation{
			ListingID:  listing.ID,
			UserID:     listing.UserID,
			StartDate:  iv.Start,
			EndDate:    iv.End,
			TotalPrice: 0,
		})
	}

	if len(creates) > 0 {
		if err := e.store.CreateReservations(ctx, creates); err != nil {
			return res, &SyncFailedError{Err: err}
		}
	}
	res.Created = len(creates)

	if res.Created == 0 {
		res.Message = fmt.Sprintf("force resync completed: %d reservations cleared", res.Deleted)
	} else {
		res.Message = fmt.Sprintf("force resync completed: %d cleared, %d new reservations imported",
			res.Deleted, res.Created)
	}
	return res, nil
}

// apply issues the three batches concurrently. They touch disjoint
// record sets, so ordering between them does not matter; all three are
// awaited before counts are reported. There is no rollback of batches
// that committed before a failure; re-running the sync converges.
func (e *Engine) apply(ctx context.Context, creates, updates []models.Reservation, deletes []string) error {
	var (
		wg        sync.WaitGroup
		createErr error
		updateErr error
		deleteErr error
	)

	if len(creates) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			createErr = e.store.CreateReservations(ctx, creates)
		}()
	}

	if len(updates) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, r := range updates {
				if err := e.store.UpdateReservationDates(ctx, r.ID, r.StartDate, r.EndDate); err != nil {
					updateErr = err
					return
				}
			}
		}()
	}

	if len(deletes) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			deleteErr = e.store.DeleteReservations(ctx, deletes)
		}()
	}

	wg.Wait()

	for _, err := range []error{createErr, updateErr, deleteErr} {
		if err != nil {
			e.logger.Error("reconciliation apply failed", zap.Error(err))
			return &SyncFailedError{Err: err}
		}
	}
	return nil
}
