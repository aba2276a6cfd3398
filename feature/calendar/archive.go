package calendar

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"rental-manager/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Archive snapshots raw feed documents to object storage so operators can
// see exactly what a feed served at a given instant and recover a bad
// import with a force resync. A broken archive must never fail a sync
// run; every failure here is logged and swallowed.
type Archive struct {
	client    storage.Client
	bucket    string
	retention time.Duration
	logger    *zap.Logger

	ensureOnce sync.Once
	ensureErr  error
}

// NewArchive creates a feed archive on the given storage client.
func NewArchive(client storage.Client, cfg storage.Config, logger *zap.Logger) *Archive {
	days := cfg.RetentionDays
	if days <= 0 {
		days = 90
	}
	return &Archive{
		client:    client,
		bucket:    cfg.Bucket,
		retention: time.Duration(days) * 24 * time.Hour,
		logger:    logger,
	}
}

// Snapshot stores the raw feed body under feeds/<listingID>/<timestamp>.ics.
func (a *Archive) Snapshot(ctx context.Context, listingID, body string) {
	if err := a.ensureBucket(ctx); err != nil {
		a.logger.Warn("feed archive unavailable, skipping snapshot",
			zap.String("listing_id", listingID), zap.Error(err))
		return
	}

	name := fmt.Sprintf("feeds/%s/%s.ics", listingID, time.Now().UTC().Format("20060102T150405Z"))
	_, err := a.client.PutObject(ctx, a.bucket, name,
		strings.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: "text/calendar"})
	if err != nil {
		a.logger.Warn("failed to snapshot feed",
			zap.String("listing_id", listingID), zap.String("object", name), zap.Error(err))
	}
}

// Prune removes snapshots older than the retention window and returns the
// number of objects queued for removal.
func (a *Archive) Prune(ctx context.Context) (int, error) {
	if err := a.ensureBucket(ctx); err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-a.retention)

	objectsCh := make(chan minio.ObjectInfo)
	errCh := a.client.RemoveObjects(ctx, a.bucket, objectsCh, minio.RemoveObjectsOptions{})

	pruned := 0
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{
		Prefix:    "feeds/",
		Recursive: true,
	}) {
		if obj.Err != nil {
			close(objectsCh)
			// The removal worker keeps reporting on errCh until it has
			// seen the closed input; leaving it undrained would strand
			// it on the unbuffered channel.
			for range errCh {
			}
			return pruned, fmt.Errorf("listing archive objects: %w", obj.Err)
		}
		if obj.LastModified.Before(cutoff) {
			objectsCh <- minio.ObjectInfo{Key: obj.Key}
			pruned++
		}
	}
	close(objectsCh)

	for rmErr := range errCh {
		if rmErr.Err != nil {
			return pruned, fmt.Errorf("removing archive object %s: %w", rmErr.ObjectName, rmErr.Err)
		}
	}

	return pruned, nil
}

func (a *Archive) ensureBucket(ctx context.Context) error {
	a.ensureOnce.Do(func() {
		exists, err := a.client.BucketExists(ctx, a.bucket)
		if err != nil {
			a.ensureErr = fmt.Errorf("checking archive bucket: %w", err)
			return
		}
		if !exists {
			if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
				a.ensureErr = fmt.Errorf("creating archive bucket: %w", err)
			}
		}
	})
	return a.ensureErr
}
