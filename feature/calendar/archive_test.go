package calendar

import (
	"context"
	"strings"
	"testing"
	"time"

	"rental-manager/core/storage"
	storagemocks "rental-manager/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func testArchiveConfig() storage.Config {
	return storage.Config{Bucket: "feed-archive", RetentionDays: 90}
}

func TestArchive_SnapshotStoresFeedDocument(t *testing.T) {
	client := &storagemocks.Client{}
	client.On("BucketExists", mock.Anything, "feed-archive").Return(true, nil)
	client.On("PutObject", mock.Anything, "feed-archive",
		mock.MatchedBy(func(name string) bool {
			return strings.HasPrefix(name, "feeds/listing-1/") && strings.HasSuffix(name, ".ics")
		}),
		mock.Anything, int64(len("BEGIN:VCALENDAR")),
		mock.MatchedBy(func(opts minio.PutObjectOptions) bool {
			return opts.ContentType == "text/calendar"
		})).Return(minio.UploadInfo{}, nil)

	archive := NewArchive(client, testArchiveConfig(), zap.NewNop())
	archive.Snapshot(context.Background(), "listing-1", "BEGIN:VCALENDAR")

	client.AssertExpectations(t)
}

func TestArchive_SnapshotCreatesMissingBucket(t *testing.T) {
	client := &storagemocks.Client{}
	client.On("BucketExists", mock.Anything, "feed-archive").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "feed-archive", mock.Anything).Return(nil)
	client.On("PutObject", mock.Anything, "feed-archive", mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	archive := NewArchive(client, testArchiveConfig(), zap.NewNop())
	archive.Snapshot(context.Background(), "listing-1", "BEGIN:VCALENDAR")
	// The bucket check runs once per archive, not once per snapshot.
	archive.Snapshot(context.Background(), "listing-1", "BEGIN:VCALENDAR")

	client.AssertNumberOfCalls(t, "BucketExists", 1)
	client.AssertNumberOfCalls(t, "PutObject", 2)
}

func TestArchive_PruneRemovesExpiredObjects(t *testing.T) {
	now := time.Now()

	listed := make(chan minio.ObjectInfo, 3)
	listed <- minio.ObjectInfo{Key: "feeds/a/old.ics", LastModified: now.Add(-120 * 24 * time.Hour)}
	listed <- minio.ObjectInfo{Key: "feeds/a/older.ics", LastModified: now.Add(-200 * 24 * time.Hour)}
	listed <- minio.ObjectInfo{Key: "feeds/a/recent.ics", LastModified: now.Add(-24 * time.Hour)}
	close(listed)

	var removed []string
	consumed := make(chan struct{})
	errCh := make(chan minio.RemoveObjectError)
	close(errCh)

	client := &storagemocks.Client{}
	client.On("BucketExists", mock.Anything, "feed-archive").Return(true, nil)
	client.On("ListObjects", mock.Anything, "feed-archive", mock.MatchedBy(func(opts minio.ListObjectsOptions) bool {
		return opts.Prefix == "feeds/" && opts.Recursive
	})).Return((<-chan minio.ObjectInfo)(listed))
	client.On("RemoveObjects", mock.Anything, "feed-archive", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			objectsCh := args.Get(2).(<-chan minio.ObjectInfo)
			go func() {
				defer close(consumed)
				for obj := range objectsCh {
					removed = append(removed, obj.Key)
				}
			}()
		}).
		Return((<-chan minio.RemoveObjectError)(errCh))

	archive := NewArchive(client, testArchiveConfig(), zap.NewNop())
	pruned, err := archive.Prune(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 2, pruned)
	// Prune closes the removal channel on return; wait for the consumer
	// to finish draining before inspecting what it received.
	<-consumed
	assert.ElementsMatch(t, []string{"feeds/a/old.ics", "feeds/a/older.ics"}, removed)
}

func TestArchive_PruneListingFailureReleasesRemovalWorker(t *testing.T) {
	now := time.Now()

	listed := make(chan minio.ObjectInfo, 2)
	listed <- minio.ObjectInfo{Key: "feeds/a/old.ics", LastModified: now.Add(-120 * 24 * time.Hour)}
	listed <- minio.ObjectInfo{Err: assert.AnError}
	close(listed)

	workerDone := make(chan struct{})

	client := &storagemocks.Client{}
	client.On("BucketExists", mock.Anything, "feed-archive").Return(true, nil)
	client.On("ListObjects", mock.Anything, "feed-archive", mock.Anything).
		Return((<-chan minio.ObjectInfo)(listed))
	errCh := make(chan minio.RemoveObjectError)
	client.On("RemoveObjects", mock.Anything, "feed-archive", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			objectsCh := args.Get(2).(<-chan minio.ObjectInfo)
			// Behaves like minio's worker: consume the input, report a
			// failure on the unbuffered error channel, then close it.
			go func() {
				defer close(workerDone)
				var pending []minio.ObjectInfo
				for obj := range objectsCh {
					pending = append(pending, obj)
				}
				for _, obj := range pending {
					errCh <- minio.RemoveObjectError{ObjectName: obj.Key, Err: assert.AnError}
				}
				close(errCh)
			}()
		}).
		Return((<-chan minio.RemoveObjectError)(errCh))

	archive := NewArchive(client, testArchiveConfig(), zap.NewNop())
	_, err := archive.Prune(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "listing archive objects")

	select {
	case <-workerDone:
	case <-time.After(time.Second):
		t.Fatal("removal worker still blocked on its error channel after Prune returned")
	}
}

func TestArchive_PruneBucketCheckFailure(t *testing.T) {
	client := &storagemocks.Client{}
	client.On("BucketExists", mock.Anything, "feed-archive").
		Return(false, assert.AnError)

	archive := NewArchive(client, testArchiveConfig(), zap.NewNop())
	_, err := archive.Prune(context.Background())

	assert.Error(t, err)
	client.AssertNotCalled(t, "ListObjects", mock.Anything, mock.Anything, mock.Anything)
}
