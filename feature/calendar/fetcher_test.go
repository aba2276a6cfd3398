package calendar

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFetch_ReturnsBodyAndSendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"))
	}))
	defer srv.Close()

	f := NewFetcher(Config{FetchTimeoutSeconds: 5, UserAgent: "rental-manager-sync/1.0"})
	body, err := f.Fetch(context.Background(), srv.URL)

	assert.NoError(t, err)
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Equal(t, "rental-manager-sync/1.0", gotUA)
}

func TestFetch_Non2xxStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"not found", http.StatusNotFound},
		{"server error", http.StatusInternalServerError},
		{"rate limited", http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			f := NewFetcher(Config{FetchTimeoutSeconds: 5})
			_, err := f.Fetch(context.Background(), srv.URL)

			var feedErr *FeedUnavailableError
			assert.True(t, errors.As(err, &feedErr))
			assert.Equal(t, tt.status, feedErr.StatusCode)
		})
	}
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	f := NewFetcher(Config{FetchTimeoutSeconds: 1})
	_, err := f.Fetch(context.Background(), srv.URL)

	var feedErr *FeedUnavailableError
	assert.True(t, errors.As(err, &feedErr))
}

func TestFetch_UnreachableHost(t *testing.T) {
	f := NewFetcher(Config{FetchTimeoutSeconds: 1})
	_, err := f.Fetch(context.Background(), "http://127.0.0.1:1/feed.ics")

	var feedErr *FeedUnavailableError
	assert.True(t, errors.As(err, &feedErr))
}
