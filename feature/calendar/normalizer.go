package calendar

import (
	"fmt"
	"strings"
	"time"

	"rental-manager/feature/calendar/models"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
)

// Normalizer turns raw ICS text into busy intervals. Individual bad
// events are skipped rather than failing the run; only an unparseable
// document is an error.
type Normalizer struct {
	staleAfter time.Duration
	logger     *zap.Logger
}

// NewNormalizer creates a Normalizer with the configured staleness window.
func NewNormalizer(cfg Config, logger *zap.Logger) *Normalizer {
	days := cfg.StaleAfterDays
	if days <= 0 {
		days = 30
	}
	return &Normalizer{
		staleAfter: time.Duration(days) * 24 * time.Hour,
		logger:     logger,
	}
}

// Normalize parses a calendar document and returns the surviving busy
// intervals along with the count of discarded events. Only VEVENT
// components are considered; an event is discarded when it lacks a start
// or end, when either timestamp fails to parse, or when its end lies
// before the staleness cutoff (now minus the configured window).
func (n *Normalizer) Normalize(data string, now time.Time) ([]models.BusyInterval, int, error) {
	cal, err := ics.ParseCalendar(strings.NewReader(data))
	if err != nil {
		return nil, 0, &FeedUnavailableError{Err: fmt.Errorf("parsing calendar document: %w", err)}
	}

	cutoff := now.Add(-n.staleAfter)

	intervals := make([]models.BusyInterval, 0, len(cal.Events()))
	skipped := 0

	for _, ev := range cal.Events() {
		start, err := ev.GetStartAt()
		if err != nil {
			skipped++
			n.logger.Debug("skipping event without usable start", zap.Error(err))
			continue
		}
		end, err := ev.GetEndAt()
		if err != nil {
			skipped++
			n.logger.Debug("skipping event without usable end", zap.Error(err))
			continue
		}
		if end.Before(cutoff) {
			skipped++
			continue
		}

		// Only (start, end) survives; summaries, attendees, and
		// recurrence rules are not interpreted.
		intervals = append(intervals, models.BusyInterval{
			Start: start.UTC(),
			End:   end.UTC(),
		})
	}

	return intervals, skipped, nil
}
