package services

import (
	"time"
	"trustive/internal/providers"
	"trustive/internal/storage"
)

const (
	ReviewWindow        = 60 * time.Second
	MaxReviewsPerWindow = 5
)

type RateLimiterInterface interface {
	Allow() (bool, error)
}

// ReviewRateLimiter is a sliding-window counter over submission timestamps
// (unix milliseconds) kept in the storage origin itself. Clearing the slot
// resets it.
type ReviewRateLimiter struct {
	slot *storage.Collection[[]int64]
	now  func() time.Time
}

func NewReviewRateLimiter(kv storage.KeyValueStorage, logger providers.Logger) RateLimiterInterface {
	return NewReviewRateLimiterWithClock(kv, logger, time.Now)
}

func NewReviewRateLimiterWithClock(kv storage.KeyValueStorage, logger providers.Logger, now func() time.Time) *ReviewRateLimiter {
	return &ReviewRateLimiter{
		slot: storage.NewCollection(kv, ReviewTimestampsKey, func() []int64 { return []int64{} }, logger),
		now:  now,
	}
}

// Allow records an attempt and reports whether it fits in the window. A
// rejected attempt is not recorded.
func (l *ReviewRateLimiter) Allow() (bool, error) {
	now := l.now().UnixMilli()
	window := ReviewWindow.Milliseconds()

	timestamps, _ := l.slot.Peek()
	recent := make([]int64, 0, len(timestamps)+1)
	for _, t := range timestamps {
		if now-t < window {
			recent = append(recent, t)
		}
	}

	if len(recent) >= MaxReviewsPerWindow {
		return false, nil
	}

	recent = append(recent, now)
	if err := l.slot.Save(recent); err != nil {
		return false, err
	}
	return true, nil
}
