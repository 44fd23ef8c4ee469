package services

import (
	"sync"
	"testing"
	"time"
	"trustive/internal/models"
	"trustive/internal/storage"
	"trustive/internal/testutil"

	"golang.org/x/crypto/bcrypt"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, time.March, 14, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type allowAll struct{ calls int }

func (a *allowAll) Allow() (bool, error) {
	a.calls++
	return true, nil
}

type fixture struct {
	kv        *storage.MemoryStorage
	logger    *testutil.MockLogger
	clock     *fakeClock
	limiter   *ReviewRateLimiter
	directory *DirectoryService
	accounts  *AccountService
	profiles  *ProfileService
}

func newFixture(t *testing.T, seed []models.Coach) *fixture {
	t.Helper()
	f := &fixture{
		kv:     storage.NewMemoryStorage(),
		logger: &testutil.MockLogger{},
		clock:  newFakeClock(),
	}
	f.limiter = NewReviewRateLimiterWithClock(f.kv, f.logger, f.clock.Now)
	f.directory = NewDirectoryService(f.kv, f.limiter, seed, f.logger)
	f.accounts = NewAccountServiceWithCost(f.kv, f.logger, bcrypt.MinCost)
	f.profiles = NewProfileServiceWithClock(f.directory, f.accounts, f.logger, f.clock.Now)
	return f
}

func emptyCoach(id, name string) models.Coach {
	c := models.Coach{
		ID:          id,
		Name:        name,
		Category:    "Testing",
		Avatar:      models.AvatarFor(name),
		Reviews:     []models.Review{},
		ClaimStatus: models.ClaimUnclaimed,
	}
	c.RecomputeRating()
	return c
}

func review(id string, rating int) models.Review {
	return models.Review{ID: id, Author: "Tester", Rating: rating, Title: "t", Content: "c"}
}

func rawSlot(t *testing.T, kv *storage.MemoryStorage, key string) string {
	t.Helper()
	raw, _, _ := kv.GetItem(key)
	return string(raw)
}
