package services

import (
	"errors"
	"go.uber.org/atomic"
	"strings"
	"sync"
	"trustive/internal/models"
	"trustive/internal/providers"
	"trustive/internal/storage"
)

type ReviewOutcome int

const (
	ReviewAdded ReviewOutcome = iota
	ReviewCoachNotFound
	ReviewRateLimited
)

func (o ReviewOutcome) String() string {
	switch o {
	case ReviewAdded:
		return "added"
	case ReviewCoachNotFound:
		return "not_found"
	case ReviewRateLimited:
		return "rate_limited"
	}
	return "unknown"
}

type ClaimOutcome int

const (
	ClaimRequested ClaimOutcome = iota
	ClaimCoachNotFound
	ClaimAlreadyClaimed
)

func (o ClaimOutcome) String() string {
	switch o {
	case ClaimRequested:
		return "pending"
	case ClaimCoachNotFound:
		return "not_found"
	case ClaimAlreadyClaimed:
		return "already_claimed"
	}
	return "unknown"
}

type ReplyOutcome int

const (
	ReplyPosted ReplyOutcome = iota
	ReplyCoachNotFound
	ReplyReviewNotFound
	ReplyAlreadyExists
)

var ErrEmptyReply = errors.New("reply text is empty")

type DirectoryServiceInterface interface {
	ListCoaches() []models.Coach
	GetCoach(id string) (models.Coach, bool)
	SearchCoaches(query string) []models.Coach
	CreateCoach(coach models.Coach) error
	UpdateCoach(coach models.Coach) (bool, error)
	ModifyCoach(id string, change func(*models.Coach) error) (models.Coach, bool, error)
	RemoveCoachProfile(id string) (bool, error)
	AddReview(coachID string, review models.Review) (ReviewOutcome, error)
	RequestClaim(name string) (ClaimOutcome, error)
	ReplyToReview(coachID, reviewID, text string) (ReplyOutcome, error)
	CoachCount() int
	Revision() uint64
}

// DirectoryService owns the coaches collection. Every mutator reads the whole
// collection, changes it in memory and writes it back before returning; opsMu
// keeps those cycles from interleaving inside one process. Other processes
// sharing the storage still race last-writer-wins.
type DirectoryService struct {
	coaches  *storage.Collection[[]models.Coach]
	limiter  RateLimiterInterface
	logger   providers.Logger
	opsMu    sync.Mutex
	revision atomic.Uint64
}

func NewDirectoryService(kv storage.KeyValueStorage, limiter RateLimiterInterface, seed []models.Coach, logger providers.Logger) *DirectoryService {
	if seed == nil {
		seed = DefaultCoaches()
	}
	return &DirectoryService{
		coaches: storage.NewCollection(kv, CoachesKey, func() []models.Coach {
			return cloneCoaches(seed)
		}, logger),
		limiter: limiter,
		logger:  logger,
	}
}

func (ds *DirectoryService) ListCoaches() []models.Coach {
	ds.opsMu.Lock()
	defer ds.opsMu.Unlock()
	return ds.coaches.Load()
}

func (ds *DirectoryService) GetCoach(id string) (models.Coach, bool) {
	for _, c := range ds.ListCoaches() {
		if c.ID == id {
			return c, true
		}
	}
	return models.Coach{}, false
}

// SearchCoaches matches query case-insensitively against name and category.
func (ds *DirectoryService) SearchCoaches(query string) []models.Coach {
	coaches := ds.ListCoaches()
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return coaches
	}
	found := make([]models.Coach, 0, len(coaches))
	for _, c := range coaches {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Category), q) {
			found = append(found, c)
		}
	}
	return found
}

func (ds *DirectoryService) CoachCount() int {
	return len(ds.ListCoaches())
}

// Revision changes after every persisted mutation.
func (ds *DirectoryService) Revision() uint64 {
	return ds.revision.Load()
}

// CreateCoach appends a fully formed profile. The caller picks the id and
// initial derived fields.
func (ds *DirectoryService) CreateCoach(coach models.Coach) error {
	ds.opsMu.Lock()
	defer ds.opsMu.Unlock()

	coaches := ds.coaches.Load()
	coaches = append(coaches, coach)
	return ds.save(coaches)
}

// UpdateCoach replaces the stored record with the same id wholesale. Unknown
// ids leave storage untouched.
func (ds *DirectoryService) UpdateCoach(coach models.Coach) (bool, error) {
	ds.opsMu.Lock()
	defer ds.opsMu.Unlock()

	coaches := ds.coaches.Load()
	idx := indexOfCoach(coaches, coach.ID)
	if idx == -1 {
		return false, nil
	}
	coaches[idx] = coach
	if err := ds.save(coaches); err != nil {
		return false, err
	}
	return true, nil
}

// ModifyCoach applies change to the stored record and saves it within one
// locked cycle, so reviews or replies written meanwhile are kept. An error
// from change leaves storage untouched and is returned as is.
func (ds *DirectoryService) ModifyCoach(id string, change func(*models.Coach) error) (models.Coach, bool, error) {
	ds.opsMu.Lock()
	defer ds.opsMu.Unlock()

	coaches := ds.coaches.Load()
	idx := indexOfCoach(coaches, id)
	if idx == -1 {
		return models.Coach{}, false, nil
	}
	if err := change(&coaches[idx]); err != nil {
		return models.Coach{}, true, err
	}
	if err := ds.save(coaches); err != nil {
		return models.Coach{}, true, err
	}
	return coaches[idx].Clone(), true, nil
}

func (ds *DirectoryService) RemoveCoachProfile(id string) (bool, error) {
	ds.opsMu.Lock()
	defer ds.opsMu.Unlock()

	coaches := ds.coaches.Load()
	kept := make([]models.Coach, 0, len(coaches))
	for _, c := range coaches {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(coaches) {
		return false, nil
	}
	if err := ds.save(kept); err != nil {
		return false, err
	}
	return true, nil
}

// AddReview consults the rate limiter before anything else, so an attempt
// against an unknown coach still uses up a slot in the window.
func (ds *DirectoryService) AddReview(coachID string, review models.Review) (ReviewOutcome, error) {
	ds.opsMu.Lock()
	defer ds.opsMu.Unlock()

	allowed, err := ds.limiter.Allow()
	if err != nil {
		return ReviewCoachNotFound, err
	}
	if !allowed {
		ds.logger.Warnf(providers.TypeStore, "Review for %s rejected by rate limiter", coachID)
		return ReviewRateLimited, nil
	}

	coaches := ds.coaches.Load()
	idx := indexOfCoach(coaches, coachID)
	if idx == -1 {
		return ReviewCoachNotFound, nil
	}

	coaches[idx].PrependReview(review)
	if err := ds.save(coaches); err != nil {
		return ReviewCoachNotFound, err
	}
	return ReviewAdded, nil
}

// RequestClaim marks the first profile whose name matches (ignoring case) as
// pending. Approval to claimed happens outside this service.
func (ds *DirectoryService) RequestClaim(name string) (ClaimOutcome, error) {
	ds.opsMu.Lock()
	defer ds.opsMu.Unlock()

	coaches := ds.coaches.Load()
	name = strings.TrimSpace(name)
	idx := -1
	for i := range coaches {
		if strings.EqualFold(coaches[i].Name, name) {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ClaimCoachNotFound, nil
	}
	if coaches[idx].IsClaimed() {
		return ClaimAlreadyClaimed, nil
	}

	coaches[idx].ClaimStatus = models.ClaimPending
	if err := ds.save(coaches); err != nil {
		return ClaimCoachNotFound, err
	}
	return ClaimRequested, nil
}

// ReplyToReview attaches the coach's reply. A review is answered at most once.
func (ds *DirectoryService) ReplyToReview(coachID, reviewID, text string) (ReplyOutcome, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ReplyReviewNotFound, ErrEmptyReply
	}

	ds.opsMu.Lock()
	defer ds.opsMu.Unlock()

	coaches := ds.coaches.Load()
	idx := indexOfCoach(coaches, coachID)
	if idx == -1 {
		return ReplyCoachNotFound, nil
	}
	rIdx := coaches[idx].ReviewIndex(reviewID)
	if rIdx == -1 {
		return ReplyReviewNotFound, nil
	}
	if coaches[idx].Reviews[rIdx].HasReply() {
		return ReplyAlreadyExists, nil
	}

	coaches[idx].Reviews[rIdx].Reply = text
	if err := ds.save(coaches); err != nil {
		return ReplyCoachNotFound, err
	}
	return ReplyPosted, nil
}

func (ds *DirectoryService) save(coaches []models.Coach) error {
	if err := ds.coaches.Save(coaches); err != nil {
		ds.logger.Errorf(providers.TypeStore, "Failed to persist coaches: %s", err)
		return err
	}
	ds.revision.Inc()
	return nil
}

func indexOfCoach(coaches []models.Coach, id string) int {
	for i := range coaches {
		if coaches[i].ID == id {
			return i
		}
	}
	return -1
}
