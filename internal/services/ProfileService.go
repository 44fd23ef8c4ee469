package services

import (
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/gookit/validate"
	"strings"
	"time"
	"trustive/internal/models"
	"trustive/internal/providers"
)

var (
	ErrProfileNotFound  = errors.New("coach profile not found")
	ErrNotProfileOwner  = errors.New("profile is owned by another account")
	ErrProfileLinked    = errors.New("account already has a linked profile")
	ErrAccountNotFound  = errors.New("coach account not found")
	ErrReplyAlreadySent = errors.New("review already has a reply")
	ErrReviewNotFound   = errors.New("review not found")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrInvalidProfile   = errors.New("invalid profile fields")
)

type ProfileInput struct {
	Name     string `json:"name" validate:"required|maxLen:120"`
	Handle   string `json:"handle" validate:"required|maxLen:60"`
	Category string `json:"category" validate:"required|maxLen:80"`
	Country  string `json:"country" validate:"required|maxLen:80"`
	Location string `json:"location" validate:"required|maxLen:120"`
	Bio      string `json:"bio" validate:"required|maxLen:2000"`
	Website  string `json:"website" validate:"fullUrl"`
}

// ProfilePatch carries the fields an owner may change. Blank fields keep the
// stored value.
type ProfilePatch struct {
	Name     string `json:"name" validate:"maxLen:120"`
	Handle   string `json:"handle" validate:"maxLen:60"`
	Category string `json:"category" validate:"maxLen:80"`
	Country  string `json:"country" validate:"maxLen:80"`
	Location string `json:"location" validate:"maxLen:120"`
	Bio      string `json:"bio" validate:"maxLen:2000"`
	Website  string `json:"website" validate:"fullUrl"`
}

func (p ProfilePatch) check() error {
	v := validate.Struct(&p)
	if !v.Validate() {
		return fmt.Errorf("%w: %s", ErrInvalidProfile, v.Errors.One())
	}
	return nil
}

func (p ProfilePatch) applyTo(c *models.Coach) {
	merge := func(dst *string, src string) {
		if src = strings.TrimSpace(src); src != "" {
			*dst = src
		}
	}
	merge(&c.Name, p.Name)
	merge(&c.Handle, p.Handle)
	merge(&c.Category, p.Category)
	merge(&c.Country, p.Country)
	merge(&c.Location, p.Location)
	merge(&c.Bio, p.Bio)
	merge(&c.Website, p.Website)
	if strings.TrimSpace(p.Name) != "" {
		c.Avatar = models.AvatarFor(c.Name)
	}
}

type ReviewInput struct {
	Rating    int    `json:"rating" validate:"required|int|min:1|max:5"`
	Title     string `json:"title" validate:"required|maxLen:200"`
	Content   string `json:"content" validate:"required|maxLen:5000"`
	Paid      bool   `json:"paid"`
	Anonymous bool   `json:"anonymous"`
	Location  string `json:"location" validate:"maxLen:120"`
}

type ProfileServiceInterface interface {
	CreateProfile(input ProfileInput, ownerID string) (models.Coach, error)
	UpdateProfile(ownerID, coachID string, patch ProfilePatch) (models.Coach, error)
	DeleteProfile(ownerID, coachID string) error
	Reply(ownerID, coachID, reviewID, text string) error
	SubmitReview(coachID string, input ReviewInput, session models.Session) (models.Review, ReviewOutcome, error)
}

// ProfileService implements the flows a coach account drives on top of the
// directory: creating its own profile, editing it, answering reviews.
type ProfileService struct {
	directory DirectoryServiceInterface
	accounts  AccountServiceInterface
	logger    providers.Logger
	now       func() time.Time
}

func NewProfileService(directory DirectoryServiceInterface, accounts AccountServiceInterface, logger providers.Logger) ProfileServiceInterface {
	return NewProfileServiceWithClock(directory, accounts, logger, time.Now)
}

func NewProfileServiceWithClock(directory DirectoryServiceInterface, accounts AccountServiceInterface, logger providers.Logger, now func() time.Time) *ProfileService {
	return &ProfileService{
		directory: directory,
		accounts:  accounts,
		logger:    logger,
		now:       now,
	}
}

// CreateProfile adds a new directory entry. Without an owner the entry is
// unclaimed; with one it is created already claimed and linked to the
// account.
func (ps *ProfileService) CreateProfile(input ProfileInput, ownerID string) (models.Coach, error) {
	var owner models.CoachAccount
	if ownerID != "" {
		var ok bool
		owner, ok = ps.accounts.GetCoachAccount(ownerID)
		if !ok {
			return models.Coach{}, ErrAccountNotFound
		}
		if owner.LinkedProfile() != "" {
			if _, exists := ps.directory.GetCoach(owner.LinkedProfile()); exists {
				return models.Coach{}, ErrProfileLinked
			}
		}
	}

	name := strings.TrimSpace(input.Name)
	coach := models.Coach{
		ID:          "coach-" + uuid.NewString(),
		Name:        name,
		Handle:      strings.TrimSpace(input.Handle),
		Category:    strings.TrimSpace(input.Category),
		Country:     strings.TrimSpace(input.Country),
		Location:    strings.TrimSpace(input.Location),
		Bio:         strings.TrimSpace(input.Bio),
		Website:     strings.TrimSpace(input.Website),
		Avatar:      models.AvatarFor(name),
		Reviews:     []models.Review{},
		ClaimStatus: models.ClaimUnclaimed,
	}
	coach.RecomputeRating()
	if ownerID != "" {
		coach.MarkClaimed(owner.ID)
	}

	if err := ps.directory.CreateCoach(coach); err != nil {
		return models.Coach{}, err
	}
	if ownerID != "" {
		linked, err := ps.accounts.LinkCoachProfile(owner.ID, coach.ID)
		if err == nil && !linked {
			err = ErrAccountNotFound
		}
		if err != nil {
			if _, rmErr := ps.directory.RemoveCoachProfile(coach.ID); rmErr != nil {
				ps.logger.Errorf(providers.TypeStore, "Unable to roll back unlinked profile %s: %s", coach.ID, rmErr)
			}
			return models.Coach{}, fmt.Errorf("link profile to %s: %w", owner.ID, err)
		}
	}
	ps.logger.Infof(providers.TypeStore, "Profile %s created (owner %q)", coach.ID, ownerID)
	return coach, nil
}

func (ps *ProfileService) ownedCoach(ownerID, coachID string) (models.Coach, error) {
	coach, ok := ps.directory.GetCoach(coachID)
	if !ok {
		return models.Coach{}, ErrProfileNotFound
	}
	if !coach.OwnedBy(ownerID) {
		return models.Coach{}, ErrNotProfileOwner
	}
	return coach, nil
}

// UpdateProfile merges the non-blank patch fields into the stored record.
// Reviews and derived fields are those stored at write time.
func (ps *ProfileService) UpdateProfile(ownerID, coachID string, patch ProfilePatch) (models.Coach, error) {
	if err := patch.check(); err != nil {
		return models.Coach{}, err
	}

	coach, found, err := ps.directory.ModifyCoach(coachID, func(c *models.Coach) error {
		if !c.OwnedBy(ownerID) {
			return ErrNotProfileOwner
		}
		patch.applyTo(c)
		return nil
	})
	if err != nil {
		return models.Coach{}, err
	}
	if !found {
		return models.Coach{}, ErrProfileNotFound
	}
	return coach, nil
}

func (ps *ProfileService) DeleteProfile(ownerID, coachID string) error {
	if _, err := ps.ownedCoach(ownerID, coachID); err != nil {
		return err
	}
	removed, err := ps.directory.RemoveCoachProfile(coachID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrProfileNotFound
	}
	if _, err := ps.accounts.LinkCoachProfile(ownerID, ""); err != nil {
		return err
	}
	ps.logger.Infof(providers.TypeStore, "Profile %s deleted by owner %s", coachID, ownerID)
	return nil
}

func (ps *ProfileService) Reply(ownerID, coachID, reviewID, text string) error {
	if _, err := ps.ownedCoach(ownerID, coachID); err != nil {
		return err
	}
	outcome, err := ps.directory.ReplyToReview(coachID, reviewID, text)
	if err != nil {
		return err
	}
	switch outcome {
	case ReplyCoachNotFound:
		return ErrProfileNotFound
	case ReplyReviewNotFound:
		return ErrReviewNotFound
	case ReplyAlreadyExists:
		return ErrReplyAlreadySent
	}
	return nil
}

// SubmitReview builds a review from the form input and hands it to the
// directory. The author is "Anonymous" on request, otherwise the session's
// display name, falling back to "Verified User".
func (ps *ProfileService) SubmitReview(coachID string, input ReviewInput, session models.Session) (models.Review, ReviewOutcome, error) {
	if input.Rating < models.MinRating || input.Rating > models.MaxRating {
		return models.Review{}, ReviewCoachNotFound, ErrInvalidRating
	}

	author := models.AuthorVerified
	if input.Anonymous {
		author = models.AuthorAnonymous
	} else if name := session.DisplayName(); session.LoggedIn && name != "" {
		author = name
	}

	review := models.Review{
		ID:       "r-" + uuid.NewString(),
		Author:   author,
		Rating:   input.Rating,
		Date:     ps.now().Format("Jan 2, 2006"),
		Title:    strings.TrimSpace(input.Title),
		Content:  strings.TrimSpace(input.Content),
		Verified: input.Paid,
		Location: strings.TrimSpace(input.Location),
	}

	outcome, err := ps.directory.AddReview(coachID, review)
	if err != nil {
		return models.Review{}, outcome, err
	}
	return review, outcome, nil
}
