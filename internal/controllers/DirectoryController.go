package controllers

import (
	"errors"
	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"net/http"
	"strconv"
	"strings"
	"trustive/internal/models"
	"trustive/internal/providers"
	"trustive/internal/services"
)

type DirectoryController struct {
	logger    providers.Logger
	directory services.DirectoryServiceInterface
	profiles  services.ProfileServiceInterface
	cache     providers.CacheProviderInterface
	metrics   providers.MetricsProviderInterface
}

type claimRequest struct {
	Name      string `json:"name" validate:"required|maxLen:120"`
	Email     string `json:"email" validate:"required|email"`
	Instagram string `json:"instagram" validate:"required|maxLen:60"`
	Message   string `json:"message" validate:"maxLen:2000"`
}

type replyRequest struct {
	Reply string `json:"reply" validate:"required|maxLen:2000"`
}

func NewDirectoryController(logger providers.Logger, directory services.DirectoryServiceInterface, profiles services.ProfileServiceInterface, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface) *DirectoryController {
	return &DirectoryController{
		logger:    logger,
		directory: directory,
		profiles:  profiles,
		cache:     cache,
		metrics:   metrics,
	}
}

// cacheKey embeds the directory revision so entries rendered before a
// mutation are never served after it.
func (dc *DirectoryController) cacheKey(parts ...string) string {
	return strconv.FormatUint(dc.directory.Revision(), 10) + ":" + strings.Join(parts, ":")
}

func (dc *DirectoryController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := dc.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	dc.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (dc *DirectoryController) ListCoaches(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	dc.serveFromCacheOrCompute(w, dc.cacheKey("coaches", strings.ToLower(q)), func() (any, error) {
		return dc.directory.SearchCoaches(q), nil
	})
}

func (dc *DirectoryController) GetCoach(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	key := dc.cacheKey("coach", id)
	if data, ok := dc.cache.Get(key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	coach, ok := dc.directory.GetCoach(id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "coach not found")
		return
	}
	dc.serveFromCacheOrCompute(w, key, func() (any, error) {
		return coach, nil
	})
}

func (dc *DirectoryController) CreateCoach(w http.ResponseWriter, r *http.Request) {
	var input services.ProfileInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	ownerID := ""
	if claims, ok := providers.ClaimsFromContext(r.Context()); ok && models.Role(claims.Role) == models.RoleCoach {
		ownerID = claims.Subject
	}

	coach, err := dc.profiles.CreateProfile(input, ownerID)
	switch {
	case errors.Is(err, services.ErrProfileLinked):
		writeError(w, http.StatusConflict, "profile_exists", "this account already owns a profile")
		return
	case errors.Is(err, services.ErrAccountNotFound):
		writeError(w, http.StatusUnauthorized, "unauthorized", "coach account no longer exists")
		return
	case err != nil:
		dc.logger.Errorf(providers.TypePost, "Create profile failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, coach)
}

func (dc *DirectoryController) UpdateCoach(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := coachOwner(w, r)
	if !ok {
		return
	}
	var patch services.ProfilePatch
	if !decodeAndValidate(w, r, &patch) {
		return
	}

	coach, err := dc.profiles.UpdateProfile(ownerID, chi.URLParam(r, "id"), patch)
	if err != nil {
		dc.writeOwnershipError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, coach)
}

func (dc *DirectoryController) DeleteCoach(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := coachOwner(w, r)
	if !ok {
		return
	}
	if err := dc.profiles.DeleteProfile(ownerID, chi.URLParam(r, "id")); err != nil {
		dc.writeOwnershipError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (dc *DirectoryController) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var input services.ReviewInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	coachID := chi.URLParam(r, "id")
	review, outcome, err := dc.profiles.SubmitReview(coachID, input, sessionFromClaims(r))
	switch {
	case errors.Is(err, services.ErrInvalidRating):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	case err != nil:
		dc.logger.Errorf(providers.TypePost, "Review for %s failed: %s", coachID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	dc.metrics.IncReviewSubmissions(outcome.String())
	switch outcome {
	case services.ReviewRateLimited:
		w.Header().Set("Retry-After", strconv.Itoa(int(services.ReviewWindow.Seconds())))
		writeError(w, http.StatusTooManyRequests, "rate_limited", "too many reviews, please slow down")
	case services.ReviewCoachNotFound:
		writeError(w, http.StatusNotFound, "not_found", "coach not found")
	default:
		writeJSON(w, http.StatusCreated, review)
	}
}

func (dc *DirectoryController) ReplyToReview(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := coachOwner(w, r)
	if !ok {
		return
	}
	var req replyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := dc.profiles.Reply(ownerID, chi.URLParam(r, "id"), chi.URLParam(r, "reviewID"), req.Reply)
	switch {
	case errors.Is(err, services.ErrReplyAlreadySent):
		writeError(w, http.StatusConflict, "already_replied", err.Error())
	case errors.Is(err, services.ErrReviewNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, services.ErrEmptyReply):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case err != nil:
		dc.writeOwnershipError(w, err)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (dc *DirectoryController) RequestClaim(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	outcome, err := dc.directory.RequestClaim(req.Name)
	if err != nil {
		dc.logger.Errorf(providers.TypePost, "Claim for %q failed: %s", req.Name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	dc.metrics.IncClaimRequests(outcome.String())
	switch outcome {
	case services.ClaimCoachNotFound:
		writeError(w, http.StatusNotFound, "not_found", "no profile with that name")
	case services.ClaimAlreadyClaimed:
		writeError(w, http.StatusConflict, "already_claimed", "this profile is already claimed")
	default:
		dc.logger.Infof(providers.TypePost, "Claim requested for %q by %s (%s)", req.Name, req.Email, req.Instagram)
		writeJSON(w, http.StatusAccepted, map[string]string{"claim_status": outcome.String()})
	}
}

func (dc *DirectoryController) writeOwnershipError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, services.ErrNotProfileOwner):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, services.ErrInvalidProfile):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		dc.logger.Errorf(providers.TypePost, "Profile operation failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
