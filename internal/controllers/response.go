package controllers

import (
	json "github.com/goccy/go-json"
	"github.com/gookit/validate"
	"net/http"
	"trustive/internal/models"
	"trustive/internal/providers"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type errorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	gson, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// decodeAndValidate reads a bounded JSON body into dst and runs its validate
// tags. It writes the 400 response itself and reports whether to continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "request body is not valid JSON")
		return false
	}

	v := validate.Struct(dst)
	if !v.Validate() {
		fields := make(map[string]string, len(v.Errors))
		for field, msgs := range v.Errors {
			for _, msg := range msgs {
				fields[field] = msg
				break
			}
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation_failed", Fields: fields})
		return false
	}
	return true
}

// sessionFromClaims rebuilds the caller's session snapshot from a verified
// token. Anonymous callers get a logged-out session.
func sessionFromClaims(r *http.Request) models.Session {
	claims, ok := providers.ClaimsFromContext(r.Context())
	if !ok {
		return models.Session{}
	}
	account := models.Account{ID: claims.Subject, Name: claims.Name}
	if models.Role(claims.Role) == models.RoleCoach {
		return models.Session{LoggedIn: true, Role: models.RoleCoach, Coach: &models.CoachAccount{Account: account}}
	}
	return models.Session{LoggedIn: true, Role: models.RoleUser, User: &account}
}

// coachOwner returns the coach account id of the caller, writing a 401 when
// the caller is not logged in as a coach.
func coachOwner(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := providers.ClaimsFromContext(r.Context())
	if !ok || models.Role(claims.Role) != models.RoleCoach {
		writeError(w, http.StatusUnauthorized, "unauthorized", "a coach account is required")
		return "", false
	}
	return claims.Subject, true
}
