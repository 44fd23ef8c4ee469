package controllers

import (
	"errors"
	"net/http"
	"trustive/internal/models"
	"trustive/internal/providers"
	"trustive/internal/services"
)

type AuthController struct {
	logger   providers.Logger
	accounts services.AccountServiceInterface
	sessions services.SessionServiceInterface
	tokens   providers.TokenProviderInterface
	metrics  providers.MetricsProviderInterface
}

type signupRequest struct {
	Name     string `json:"name" validate:"required|maxLen:100"`
	Email    string `json:"email" validate:"required|email"`
	Password string `json:"password" validate:"required|minLen:6|maxLen:72"`
	Role     string `json:"role" validate:"in:user,coach"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required|email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token   string         `json:"token"`
	Session models.Session `json:"session"`
}

func NewAuthController(logger providers.Logger, accounts services.AccountServiceInterface, sessions services.SessionServiceInterface, tokens providers.TokenProviderInterface, metrics providers.MetricsProviderInterface) *AuthController {
	return &AuthController{
		logger:   logger,
		accounts: accounts,
		sessions: sessions,
		tokens:   tokens,
		metrics:  metrics,
	}
}

// Signup creates a reviewer account by default, a coach account when role
// is "coach", and logs the new account in.
func (ac *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	var session models.Session
	var err error
	role := models.Role(req.Role)
	if role == models.RoleCoach {
		var account models.CoachAccount
		account, err = ac.accounts.SignUpCoach(req.Name, req.Email, req.Password)
		session = services.CoachSession(account)
	} else {
		role = models.RoleUser
		var account models.Account
		account, err = ac.accounts.SignUpUser(req.Name, req.Email, req.Password)
		session = services.UserSession(account)
	}

	switch {
	case errors.Is(err, services.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email_taken", "Email already exists.")
		return
	case errors.Is(err, services.ErrMissingCredentials):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	case err != nil:
		ac.logger.Errorf(providers.TypeAuth, "Signup failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.metrics.IncSignups(string(role))
	ac.startSession(w, http.StatusCreated, session)
}

func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := ac.accounts.Authenticate(req.Email, req.Password)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrMissingCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", services.ErrInvalidCredentials.Error())
		return
	case err != nil:
		ac.logger.Errorf(providers.TypeAuth, "Login failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.startSession(w, http.StatusOK, session)
}

// ownSession returns the stored session when the caller's token names its
// account, and a logged-out session otherwise. It writes a 401 for callers
// without a token.
func (ac *AuthController) ownSession(w http.ResponseWriter, r *http.Request) (models.Session, bool) {
	claims, ok := providers.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "login required")
		return models.Session{}, false
	}
	current := ac.sessions.Current()
	if !current.LoggedIn || current.AccountID() != claims.Subject {
		return models.Session{}, true
	}
	return current, true
}

// Logout ends the stored session only for the account it belongs to.
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	current, ok := ac.ownSession(w, r)
	if !ok {
		return
	}
	if current.LoggedIn {
		if err := ac.sessions.End(); err != nil {
			ac.logger.Errorf(providers.TypeAuth, "Logout failed: %s", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *AuthController) Session(w http.ResponseWriter, r *http.Request) {
	current, ok := ac.ownSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, current)
}

func (ac *AuthController) startSession(w http.ResponseWriter, status int, session models.Session) {
	if err := ac.sessions.Start(session); err != nil {
		ac.logger.Errorf(providers.TypeAuth, "Unable to store session: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	token, err := ac.tokens.Issue(session.AccountID(), string(session.Role), session.DisplayName())
	if err != nil {
		ac.logger.Errorf(providers.TypeAuth, "Unable to issue token: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, status, authResponse{Token: token, Session: session})
}
