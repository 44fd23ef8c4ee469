package controllers

import (
	"net/http"
	"strings"
	"testing"
	"trustive/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup_User(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"name": "Sam", "email": "Sam@Example.com", "password": "secret12",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	resp := decode[authResponse](t, rr)
	assert.NotEmpty(t, resp.Token)
	assert.True(t, resp.Session.LoggedIn)
	assert.Equal(t, models.RoleUser, resp.Session.Role)
	require.NotNil(t, resp.Session.User)
	assert.Equal(t, "sam@example.com", resp.Session.User.Email)
	assert.Empty(t, resp.Session.User.Password)
	assert.NotContains(t, rr.Body.String(), "secret12")
	assert.Equal(t, 1, ts.metrics.Signups["user"])

	claims, err := ts.tokens.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.Session.User.ID, claims.Subject)
	assert.Equal(t, "user", claims.Role)
}

func TestSignup_Coach(t *testing.T) {
	ts := newTestServer(t, nil)
	_, session := ts.coachToken(t, "jordan@example.com")

	assert.Equal(t, models.RoleCoach, session.Role)
	require.NotNil(t, session.Coach)
	assert.True(t, strings.HasPrefix(session.Coach.ID, "ca-"))
	assert.Equal(t, 1, ts.metrics.Signups["coach"])
}

func TestSignup_DuplicateEmail(t *testing.T) {
	ts := newTestServer(t, nil)
	body := map[string]string{"name": "Sam", "email": "sam@example.com", "password": "secret12"}

	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/auth/signup", "", body).Code)
	rr := ts.do(t, http.MethodPost, "/auth/signup", "", body)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "email_taken", decode[errorResponse](t, rr).Error)
}

func TestSignup_Validation(t *testing.T) {
	ts := newTestServer(t, nil)
	tests := []struct {
		name string
		body map[string]string
	}{
		{"bad email", map[string]string{"name": "Sam", "email": "nope", "password": "secret12"}},
		{"short password", map[string]string{"name": "Sam", "email": "s@example.com", "password": "123"}},
		{"unknown role", map[string]string{"name": "Sam", "email": "s@example.com", "password": "secret12", "role": "admin"}},
		{"missing name", map[string]string{"email": "s@example.com", "password": "secret12"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.do(t, http.MethodPost, "/auth/signup", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.coachToken(t, "jordan@example.com")
	require.NoError(t, ts.sessions.End())

	rr := ts.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "jordan@example.com", "password": "secret12"})
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[authResponse](t, rr)
	assert.Equal(t, models.RoleCoach, resp.Session.Role)
	assert.True(t, ts.sessions.Current().LoggedIn)

	rr = ts.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "jordan@example.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "invalid_credentials", decode[errorResponse](t, rr).Error)
}

func TestSessionAndLogout(t *testing.T) {
	ts := newTestServer(t, nil)
	token, _ := ts.coachToken(t, "jordan@example.com")

	rr := ts.do(t, http.MethodGet, "/auth/session", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	current := decode[models.Session](t, rr)
	assert.True(t, current.LoggedIn)
	assert.Equal(t, "Jordan", current.DisplayName())

	rr = ts.do(t, http.MethodPost, "/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.False(t, ts.sessions.Current().LoggedIn)

	rr = ts.do(t, http.MethodGet, "/auth/session", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, decode[models.Session](t, rr).LoggedIn)
}

func TestSessionAndLogout_RequireToken(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.coachToken(t, "jordan@example.com")

	rr := ts.do(t, http.MethodGet, "/auth/session", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.NotContains(t, rr.Body.String(), "jordan@example.com")

	rr = ts.do(t, http.MethodPost, "/auth/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.True(t, ts.sessions.Current().LoggedIn)
}

func TestSessionAndLogout_OtherAccountsToken(t *testing.T) {
	ts := newTestServer(t, nil)
	strangerToken, _ := ts.coachToken(t, "stranger@example.com")
	_, owner := ts.coachToken(t, "jordan@example.com")

	rr := ts.do(t, http.MethodGet, "/auth/session", strangerToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, decode[models.Session](t, rr).LoggedIn)
	assert.NotContains(t, rr.Body.String(), "jordan@example.com")

	rr = ts.do(t, http.MethodPost, "/auth/logout", strangerToken, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	current := ts.sessions.Current()
	assert.True(t, current.LoggedIn)
	assert.Equal(t, owner.AccountID(), current.AccountID())
}

func TestInvalidToken(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.do(t, http.MethodGet, "/coaches", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
