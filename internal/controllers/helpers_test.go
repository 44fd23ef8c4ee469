package controllers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"trustive/internal/models"
	"trustive/internal/providers"
	"trustive/internal/services"
	"trustive/internal/storage"
	"trustive/internal/structures"
	"trustive/internal/testutil"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	router    http.Handler
	kv        *storage.MemoryStorage
	directory *services.DirectoryService
	accounts  *services.AccountService
	sessions  services.SessionServiceInterface
	tokens    providers.TokenProviderInterface
	cache     *testutil.MockCache
	metrics   *testutil.MockMetrics
	now       time.Time
}

func testConfig() *structures.Config {
	return &structures.Config{
		Storage: structures.StorageConfig{Driver: "memory"},
		Auth:    structures.AuthConfig{JWTSecret: "test-secret-0123456789", TokenTTL: time.Hour},
	}
}

func newTestServer(t *testing.T, seed []models.Coach) *testServer {
	t.Helper()
	logger := &testutil.MockLogger{}
	ts := &testServer{
		kv:      storage.NewMemoryStorage(),
		cache:   testutil.NewMockCache(),
		metrics: testutil.NewMockMetrics(),
		now:     time.Date(2024, time.March, 14, 12, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return ts.now }

	limiter := services.NewReviewRateLimiterWithClock(ts.kv, logger, clock)
	ts.directory = services.NewDirectoryService(ts.kv, limiter, seed, logger)
	ts.accounts = services.NewAccountServiceWithCost(ts.kv, logger, bcrypt.MinCost)
	ts.sessions = services.NewSessionService(ts.kv, logger)
	profiles := services.NewProfileServiceWithClock(ts.directory, ts.accounts, logger, clock)
	ts.tokens = providers.NewTokenProvider(testConfig())

	dc := NewDirectoryController(logger, ts.directory, profiles, ts.cache, ts.metrics)
	ac := NewAuthController(logger, ts.accounts, ts.sessions, ts.tokens, ts.metrics)

	r := chi.NewRouter()
	r.Use(providers.AuthMiddleware(ts.tokens, logger))
	r.Get("/coaches", dc.ListCoaches)
	r.Post("/coaches", dc.CreateCoach)
	r.Get("/coaches/{id}", dc.GetCoach)
	r.Put("/coaches/{id}", dc.UpdateCoach)
	r.Delete("/coaches/{id}", dc.DeleteCoach)
	r.Post("/coaches/{id}/reviews", dc.SubmitReview)
	r.Post("/coaches/{id}/reviews/{reviewID}/reply", dc.ReplyToReview)
	r.Post("/claims", dc.RequestClaim)
	r.Post("/auth/signup", ac.Signup)
	r.Post("/auth/login", ac.Login)
	r.Post("/auth/logout", ac.Logout)
	r.Get("/auth/session", ac.Session)
	ts.router = r
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	ts.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

// coachToken signs up a coach account through the API and returns its token.
func (ts *testServer) coachToken(t *testing.T, email string) (string, models.Session) {
	t.Helper()
	rr := ts.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"name": "Jordan", "email": email, "password": "secret12", "role": "coach",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	resp := decode[authResponse](t, rr)
	return resp.Token, resp.Session
}
