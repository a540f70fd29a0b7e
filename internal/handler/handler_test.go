package handler_test

// Test scaffolding shared by auth_test.go and assessment_test.go: in-memory
// repositories and a fully wired router, so endpoint tests exercise the
// same middleware-service-handler chain as production, minus SQLite.

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/uvg/wellness-backend/internal/apperror"
	"github.com/uvg/wellness-backend/internal/auth"
	"github.com/uvg/wellness-backend/internal/handler"
	"github.com/uvg/wellness-backend/internal/model"
	"github.com/uvg/wellness-backend/internal/service"
)

type memUserRepo struct {
	byID    map[string]*model.User
	byEmail map[string]*model.User
	nextID  int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		byID:    make(map[string]*model.User),
		byEmail: make(map[string]*model.User),
	}
}

func (m *memUserRepo) Create(_ context.Context, user *model.User) error {
	if _, ok := m.byEmail[user.Email]; ok {
		return apperror.DuplicateEmail(user.Email)
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	user.CreatedAt = time.Now().UTC()
	stored := *user
	m.byID[user.ID] = &stored
	m.byEmail[user.Email] = &stored
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	copied := *u
	return &copied, nil
}

type memAssessmentRepo struct {
	results []model.AssessmentResult
	nextID  int
}

func (m *memAssessmentRepo) Create(_ context.Context, result *model.AssessmentResult) error {
	m.nextID++
	result.ID = fmt.Sprintf("result-%d", m.nextID)
	result.CreatedAt = time.Now().UTC()
	m.results = append(m.results, *result)
	return nil
}

func (m *memAssessmentRepo) List(_ context.Context) ([]model.AssessmentResult, error) {
	out := []model.AssessmentResult{}
	for i := len(m.results) - 1; i >= 0; i-- {
		out = append(out, m.results[i])
	}
	return out, nil
}

func (m *memAssessmentRepo) ListByUser(_ context.Context, userID string) ([]model.AssessmentResult, error) {
	out := []model.AssessmentResult{}
	for i := len(m.results) - 1; i >= 0; i-- {
		if m.results[i].UserID == userID {
			out = append(out, m.results[i])
		}
	}
	return out, nil
}

// testAPI is a wired-up API instance backed by in-memory repositories.
type testAPI struct {
	router *chi.Mux
	users  *memUserRepo
	tokens *auth.TokenService
}

// newTestAPI mirrors the production route layout: auth endpoints open,
// /me behind RequireAuth, assessments behind OptionalAuth.
func newTestAPI(t *testing.T, allowGlobalHistory bool) *testAPI {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	users := newMemUserRepo()
	results := &memAssessmentRepo{}

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceWithCost(bcrypt.MinCost)

	authHandler := handler.NewAuthHandler(
		service.NewAuthService(users, tokens, passwords, logger), logger)
	assessmentHandler := handler.NewAssessmentHandler(
		service.NewAssessmentService(results, users, allowGlobalHistory, logger), logger)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
			r.With(auth.RequireAuth(tokens)).Get("/me", authHandler.HandleMe)
		})
		r.Route("/assessments", func(r chi.Router) {
			r.Use(auth.OptionalAuth(tokens))
			r.Post("/gad7", assessmentHandler.HandleGAD7)
			r.Post("/phq9", assessmentHandler.HandlePHQ9)
			r.Get("/history", assessmentHandler.HandleHistory)
		})
	})

	return &testAPI{router: r, users: users, tokens: tokens}
}

// do performs a JSON request against the test router. An empty token
// leaves the request anonymous.
func (a *testAPI) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

// register creates an account through the API and returns its ID.
func (a *testAPI) register(t *testing.T, email, password string) string {
	t.Helper()
	rr := a.do(t, http.MethodPost, "/api/v1/auth/register",
		fmt.Sprintf(`{"email":%q,"password":%q}`, email, password), "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("register %s: status = %d, body = %s", email, rr.Code, rr.Body.String())
	}
	var resp struct {
		ID string `json:"id"`
	}
	decodeBody(t, rr, &resp)
	return resp.ID
}

// decodeBody unmarshals a recorded JSON response into dst.
func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(dst); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
}

// login authenticates through the API and returns the bearer token.
func (a *testAPI) login(t *testing.T, email, password string) string {
	t.Helper()
	rr := a.do(t, http.MethodPost, "/api/v1/auth/login",
		fmt.Sprintf(`{"email":%q,"password":%q}`, email, password), "")
	if rr.Code != http.StatusOK {
		t.Fatalf("login %s: status = %d, body = %s", email, rr.Code, rr.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, rr, &resp)
	return resp.Token
}
