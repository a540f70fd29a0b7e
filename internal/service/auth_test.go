package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/uvg/wellness-backend/internal/apperror"
	"github.com/uvg/wellness-backend/internal/auth"
	"github.com/uvg/wellness-backend/internal/model"
)

// fakeUserRepo is an in-memory repository.UserRepository. A hand-written
// fake keeps the tests readable — what it does is all on this page.
type fakeUserRepo struct {
	byID    map[string]*model.User
	byEmail map[string]*model.User
	nextID  int

	// set to simulate a storage failure
	createErr error
	getErr    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*model.User),
		byEmail: make(map[string]*model.User),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[user.Email]; ok {
		return apperror.DuplicateEmail(user.Email)
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	user.CreatedAt = time.Now().UTC()
	stored := *user
	f.byID[user.ID] = &stored
	f.byEmail[user.Email] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	copied := *u
	return &copied, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestAuthService wires an AuthService with a fake repo and the
// cheapest bcrypt cost.
func newTestAuthService(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceWithCost(bcrypt.MinCost)
	return NewAuthService(repo, tokens, passwords, testLogger()), repo
}

func TestRegister_Success(t *testing.T) {
	svc, _ := newTestAuthService(t)

	user, err := svc.Register(context.Background(), "new@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.ID == "" {
		t.Error("Register() did not assign an ID")
	}
	if user.Email != "new@example.com" {
		t.Errorf("Email = %q, want %q", user.Email, "new@example.com")
	}
	if user.PasswordHash == "" || user.PasswordHash == "hunter2hunter2" {
		t.Error("Register() must store a hash, not the plaintext password")
	}
}

func TestRegister_NormalizesEmail(t *testing.T) {
	svc, repo := newTestAuthService(t)

	user, err := svc.Register(context.Background(), "  Mixed@Example.COM ", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Email != "mixed@example.com" {
		t.Errorf("Email = %q, want lowercased/trimmed", user.Email)
	}
	if _, ok := repo.byEmail["mixed@example.com"]; !ok {
		t.Error("user not stored under normalized email")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), "dup@example.com", "hunter2hunter2"); err != nil {
		t.Fatalf("setup: Register() error = %v", err)
	}

	_, err := svc.Register(context.Background(), "dup@example.com", "anotherpassword")
	if err == nil {
		t.Fatal("Register() should error on duplicate email")
	}
	if !errors.Is(err, apperror.ErrDuplicateEmail) {
		t.Errorf("error = %v, want ErrDuplicateEmail", err)
	}
}

func TestRegister_DuplicateEmailDifferentCase(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), "case@example.com", "hunter2hunter2"); err != nil {
		t.Fatalf("setup: Register() error = %v", err)
	}

	_, err := svc.Register(context.Background(), "CASE@example.com", "hunter2hunter2")
	if !errors.Is(err, apperror.ErrDuplicateEmail) {
		t.Errorf("error = %v, want ErrDuplicateEmail for same email in different case", err)
	}
}

func TestRegister_InvalidInput(t *testing.T) {
	svc, _ := newTestAuthService(t)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "hunter2hunter2"},
		{"email without at sign", "not-an-email", "hunter2hunter2"},
		{"email with trailing at sign", "broken@", "hunter2hunter2"},
		{"short password", "ok@example.com", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.email, tt.password)
			if err == nil {
				t.Fatal("Register() should error")
			}
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestLogin_Success(t *testing.T) {
	svc, _ := newTestAuthService(t)

	registered, err := svc.Register(context.Background(), "login@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("setup: Register() error = %v", err)
	}

	res, err := svc.Login(context.Background(), "login@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if res.Token == "" {
		t.Error("Login() returned empty token")
	}
	if res.User.ID != registered.ID {
		t.Errorf("User.ID = %q, want %q", res.User.ID, registered.ID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), "wp@example.com", "hunter2hunter2"); err != nil {
		t.Fatalf("setup: Register() error = %v", err)
	}

	_, err := svc.Login(context.Background(), "wp@example.com", "not-the-password")
	if err == nil {
		t.Fatal("Login() should error on wrong password")
	}
	if !errors.Is(err, apperror.ErrInvalidCredentials) {
		t.Errorf("error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), "ghost@example.com", "whatever-password")
	if err == nil {
		t.Fatal("Login() should error on unknown email")
	}
	// Indistinguishable from a wrong password on purpose.
	if !errors.Is(err, apperror.ErrInvalidCredentials) {
		t.Errorf("error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin_TokenRoundTrips(t *testing.T) {
	svc, _ := newTestAuthService(t)

	registered, _ := svc.Register(context.Background(), "rt@example.com", "hunter2hunter2")
	res, err := svc.Login(context.Background(), "rt@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	tokens, _ := auth.NewTokenService("test-secret-at-least-16-chars!!", time.Hour)
	claims, err := tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != registered.ID || claims.Email != "rt@example.com" {
		t.Errorf("claims = %+v, want userID %s and email rt@example.com", claims, registered.ID)
	}
}

func TestGetUserByID(t *testing.T) {
	svc, _ := newTestAuthService(t)

	registered, _ := svc.Register(context.Background(), "me@example.com", "hunter2hunter2")

	got, err := svc.GetUserByID(context.Background(), registered.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if got.Email != "me@example.com" {
		t.Errorf("Email = %q, want me@example.com", got.Email)
	}

	if _, err := svc.GetUserByID(context.Background(), "missing"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
