package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/averith/stocktrack/internal/domain"
)

// fakeUserStore is an in-memory domain.UserStore.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]domain.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Username]; ok {
		return domain.ErrUserExists
	}
	s.users[user.Username] = user
	return nil
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[username]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func newTestAuthService(store *fakeUserStore) *AuthService {
	return NewAuthService(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSignupAndLogin(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestAuthService(store)

	if err := svc.Signup(context.Background(), "alice", "s3cret"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	// The stored hash must not be the plaintext password.
	stored, err := store.GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if stored.PasswordHash == "s3cret" {
		t.Fatal("password stored in plaintext")
	}

	user, err := svc.Login(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("Login() username = %q, want alice", user.Username)
	}
}

func TestSignupDuplicateUsername(t *testing.T) {
	svc := newTestAuthService(newFakeUserStore())

	if err := svc.Signup(context.Background(), "alice", "one"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if err := svc.Signup(context.Background(), "alice", "two"); !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("second Signup() error = %v, want ErrUserExists", err)
	}
}

func TestSignupRejectsEmptyCredentials(t *testing.T) {
	svc := newTestAuthService(newFakeUserStore())

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", "pw"},
		{"empty password", "alice", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.Signup(context.Background(), tt.username, tt.password); !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Errorf("Signup() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestLoginFailures(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestAuthService(store)

	if err := svc.Signup(context.Background(), "alice", "s3cret"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "alice", "nope"},
		{"unknown user", "bob", "s3cret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Login(context.Background(), tt.username, tt.password); !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}
