package user

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeUserRepo struct {
	users map[string]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*User)}
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *User) error {
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return ErrEmailTaken
		}
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, userID string) (*User, error) {
	user, ok := r.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeUserRepo) SetOnboardingDone(ctx context.Context, userID string) error {
	user, ok := r.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.OnboardingDone = true
	return nil
}

func TestRegisterNormalizesEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)

	account, err := svc.Register(context.Background(), RegisterInput{
		Email:    "  Alice@Example.COM ",
		Password: "secret123",
		Name:     "  Alice  ",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if account.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", account.Email)
	}
	if account.Name == nil || *account.Name != "Alice" {
		t.Fatalf("expected trimmed name, got %+v", account.Name)
	}
	if account.PasswordHash == "secret123" || account.PasswordHash == "" {
		t.Fatalf("expected password hashed")
	}
}

func TestRegisterEmailTaken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)

	if _, err := svc.Register(context.Background(), RegisterInput{Email: "alice@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, err := svc.Register(context.Background(), RegisterInput{Email: "ALICE@example.com", Password: "other456"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)

	if _, err := svc.Register(context.Background(), RegisterInput{Email: "alice@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	account, err := svc.Authenticate(context.Background(), "Alice@Example.com", "secret123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if account.Email != "alice@example.com" {
		t.Fatalf("expected account, got %+v", account)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)

	if _, err := svc.Register(context.Background(), RegisterInput{Email: "alice@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateUnknownEmailSameError(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)

	if _, err := svc.Authenticate(context.Background(), "nobody@example.com", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCompleteOnboarding(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)

	account, err := svc.Register(context.Background(), RegisterInput{Email: "alice@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := svc.CompleteOnboarding(context.Background(), account.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !repo.users[account.ID].OnboardingDone {
		t.Fatalf("expected onboarding flag set")
	}
}
