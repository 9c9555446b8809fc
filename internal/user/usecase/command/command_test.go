package command

import (
	"errors"
	"testing"

	"github.com/tunedeck/tunedeck/internal/user/domain"
	"github.com/tunedeck/tunedeck/pkg/auth"
)

type fakeUserRepository struct {
	users  map[string]*domain.User
	nextID uint
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*domain.User), nextID: 1}
}

func (f *fakeUserRepository) Create(user *domain.User) error {
	if _, exists := f.users[user.Email]; exists {
		return domain.ErrEmailTaken
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserRepository) FindByID(id uint) (*domain.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepository) FindByEmail(email string) (*domain.User, error) {
	if user, ok := f.users[email]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepository) Count() (int64, error) {
	return int64(len(f.users)), nil
}

func TestSignupCreatesUserWithHashedPassword(t *testing.T) {
	repo := newFakeUserRepository()
	handler := NewSignupUserHandler(repo)

	user, err := handler.Handle(SignupUserCommand{
		Name:     "Pearl",
		Email:    "pearl@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}

	if user.ID == 0 {
		t.Fatal("expected user to be assigned an id")
	}
	if user.Password == "secret123" {
		t.Fatal("expected password to be hashed before storage")
	}
	if !auth.CheckPassword(user.Password, "secret123") {
		t.Fatal("expected stored hash to verify against the plaintext")
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepository()
	handler := NewSignupUserHandler(repo)

	if _, err := handler.Handle(SignupUserCommand{Name: "A", Email: "dup@example.com", Password: "pw"}); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}

	if _, err := handler.Handle(SignupUserCommand{Name: "B", Email: "dup@example.com", Password: "pw"}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSignupRequiresAllFields(t *testing.T) {
	handler := NewSignupUserHandler(newFakeUserRepository())

	cases := []SignupUserCommand{
		{Email: "a@example.com", Password: "pw"},
		{Name: "A", Password: "pw"},
		{Name: "A", Email: "a@example.com"},
	}
	for _, cmd := range cases {
		if _, err := handler.Handle(cmd); err == nil {
			t.Fatalf("expected error for incomplete command %+v", cmd)
		}
	}
}

func TestLoginReturnsToken(t *testing.T) {
	repo := newFakeUserRepository()
	if _, err := NewSignupUserHandler(repo).Handle(SignupUserCommand{
		Name:     "Pearl",
		Email:    "pearl@example.com",
		Password: "secret123",
	}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	resp, err := NewLoginUserHandler(repo).Handle(LoginUserCommand{
		Email:    "pearl@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected access token")
	}
	if resp.Message != "User logged in successfully" {
		t.Fatalf("unexpected message %q", resp.Message)
	}

	claims, err := auth.ValidateToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("token did not validate: %v", err)
	}
	if claims.User.Email != "pearl@example.com" {
		t.Fatalf("unexpected token email %q", claims.User.Email)
	}
}

func TestLoginDoesNotRevealWhichFieldWasWrong(t *testing.T) {
	repo := newFakeUserRepository()
	if _, err := NewSignupUserHandler(repo).Handle(SignupUserCommand{
		Name:     "Pearl",
		Email:    "pearl@example.com",
		Password: "secret123",
	}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	handler := NewLoginUserHandler(repo)

	_, unknownEmailErr := handler.Handle(LoginUserCommand{Email: "nobody@example.com", Password: "secret123"})
	_, wrongPasswordErr := handler.Handle(LoginUserCommand{Email: "pearl@example.com", Password: "wrong"})

	if !errors.Is(unknownEmailErr, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", unknownEmailErr)
	}
	if !errors.Is(wrongPasswordErr, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPasswordErr)
	}
}
