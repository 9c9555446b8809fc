package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

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

func newTestRouter(t *testing.T) (*mux.Router, *fakeUserRepository) {
	t.Helper()

	repo := newFakeUserRepository()
	handler := NewUserHandler(repo, nil)
	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	return router, repo
}

func doJSON(t *testing.T, router *mux.Router, method, path string, payload any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encoding payload: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestSignupEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/auth/signup", map[string]string{
		"name":     "Pearl",
		"email":    "pearl@example.com",
		"password": "secret123",
	}, "")

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp domain.PublicUser
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Email != "pearl@example.com" || resp.ID == 0 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if bytes.Contains(rr.Body.Bytes(), []byte("secret123")) {
		t.Fatal("response must not contain the password")
	}
}

func TestSignupEndpointDuplicateEmail(t *testing.T) {
	router, _ := newTestRouter(t)
	payload := map[string]string{"name": "A", "email": "dup@example.com", "password": "pw"}

	if rr := doJSON(t, router, http.MethodPost, "/auth/signup", payload, ""); rr.Code != http.StatusCreated {
		t.Fatalf("first signup: expected 201, got %d", rr.Code)
	}

	rr := doJSON(t, router, http.MethodPost, "/auth/signup", payload, "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["error"] != "Email already registered" {
		t.Fatalf("unexpected error message %q", resp["error"])
	}
}

func TestSignupEndpointMissingFields(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/auth/signup", map[string]string{"email": "x@example.com"}, "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestLoginEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	signup := map[string]string{"name": "Pearl", "email": "pearl@example.com", "password": "secret123"}
	if rr := doJSON(t, router, http.MethodPost, "/auth/signup", signup, ""); rr.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d", rr.Code)
	}

	rr := doJSON(t, router, http.MethodPost, "/auth/login", map[string]string{
		"email":    "pearl@example.com",
		"password": "secret123",
	}, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		Message     string `json:"message"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected access_token in response")
	}
	if resp.Message != "User logged in successfully" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestLoginEndpointBadCredentials(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "whatever",
	}, "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["error"] != "Invalid email or password" {
		t.Fatalf("unexpected error message %q", resp["error"])
	}
}

func TestGetProfileRequiresToken(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodGet, "/users/me", nil, "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestGetProfileReturnsAuthenticatedUser(t *testing.T) {
	router, repo := newTestRouter(t)
	signup := map[string]string{"name": "Pearl", "email": "pearl@example.com", "password": "secret123"}
	if rr := doJSON(t, router, http.MethodPost, "/auth/signup", signup, ""); rr.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d", rr.Code)
	}

	user, err := repo.FindByEmail("pearl@example.com")
	if err != nil {
		t.Fatalf("user missing from repo: %v", err)
	}
	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}

	rr := doJSON(t, router, http.MethodGet, "/users/me", nil, token)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp domain.PublicUser
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.ID != user.ID || resp.Name != "Pearl" {
		t.Fatalf("unexpected profile %+v", resp)
	}
}

func TestGetProfileRejectsBadToken(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodGet, "/users/me", nil, "not-a-real-token")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
