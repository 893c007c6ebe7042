package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	authhttp "github.com/mailsign/signup-backend/internal/auth/http"
	"github.com/mailsign/signup-backend/internal/auth/service"
	"github.com/mailsign/signup-backend/internal/auth/session"
	"github.com/mailsign/signup-backend/internal/common/clock"
	commoncrypto "github.com/mailsign/signup-backend/internal/common/crypto"
	"github.com/mailsign/signup-backend/internal/common/logger"
	"github.com/mailsign/signup-backend/internal/mail"
	userdomain "github.com/mailsign/signup-backend/internal/user/domain"
	userrepo "github.com/mailsign/signup-backend/internal/user/repository"
)

const testJWTSecret = "test-secret-key-must-be-at-least-32-bytes-long"

// memRepo enforces email uniqueness the way the database index would.
type memRepo struct {
	mu    sync.Mutex
	users map[string]userdomain.User
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[string]userdomain.User)}
}

func (r *memRepo) Create(ctx context.Context, user userdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Email]; ok {
		return userrepo.ErrEmailAlreadyExists
	}
	r.users[user.Email] = user
	return nil
}

func (r *memRepo) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[email]
	if !ok {
		return userdomain.User{}, userrepo.ErrUserNotFound
	}
	return user, nil
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type fakeMailer struct {
	err error
}

func (m *fakeMailer) Send(ctx context.Context, msg mail.Message) error {
	return m.err
}

type fixture struct {
	handler  http.Handler
	repo     *memRepo
	sessions *session.MemoryStore
	mailer   *fakeMailer
}

func setup(t *testing.T) *fixture {
	t.Helper()

	repo := newMemRepo()
	mailer := &fakeMailer{}
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	sessions := session.NewMemoryStore(clk)
	log, _ := logger.New("", "test", "error")

	svc := service.NewAuthService(service.AuthServiceDeps{
		Repo:     repo,
		Sessions: sessions,
		Mailer:   mailer,
		Hasher:   &commoncrypto.BcryptHasher{},
		IDGen:    commoncrypto.NewUUIDGenerator(),
		Tokens:   service.NewTokenIssuer(testJWTSecret, time.Hour, clk),
		Clock:    clk,
		Log:      log,
		MailFrom: "noreply@example.com",
	})

	return &fixture{
		handler:  authhttp.NewHandler(svc, 30*time.Second, log),
		repo:     repo,
		sessions: sessions,
		mailer:   mailer,
	}
}

func postJSON(t *testing.T, h http.Handler, path string, body map[string]string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body.Message
}

func TestRegister_MissingFields(t *testing.T) {
	f := setup(t)

	rec := postJSON(t, f.handler, "/api/send-email", map[string]string{"email": "u@x.com"})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != "fields are required" {
		t.Errorf("expected %q, got %q", "fields are required", msg)
	}
}

func TestRegister_InvalidEmail(t *testing.T) {
	f := setup(t)

	rec := postJSON(t, f.handler, "/api/send-email", map[string]string{"email": "u@x", "password": "pw123"})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != "Invalid email address" {
		t.Errorf("expected %q, got %q", "Invalid email address", msg)
	}
}

func TestRegister_MailFailure(t *testing.T) {
	f := setup(t)
	f.mailer.err = errors.New("relay unreachable")

	rec := postJSON(t, f.handler, "/api/send-email", map[string]string{"email": "u@x.com", "password": "pw123"})

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != "Failed to send email" {
		t.Errorf("expected %q, got %q", "Failed to send email", msg)
	}

	// The record survives the failed dispatch.
	if f.repo.count() != 1 {
		t.Errorf("expected user to stay persisted, got %d users", f.repo.count())
	}
}

func TestRegister_ResponseBody(t *testing.T) {
	f := setup(t)

	rec := postJSON(t, f.handler, "/api/send-email", map[string]string{"email": "u@x.com", "password": "pw123"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Message string `json:"message"`
		NewUser struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"newUser"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if body.Message != "Email sent successfully" {
		t.Errorf("expected %q, got %q", "Email sent successfully", body.Message)
	}
	if body.NewUser.ID == "" {
		t.Error("expected newUser.id to be set")
	}
	if body.NewUser.Email != "u@x.com" {
		t.Errorf("expected newUser.email u@x.com, got %s", body.NewUser.Email)
	}
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	f := setup(t)

	postJSON(t, f.handler, "/api/send-email", map[string]string{"email": "u@x.com", "password": "pw123"})
	rec := postJSON(t, f.handler, "/api/login", map[string]string{"email": "u@x.com", "password": "pw123"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var sid *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "sid" {
			sid = c
		}
	}

	if sid == nil || sid.Value == "" {
		t.Fatal("expected sid cookie to be set")
	}
	if !sid.HttpOnly {
		t.Error("expected sid cookie to be HttpOnly")
	}

	if _, err := f.sessions.Get(context.Background(), sid.Value); err != nil {
		t.Errorf("expected session bound to cookie value, got %v", err)
	}
}

func TestLogout_WithoutCookie(t *testing.T) {
	f := setup(t)

	rec := postJSON(t, f.handler, "/api/logout", nil)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != "Successfully logged out." {
		t.Errorf("expected %q, got %q", "Successfully logged out.", msg)
	}
}

func TestEndToEndScenario(t *testing.T) {
	f := setup(t)

	// register
	rec := postJSON(t, f.handler, "/api/send-email", map[string]string{"email": "u@x.com", "password": "pw123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("register: expected 200, got %d", rec.Code)
	}
	if f.repo.count() != 1 {
		t.Fatalf("expected one stored user, got %d", f.repo.count())
	}

	// duplicate register
	rec = postJSON(t, f.handler, "/api/send-email", map[string]string{"email": "u@x.com", "password": "pw123"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: expected 400, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != "User already exists" {
		t.Fatalf("duplicate register: expected %q, got %q", "User already exists", msg)
	}

	// wrong password
	rec = postJSON(t, f.handler, "/api/login", map[string]string{"email": "u@x.com", "password": "wrong"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("wrong password: expected 400, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != "Invalid password" {
		t.Fatalf("wrong password: expected %q, got %q", "Invalid password", msg)
	}

	// unknown account
	rec = postJSON(t, f.handler, "/api/login", map[string]string{"email": "nobody@x.com", "password": "pw123"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown account: expected 400, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != "User not found" {
		t.Fatalf("unknown account: expected %q, got %q", "User not found", msg)
	}

	// correct login
	rec = postJSON(t, f.handler, "/api/login", map[string]string{"email": "u@x.com", "password": "pw123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", rec.Code)
	}

	var loginBody struct {
		Message string `json:"message"`
		Token   string `json:"token"`
		Email   string `json:"email"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&loginBody); err != nil {
		t.Fatalf("decode login body: %v", err)
	}
	if loginBody.Message != "Login successful" {
		t.Fatalf("login: expected %q, got %q", "Login successful", loginBody.Message)
	}
	if loginBody.Token == "" {
		t.Fatal("login: expected non-empty token")
	}
	if loginBody.Email != "u@x.com" {
		t.Fatalf("login: expected email u@x.com, got %s", loginBody.Email)
	}

	var sid *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "sid" {
			sid = c
		}
	}
	if sid == nil {
		t.Fatal("login: expected sid cookie")
	}

	// logout destroys the bound session
	rec = postJSON(t, f.handler, "/api/logout", nil, sid)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != "Successfully logged out." {
		t.Fatalf("logout: expected %q, got %q", "Successfully logged out.", msg)
	}

	if _, err := f.sessions.Get(context.Background(), sid.Value); err == nil {
		t.Error("logout: expected session to be destroyed")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	f := setup(t)

	for _, path := range []string{"/api/send-email", "/api/login", "/api/logout"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: expected 405, got %d", path, rec.Code)
		}
	}
}
