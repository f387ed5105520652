package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bizvenue/billing-console/internal/lib/jwt"
	"github.com/bizvenue/billing-console/internal/models"
	authservice "github.com/bizvenue/billing-console/internal/services/auth"
	"github.com/bizvenue/billing-console/internal/session"
)

// MockService реализует интерфейс auth.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Login(ctx context.Context, form models.LoginRequest) (*authservice.LoginResult, error) {
	args := m.Called(ctx, form)
	if v := args.Get(0); v != nil {
		return v.(*authservice.LoginResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) Register(ctx context.Context, form models.SignupRequest) error {
	args := m.Called(ctx, form)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newHandler(service Service, store session.Store) (*Handler, *jwt.MakerImpl) {
	maker := jwt.NewMaker("test-secret", time.Hour)
	return New(testLogger(), service, store, maker, time.Hour), maker
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func TestLogin_CreatesSessionAndCookie(t *testing.T) {
	userJSON := `{"id":42,"role":"COMPANY","email":"admin@acme.test"}`

	mockService := new(MockService)
	mockService.On("Login", mock.Anything, models.LoginRequest{Username: "admin", Password: "secret123"}).
		Return(&authservice.LoginResult{Token: "backend-token", User: json.RawMessage(userJSON)}, nil)

	store := session.NewMemoryStore()
	handler, maker := newHandler(mockService, store)

	body, _ := json.Marshal(models.LoginRequest{Username: "admin", Password: "secret123"})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	handler.Login(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"COMPANY"`)
	assert.NotContains(t, w.Body.String(), "backend-token", "backend token must not leak to the browser")

	cookie := sessionCookie(t, w)
	require.NotNil(t, cookie, "session cookie must be set")
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)

	// Cookie value resolves to the stored session.
	claims, err := maker.ParseToken(cookie.Value)
	require.NoError(t, err)
	sess, err := store.Get(context.Background(), claims.SessionID)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "backend-token", sess.Token)
	assert.Equal(t, userJSON, sess.UserJSON)
}

func TestLogin_BadCredentials(t *testing.T) {
	mockService := new(MockService)
	mockService.On("Login", mock.Anything, mock.AnythingOfType("models.LoginRequest")).
		Return(nil, errors.New("401"))

	handler, _ := newHandler(mockService, session.NewMemoryStore())

	body, _ := json.Marshal(models.LoginRequest{Username: "admin", Password: "wrong-pass"})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))

	w := httptest.NewRecorder()
	handler.Login(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid username or password")
	assert.Nil(t, sessionCookie(t, w))
}

func TestLogin_ValidationFailure(t *testing.T) {
	handler, _ := newHandler(new(MockService), session.NewMemoryStore())

	body, _ := json.Marshal(models.LoginRequest{Username: "admin"})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))

	w := httptest.NewRecorder()
	handler.Login(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "field Password is a required field")
}

func TestLogout_ClearsSessionAndExpiresCookie(t *testing.T) {
	store := session.NewMemoryStore()
	handler, maker := newHandler(new(MockService), store)

	sess := &session.Session{ID: "sess-1", Token: "backend-token", UserJSON: `{}`}
	require.NoError(t, store.Set(context.Background(), sess, time.Hour))
	cookieValue, err := maker.GenerateToken(sess.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookieValue})

	w := httptest.NewRecorder()
	handler.Logout(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	stored, err := store.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Nil(t, stored, "server session must be cleared")

	cookie := sessionCookie(t, w)
	require.NotNil(t, cookie)
	assert.Less(t, cookie.MaxAge, 0, "cookie must be expired")
}

func TestLogout_WithoutCookieIsIdempotent(t *testing.T) {
	handler, _ := newHandler(new(MockService), session.NewMemoryStore())

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	w := httptest.NewRecorder()
	handler.Logout(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `{"status":"OK"}`)
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "successful company signup",
			requestBody: models.SignupRequest{
				Username:    "acme-admin",
				Password:    "secret-pass",
				Email:       "admin@acme.test",
				FullName:    "Acme Admin",
				Role:        "COMPANY",
				CompanyName: "Acme",
			},
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, mock.AnythingOfType("models.SignupRequest")).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK"}`,
		},
		{
			name: "unknown role rejected",
			requestBody: models.SignupRequest{
				Username: "acme-admin",
				Password: "secret-pass",
				Email:    "admin@acme.test",
				FullName: "Acme Admin",
				Role:     "ADMIN",
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   "field Role must be one of",
		},
		{
			name: "backend failure",
			requestBody: models.SignupRequest{
				Username: "acme-admin",
				Password: "secret-pass",
				Email:    "admin@acme.test",
				FullName: "Acme Admin",
				Role:     "CLIENT",
			},
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, mock.AnythingOfType("models.SignupRequest")).
					Return(errors.New("backend down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not register user"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler, _ := newHandler(mockService, session.NewMemoryStore())

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			handler.Register(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
