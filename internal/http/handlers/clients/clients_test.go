package clients

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

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bizvenue/billing-console/internal/models"
	"github.com/bizvenue/billing-console/internal/normalize"
	"github.com/bizvenue/billing-console/internal/session"
)

// MockService реализует интерфейс clients.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, companyID int64) ([]normalize.Client, error) {
	args := m.Called(ctx, companyID)
	if v := args.Get(0); v != nil {
		return v.([]normalize.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) Get(ctx context.Context, id int64) (*normalize.Client, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*normalize.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) Create(ctx context.Context, form models.ClientForm) (*normalize.Client, error) {
	args := m.Called(ctx, form)
	if v := args.Get(0); v != nil {
		return v.(*normalize.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) Update(ctx context.Context, id int64, form models.ClientForm) (*normalize.Client, error) {
	args := m.Called(ctx, id, form)
	if v := args.Get(0); v != nil {
		return v.(*normalize.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) Remove(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockService) Suspend(ctx context.Context, id int64) (*normalize.Client, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*normalize.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func companyContext(r *http.Request) *http.Request {
	sess := &session.Session{
		ID:       "sess-1",
		Token:    "backend-token",
		UserJSON: `{"id":42,"role":"COMPANY","email":"admin@acme.test"}`,
	}
	ctx := session.IntoContext(r.Context(), sess)
	ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-id")
	return r.WithContext(ctx)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestList_ScopesToSessionCompany(t *testing.T) {
	mockService := new(MockService)
	mockService.On("List", mock.Anything, int64(42)).
		Return([]normalize.Client{{Name: "Jane Doe"}}, nil)

	handler := New(testLogger(), mockService)

	req := companyContext(httptest.NewRequest(http.MethodGet, "/clients", nil))
	w := httptest.NewRecorder()
	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Jane Doe"`)
	mockService.AssertExpectations(t)
}

func TestCreateHandler(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "successful create",
			requestBody: models.ClientForm{
				Name:   "Jane Doe",
				Email:  "jane@acme.test",
				Status: "active",
			},
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.AnythingOfType("models.ClientForm")).
					Return(&normalize.Client{Name: "Jane Doe"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name:           "invalid json",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name: "validation failure",
			requestBody: models.ClientForm{
				Name:  "",
				Email: "not-an-email",
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Name is a required field, field Email must be a valid email`,
		},
		{
			name: "service failure",
			requestBody: models.ClientForm{
				Name:  "Jane Doe",
				Email: "jane@acme.test",
			},
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.AnythingOfType("models.ClientForm")).
					Return(nil, errors.New("backend down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not create client"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(testLogger(), mockService)

			var body []byte
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, _ = json.Marshal(tt.requestBody)
			}

			req := httptest.NewRequest(http.MethodPost, "/clients", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req = companyContext(req)

			w := httptest.NewRecorder()
			handler.Create(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}

func TestGet_InvalidID(t *testing.T) {
	handler := New(testLogger(), new(MockService))

	req := companyContext(httptest.NewRequest(http.MethodGet, "/clients/abc", nil))
	req = withURLParam(req, "id", "abc")

	w := httptest.NewRecorder()
	handler.Get(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "failed to decode id from url")
}

func TestSuspend_ReturnsUpdatedRecord(t *testing.T) {
	mockService := new(MockService)
	mockService.On("Suspend", mock.Anything, int64(7)).
		Return(&normalize.Client{Name: "Jane Doe", Status: "suspended"}, nil)

	handler := New(testLogger(), mockService)

	req := companyContext(httptest.NewRequest(http.MethodPut, "/clients/7/suspend", nil))
	req = withURLParam(req, "id", "7")

	w := httptest.NewRecorder()
	handler.Suspend(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"suspended"`)
	mockService.AssertExpectations(t)
}

func TestRemove_Success(t *testing.T) {
	mockService := new(MockService)
	mockService.On("Remove", mock.Anything, int64(7)).Return(nil)

	handler := New(testLogger(), mockService)

	req := companyContext(httptest.NewRequest(http.MethodDelete, "/clients/7", nil))
	req = withURLParam(req, "id", "7")

	w := httptest.NewRecorder()
	handler.Remove(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `{"status":"OK"}`)
	mockService.AssertExpectations(t)
}
