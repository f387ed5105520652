package middlewarectx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizvenue/billing-console/internal/lib/jwt"
	"github.com/bizvenue/billing-console/internal/session"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func seedSession(t *testing.T, store session.Store, userJSON string) (*jwt.MakerImpl, string) {
	t.Helper()
	maker := jwt.NewMaker("test-secret", time.Hour)
	sess := &session.Session{
		ID:       "sess-1",
		Token:    "backend-token",
		UserJSON: userJSON,
	}
	require.NoError(t, store.Set(context.Background(), sess, time.Hour))
	cookie, err := maker.GenerateToken(sess.ID)
	require.NoError(t, err)
	return maker, cookie
}

func TestRoleGate(t *testing.T) {
	companyUser := `{"id":7,"role":"COMPANY","fullName":"Acme Admin","email":"admin@acme.test"}`
	clientUser := `{"id":9,"role":"CLIENT","fullName":"Jane","email":"jane@acme.test"}`

	tests := []struct {
		name         string
		requiredRole string
		userJSON     string
		withCookie   bool
		badCookie    bool
		target       string
		wantStatus   int
		wantLocation string
	}{
		{
			name:         "no cookie redirects to login with origin",
			requiredRole: session.RoleCompany,
			userJSON:     companyUser,
			withCookie:   false,
			target:       "/clients?page=2",
			wantStatus:   http.StatusFound,
			wantLocation: "/login?from=%2Fclients%3Fpage%3D2",
		},
		{
			name:         "garbage cookie redirects to login",
			requiredRole: session.RoleCompany,
			userJSON:     companyUser,
			withCookie:   true,
			badCookie:    true,
			target:       "/clients",
			wantStatus:   http.StatusFound,
			wantLocation: "/login?from=%2Fclients",
		},
		{
			name:         "company user passes company gate",
			requiredRole: session.RoleCompany,
			userJSON:     companyUser,
			withCookie:   true,
			target:       "/clients",
			wantStatus:   http.StatusOK,
		},
		{
			name:         "client user on company gate goes to client home",
			requiredRole: session.RoleCompany,
			userJSON:     clientUser,
			withCookie:   true,
			target:       "/clients",
			wantStatus:   http.StatusFound,
			wantLocation: "/client/dashboard",
		},
		{
			name:         "company user on client gate goes to company home",
			requiredRole: session.RoleClient,
			userJSON:     companyUser,
			withCookie:   true,
			target:       "/client/invoices",
			wantStatus:   http.StatusFound,
			wantLocation: "/dashboard",
		},
		{
			name:         "malformed user redirects to plain login",
			requiredRole: session.RoleCompany,
			userJSON:     `{not json`,
			withCookie:   true,
			target:       "/clients",
			wantStatus:   http.StatusFound,
			wantLocation: "/login",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := session.NewMemoryStore()
			maker, cookie := seedSession(t, store, tt.userJSON)

			var sawSession bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, sawSession = session.FromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			gate := RoleGate(testLogger(), store, maker, tt.requiredRole)

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.withCookie {
				value := cookie
				if tt.badCookie {
					value = "not-a-token"
				}
				req.AddCookie(&http.Cookie{Name: session.CookieName, Value: value})
			}

			w := httptest.NewRecorder()
			gate(next).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, w.Header().Get("Location"))
			}
			if tt.wantStatus == http.StatusOK {
				assert.True(t, sawSession, "session must be injected into context")
			}
		})
	}
}

func TestRoleGate_ExpiredSession(t *testing.T) {
	store := session.NewMemoryStore()
	maker := jwt.NewMaker("test-secret", time.Hour)

	// Cookie is valid but the server-side session is gone.
	cookie, err := maker.GenerateToken("vanished")
	require.NoError(t, err)

	gate := RoleGate(testLogger(), store, maker, session.RoleCompany)
	req := httptest.NewRequest(http.MethodGet, "/clients", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookie})

	w := httptest.NewRecorder()
	gate(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?from=%2Fclients", w.Header().Get("Location"))
}
