package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizvenue/billing-console/internal/session"
)

func TestSession_User(t *testing.T) {
	sess := &session.Session{
		ID:       "sid-1",
		Token:    "opaque-token",
		UserJSON: `{"id":7,"role":"COMPANY","fullName":"Jane Doe","email":"jane@acme.com"}`,
	}

	user, err := sess.User()
	require.NoError(t, err)

	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, session.RoleCompany, user.Role)
	assert.Equal(t, "jane@acme.com", user.Email)
}

func TestSession_User_Malformed(t *testing.T) {
	sess := &session.Session{ID: "sid-1", Token: "t", UserJSON: `{broken`}

	user, err := sess.User()

	assert.Error(t, err)
	assert.Nil(t, user)
}

func TestMemoryStore_SetGetClear(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()

	sess := &session.Session{ID: "sid-1", Token: "t", UserJSON: `{"id":1,"role":"CLIENT"}`}
	require.NoError(t, store.Set(ctx, sess, time.Minute))

	got, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "t", got.Token)

	require.NoError(t, store.Clear(ctx, "sid-1"))

	got, err = store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_Expired(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()

	sess := &session.Session{ID: "sid-1", Token: "t"}
	require.NoError(t, store.Set(ctx, sess, -time.Second))

	got, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_MissingSession(t *testing.T) {
	got, err := session.NewMemoryStore().Get(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCompanyScope(t *testing.T) {
	tests := []struct {
		name string
		sess *session.Session
		want int64
	}{
		{
			name: "company role scopes by user id",
			sess: &session.Session{ID: "s", Token: "t", UserJSON: `{"id":42,"role":"COMPANY"}`},
			want: 42,
		},
		{
			name: "client role is unscoped",
			sess: &session.Session{ID: "s", Token: "t", UserJSON: `{"id":42,"role":"CLIENT"}`},
			want: 0,
		},
		{
			name: "malformed user is unscoped",
			sess: &session.Session{ID: "s", Token: "t", UserJSON: `{broken`},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := session.IntoContext(context.Background(), tt.sess)
			assert.Equal(t, tt.want, session.CompanyScope(ctx))
		})
	}
}

func TestCompanyScope_NoSession(t *testing.T) {
	assert.Equal(t, int64(0), session.CompanyScope(context.Background()))
}
