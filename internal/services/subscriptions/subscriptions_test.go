package subscriptions

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bizvenue/billing-console/internal/audit"
	"github.com/bizvenue/billing-console/internal/models"
	"github.com/bizvenue/billing-console/internal/normalize"
)

// MockBackend реализует интерфейс subscriptions.Backend
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Get(ctx context.Context, path string, query url.Values, out any) error {
	args := m.Called(ctx, path, query, out)
	return args.Error(0)
}

func (m *MockBackend) Post(ctx context.Context, path string, body, out any) error {
	args := m.Called(ctx, path, body, out)
	return args.Error(0)
}

func (m *MockBackend) Put(ctx context.Context, path string, body, out any) error {
	args := m.Called(ctx, path, body, out)
	return args.Error(0)
}

func (m *MockBackend) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

// MockCache реализует интерфейс subscriptions.Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// MockPublisher реализует интерфейс audit.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event audit.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newService(api *MockBackend, cache *MockCache, auditor *MockPublisher) *Service {
	return NewService(testLogger(), api, cache, auditor, time.Minute)
}

func TestActions_PostToLifecycleRoutes(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		action   string
		call     func(s *Service) (*normalize.Subscription, error)
		wantBody any
	}{
		{
			name:   "cancel",
			path:   "/subscriptions/3/cancel",
			action: "cancel",
			call:   func(s *Service) (*normalize.Subscription, error) { return s.Cancel(context.Background(), 3) },
		},
		{
			name:   "pause",
			path:   "/subscriptions/3/pause",
			action: "pause",
			call:   func(s *Service) (*normalize.Subscription, error) { return s.Pause(context.Background(), 3) },
		},
		{
			name:   "resume",
			path:   "/subscriptions/3/resume",
			action: "resume",
			call:   func(s *Service) (*normalize.Subscription, error) { return s.Resume(context.Background(), 3) },
		},
		{
			name:   "renew",
			path:   "/subscriptions/3/renew",
			action: "renew",
			call:   func(s *Service) (*normalize.Subscription, error) { return s.Renew(context.Background(), 3) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := new(MockBackend)
			api.On("Post", mock.Anything, tt.path, nil, mock.Anything).Run(func(args mock.Arguments) {
				out := args.Get(3).(*normalize.RawSubscription)
				*out = normalize.RawSubscription{ID: 3, Status: "ACTIVE"}
			}).Return(nil)

			cache := new(MockCache)
			cache.On("Set", "subscription:3", mock.Anything, time.Minute).Return(nil)

			auditor := new(MockPublisher)
			auditor.On("Publish", mock.Anything, mock.MatchedBy(func(e audit.Event) bool {
				return e.Entity == "subscription" && e.Action == tt.action && e.RecordKey == 3
			})).Return(nil)

			sub, err := tt.call(newService(api, cache, auditor))
			require.NoError(t, err)
			assert.Equal(t, int64(3), sub.Key)
			api.AssertExpectations(t)
			auditor.AssertExpectations(t)
		})
	}
}

func TestChangePlan_SendsPlanID(t *testing.T) {
	api := new(MockBackend)
	api.On("Post", mock.Anything, "/subscriptions/3/change-plan", map[string]int64{"planId": 9}, mock.Anything).
		Run(func(args mock.Arguments) {
			out := args.Get(3).(*normalize.RawSubscription)
			*out = normalize.RawSubscription{ID: 3, PlanID: 9, Status: "ACTIVE"}
		}).Return(nil)

	cache := new(MockCache)
	cache.On("Set", "subscription:3", mock.Anything, time.Minute).Return(nil)

	auditor := new(MockPublisher)
	auditor.On("Publish", mock.Anything, mock.AnythingOfType("audit.Event")).Return(nil)

	sub, err := newService(api, cache, auditor).ChangePlan(context.Background(), 3, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(3), sub.Key)
	api.AssertExpectations(t)
}

func TestCreate_UppercasesStatus(t *testing.T) {
	api := new(MockBackend)
	api.On("Post", mock.Anything, "/subscriptions", mock.MatchedBy(func(p normalize.SubscriptionPayload) bool {
		return p.ClientID == 4 && p.PlanID == 9 && p.Status == "TRIAL"
	}), mock.Anything).Run(func(args mock.Arguments) {
		out := args.Get(3).(*normalize.RawSubscription)
		*out = normalize.RawSubscription{ID: 21, ClientID: 4, PlanID: 9, Status: "TRIAL"}
	}).Return(nil)

	cache := new(MockCache)
	cache.On("Set", "subscription:21", mock.Anything, time.Minute).Return(nil)

	auditor := new(MockPublisher)
	auditor.On("Publish", mock.Anything, mock.AnythingOfType("audit.Event")).Return(nil)

	sub, err := newService(api, cache, auditor).Create(context.Background(), models.SubscriptionForm{
		ClientID: 4,
		PlanID:   9,
		Status:   "trial",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(21), sub.Key)
	assert.Equal(t, "trial", sub.Status)
}

func TestRemove_InvalidatesCache(t *testing.T) {
	api := new(MockBackend)
	api.On("Delete", mock.Anything, "/subscriptions/3").Return(nil)

	cache := new(MockCache)
	cache.On("Invalidate", "subscription:3").Return(nil)

	auditor := new(MockPublisher)
	auditor.On("Publish", mock.Anything, mock.AnythingOfType("audit.Event")).Return(nil)

	require.NoError(t, newService(api, cache, auditor).Remove(context.Background(), 3))
	cache.AssertExpectations(t)
}
