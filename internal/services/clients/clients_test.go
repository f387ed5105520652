package clients

import (
	"context"
	"errors"
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

// MockBackend реализует интерфейс clients.Backend
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

// MockCache реализует интерфейс clients.Cache
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

func rawClient(id int64, name string) normalize.RawClient {
	return normalize.RawClient{
		ID:          id,
		FullName:    name,
		Email:       "user@test.io",
		CompanyName: "Acme",
		Status:      "ACTIVE",
	}
}

func TestList_ScopesByCompany(t *testing.T) {
	api := new(MockBackend)
	api.On("Get", mock.Anything, "/clients", mock.MatchedBy(func(q url.Values) bool {
		return q.Get("companyId") == "42"
	}), mock.Anything).Run(func(args mock.Arguments) {
		out := args.Get(3).(*[]normalize.RawClient)
		*out = []normalize.RawClient{rawClient(1, "Jane Doe")}
	}).Return(nil)

	svc := NewService(testLogger(), api, new(MockCache), new(MockPublisher), time.Minute)

	items, err := svc.List(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].Key)
	assert.Equal(t, "Jane Doe", items[0].Name)
	api.AssertExpectations(t)
}

func TestList_NoScopeOmitsParam(t *testing.T) {
	api := new(MockBackend)
	api.On("Get", mock.Anything, "/clients", mock.MatchedBy(func(q url.Values) bool {
		return !q.Has("companyId")
	}), mock.Anything).Return(nil)

	svc := NewService(testLogger(), api, new(MockCache), new(MockPublisher), time.Minute)

	_, err := svc.List(context.Background(), 0)
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestGet_CacheHitSkipsBackend(t *testing.T) {
	cache := new(MockCache)
	cache.On("Get", "client:5", mock.Anything).Run(func(args mock.Arguments) {
		out := args.Get(1).(*normalize.Client)
		out.Key = 5
		out.Name = "Cached"
	}).Return(true, nil)

	api := new(MockBackend)
	svc := NewService(testLogger(), api, cache, new(MockPublisher), time.Minute)

	client, err := svc.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Cached", client.Name)
	api.AssertNotCalled(t, "Get")
	cache.AssertExpectations(t)
}

func TestGet_CacheMissFetchesAndStores(t *testing.T) {
	cache := new(MockCache)
	cache.On("Get", "client:5", mock.Anything).Return(false, nil)
	cache.On("Set", "client:5", mock.AnythingOfType("normalize.Client"), time.Minute).Return(nil)

	api := new(MockBackend)
	api.On("Get", mock.Anything, "/clients/5", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		out := args.Get(3).(*normalize.RawClient)
		*out = rawClient(5, "Jane Doe")
	}).Return(nil)

	svc := NewService(testLogger(), api, cache, new(MockPublisher), time.Minute)

	client, err := svc.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), client.Key)
	cache.AssertExpectations(t)
	api.AssertExpectations(t)
}

func TestGet_CacheErrorDegradesToBackend(t *testing.T) {
	cache := new(MockCache)
	cache.On("Get", "client:5", mock.Anything).Return(false, errors.New("redis down"))
	cache.On("Set", "client:5", mock.Anything, time.Minute).Return(errors.New("redis down"))

	api := new(MockBackend)
	api.On("Get", mock.Anything, "/clients/5", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		out := args.Get(3).(*normalize.RawClient)
		*out = rawClient(5, "Jane Doe")
	}).Return(nil)

	svc := NewService(testLogger(), api, cache, new(MockPublisher), time.Minute)

	client, err := svc.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", client.Name)
}

func TestCreate_SendsCreatePayloadAndAudits(t *testing.T) {
	api := new(MockBackend)
	api.On("Post", mock.Anything, "/clients", mock.MatchedBy(func(p normalize.ClientCreatePayload) bool {
		return p.Role == "CLIENT" && p.Password != "" && p.Status == "ACTIVE"
	}), mock.Anything).Run(func(args mock.Arguments) {
		out := args.Get(3).(*normalize.RawClient)
		*out = rawClient(11, "Jane Doe")
	}).Return(nil)

	cache := new(MockCache)
	cache.On("Set", "client:11", mock.Anything, time.Minute).Return(nil)

	auditor := new(MockPublisher)
	auditor.On("Publish", mock.Anything, mock.MatchedBy(func(e audit.Event) bool {
		return e.Entity == "client" && e.Action == "create" && e.RecordKey == 11
	})).Return(nil)

	svc := NewService(testLogger(), api, cache, auditor, time.Minute)

	client, err := svc.Create(context.Background(), models.ClientForm{
		Name:   "Jane Doe",
		Email:  "user@test.io",
		Status: "active",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), client.Key)
	api.AssertExpectations(t)
	auditor.AssertExpectations(t)
}

func TestRemove_InvalidatesCache(t *testing.T) {
	api := new(MockBackend)
	api.On("Delete", mock.Anything, "/clients/7").Return(nil)

	cache := new(MockCache)
	cache.On("Invalidate", "client:7").Return(nil)

	auditor := new(MockPublisher)
	auditor.On("Publish", mock.Anything, mock.AnythingOfType("audit.Event")).Return(nil)

	svc := NewService(testLogger(), api, cache, auditor, time.Minute)

	require.NoError(t, svc.Remove(context.Background(), 7))
	cache.AssertExpectations(t)
}

func TestSuspend_DecodesUpdatedRecord(t *testing.T) {
	api := new(MockBackend)
	api.On("Put", mock.Anything, "/clients/7/suspend", nil, mock.Anything).Run(func(args mock.Arguments) {
		out := args.Get(3).(*normalize.RawClient)
		raw := rawClient(7, "Jane Doe")
		raw.Status = "SUSPENDED"
		*out = raw
	}).Return(nil)

	cache := new(MockCache)
	cache.On("Set", "client:7", mock.Anything, time.Minute).Return(nil)

	auditor := new(MockPublisher)
	auditor.On("Publish", mock.Anything, mock.AnythingOfType("audit.Event")).Return(nil)

	svc := NewService(testLogger(), api, cache, auditor, time.Minute)

	client, err := svc.Suspend(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "suspended", client.Status)
}

func TestList_BackendError(t *testing.T) {
	api := new(MockBackend)
	api.On("Get", mock.Anything, "/clients", mock.Anything, mock.Anything).Return(errors.New("boom"))

	svc := NewService(testLogger(), api, new(MockCache), new(MockPublisher), time.Minute)

	_, err := svc.List(context.Background(), 0)
	assert.Error(t, err)
}
