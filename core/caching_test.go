package core

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/AjayJagan/github-workflow-analyzer/internal/ghclient"
	"github.com/AjayJagan/github-workflow-analyzer/internal/iocache"
	"github.com/AjayJagan/github-workflow-analyzer/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCacheStore for testing (alias for MockCacheStore)
type MockCacheStore = iocache.MockCacheStore

func cachedPayload(t *testing.T) []byte {
	t.Helper()
	runs := []schema.RunRecord{{ID: 1, Repository: "acme/api", WorkflowName: "CI", Event: "push", DurationSeconds: 60}}
	data, err := json.Marshal(runs)
	require.NoError(t, err)
	return data
}

func TestCheckCacheHit(t *testing.T) {
	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	fresh := now.Add(-10 * time.Minute).Unix()
	payload := cachedPayload(t)

	tests := []struct {
		name    string
		data    []byte
		version int
		ts      int64
		err     error
		ttl     time.Duration
		wantHit bool
	}{
		{"fresh entry", payload, currentCacheVersion, fresh, nil, time.Hour, true},
		{"version mismatch", payload, currentCacheVersion + 1, fresh, nil, time.Hour, false},
		{"stale entry", payload, currentCacheVersion, now.Add(-2 * time.Hour).Unix(), nil, time.Hour, false},
		{"lookup error", nil, 0, 0, assert.AnError, time.Hour, false},
		{"unmarshal error", []byte("invalid json"), currentCacheVersion, fresh, nil, time.Hour, false},
		{"zero ttl", payload, currentCacheVersion, fresh, nil, 0, false},
		{"negative ttl", payload, currentCacheVersion, fresh, nil, -time.Minute, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &MockCacheStore{}
			store.On("Get", "test-key").Return(tt.data, tt.version, tt.ts, tt.err)

			runs, hit := checkCacheHit(store, "test-key", tt.ttl, now)

			assert.Equal(t, tt.wantHit, hit)
			if tt.wantHit {
				require.Len(t, runs, 1)
				assert.Equal(t, "CI", runs[0].WorkflowName)
			} else {
				assert.Nil(t, runs)
			}
			store.AssertExpectations(t)
		})
	}
}

func TestGenerateCacheKey(t *testing.T) {
	cfg := testConfig("acme/api")

	key := generateCacheKey(cfg, "github.com", "acme/api")
	assert.Len(t, key, 64) // SHA256 hash length

	sameHour := cfg.Clone()
	sameHour.StartTime = cfg.StartTime.Add(15 * time.Minute)
	assert.Equal(t, key, generateCacheKey(sameHour, "github.com", "acme/api"))

	nextHour := cfg.Clone()
	nextHour.StartTime = cfg.StartTime.Add(time.Hour)
	assert.NotEqual(t, key, generateCacheKey(nextHour, "github.com", "acme/api"))

	otherDays := cfg.Clone()
	otherDays.Days = 30
	assert.NotEqual(t, key, generateCacheKey(otherDays, "github.com", "acme/api"))

	assert.NotEqual(t, key, generateCacheKey(cfg, "github.example.com", "acme/api"))
	assert.NotEqual(t, key, generateCacheKey(cfg, "github.com", "acme/web"))
}

func TestCachedRepositoryRunsHit(t *testing.T) {
	cfg := testConfig("acme/api")
	client := &ghclient.MockGitHubClient{}
	client.On("Host").Return("github.com")
	key := generateCacheKey(cfg, "github.com", "acme/api")

	store := &MockCacheStore{}
	store.On("Get", key).Return(cachedPayload(t), currentCacheVersion, time.Now().Unix(), nil)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetRunStore").Return(store)

	runs, err := cachedRepositoryRuns(context.Background(), cfg, client, mgr, "acme/api")

	require.NoError(t, err)
	assert.Len(t, runs, 1)
	client.AssertNotCalled(t, "ListActiveWorkflows", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedRepositoryRunsMiss(t *testing.T) {
	cfg := testConfig("acme/web")
	client := fixtureClient()
	key := generateCacheKey(cfg, "github.com", "acme/web")

	store := &MockCacheStore{}
	store.On("Get", key).Return(nil, 0, int64(0), assert.AnError)
	store.On("Set", key, mock.Anything, currentCacheVersion, mock.AnythingOfType("int64")).Return(nil)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetRunStore").Return(store)

	runs, err := cachedRepositoryRuns(context.Background(), cfg, client, mgr, "acme/web")

	require.NoError(t, err)
	assert.Len(t, runs, 4)
	store.AssertExpectations(t)

	stored := store.Calls[1].Arguments.Get(1).([]byte)
	var decoded []schema.RunRecord
	require.NoError(t, json.Unmarshal(stored, &decoded))
	require.Len(t, decoded, 4)
	require.NotNil(t, decoded[0].Trigger)
	assert.True(t, decoded[0].Trigger.Push)
}

func TestCachedRepositoryRunsStoreFailure(t *testing.T) {
	cfg := testConfig("acme/web")
	client := fixtureClient()

	store := &MockCacheStore{}
	store.On("Get", mock.Anything).Return(nil, 0, int64(0), assert.AnError)
	store.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetRunStore").Return(store)

	runs, err := cachedRepositoryRuns(context.Background(), cfg, client, mgr, "acme/web")

	require.NoError(t, err)
	assert.Len(t, runs, 4)
}

func TestCachedRepositoryRunsFetchErrorIsNotStored(t *testing.T) {
	cfg := testConfig("acme/broken")
	client := &ghclient.MockGitHubClient{}
	client.On("Host").Return("github.com")
	client.On("ListActiveWorkflows", mock.Anything, "acme/broken").Return(nil, assert.AnError)

	store := &MockCacheStore{}
	store.On("Get", mock.Anything).Return(nil, 0, int64(0), assert.AnError)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetRunStore").Return(store)

	_, err := cachedRepositoryRuns(context.Background(), cfg, client, mgr, "acme/broken")

	assert.ErrorIs(t, err, assert.AnError)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedRepositoryRunsPartialFetchIsNotStored(t *testing.T) {
	cfg := testConfig("acme/flaky")
	client := &ghclient.MockGitHubClient{}
	client.On("Host").Return("github.com")
	wf := newWorkflow(5, "Build", "build.yml")
	client.On("ListActiveWorkflows", mock.Anything, "acme/flaky").Return([]schema.Workflow{wf}, nil)
	client.On("ListWorkflowRuns", mock.Anything, "acme/flaky", wf, mock.Anything).
		Return(makeRuns("acme/flaky", wf, 2, 5, schema.PushEvent), assert.AnError)
	client.On("GetWorkflowContent", mock.Anything, "acme/flaky", wf.Path).Return([]byte("on: push"), nil)

	store := &MockCacheStore{}
	store.On("Get", mock.Anything).Return(nil, 0, int64(0), assert.AnError)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetRunStore").Return(store)

	runs, err := cachedRepositoryRuns(context.Background(), cfg, client, mgr, "acme/flaky")

	require.NoError(t, err)
	assert.Len(t, runs, 2)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
