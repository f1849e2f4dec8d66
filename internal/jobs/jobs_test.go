package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"assetsync/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

type MockPendingFlusher struct {
	mock.Mock
}

func (m *MockPendingFlusher) FlushPending(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type countingPruner struct {
	calls *atomic.Int64
}

func (p countingPruner) Prune() int {
	p.calls.Inc()
	return 3
}

func TestLocationFlushJob_RunsOnSchedule(t *testing.T) {
	calls := atomic.NewInt64(0)
	count := func(mock.Arguments) { calls.Inc() }

	flusher := new(MockPendingFlusher)
	flusher.On("FlushPending", mock.Anything).Return(0, errors.New("postgres down")).Run(count).Once()
	flusher.On("FlushPending", mock.Anything).Return(2, nil).Run(count)

	job := jobs.NewLocationFlushJob(flusher, "", zap.NewNop())
	require.NoError(t, job.Start())

	assert.Eventually(t, func() bool {
		return calls.Load() >= 2
	}, 4*time.Second, 50*time.Millisecond)

	job.Stop()
	flusher.AssertExpectations(t)
}

func TestLocationFlushJob_InvalidSchedule(t *testing.T) {
	job := jobs.NewLocationFlushJob(new(MockPendingFlusher), "every second", zap.NewNop())
	require.Error(t, job.Start())
}

func TestJobManager_StartStop(t *testing.T) {
	flusher := new(MockPendingFlusher)
	flusher.On("FlushPending", mock.Anything).Return(0, nil)
	pruner := countingPruner{calls: atomic.NewInt64(0)}

	manager := jobs.NewJobManager(flusher, pruner, jobs.Schedules{DedupePrune: "* * * * * *"}, zap.NewNop())
	require.NoError(t, manager.StartAll())

	assert.Eventually(t, func() bool {
		return pruner.calls.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)

	manager.StopAll()
	stopped := pruner.calls.Load()
	time.Sleep(1200 * time.Millisecond)
	assert.Equal(t, stopped, pruner.calls.Load())
}

func TestJobManager_StartFailureStopsStartedJobs(t *testing.T) {
	flusher := new(MockPendingFlusher)
	flusher.On("FlushPending", mock.Anything).Return(0, nil).Maybe()
	pruner := countingPruner{calls: atomic.NewInt64(0)}

	manager := jobs.NewJobManager(flusher, pruner, jobs.Schedules{DedupePrune: "bogus"}, zap.NewNop())
	require.Error(t, manager.StartAll())
}
