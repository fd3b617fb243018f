package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"salescoach/app/service/analysis"
	"salescoach/app/service/discovery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRepo struct {
	mu    sync.Mutex
	saves int
}

func (r *countingRepo) AppendNote(_ context.Context, _ string, _ MeetingNote) error {
	return nil
}

func (r *countingRepo) UpdateDiscovery(_ context.Context, _ string, _ discovery.Dimension, _ discovery.Slot) error {
	return nil
}

func (r *countingRepo) SaveSummary(_ context.Context, _ string, _ LiveSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.saves++

	return nil
}

func (r *countingRepo) ReadSummary(_ context.Context, _ string) (*LiveSummary, error) {
	return nil, nil
}

func (r *countingRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.saves
}

func newAggregatorService(interval time.Duration) (*Service, *countingRepo) {
	repo := &countingRepo{}

	return &Service{
		extractor:       &analysis.Heuristic{},
		repo:            repo,
		summaryInterval: interval,
		sessions:        make(map[string]*Session),
	}, repo
}

// saveSettled waits out any tick that was already in flight when the session
// context got cancelled, then reports the stable persist count.
func saveSettled(repo *countingRepo, interval time.Duration) int {
	time.Sleep(3 * interval)
	return repo.saveCount()
}

func TestAggregatorStopsOnEnd(t *testing.T) {
	interval := 10 * time.Millisecond
	svc, repo := newAggregatorService(interval)

	sess := svc.Start(context.Background())

	require.Eventually(t, func() bool {
		return repo.saveCount() > 0
	}, time.Second, interval, "ticker never persisted a summary")

	_, err := svc.End(context.Background(), sess.ID)
	require.NoError(t, err)

	settled := saveSettled(repo, interval)
	time.Sleep(10 * interval)
	assert.Equal(t, settled, repo.saveCount())
}

func TestAggregatorStopsOnShutdown(t *testing.T) {
	interval := 10 * time.Millisecond
	svc, repo := newAggregatorService(interval)

	svc.Start(context.Background())
	svc.Start(context.Background())

	require.Eventually(t, func() bool {
		return repo.saveCount() > 0
	}, time.Second, interval, "ticker never persisted a summary")

	require.NoError(t, svc.Shutdown())

	settled := saveSettled(repo, interval)
	time.Sleep(10 * interval)
	assert.Equal(t, settled, repo.saveCount())
}
