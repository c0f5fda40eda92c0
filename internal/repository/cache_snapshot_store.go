package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"FxScore/internal/domain/models"
	domrepo "FxScore/internal/domain/repository"
	"FxScore/pkg/cache"
)

const stateKey = "workspace:state"

// workspaceState is the single cache entry behind the store.
type workspaceState struct {
	Snapshot models.MarketSnapshot `json:"snapshot"`
	Result   *models.ScoringResult `json:"result"`
}

// CacheSnapshotStore keeps the workspace in any cache backend under one key, so a
// snapshot is never stored without the result computed from it. Entries never
// expire unless a TTL is set.
type CacheSnapshotStore struct {
	cache cache.Service
	ttl   time.Duration
}

func NewCacheSnapshotStore(c cache.Service, ttl time.Duration) *CacheSnapshotStore {
	return &CacheSnapshotStore{cache: c, ttl: ttl}
}

func (s *CacheSnapshotStore) LoadSnapshot(ctx context.Context) (models.MarketSnapshot, error) {
	st, err := s.load(ctx)
	if err != nil {
		return models.MarketSnapshot{}, err
	}
	return st.Snapshot, nil
}

func (s *CacheSnapshotStore) LoadResult(ctx context.Context) (*models.ScoringResult, error) {
	st, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if st.Result == nil {
		return nil, domrepo.ErrNotFound
	}
	return st.Result, nil
}

func (s *CacheSnapshotStore) Save(ctx context.Context, snap models.MarketSnapshot, r *models.ScoringResult) error {
	if r == nil {
		return errors.New("nil result")
	}
	if err := s.cache.Set(ctx, stateKey, workspaceState{Snapshot: snap, Result: r}, s.ttl); err != nil {
		return fmt.Errorf("cache set %s: %w", stateKey, err)
	}
	return nil
}

func (s *CacheSnapshotStore) load(ctx context.Context) (workspaceState, error) {
	var st workspaceState
	if err := s.get(ctx, stateKey, &st); err != nil {
		return workspaceState{}, err
	}
	return st, nil
}

func (s *CacheSnapshotStore) get(ctx context.Context, key string, dest interface{}) error {
	err := s.cache.Get(ctx, key, dest)
	if errors.Is(err, cache.ErrCacheMiss) {
		return domrepo.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("cache get %s: %w", key, err)
	}
	return nil
}

var _ domrepo.SnapshotStore = (*CacheSnapshotStore)(nil)
