package storage

import (
	"context"
	"sync"

	model "go_mockapi_server/internal/domain/model/mock_rule"
)

// MemoryStateStorage 进程内状态存储
type MemoryStateStorage struct {
	mu       sync.RWMutex
	data     map[string]any
	lists    map[string][]any
	counters map[string]float64
}

var _ StateStorageIface = (*MemoryStateStorage)(nil)

func NewMemoryStateStorage() *MemoryStateStorage {
	s := &MemoryStateStorage{}
	s.reset()
	return s
}

func (s *MemoryStateStorage) reset() {
	s.data = make(map[string]any)
	s.lists = make(map[string][]any)
	s.counters = make(map[string]float64)
}

// Snapshot 返回一份与存储脱钩的拷贝
func (s *MemoryStateStorage) Snapshot(ctx context.Context) (*model.StateSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &model.StateSnapshot{
		Data:     make(map[string]any, len(s.data)),
		Lists:    make(map[string][]any, len(s.lists)),
		Counters: make(map[string]float64, len(s.counters)),
	}
	for k, v := range s.data {
		snap.Data[k] = v
	}
	for k, v := range s.lists {
		snap.Lists[k] = append([]any{}, v...)
	}
	for k, v := range s.counters {
		snap.Counters[k] = v
	}
	return snap, nil
}

func (s *MemoryStateStorage) SetData(ctx context.Context, name string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = value
	return nil
}

func (s *MemoryStateStorage) AppendList(ctx context.Context, name string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[name] = append(s.lists[name], value)
	return nil
}

func (s *MemoryStateStorage) IncrementCounter(ctx context.Context, name string, delta float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[name] += delta
	return s.counters[name], nil
}

func (s *MemoryStateStorage) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return nil
}
