package services

import (
	"context"
	"fmt"

	"go_mockapi_server/internal/domain/iface"
	model "go_mockapi_server/internal/domain/model/mock_rule"
	"go_mockapi_server/internal/infra/storage"
)

type StateService struct {
	store storage.StateStorageIface
}

var _ iface.StateService = (*StateService)(nil)

func NewStateService(store storage.StateStorageIface) *StateService {
	return &StateService{store: store}
}

func (s *StateService) Snapshot(ctx context.Context) (*model.StateSnapshot, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}
	return snap, nil
}

func (s *StateService) SetData(ctx context.Context, name string, value any) error {
	if name == "" {
		return fmt.Errorf("state variable name is required")
	}
	return s.store.SetData(ctx, name, value)
}

func (s *StateService) AppendList(ctx context.Context, name string, value any) error {
	if name == "" {
		return fmt.Errorf("state variable name is required")
	}
	return s.store.AppendList(ctx, name, value)
}

func (s *StateService) IncrementCounter(ctx context.Context, name string, delta float64) (float64, error) {
	if name == "" {
		return 0, fmt.Errorf("state variable name is required")
	}
	return s.store.IncrementCounter(ctx, name, delta)
}

func (s *StateService) Reset(ctx context.Context) error {
	return s.store.Reset(ctx)
}
