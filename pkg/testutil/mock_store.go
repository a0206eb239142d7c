package testutil

import (
	"context"

	"github.com/arthur-debert/dsfixtures/pkg/types"
	"github.com/stretchr/testify/mock"
)

// MockStore is a testify mock of types.Store
type MockStore struct {
	mock.Mock
}

var _ types.Store = (*MockStore)(nil)

func (m *MockStore) DeleteNonPersistent(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStore) Create(ctx context.Context) (*types.Dataset, error) {
	args := m.Called(ctx)
	ds, _ := args.Get(0).(*types.Dataset)
	return ds, args.Error(1)
}

func (m *MockStore) SetPersistent(ctx context.Context, ds *types.Dataset, persistent bool) error {
	args := m.Called(ctx, ds, persistent)
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, ds *types.Dataset) error {
	args := m.Called(ctx, ds)
	return args.Error(0)
}

// CallNames returns the method names called so far, in order
func (m *MockStore) CallNames() []string {
	names := make([]string, 0, len(m.Calls))
	for _, c := range m.Calls {
		names = append(names, c.Method)
	}
	return names
}
