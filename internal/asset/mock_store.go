package asset

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Upload(ctx context.Context, ext string, contentType string, body io.Reader) (Stored, error) {
	args := m.Called(ctx, ext, contentType, body)
	return args.Get(0).(Stored), args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
