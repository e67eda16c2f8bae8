package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/entity/prayer"
)

// MockPageFetcher is a mock implementation of usecase.PageFetcher
type MockPageFetcher struct {
	mock.Mock
}

func (m *MockPageFetcher) FetchPage(ctx context.Context, categoryID int64, page int) (*prayer.Page, error) {
	args := m.Called(ctx, categoryID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*prayer.Page), args.Error(1)
}
