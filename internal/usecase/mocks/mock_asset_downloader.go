package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/service"
)

// MockAssetDownloader is a mock implementation of usecase.AssetDownloader
type MockAssetDownloader struct {
	mock.Mock
}

func (m *MockAssetDownloader) Download(ctx context.Context, url, key string) (*service.DownloadResult, error) {
	args := m.Called(ctx, url, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DownloadResult), args.Error(1)
}

// MockTextExtractor is a mock implementation of usecase.TextExtractor
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) ExtractText(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}
