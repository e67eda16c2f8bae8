package service_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/service"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/service/mocks"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/storage"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/infrastructure/observability/adapters/stdout"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/infrastructure/storage/adapters/fs"
)

const testAccept = "application/pdf,application/octet-stream;q=0.9,*/*;q=0.8"

func newDownloadService(t *testing.T) (*service.DownloadService, *mocks.MockHTTPClient, storage.ObjectStorage, *stdout.Metrics) {
	t.Helper()

	store, err := fs.NewStorage(t.TempDir(), stdout.NewLogger(), stdout.NewMetrics())
	require.NoError(t, err)

	client := &mocks.MockHTTPClient{}
	metrics := stdout.NewMetrics().(*stdout.Metrics)
	svc := service.NewDownloadService(client, store, "downloads", 1<<20, stdout.NewLogger(), metrics)
	return svc, client, store, metrics
}

func respBody(content string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(content))
}

func TestDownloadStoresAsset(t *testing.T) {
	svc, client, store, _ := newDownloadService(t)
	ctx := context.Background()
	key := "12 - Morning/99 - Test/audio/01 - track.mp3"

	client.On("Download", mock.Anything, "https://cdn.example/track.mp3", map[string]string{
		"Accept":  testAccept,
		"Referer": "https://cdn.example/",
	}).Return(respBody("audio bytes"), map[string]string{"Content-Type": "audio/mpeg"}, nil)

	result, err := svc.Download(ctx, "https://cdn.example/track.mp3", key)
	require.NoError(t, err)

	assert.False(t, result.Skipped)
	assert.Equal(t, int64(len("audio bytes")), result.Bytes)
	assert.Equal(t, "audio/mpeg", result.ContentType)
	assert.Len(t, result.Checksum, 64)

	body, err := store.Get(ctx, "downloads", key)
	require.NoError(t, err)
	defer body.Close()
	content, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "audio bytes", string(content))

	client.AssertExpectations(t)
}

func TestDownloadSkipsExistingNonEmpty(t *testing.T) {
	svc, client, store, metrics := newDownloadService(t)
	ctx := context.Background()
	key := "12 - Morning/99 - Test/audio/01 - track.mp3"

	require.NoError(t, store.Put(ctx, "downloads", key,
		strings.NewReader("already here"), storage.ObjectMetadata{}))

	result, err := svc.Download(ctx, "https://cdn.example/track.mp3", key)
	require.NoError(t, err)

	assert.True(t, result.Skipped)
	assert.Equal(t, int64(len("already here")), result.Bytes)
	client.AssertNotCalled(t, "Download", mock.Anything, mock.Anything, mock.Anything)

	skipped := metrics.GetCounter("download.skipped", map[string]string{"component": "download_service"})
	assert.Equal(t, int64(1), skipped)
}

func TestDownloadValidPDF(t *testing.T) {
	svc, client, store, _ := newDownloadService(t)
	ctx := context.Background()
	key := "12 - Morning/99 - Test/documents/01 - text.pdf"

	client.On("Download", mock.Anything, mock.Anything, mock.Anything).
		Return(respBody("%PDF-1.4 hello"), map[string]string{"Content-Type": "application/pdf"}, nil)

	result, err := svc.Download(ctx, "https://cdn.example/text.pdf", key)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)

	exists, err := store.Exists(ctx, "downloads", key)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDownloadRejectsFakePDF(t *testing.T) {
	svc, client, store, metrics := newDownloadService(t)
	ctx := context.Background()
	key := "12 - Morning/99 - Test/documents/01 - text.pdf"

	client.On("Download", mock.Anything, mock.Anything, mock.Anything).
		Return(respBody("<html>error page</html>"), map[string]string{"Content-Type": "text/html"}, nil)

	_, err := svc.Download(ctx, "https://cdn.example/text.pdf", key)
	require.Error(t, err)

	var validationErr *service.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.EqualError(t, err, "Downloaded content is not a PDF (Content-Type: text/html)")

	// The invalid object must not survive.
	exists, err := store.Exists(ctx, "downloads", key)
	require.NoError(t, err)
	assert.False(t, exists)

	failures := metrics.GetCounter("download.errors", map[string]string{
		"component": "download_service",
		"error":     "validation",
	})
	assert.Equal(t, int64(1), failures)
}

func TestDownloadTrustsPDFContentType(t *testing.T) {
	// A declared PDF content type waives the magic byte check.
	svc, client, store, _ := newDownloadService(t)
	ctx := context.Background()
	key := "12 - Morning/99 - Test/documents/01 - text.pdf"

	client.On("Download", mock.Anything, mock.Anything, mock.Anything).
		Return(respBody("no magic here"), map[string]string{"Content-Type": "application/pdf"}, nil)

	_, err := svc.Download(ctx, "https://cdn.example/text.pdf", key)
	require.NoError(t, err)

	exists, err := store.Exists(ctx, "downloads", key)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDownloadRejectsEmptyPDF(t *testing.T) {
	// An empty body never passes validation, even with a PDF content type.
	svc, client, store, _ := newDownloadService(t)
	ctx := context.Background()
	key := "12 - Morning/99 - Test/documents/01 - text.pdf"

	client.On("Download", mock.Anything, mock.Anything, mock.Anything).
		Return(respBody(""), map[string]string{"Content-Type": "application/pdf"}, nil)

	_, err := svc.Download(ctx, "https://cdn.example/text.pdf", key)
	require.Error(t, err)

	var validationErr *service.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.EqualError(t, err, "Downloaded content is not a PDF (Content-Type: application/pdf)")

	exists, err := store.Exists(ctx, "downloads", key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDownloadFetchError(t *testing.T) {
	svc, client, store, _ := newDownloadService(t)
	ctx := context.Background()

	// A URL with no scheme or host gets no Referer, only the Accept hint.
	client.On("Download", mock.Anything, "garbage", map[string]string{"Accept": testAccept}).
		Return(nil, nil, errors.New("connection refused"))

	_, err := svc.Download(ctx, "garbage", "audio/01 - track.mp3")
	require.Error(t, err)

	var fetchErr *service.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "connection refused")

	exists, err := store.Exists(ctx, "downloads", "audio/01 - track.mp3")
	require.NoError(t, err)
	assert.False(t, exists)

	client.AssertExpectations(t)
}
