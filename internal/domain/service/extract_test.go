package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/service"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/storage"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/infrastructure/observability/adapters/stdout"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/infrastructure/storage/adapters/fs"
)

func newExtractService(t *testing.T) (*service.PDFExtractService, storage.ObjectStorage) {
	t.Helper()

	store, err := fs.NewStorage(t.TempDir(), stdout.NewLogger(), stdout.NewMetrics())
	require.NoError(t, err)

	svc := service.NewPDFExtractService(store, "downloads", stdout.NewLogger(), stdout.NewMetrics())
	return svc, store
}

func TestExtractTextMissingObject(t *testing.T) {
	svc, _ := newExtractService(t)

	_, err := svc.ExtractText(context.Background(), "documents/01 - gone.pdf")
	require.Error(t, err)

	var extractionErr *service.ExtractionError
	assert.ErrorAs(t, err, &extractionErr)
}

func TestExtractTextCorruptPDF(t *testing.T) {
	svc, store := newExtractService(t)
	ctx := context.Background()
	key := "documents/01 - broken.pdf"

	require.NoError(t, store.Put(ctx, "downloads", key,
		strings.NewReader("%PDF-1.4 but the rest is garbage"), storage.ObjectMetadata{}))

	text, err := svc.ExtractText(ctx, key)
	require.Error(t, err)
	assert.Empty(t, text)

	var extractionErr *service.ExtractionError
	assert.ErrorAs(t, err, &extractionErr)
	assert.Contains(t, err.Error(), key)
}
