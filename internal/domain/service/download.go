package service

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/observability"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/storage"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/util"
)

const acceptHeader = "application/pdf,application/octet-stream;q=0.9,*/*;q=0.8"

var pdfMagic = []byte("%PDF-")

// DownloadService streams remote assets into object storage and validates
// anything claiming to be a PDF.
type DownloadService struct {
	client    HTTPClient
	store     storage.ObjectStorage
	bucket    string
	chunkSize int
	logger    observability.Logger
	metrics   observability.Metrics
}

// NewDownloadService creates the asset downloader. chunkSize bounds how many
// leading bytes are retained for format validation.
func NewDownloadService(
	client HTTPClient,
	store storage.ObjectStorage,
	bucket string,
	chunkSize int,
	logger observability.Logger,
	metrics observability.Metrics,
) *DownloadService {
	if chunkSize <= 0 {
		chunkSize = 1 << 20
	}
	return &DownloadService{
		client:    client,
		store:     store,
		bucket:    bucket,
		chunkSize: chunkSize,
		logger:    logger.WithFields(map[string]interface{}{"component": "download_service"}),
		metrics:   metrics.WithTags(map[string]string{"component": "download_service"}),
	}
}

// DownloadResult describes one completed or skipped asset transfer.
type DownloadResult struct {
	Skipped     bool
	Bytes       int64
	ContentType string
	Checksum    string
}

// Download mirrors one remote asset to the given storage key.
// A destination that already holds a non-empty object is left untouched and
// no request is made. Bodies stream straight into storage; only the first
// chunk is retained in memory, for PDF validation. An object that fails
// validation is deleted and reported as a ValidationError.
func (s *DownloadService) Download(ctx context.Context, url, key string) (*DownloadResult, error) {
	if info, err := s.store.Stat(ctx, s.bucket, key); err == nil && info != nil && info.Size > 0 {
		s.logger.Info("Destination already populated, skipping download", "key", key, "size", info.Size)
		s.metrics.IncrementCounter("download.skipped", nil)
		return &DownloadResult{Skipped: true, Bytes: info.Size}, nil
	}

	start := time.Now()
	s.metrics.IncrementCounter("download.attempts", nil)

	body, respHeaders, err := s.client.Download(ctx, url, downloadHeaders(url))
	if err != nil {
		s.logger.Warn("Asset request failed", "url", url, "error", err)
		s.metrics.IncrementCounter("download.errors", map[string]string{"error": "fetch"})
		return nil, NewFetchError(url, err)
	}
	defer body.Close()

	contentType := util.ExtractContentType(respHeaders)
	head := util.NewHeadReader(body, s.chunkSize)

	metadata := storage.ObjectMetadata{ContentType: contentType}
	if err := s.store.Put(ctx, s.bucket, key, head, metadata); err != nil {
		s.metrics.IncrementCounter("download.errors", map[string]string{"error": "store"})
		return nil, err
	}

	if err := s.validatePDF(ctx, key, contentType, head); err != nil {
		s.metrics.IncrementCounter("download.errors", map[string]string{"error": "validation"})
		return nil, err
	}

	result := &DownloadResult{
		Bytes:       head.BytesRead(),
		ContentType: contentType,
		Checksum:    head.Checksum(),
	}
	s.logger.Info("Asset stored",
		"url", url,
		"key", key,
		"bytes", result.Bytes,
		"content_type", contentType,
		"checksum", result.Checksum)
	s.metrics.IncrementCounter("download.success", nil)
	s.metrics.RecordHistogram("download.bytes", float64(result.Bytes), nil)
	s.metrics.RecordHistogram("download.duration_ms", float64(time.Since(start).Milliseconds()), nil)

	return result, nil
}

// validatePDF applies the format check to anything that claims to be a PDF,
// via its key extension or its content type. A declared PDF content type
// waives the magic byte check; an empty body never passes.
func (s *DownloadService) validatePDF(ctx context.Context, key, contentType string, head *util.HeadReader) error {
	claimsPDF := strings.Contains(contentType, "pdf")
	if !claimsPDF && !strings.HasSuffix(strings.ToLower(key), ".pdf") {
		return nil
	}
	if head.BytesRead() > 0 && (bytes.HasPrefix(head.Head(), pdfMagic) || claimsPDF) {
		return nil
	}

	s.logger.Warn("Stored object failed PDF validation",
		"key", key,
		"content_type", contentType,
		"bytes", head.BytesRead())
	if err := s.store.Delete(ctx, s.bucket, key); err != nil {
		s.logger.Warn("Could not remove invalid object", "key", key, "error", err)
	}
	return NewValidationError(contentType)
}

// downloadHeaders builds the extra request headers asset hosts expect: a
// same-origin Referer and an Accept hint favoring PDF content.
func downloadHeaders(rawURL string) map[string]string {
	headers := map[string]string{
		"Accept": acceptHeader,
	}
	if u, err := url.Parse(rawURL); err == nil && u.Scheme != "" && u.Host != "" {
		headers["Referer"] = fmt.Sprintf("%s://%s/", u.Scheme, u.Host)
	}
	return headers
}
