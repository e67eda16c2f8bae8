package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/observability"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/storage"
)

// PDFExtractService pulls plain text out of stored PDF documents.
type PDFExtractService struct {
	store   storage.ObjectStorage
	bucket  string
	logger  observability.Logger
	metrics observability.Metrics
}

func NewPDFExtractService(store storage.ObjectStorage, bucket string, logger observability.Logger, metrics observability.Metrics) *PDFExtractService {
	return &PDFExtractService{
		store:   store,
		bucket:  bucket,
		logger:  logger.WithFields(map[string]interface{}{"component": "pdf_extract"}),
		metrics: metrics.WithTags(map[string]string{"component": "pdf_extract"}),
	}
}

// ExtractText reads a stored PDF and returns the concatenation of each
// page's plain text, with no separator between pages. Pages that yield
// nothing contribute empty strings. Any failure comes back as an
// ExtractionError; callers decide whether that is fatal.
func (s *PDFExtractService) ExtractText(ctx context.Context, key string) (string, error) {
	start := time.Now()
	s.metrics.IncrementCounter("extract.attempts", nil)

	body, err := s.store.Get(ctx, s.bucket, key)
	if err != nil {
		s.metrics.IncrementCounter("extract.errors", map[string]string{"error": "read"})
		return "", NewExtractionError(key, err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		s.metrics.IncrementCounter("extract.errors", map[string]string{"error": "read"})
		return "", NewExtractionError(key, err)
	}

	text, err := extractAllPages(data)
	if err != nil {
		s.logger.Warn("PDF parse failed", "key", key, "error", err)
		s.metrics.IncrementCounter("extract.errors", map[string]string{"error": "parse"})
		return "", NewExtractionError(key, err)
	}

	s.logger.Info("Extracted text",
		"key", key,
		"chars", len(text),
		"duration_ms", time.Since(start).Milliseconds())
	s.metrics.IncrementCounter("extract.success", nil)

	return text, nil
}

// extractAllPages concatenates per-page text. The parser panics on some
// malformed files, so the whole walk runs behind a recover.
func extractAllPages(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// A page that cannot be decoded contributes nothing.
			continue
		}
		sb.WriteString(content)
	}
	return sb.String(), nil
}
