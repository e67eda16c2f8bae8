package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/entity/prayer"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/observability"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/service"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/storage"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/util"
)

// AssetDownloader mirrors one remote asset to a storage key.
type AssetDownloader interface {
	Download(ctx context.Context, url, key string) (*service.DownloadResult, error)
}

// TextExtractor produces the plain text of a stored PDF.
type TextExtractor interface {
	ExtractText(ctx context.Context, key string) (string, error)
}

// PrayerProcessor mirrors one prayer into the downloads tree: a metadata
// document, numbered audio tracks under audio/, and numbered PDF documents
// under documents/ with extracted-text sidecars.
type PrayerProcessor struct {
	downloader AssetDownloader
	extractor  TextExtractor
	store      storage.ObjectStorage
	console    *Console
	bucket     string
	logger     observability.Logger
	metrics    observability.Metrics
}

func NewPrayerProcessor(
	downloader AssetDownloader,
	extractor TextExtractor,
	store storage.ObjectStorage,
	console *Console,
	bucket string,
	logger observability.Logger,
	metrics observability.Metrics,
) *PrayerProcessor {
	return &PrayerProcessor{
		downloader: downloader,
		extractor:  extractor,
		store:      store,
		console:    console,
		bucket:     bucket,
		logger:     logger.WithFields(map[string]interface{}{"component": "prayer_processor"}),
		metrics:    metrics.WithTags(map[string]string{"component": "prayer_processor"}),
	}
}

// Process mirrors one prayer under the given category directory. Asset
// failures are warned about and skipped; directory and metadata failures
// abort the prayer and surface as a category error.
func (pr *PrayerProcessor) Process(ctx context.Context, categoryDir string, record *prayer.Prayer) error {
	prayerDir := path.Join(categoryDir, fmt.Sprintf("%s - %s", record.IDLabel, util.SanitizeName(record.Name)))

	logger := pr.logger.WithFields(map[string]interface{}{"prayer": record.IDLabel})
	logger.Info("Processing prayer", "dir", prayerDir, "tracks", len(record.Tracks), "documents", len(record.Documents))

	if err := pr.store.EnsureDir(ctx, pr.bucket, prayerDir); err != nil {
		return err
	}
	if err := pr.saveMetadata(ctx, prayerDir, record); err != nil {
		return err
	}
	if err := pr.downloadTracks(ctx, prayerDir, record); err != nil {
		return err
	}
	if err := pr.downloadDocuments(ctx, prayerDir, record); err != nil {
		return err
	}

	pr.metrics.IncrementCounter("prayers.processed", nil)
	return nil
}

// saveMetadata writes the raw API record pretty-printed, overwriting any
// previous version so metadata always reflects the latest fetch.
func (pr *PrayerProcessor) saveMetadata(ctx context.Context, prayerDir string, record *prayer.Prayer) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, record.Raw, "", "  "); err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	key := path.Join(prayerDir, "metadata.json")
	metadata := storage.ObjectMetadata{ContentType: "application/json"}
	if err := pr.store.Put(ctx, pr.bucket, key, &buf, metadata); err != nil {
		return fmt.Errorf("save metadata: %w", err)
	}
	return nil
}

func (pr *PrayerProcessor) downloadTracks(ctx context.Context, prayerDir string, record *prayer.Prayer) error {
	if len(record.Tracks) == 0 {
		return nil
	}

	audioDir := path.Join(prayerDir, "audio")
	if err := pr.store.EnsureDir(ctx, pr.bucket, audioDir); err != nil {
		return err
	}

	for i, track := range record.Tracks {
		index := i + 1
		if track.URL == "" {
			continue
		}

		preferred := track.Name
		if preferred == "" {
			preferred = fmt.Sprintf("track_%d", index)
		}
		name := util.FilenameFromURL(track.URL, preferred+".bin")
		name = util.IndexedName(index, name)

		key, err := pr.uniqueKey(ctx, audioDir, name)
		if err != nil {
			return err
		}

		if _, err := pr.downloader.Download(ctx, track.URL, key); err != nil {
			pr.console.TrackFailed(track.URL, pr.displayPath(key), err)
			pr.logger.Warn("Track download failed", "url", track.URL, "key", key, "error", err)
			pr.metrics.IncrementCounter("tracks.failed", nil)
			continue
		}
		pr.metrics.IncrementCounter("tracks.downloaded", nil)
	}
	return nil
}

func (pr *PrayerProcessor) downloadDocuments(ctx context.Context, prayerDir string, record *prayer.Prayer) error {
	if len(record.Documents) == 0 {
		return nil
	}

	docsDir := path.Join(prayerDir, "documents")
	if err := pr.store.EnsureDir(ctx, pr.bucket, docsDir); err != nil {
		return err
	}

	for i, doc := range record.Documents {
		index := i + 1
		if doc.URL == "" {
			continue
		}

		preferred := doc.Name
		if preferred == "" {
			preferred = fmt.Sprintf("document_%d", index)
		}
		name := util.FilenameFromURL(doc.URL, preferred+".pdf")
		name = util.EnsureExt(name, ".pdf")
		name = util.IndexedName(index, name)

		key, err := pr.uniqueKey(ctx, docsDir, name)
		if err != nil {
			return err
		}

		if err := pr.fetchDocument(ctx, doc.URL, key); err != nil {
			pr.console.DocumentFailed(doc.URL, pr.displayPath(key), err)
			pr.logger.Warn("Document download failed", "url", doc.URL, "key", key, "error", err)
			pr.metrics.IncrementCounter("documents.failed", nil)
			continue
		}
		pr.metrics.IncrementCounter("documents.downloaded", nil)
	}
	return nil
}

// fetchDocument downloads one document and, when it extracts to non-empty
// text, writes the sidecar next to it. Extraction failure only costs the
// sidecar; a sidecar write failure is reported like a document failure.
func (pr *PrayerProcessor) fetchDocument(ctx context.Context, url, key string) error {
	if _, err := pr.downloader.Download(ctx, url, key); err != nil {
		return err
	}

	text, err := pr.extractor.ExtractText(ctx, key)
	if err != nil {
		pr.console.PDFCorrupted(pr.displayPath(key))
		pr.logger.Warn("PDF text extraction failed", "key", key, "error", err)
		pr.metrics.IncrementCounter("documents.corrupt", nil)
		return nil
	}
	if text == "" || !strings.HasSuffix(key, ".pdf") {
		return nil
	}

	txtKey := strings.TrimSuffix(key, ".pdf") + ".txt"
	metadata := storage.ObjectMetadata{ContentType: "text/plain; charset=utf-8"}
	if err := pr.store.Put(ctx, pr.bucket, txtKey, strings.NewReader(text), metadata); err != nil {
		return fmt.Errorf("write sidecar: %w", err)
	}

	pr.metrics.IncrementCounter("sidecars.written", nil)
	return nil
}

// uniqueKey resolves name collisions inside dir by appending " (N)" before
// the extension until a free key is found.
func (pr *PrayerProcessor) uniqueKey(ctx context.Context, dir, baseName string) (string, error) {
	candidate := baseName
	for counter := 1; ; counter++ {
		exists, err := pr.store.Exists(ctx, pr.bucket, path.Join(dir, candidate))
		if err != nil {
			return "", err
		}
		if !exists {
			return path.Join(dir, candidate), nil
		}
		candidate = util.SuffixedName(baseName, counter)
	}
}

// displayPath is the operator-visible location of a key, rooted at the
// bucket so console lines read like filesystem paths.
func (pr *PrayerProcessor) displayPath(key string) string {
	return path.Join(pr.bucket, key)
}
