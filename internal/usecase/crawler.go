package usecase

import (
	"context"
	"fmt"

	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/entity/category"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/entity/prayer"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/observability"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/storage"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/util"
)

// Crawler drives the whole run: loads the category mapping, walks each
// category in file order, and accumulates the grand total.
type Crawler struct {
	paginator   *Paginator
	processor   *PrayerProcessor
	store       storage.ObjectStorage
	console     *Console
	bucket      string
	mappingPath string
	logger      observability.Logger
	metrics     observability.Metrics
}

func NewCrawler(
	paginator *Paginator,
	processor *PrayerProcessor,
	store storage.ObjectStorage,
	console *Console,
	bucket string,
	mappingPath string,
	logger observability.Logger,
	metrics observability.Metrics,
) *Crawler {
	return &Crawler{
		paginator:   paginator,
		processor:   processor,
		store:       store,
		console:     console,
		bucket:      bucket,
		mappingPath: mappingPath,
		logger:      logger.WithFields(map[string]interface{}{"component": "crawler"}),
		metrics:     metrics.WithTags(map[string]string{"component": "crawler"}),
	}
}

// Run executes the crawl and returns the total number of prayers processed.
// A non-nil error means the run could not start at all; per-category
// failures are reported on the console and absorbed, so a completed run
// with failed categories still returns nil.
func (c *Crawler) Run(ctx context.Context) (int, error) {
	if err := c.store.CreateBucket(ctx, c.bucket); err != nil {
		c.logger.Error("Could not create downloads root", "bucket", c.bucket, "error", err)
		return 0, fmt.Errorf("create downloads root %s: %w", c.bucket, err)
	}

	mapping, err := category.LoadMapping(c.mappingPath)
	if err != nil {
		c.console.MappingLoadFailed(c.mappingPath, err)
		c.logger.Error("Mapping load failed", "path", c.mappingPath, "error", err)
		c.metrics.IncrementCounter("crawl.fatal", nil)
		return 0, fmt.Errorf("load category mapping from %s: %w", c.mappingPath, err)
	}
	c.logger.Info("Mapping loaded", "path", c.mappingPath, "categories", len(mapping))

	total := 0
	for _, entry := range mapping {
		c.console.Category(entry.RawID, entry.Title)

		count, err := c.crawlCategory(ctx, entry)
		if err != nil {
			c.console.CategoryFailed(entry.RawID, err)
			c.logger.Error("Category failed", "category", entry.RawID, "error", err)
			c.metrics.IncrementCounter("categories.failed", nil)
			continue
		}

		c.console.CategoryDone(count)
		c.metrics.IncrementCounter("categories.completed", nil)
		total += count
	}

	c.console.AllDone(total)
	c.logger.Info("Crawl complete", "total_prayers", total)
	c.metrics.RecordGauge("crawl.total_prayers", float64(total), nil)
	return total, nil
}

// crawlCategory mirrors one category. The returned count is only meaningful
// when err is nil; a failed category contributes nothing to the total even
// if some of its prayers were already processed.
func (c *Crawler) crawlCategory(ctx context.Context, entry category.Entry) (int, error) {
	id, err := entry.CategoryID()
	if err != nil {
		return 0, err
	}

	categoryDir := fmt.Sprintf("%d - %s", id, util.SanitizeName(entry.Title))
	if err := c.store.EnsureDir(ctx, c.bucket, categoryDir); err != nil {
		return 0, err
	}

	logger := c.logger.WithFields(map[string]interface{}{"category_id": id})
	logger.Info("Crawling category", "title", entry.Title, "dir", categoryDir)

	count, err := c.paginator.Walk(ctx, id, func(record *prayer.Prayer) error {
		return c.processor.Process(ctx, categoryDir, record)
	})
	if err != nil {
		return 0, err
	}

	logger.Info("Category complete", "prayers", count)
	return count, nil
}
