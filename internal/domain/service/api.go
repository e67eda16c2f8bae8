package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/entity/prayer"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/observability"
)

// PrayerAPI fetches pagination pages from the remote content API.
type PrayerAPI struct {
	client  HTTPClient
	baseURL string
	logger  observability.Logger
	metrics observability.Metrics
}

// NewPrayerAPI creates the page fetcher for the given API base URL, for
// example https://chorig.org/wp-json/app/v1.
func NewPrayerAPI(client HTTPClient, baseURL string, logger observability.Logger, metrics observability.Metrics) *PrayerAPI {
	return &PrayerAPI{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger.WithFields(map[string]interface{}{"component": "prayer_api"}),
		metrics: metrics.WithTags(map[string]string{"component": "prayer_api"}),
	}
}

// PageURL builds the page endpoint for a category. Page numbering starts
// at 0 and the number is part of the path, not a query parameter.
func (a *PrayerAPI) PageURL(categoryID int64, page int) string {
	return fmt.Sprintf("%s/categories/%d/prayers/%d", a.baseURL, categoryID, page)
}

// FetchPage requests one page of a category listing and decodes its
// envelope. Failures come back as FetchError.
func (a *PrayerAPI) FetchPage(ctx context.Context, categoryID int64, page int) (*prayer.Page, error) {
	url := a.PageURL(categoryID, page)
	start := time.Now()
	a.metrics.IncrementCounter("api.fetch.attempts", nil)

	var envelope prayer.Page
	if err := a.client.GetJSON(ctx, url, &envelope); err != nil {
		a.logger.Warn("Page fetch failed", "url", url, "error", err)
		a.metrics.IncrementCounter("api.fetch.errors", nil)
		return nil, NewFetchError(url, err)
	}

	a.logger.Info("Fetched page",
		"url", url,
		"prayers", len(envelope.Prayers),
		"duration_ms", time.Since(start).Milliseconds())
	a.metrics.IncrementCounter("api.fetch.success", nil)
	a.metrics.RecordHistogram("api.fetch.duration_ms", float64(time.Since(start).Milliseconds()), nil)

	return &envelope, nil
}
