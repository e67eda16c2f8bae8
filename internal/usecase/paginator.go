package usecase

import (
	"context"
	"encoding/json"

	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/entity/prayer"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/observability"
)

// PageFetcher supplies pagination pages for a category.
type PageFetcher interface {
	FetchPage(ctx context.Context, categoryID int64, page int) (*prayer.Page, error)
}

// Paginator walks a category's pages in order, deduplicating records by
// integer id and honoring the server-reported total.
type Paginator struct {
	api     PageFetcher
	logger  observability.Logger
	metrics observability.Metrics
}

func NewPaginator(api PageFetcher, logger observability.Logger, metrics observability.Metrics) *Paginator {
	return &Paginator{
		api:     api,
		logger:  logger.WithFields(map[string]interface{}{"component": "paginator"}),
		metrics: metrics.WithTags(map[string]string{"component": "paginator"}),
	}
}

// Walk visits every distinct prayer of a category, starting at page 0, and
// returns how many records were visited.
//
// A fetch failure ends the walk as if the category had run out of pages:
// transient API hiccups cost at most the remainder of one category, never
// the whole run. The reported totalCount is sticky, with the latest page
// bearing the field winning; a totalCount that cannot be read as a number
// aborts the category. Records without an integer id are visited every time
// they appear and never count toward the total.
func (p *Paginator) Walk(ctx context.Context, categoryID int64, visit func(*prayer.Prayer) error) (int, error) {
	seen := make(map[int64]struct{})
	var totalCount json.RawMessage
	visited := 0

	for page := 0; ; page++ {
		envelope, err := p.api.FetchPage(ctx, categoryID, page)
		if err != nil {
			p.logger.Warn("Pagination stopped by fetch failure",
				"category_id", categoryID,
				"page", page,
				"error", err)
			p.metrics.IncrementCounter("paginate.fetch_stops", nil)
			break
		}

		if envelope.TotalCount != nil {
			totalCount = envelope.TotalCount
		}
		if len(envelope.Prayers) == 0 {
			break
		}

		for _, raw := range envelope.Prayers {
			record, err := prayer.FromRaw(raw)
			if err != nil {
				p.logger.Warn("Skipping malformed prayer record",
					"category_id", categoryID,
					"page", page,
					"error", err)
				p.metrics.IncrementCounter("paginate.malformed_records", nil)
				continue
			}

			if record.ID != nil {
				if _, dup := seen[*record.ID]; dup {
					p.metrics.IncrementCounter("paginate.duplicates", nil)
					continue
				}
				seen[*record.ID] = struct{}{}
			}

			if err := visit(record); err != nil {
				return visited, err
			}
			visited++
		}

		total, known, err := prayer.ParseTotalCount(totalCount)
		if err != nil {
			return visited, err
		}
		if known && int64(len(seen)) >= total {
			break
		}
	}

	p.logger.Info("Category walk finished",
		"category_id", categoryID,
		"visited", visited,
		"distinct_ids", len(seen))
	return visited, nil
}
