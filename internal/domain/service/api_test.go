package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/entity/prayer"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/service"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/service/mocks"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/infrastructure/observability/adapters/stdout"
)

func newPrayerAPI(baseURL string) (*service.PrayerAPI, *mocks.MockHTTPClient) {
	client := &mocks.MockHTTPClient{}
	api := service.NewPrayerAPI(client, baseURL, stdout.NewLogger(), stdout.NewMetrics())
	return api, client
}

func TestFetchPage(t *testing.T) {
	// Trailing slash on the base URL must not double up in page URLs.
	api, client := newPrayerAPI("https://chorig.org/wp-json/app/v1/")

	wantURL := "https://chorig.org/wp-json/app/v1/categories/12/prayers/0"
	client.On("GetJSON", mock.Anything, wantURL, mock.Anything).
		Run(func(args mock.Arguments) {
			page := args.Get(2).(*prayer.Page)
			*page = prayer.Page{
				TotalCount: json.RawMessage("1"),
				Prayers:    []json.RawMessage{json.RawMessage(`{"id": 1}`)},
			}
		}).
		Return(nil)

	page, err := api.FetchPage(context.Background(), 12, 0)
	require.NoError(t, err)

	assert.Equal(t, json.RawMessage("1"), page.TotalCount)
	require.Len(t, page.Prayers, 1)
	client.AssertExpectations(t)
}

func TestFetchPageError(t *testing.T) {
	api, client := newPrayerAPI("https://chorig.org/wp-json/app/v1")

	client.On("GetJSON", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("unexpected status code: 500"))

	_, err := api.FetchPage(context.Background(), 7, 3)
	require.Error(t, err)

	var fetchErr *service.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "categories/7/prayers/3")
	assert.Contains(t, err.Error(), "unexpected status code: 500")
}

func TestPageURL(t *testing.T) {
	api, _ := newPrayerAPI("https://chorig.org/wp-json/app/v1")
	assert.Equal(t,
		"https://chorig.org/wp-json/app/v1/categories/5/prayers/2",
		api.PageURL(5, 2))
}
