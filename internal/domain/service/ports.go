package service

import (
	"context"
	"io"
)

// HTTPClient is the transport capability the fetch services depend on:
// one call for small JSON documents, one for streamed asset bodies.
type HTTPClient interface {
	// GetJSON fetches a URL and decodes the JSON response into target.
	GetJSON(ctx context.Context, url string, target interface{}) error

	// Download performs a streaming GET with extra request headers and
	// returns the response body plus a flattened copy of the response
	// headers. The caller owns the body.
	Download(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, map[string]string, error)
}
