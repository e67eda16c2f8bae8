package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(ClientConfig{})

	assert.Equal(t, 30*time.Second, client.config.FetchTimeout)
	assert.Equal(t, 60*time.Second, client.config.DownloadTimeout)
	assert.Contains(t, client.config.UserAgent, "Chrome/120.0.0.0")
}

func TestGetJSON(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"totalCount": 2, "prayers": [{"id": 1}]}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{UserAgent: "test-agent/1.0"})

	var payload struct {
		TotalCount int `json:"totalCount"`
	}
	err := client.GetJSON(context.Background(), server.URL, &payload)
	require.NoError(t, err)

	assert.Equal(t, 2, payload.TotalCount)
	assert.Equal(t, "test-agent/1.0", gotUserAgent)
}

func TestGetJSONStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	}))
	defer server.Close()

	err := NewClient(ClientConfig{}).GetJSON(context.Background(), server.URL, &struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 404")
}

func TestGetJSONMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	err := NewClient(ClientConfig{}).GetJSON(context.Background(), server.URL, &struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "https://origin.example/", r.Header.Get("Referer"))
		assert.NotEmpty(t, r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 body"))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{})
	body, headers, err := client.Download(context.Background(), server.URL, map[string]string{
		"Referer": "https://origin.example/",
		"Accept":  "application/pdf,application/octet-stream;q=0.9,*/*;q=0.8",
	})
	require.NoError(t, err)
	defer body.Close()

	content, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 body", string(content))
	assert.Equal(t, "application/pdf", headers["Content-Type"])
}

func TestDownloadRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{MaxRetries: 1})
	body, _, err := client.Download(context.Background(), server.URL, nil)
	require.NoError(t, err)
	defer body.Close()

	content, _ := io.ReadAll(body)
	assert.Equal(t, "ok", string(content))
	assert.Equal(t, int32(2), calls.Load())
}

func TestDownloadDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{MaxRetries: 3})
	_, _, err := client.Download(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 404")
	assert.Equal(t, int32(1), calls.Load())
}

func TestDownloadGivesUpAfterRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{MaxRetries: 1})
	_, _, err := client.Download(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 500")
}

func TestDownloadHonorsContextDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	client := NewClient(ClientConfig{MaxRetries: 5})
	start := time.Now()
	_, _, err := client.Download(ctx, server.URL, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second, "should abort during the first backoff")
}
