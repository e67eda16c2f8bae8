package service

import "fmt"

// FetchError wraps transport failures and unexpected statuses from the
// remote API or asset hosts.
type FetchError struct {
	URL string
	Err error
}

func NewFetchError(url string, err error) *FetchError {
	return &FetchError{URL: url, Err: err}
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ValidationError reports downloaded content that failed the PDF format
// check. Its message is exactly what operators see on the console warn line.
type ValidationError struct {
	ContentType string
}

func NewValidationError(contentType string) *ValidationError {
	return &ValidationError{ContentType: contentType}
}

func (e *ValidationError) Error() string {
	contentType := e.ContentType
	if contentType == "" {
		contentType = "unknown"
	}
	return fmt.Sprintf("Downloaded content is not a PDF (Content-Type: %s)", contentType)
}

// ExtractionError reports a stored PDF whose text could not be extracted.
// Callers downgrade it to "no sidecar produced" rather than failing the
// prayer.
type ExtractionError struct {
	Key string
	Err error
}

func NewExtractionError(key string, err error) *ExtractionError {
	return &ExtractionError{Key: key, Err: err}
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract text from %s: %v", e.Key, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
