package util

import "strings"

// ExtractContentType returns the lowercased Content-Type header value,
// or "" when the header is absent.
func ExtractContentType(headers map[string]string) string {
	if ct := headers["Content-Type"]; ct != "" {
		return strings.ToLower(ct)
	}
	if ct := headers["content-type"]; ct != "" {
		return strings.ToLower(ct)
	}
	return ""
}
