package util

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// forbidden filesystem characters, replaced with '-'
const badChars = `/\:*?"<>|`

// SanitizeName normalizes an arbitrary string into a filesystem-safe
// entry name. It never returns an empty string; unusable input yields
// "Untitled".
func SanitizeName(raw string) string {
	if raw == "" {
		return "Untitled"
	}

	// Replace filesystem-unfriendly characters
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(badChars, r) {
			return '-'
		}
		return r
	}, raw)

	name = strings.TrimSpace(name)
	name = strings.Trim(name, ".")
	for strings.Contains(name, "  ") {
		name = strings.ReplaceAll(name, "  ", " ")
	}

	if name == "" {
		return "Untitled"
	}
	return name
}

// FilenameFromURL derives a sanitized filename from the basename of a
// URL's path, using fallback when the URL yields no usable name.
func FilenameFromURL(rawURL, fallback string) string {
	name := basenameFromURL(rawURL)
	if name == "" {
		name = fallback
	}
	return SanitizeName(name)
}

// basenameFromURL returns the percent-decoded last path segment, or ""
// when the path is empty or ends in a slash
func basenameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	escaped := u.EscapedPath()
	if escaped == "" || strings.HasSuffix(escaped, "/") {
		return ""
	}

	base := path.Base(escaped)
	if base == "." || base == "/" {
		return ""
	}

	if decoded, err := url.PathUnescape(base); err == nil {
		return decoded
	}
	return base
}

// IndexedName prefixes a filename with a two-digit ordinal so directory
// listings sort in original list order.
func IndexedName(index int, name string) string {
	return fmt.Sprintf("%02d - %s", index, name)
}

// SuffixedName inserts a " (n)" collision suffix before the extension.
func SuffixedName(name string, n int) string {
	root, ext := SplitExt(name)
	return fmt.Sprintf("%s (%d)%s", root, n, ext)
}

// EnsureExt appends a default extension when the name has none.
func EnsureExt(name, defaultExt string) string {
	if _, ext := SplitExt(name); ext == "" {
		return name + defaultExt
	}
	return name
}

// SplitExt splits a filename into root and extension. A name that is
// nothing but an extension (".txt") counts as having no extension.
func SplitExt(name string) (root, ext string) {
	ext = path.Ext(name)
	root = strings.TrimSuffix(name, ext)
	if root == "" {
		return name, ""
	}
	return root, ext
}
