package category

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Entry is a single category to crawl: the identifier as it addresses the
// remote API plus the human-readable title used for the category directory.
type Entry struct {
	RawID string
	Title string
}

// CategoryID returns the numeric identifier the remote API expects.
// Entries whose identifier is not an integer fail here, at use, so one bad
// key never prevents the remaining categories from being crawled.
func (e Entry) CategoryID() (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(e.RawID), 10, 64)
	if err != nil {
		return 0, ErrBadCategoryID(e.RawID)
	}
	return id, nil
}

// Mapping lists categories in the order they appear in the mapping file.
// Crawl order follows file order.
type Mapping []Entry

// LoadMapping reads and parses the operator-provided category mapping file.
func LoadMapping(path string) (Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseMapping(data)
}

// ParseMapping understands two formats: a JSON object, and the Python dict
// literal some operators hand-edit the file into (single-quoted strings,
// unquoted integer keys, trailing commas). JSON is tried first; the literal
// parser only runs when the content is not syntactically valid JSON.
func ParseMapping(data []byte) (Mapping, error) {
	mapping, jsonErr := parseJSONObject(data)
	if jsonErr == nil {
		return mapping, nil
	}
	if !isSyntaxError(jsonErr) {
		return nil, NewParseError(jsonErr)
	}
	mapping, litErr := parseDictLiteral(data)
	if litErr != nil {
		return nil, NewParseError(litErr)
	}
	return mapping, nil
}

// isSyntaxError reports whether the JSON parse failed on syntax rather than
// shape. Only syntax failures are eligible for the dict literal fallback;
// well-formed JSON of the wrong shape is rejected outright.
func isSyntaxError(err error) bool {
	var syntaxErr *json.SyntaxError
	return errors.As(err, &syntaxErr) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

// parseJSONObject decodes the mapping from the token stream instead of into a
// map, so entries keep the file's key order.
func parseJSONObject(data []byte) (Mapping, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("category mapping must be a JSON object, got %v", tok)
	}

	builder := newMappingBuilder()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key token %v", keyTok)
		}

		var title string
		if err := dec.Decode(&title); err != nil {
			return nil, fmt.Errorf("category %q: %w", key, err)
		}
		builder.add(key, title)
	}

	// Closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	switch tok, err := dec.Token(); {
	case errors.Is(err, io.EOF):
		return builder.entries, nil
	case err != nil:
		return nil, err
	default:
		return nil, fmt.Errorf("unexpected data after mapping object: %v", tok)
	}
}

// mappingBuilder mirrors insertion into a dictionary keyed by the coerced
// identifier: a key seen twice keeps its first position and takes the last
// title.
type mappingBuilder struct {
	entries Mapping
	index   map[string]int
}

func newMappingBuilder() *mappingBuilder {
	return &mappingBuilder{index: make(map[string]int)}
}

func (b *mappingBuilder) add(rawID, title string) {
	id := canonicalID(rawID)
	if i, ok := b.index[id]; ok {
		b.entries[i].Title = title
		return
	}
	b.index[id] = len(b.entries)
	b.entries = append(b.entries, Entry{RawID: id, Title: title})
}

// canonicalID collapses integer identifiers to their decimal form, so that
// "012" and "12" address the same category. Non-integer identifiers pass
// through untouched and fail later in CategoryID.
func canonicalID(raw string) string {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return raw
	}
	return strconv.FormatInt(id, 10)
}
