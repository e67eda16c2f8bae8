package prayer

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Asset is one remotely hosted file referenced by a prayer, either an audio
// track or a PDF document.
type Asset struct {
	URL  string
	Name string
}

// Prayer is one crawlable record. Raw keeps the record exactly as the API
// delivered it, so metadata survives fields this crawler never inspects.
type Prayer struct {
	// ID is set only when the record id is an integer. Integer ids drive
	// pagination dedup; records without one are processed every time they
	// appear.
	ID *int64

	// IDLabel is the id rendered for the directory name, "unknown" when the
	// record carries none.
	IDLabel string

	Name      string
	Tracks    []Asset
	Documents []Asset
	Raw       json.RawMessage
}

type envelope struct {
	ID        json.RawMessage `json:"id"`
	Name      json.RawMessage `json:"name"`
	Tracks    json.RawMessage `json:"tracks"`
	Documents json.RawMessage `json:"documents"`
}

type assetFields struct {
	URL  json.RawMessage `json:"url"`
	Name json.RawMessage `json:"name"`
}

// FromRaw extracts the fields the crawler needs from one record of a page's
// prayers array. Records that are not JSON objects are rejected; within an
// object, fields of an unexpected shape degrade to their zero value instead
// of failing the whole record.
func FromRaw(raw json.RawMessage) (*Prayer, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, ErrNotObject(err)
	}

	p := &Prayer{
		IDLabel:   "unknown",
		Name:      stringValue(env.Name),
		Tracks:    parseAssets(env.Tracks),
		Documents: parseAssets(env.Documents),
		Raw:       raw,
	}

	if len(env.ID) > 0 && !isNull(env.ID) {
		p.IDLabel = stringValue(env.ID)
		if id, err := strconv.ParseInt(string(env.ID), 10, 64); err == nil {
			p.ID = &id
		}
	}
	return p, nil
}

// parseAssets decodes a tracks or documents array. Entries that are not
// objects stay in the list as empty assets, so the two-digit ordinals
// assigned downstream still reflect the original positions.
func parseAssets(raw json.RawMessage) []Asset {
	if len(raw) == 0 || isNull(raw) {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	assets := make([]Asset, len(items))
	for i, item := range items {
		var fields assetFields
		if err := json.Unmarshal(item, &fields); err != nil {
			continue
		}
		assets[i] = Asset{
			URL:  stringValue(fields.URL),
			Name: stringValue(fields.Name),
		}
	}
	return assets
}

// stringValue renders a JSON value as text for names and labels: strings
// drop their quotes, absent and null values become empty, anything else
// keeps its source form.
func stringValue(raw json.RawMessage) string {
	if len(raw) == 0 || isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
