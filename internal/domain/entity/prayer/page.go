package prayer

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Page is the envelope of one pagination response. TotalCount stays raw
// because the field is optional and its shape is not guaranteed; it is
// interpreted lazily via ParseTotalCount.
type Page struct {
	TotalCount json.RawMessage   `json:"totalCount"`
	Prayers    []json.RawMessage `json:"prayers"`
}

// ParseTotalCount interprets a page's totalCount field. The second return is
// false when the field was absent or null. Counts may arrive as JSON numbers
// or as numeric strings; anything else is an error, which aborts the
// category rather than risking pagination running forever.
func ParseTotalCount(raw json.RawMessage) (int64, bool, error) {
	if len(raw) == 0 || isNull(raw) {
		return 0, false, nil
	}
	if n, err := strconv.ParseInt(string(raw), 10, 64); err == nil {
		return n, true, nil
	}
	if f, err := strconv.ParseFloat(string(raw), 64); err == nil {
		return int64(f), true, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return n, true, nil
		}
	}
	return 0, false, ErrBadTotalCount(raw)
}
