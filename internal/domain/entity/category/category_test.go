package category_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/entity/category"
)

func TestParseMappingJSONObject(t *testing.T) {
	data := []byte(`{
		"12": "Morning Prayers",
		"7":  "Evening Prayers",
		"3":  "Night Prayers",
		"15": "Special Occasions",
		"9":  "སྨོན་ལམ"
	}`)

	mapping, err := category.ParseMapping(data)
	require.NoError(t, err)

	expected := category.Mapping{
		{RawID: "12", Title: "Morning Prayers"},
		{RawID: "7", Title: "Evening Prayers"},
		{RawID: "3", Title: "Night Prayers"},
		{RawID: "15", Title: "Special Occasions"},
		{RawID: "9", Title: "སྨོན་ལམ"},
	}
	assert.Equal(t, expected, mapping, "entries should keep file order")
}

func TestParseMappingPythonDictLiteral(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected category.Mapping
	}{
		{
			name:  "unquoted integer keys with single quoted titles",
			input: `{12: 'Morning Prayers', 15: 'Evening Prayers'}`,
			expected: category.Mapping{
				{RawID: "12", Title: "Morning Prayers"},
				{RawID: "15", Title: "Evening Prayers"},
			},
		},
		{
			name:  "quoted keys and trailing comma",
			input: "{'12': 'Morning Prayers',\n \"7\": \"Evening Prayers\",\n}",
			expected: category.Mapping{
				{RawID: "12", Title: "Morning Prayers"},
				{RawID: "7", Title: "Evening Prayers"},
			},
		},
		{
			name:  "escape sequences",
			input: `{1: 'It\'s time', 2: "a\nb", 3: 'ABC'}`,
			expected: category.Mapping{
				{RawID: "1", Title: "It's time"},
				{RawID: "2", Title: "a\nb"},
				{RawID: "3", Title: "ABC"},
			},
		},
		{
			name:     "empty dict",
			input:    `{}`,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapping, err := category.ParseMapping([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, mapping)
		})
	}
}

func TestParseMappingDuplicateKeys(t *testing.T) {
	// "012" and "12" address the same category; the entry keeps its first
	// position and the last title wins.
	data := []byte(`{"12": "A", "7": "C", "012": "B"}`)

	mapping, err := category.ParseMapping(data)
	require.NoError(t, err)

	expected := category.Mapping{
		{RawID: "12", Title: "B"},
		{RawID: "7", Title: "C"},
	}
	assert.Equal(t, expected, mapping)
}

func TestParseMappingErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "not a mapping at all", input: "hello world"},
		{name: "top level array", input: `[1, 2, 3]`},
		{name: "non-string title", input: `{"12": 42}`},
		{name: "unterminated literal", input: `{12: 'Morning`},
		{name: "missing value", input: `{12: }`},
		{name: "trailing garbage after literal", input: `{12: 'A'} extra`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapping, err := category.ParseMapping([]byte(tt.input))
			require.Error(t, err)
			assert.Nil(t, mapping)

			var parseErr *category.ParseError
			assert.ErrorAs(t, err, &parseErr)
		})
	}
}

func TestCategoryID(t *testing.T) {
	tests := []struct {
		name      string
		rawID     string
		expected  int64
		expectErr bool
	}{
		{name: "plain integer", rawID: "12", expected: 12},
		{name: "surrounding whitespace", rawID: " 34 ", expected: 34},
		{name: "negative", rawID: "-5", expected: -5},
		{name: "not a number", rawID: "tibetan", expectErr: true},
		{name: "empty", rawID: "", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := category.Entry{RawID: tt.rawID, Title: "x"}
			id, err := entry.CategoryID()
			if tt.expectErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "is not an integer")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestLoadMapping(t *testing.T) {
	t.Run("reads mapping from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "category_mapping.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"12": "Morning Prayers"}`), 0o644))

		mapping, err := category.LoadMapping(path)
		require.NoError(t, err)
		assert.Equal(t, category.Mapping{{RawID: "12", Title: "Morning Prayers"}}, mapping)
	})

	t.Run("missing file", func(t *testing.T) {
		mapping, err := category.LoadMapping(filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
		assert.Nil(t, mapping)
		assert.True(t, os.IsNotExist(err))
	})
}
