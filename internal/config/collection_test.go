package config

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/bitfuse/pkg/field"
)

const booksJSON = `{
  "library": "central",
  "books": [
    {"title": "Old Man's War", "author": {"firstName": "John", "lastName": "Scalzi"}, "isbn": 765348276},
    {"title": "The Lock Artist", "author": {"firstName": "Steve", "lastName": "Hamilton"}, "available": true},
    null
  ]
}`

func TestLoadCollection(t *testing.T) {
	fsys := fstest.MapFS{
		"fruits.json": {Data: []byte(`["Apple", "Orange", "Banana"]`)},
		"books.json":  {Data: []byte(booksJSON)},
		"fruits.yaml": {Data: []byte("- Apple\n- Orange\n- Banana\n")},
		"books.yml":   {Data: []byte("books:\n  - title: HTML5\n    tags: [web, nonfiction]\n")},
		"fruits.txt":  {Data: []byte("Apple\r\nOrange\n\n  \nBanana")},
		"mixed.json":  {Data: []byte(`[null, "Apple", true, "Orange", false, "Banana"]`)},
	}

	tests := []struct {
		name string
		path string
		sel  string
		want []field.Value
	}{
		{
			name: "json array",
			path: "fruits.json",
			want: field.Strings("Apple", "Orange", "Banana"),
		},
		{
			name: "json select",
			path: "books.json",
			sel:  "books",
			want: []field.Value{
				field.Record{
					"title":  field.String("Old Man's War"),
					"author": field.Record{"firstName": field.String("John"), "lastName": field.String("Scalzi")},
					"isbn":   field.Number(765348276),
				},
				field.Record{
					"title":  field.String("The Lock Artist"),
					"author": field.Record{"firstName": field.String("Steve"), "lastName": field.String("Hamilton")},
				},
			},
		},
		{
			name: "json select projection",
			path: "books.json",
			sel:  "books.#.author.lastName",
			want: field.Strings("Scalzi", "Hamilton"),
		},
		{
			name: "yaml sequence",
			path: "fruits.yaml",
			want: field.Strings("Apple", "Orange", "Banana"),
		},
		{
			name: "yaml select",
			path: "books.yml",
			sel:  "books",
			want: []field.Value{
				field.Record{
					"title": field.String("HTML5"),
					"tags":  field.List{field.String("web"), field.String("nonfiction")},
				},
			},
		},
		{
			name: "text lines",
			path: "fruits.txt",
			want: field.Strings("Apple", "Orange", "Banana"),
		},
		{
			name: "nulls and booleans skipped",
			path: "mixed.json",
			want: field.Strings("Apple", "Orange", "Banana"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadCollection(fsys, tt.path, tt.sel)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadCollectionYAMLDates(t *testing.T) {
	fsys := fstest.MapFS{
		"events.yaml": {Data: []byte("- title: Launch\n  date: 2021-03-04\n- title: Review\n  date: 2021-03-05T10:00:00Z\n")},
		"log.yaml":    {Data: []byte("events:\n  - title: Launch\n    date: 2021-03-04\n")},
	}

	tests := []struct {
		name string
		path string
		sel  string
		want []string
	}{
		{name: "sequence", path: "events.yaml", want: []string{"2021-03-04", "2021-03-05"}},
		{name: "select", path: "log.yaml", sel: "events", want: []string{"2021-03-04"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadCollection(fsys, tt.path, tt.sel)
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))

			for i, item := range got {
				rec, ok := item.(field.Record)
				require.True(t, ok)
				date, ok := rec["date"].(field.String)
				require.True(t, ok, "date decoded as %T", rec["date"])
				assert.Contains(t, string(date), tt.want[i])
			}
		})
	}
}

func TestLoadCollectionErrors(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.json":    {Data: []byte(`["Apple",`)},
		"object.json": {Data: []byte(`{"a": 1}`)},
		"books.json":  {Data: []byte(booksJSON)},
		"map.yaml":    {Data: []byte("a: 1\n")},
		"bad.yaml":    {Data: []byte("- [a\n")},
		"lines.txt":   {Data: []byte("a\n")},
		"data.csv":    {Data: []byte("a,b\n")},
	}

	tests := []struct {
		name   string
		path   string
		sel    string
		target error
		parse  bool
	}{
		{name: "missing", path: "none.json", target: ErrFileNotFound},
		{name: "unsupported", path: "data.csv", target: ErrUnsupportedFormat},
		{name: "invalid json", path: "bad.json", parse: true},
		{name: "json object", path: "object.json", target: ErrTypeMismatch},
		{name: "select missing", path: "books.json", sel: "shelves", target: ErrTypeMismatch},
		{name: "select scalar", path: "books.json", sel: "library", target: ErrTypeMismatch},
		{name: "yaml mapping", path: "map.yaml", target: ErrTypeMismatch},
		{name: "invalid yaml", path: "bad.yaml", parse: true},
		{name: "select on lines", path: "lines.txt", sel: "x", target: ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCollection(fsys, tt.path, tt.sel)
			require.Error(t, err)
			if tt.parse {
				var perr *ParseError
				assert.ErrorAs(t, err, &perr)
				return
			}
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestFormatOf(t *testing.T) {
	tests := map[string]Format{
		"a.json":    FormatJSON,
		"a.JSON":    FormatJSON,
		"a.yaml":    FormatYAML,
		"a.yml":     FormatYAML,
		"a.txt":     FormatLines,
		"names":     FormatLines,
		"dir/a.txt": FormatLines,
	}

	for path, want := range tests {
		got, err := FormatOf(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
	assert.Equal(t, "yaml", FormatYAML.String())
}
