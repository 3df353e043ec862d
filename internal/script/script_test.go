package script

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/bitfuse/pkg/field"
	"github.com/dshills/bitfuse/pkg/fuse"
)

const byIndexDesc = `
function compare(a, b)
  return b.index - a.index
end
`

func ranked(item field.Value, index int, score float64) fuse.Ranked {
	return fuse.Ranked{Item: item, Index: index, Score: score}
}

func TestCompareNumberResult(t *testing.T) {
	c, err := LoadString("desc", byIndexDesc)
	require.NoError(t, err)
	defer c.Close()

	tests := []struct {
		name string
		a, b int
		want int
	}{
		{"higher index first", 3, 1, -1},
		{"lower index last", 1, 3, 1},
		{"equal", 2, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Compare(ranked(field.String("x"), tt.a, 0.1), ranked(field.String("y"), tt.b, 0.1))
			assert.Equal(t, tt.want, got)
		})
	}
	assert.NoError(t, c.Err())
}

func TestCompareBoolResult(t *testing.T) {
	c, err := LoadString("alpha", `
function compare(a, b)
  return a.item < b.item
end
`)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, -1, c.Compare(ranked(field.String("apple"), 0, 0), ranked(field.String("banana"), 1, 0)))
	assert.Equal(t, 1, c.Compare(ranked(field.String("banana"), 0, 0), ranked(field.String("apple"), 1, 0)))
	assert.NoError(t, c.Err())
}

func TestCompareRecordItems(t *testing.T) {
	c, err := LoadString("tags", `
function compare(a, b)
  local na, nb = #a.item.tags, #b.item.tags
  if na ~= nb then
    return nb - na
  end
  return a.item.year - b.item.year
end
`)
	require.NoError(t, err)
	defer c.Close()

	few := field.Record{
		"tags": field.List{field.String("a")},
		"year": field.Number(1990),
	}
	many := field.Record{
		"tags": field.List{field.String("a"), field.String("b")},
		"year": field.Number(2000),
	}
	older := field.Record{
		"tags": field.List{field.String("c")},
		"year": field.Number(1980),
	}

	assert.Equal(t, -1, c.Compare(ranked(many, 0, 0), ranked(few, 1, 0)))
	assert.Equal(t, 1, c.Compare(ranked(few, 0, 0), ranked(older, 1, 0)))
	assert.NoError(t, c.Err())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		target error
	}{
		{"missing compare", `x = 1`, ErrNoCompare},
		{"compare not a function", `compare = 42`, ErrNoCompare},
		{"syntax error", `function compare(a, b`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := LoadString(tt.name, tt.source)
			require.Error(t, err)
			assert.Nil(t, c)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestFileLibrariesDisabled(t *testing.T) {
	_, err := LoadString("io", `
local f = io.open("/etc/passwd")
function compare(a, b) return 0 end
`)
	assert.Error(t, err)

	_, err = LoadString("dofile", `
dofile("other.lua")
function compare(a, b) return 0 end
`)
	assert.Error(t, err)
}

func TestRuntimeErrorIsRecorded(t *testing.T) {
	c, err := LoadString("boom", `
function compare(a, b)
  error("boom")
end
`)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, 0, c.Compare(ranked(field.String("a"), 0, 0), ranked(field.String("b"), 1, 0)))
	require.Error(t, c.Err())
	assert.Contains(t, c.Err().Error(), "boom")

	// Recorded errors stick until Reset.
	assert.Equal(t, 0, c.Compare(ranked(field.String("a"), 0, 0), ranked(field.String("b"), 1, 0)))
	c.Reset()
	assert.NoError(t, c.Err())
}

func TestBadResult(t *testing.T) {
	c, err := LoadString("str", `
function compare(a, b)
  return "less"
end
`)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, 0, c.Compare(ranked(field.String("a"), 0, 0), ranked(field.String("b"), 1, 0)))
	assert.ErrorIs(t, c.Err(), ErrBadResult)
}

func TestCompareAfterClose(t *testing.T) {
	c, err := LoadString("desc", byIndexDesc)
	require.NoError(t, err)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	assert.Equal(t, 0, c.Compare(ranked(field.String("a"), 0, 0), ranked(field.String("b"), 1, 0)))
	assert.ErrorIs(t, c.Err(), ErrClosed)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sort.lua")
	require.NoError(t, os.WriteFile(path, []byte(byIndexDesc), 0o600))

	c, err := Load(path, WithContext(context.Background()))
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, -1, c.Compare(ranked(field.String("a"), 5, 0), ranked(field.String("b"), 1, 0)))

	_, err = Load(filepath.Join(t.TempDir(), "missing.lua"))
	assert.Error(t, err)
}

func TestEngineSortFunc(t *testing.T) {
	collection := field.Strings("Apple pie", "Apple", "Apple tart")

	tests := []struct {
		name   string
		source string
		want   []field.Value
	}{
		{
			name:   "by index descending",
			source: byIndexDesc,
			want:   field.Strings("Apple tart", "Apple", "Apple pie"),
		},
		{
			name: "alphabetical",
			source: `
function compare(a, b)
  return a.item < b.item
end
`,
			want: field.Strings("Apple", "Apple pie", "Apple tart"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := LoadString(tt.name, tt.source)
			require.NoError(t, err)
			defer c.Close()

			opts := fuse.DefaultOptions()
			opts.SortFunc = c.SortFunc()
			opts.CacheSize = 0
			e, err := fuse.New(collection, opts)
			require.NoError(t, err)

			results := e.Search("Apple")
			require.NoError(t, c.Err())

			got := make([]field.Value, len(results))
			for i, r := range results {
				got[i] = r.Item
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
