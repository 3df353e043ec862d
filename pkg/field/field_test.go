package field

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func book() Value {
	return Record{
		"title": String("Old Man's War"),
		"isbn":  Number(765348276),
		"author": Record{
			"firstName": String("John"),
			"lastName":  String("Scalzi"),
			"tags": List{
				Record{"value": String("American")},
				Record{"value": String("Veteran")},
			},
		},
		"tags":  List{String("fiction"), String("war")},
		"price": Number(7.99),
	}
}

func TestPathResolver(t *testing.T) {
	tests := []struct {
		path string
		want []Leaf
	}{
		{"title", []Leaf{{"Old Man's War", -1}}},
		{"author.firstName", []Leaf{{"John", -1}}},
		{"isbn", []Leaf{{"765348276", -1}}},
		{"price", []Leaf{{"7.99", -1}}},
		{"tags", []Leaf{{"fiction", 0}, {"war", 1}}},
		{"author.tags.value", []Leaf{{"American", 0}, {"Veteran", 1}}},
		{"author", nil},
		{"missing", nil},
		{"title.nested", nil},
		{"author.missing.deeper", nil},
	}

	var r PathResolver
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(book(), tt.path))
		})
	}
}

func TestPathResolverNonRecord(t *testing.T) {
	var r PathResolver
	assert.Empty(t, r.Resolve(String("plain"), "title"))
	assert.Equal(t, []Leaf{{"plain", -1}}, r.Resolve(String("plain"), ""))
	assert.Empty(t, r.Resolve(nil, "title"))
}

func TestResolverFunc(t *testing.T) {
	lastName := ResolverFunc(func(item Value, _ string) []Leaf {
		return PathResolver{}.Resolve(item, "author.lastName")
	})
	assert.Equal(t, []Leaf{{"Scalzi", -1}}, lastName.Resolve(book(), "title"))
}

func TestNumberString(t *testing.T) {
	tests := []struct {
		n    Number
		want string
	}{
		{1066, "1066"},
		{-3, "-3"},
		{0.5, "0.5"},
		{2222, "2222"},
		{1e21, "1e+21"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.n.String())
	}
}

func TestFromAny(t *testing.T) {
	decoded := map[string]any{
		"title":   "HTML5",
		"year":    int64(2010),
		"rating":  4.5,
		"draft":   false,
		"notes":   nil,
		"tags":    []any{"web development", "nonfiction", true},
		"author":  map[string]any{"name": "Remy Sharp", "age": 42},
		"updated": time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC),
	}

	v, err := FromAny(decoded)
	require.NoError(t, err)

	want := Record{
		"title":   String("HTML5"),
		"year":    Number(2010),
		"rating":  Number(4.5),
		"tags":    List{String("web development"), String("nonfiction"), nil},
		"author":  Record{"name": String("Remy Sharp"), "age": Number(42)},
		"updated": String("2021-03-04T00:00:00Z"),
	}
	assert.Equal(t, want, v)

	_, err = FromAny(struct{}{})
	assert.Error(t, err)
}

func TestToAnyRoundTrip(t *testing.T) {
	v := book()
	back, err := FromAny(ToAny(v))
	require.NoError(t, err)
	assert.Equal(t, v, back)
}

func TestStrings(t *testing.T) {
	assert.Equal(t, []Value{String("Apple"), String("Orange")}, Strings("Apple", "Orange"))
}
