package config

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/bitfuse/pkg/fuse"
)

// Settings is the decoded bitfuse configuration.
type Settings struct {
	// Options configures the search engine.
	Options fuse.Options

	// Collection is the path of the searched collection file.
	Collection string

	// Select is a gjson path to the array inside the collection document.
	Select string

	// SortScript is the path of a Lua sort comparator.
	SortScript string

	// Limit caps the number of printed results. Zero prints all.
	Limit int

	// Parallel is the number of search workers. Zero searches sequentially.
	Parallel int

	// Debounce delays reloads after the collection file changes.
	Debounce time.Duration

	// LogLevel is a logrus level name.
	LogLevel string
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Options:  fuse.DefaultOptions(),
		Debounce: 100 * time.Millisecond,
		LogLevel: "warn",
	}
}

type setter func(s *Settings, name string, v any) error

var setters = map[string]setter{
	"location":           intSetting(func(s *Settings) *int { return &s.Options.Location }),
	"distance":           intSetting(func(s *Settings) *int { return &s.Options.Distance }),
	"maxPatternLength":   intSetting(func(s *Settings) *int { return &s.Options.MaxPatternLength }),
	"minMatchCharLength": intSetting(func(s *Settings) *int { return &s.Options.MinMatchCharLength }),
	"cacheSize":          intSetting(func(s *Settings) *int { return &s.Options.CacheSize }),
	"limit":              intSetting(func(s *Settings) *int { return &s.Limit }),
	"parallel":           intSetting(func(s *Settings) *int { return &s.Parallel }),

	"threshold": func(s *Settings, name string, v any) error {
		f, err := toFloat(name, v)
		if err != nil {
			return err
		}
		s.Options.Threshold = f
		return nil
	},

	"caseSensitive":  boolSetting(func(s *Settings) *bool { return &s.Options.CaseSensitive }),
	"findAllMatches": boolSetting(func(s *Settings) *bool { return &s.Options.FindAllMatches }),
	"shouldSort":     boolSetting(func(s *Settings) *bool { return &s.Options.ShouldSort }),
	"tokenize":       boolSetting(func(s *Settings) *bool { return &s.Options.Tokenize }),
	"matchAllTokens": boolSetting(func(s *Settings) *bool { return &s.Options.MatchAllTokens }),
	"includeMatches": boolSetting(func(s *Settings) *bool { return &s.Options.IncludeMatches }),
	"includeScore":   boolSetting(func(s *Settings) *bool { return &s.Options.IncludeScore }),
	"verbose":        boolSetting(func(s *Settings) *bool { return &s.Options.Verbose }),

	"id":         stringSetting(func(s *Settings) *string { return &s.Options.ID }),
	"collection": stringSetting(func(s *Settings) *string { return &s.Collection }),
	"select":     stringSetting(func(s *Settings) *string { return &s.Select }),
	"sortScript": stringSetting(func(s *Settings) *string { return &s.SortScript }),
	"logLevel":   stringSetting(func(s *Settings) *string { return &s.LogLevel }),

	"tokenSeparator": func(s *Settings, name string, v any) error {
		str, ok := v.(string)
		if !ok {
			return typeError(name, "string", v)
		}
		re, err := regexp.Compile(str)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		s.Options.TokenSeparator = re
		return nil
	},

	"debounce": func(s *Settings, name string, v any) error {
		switch d := v.(type) {
		case time.Duration:
			s.Debounce = d
		case string:
			parsed, err := time.ParseDuration(d)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			s.Debounce = parsed
		default:
			return typeError(name, "duration", v)
		}
		return nil
	},

	"keys": func(s *Settings, name string, v any) error {
		keys, err := toKeys(name, v)
		if err != nil {
			return err
		}
		s.Options.Keys = keys
		return nil
	},
}

// Decode applies the settings in m on top of base.
// Names are applied in sorted order so the first error is deterministic.
func Decode(m map[string]any, base Settings) (Settings, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		set, ok := setters[name]
		if !ok {
			return base, fmt.Errorf("%w: %s", ErrUnknownSetting, name)
		}
		if err := set(&base, name, m[name]); err != nil {
			return base, err
		}
	}
	return base, nil
}

// ParseKey parses a key given as name or name:weight.
func ParseKey(s string) (fuse.Key, error) {
	s = strings.TrimSpace(s)

	i := strings.LastIndexByte(s, ':')
	if i < 0 {
		return fuse.Key{Name: s}, nil
	}

	name := s[:i]
	w, err := strconv.ParseFloat(s[i+1:], 64)
	if err != nil {
		return fuse.Key{}, fmt.Errorf("key %q: invalid weight: %w", s, err)
	}
	return weightedKey(name, w)
}

// weightedKey rejects an explicit weight of zero, which would otherwise
// read as unweighted.
func weightedKey(name string, w float64) (fuse.Key, error) {
	if w == 0 {
		return fuse.Key{}, &fuse.WeightError{Key: name, Weight: w}
	}
	return fuse.Key{Name: name, Weight: w}, nil
}

func toKeys(name string, v any) ([]fuse.Key, error) {
	switch x := v.(type) {
	case string:
		var keys []fuse.Key
		for _, part := range strings.Split(x, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			key, err := ParseKey(part)
			if err != nil {
				return nil, err
			}
			keys = append(keys, key)
		}
		return keys, nil

	case []any:
		keys := make([]fuse.Key, 0, len(x))
		for i, elem := range x {
			path := fmt.Sprintf("%s[%d]", name, i)
			key, err := toKey(path, elem)
			if err != nil {
				return nil, err
			}
			keys = append(keys, key)
		}
		return keys, nil

	default:
		return nil, typeError(name, "list of keys", v)
	}
}

func toKey(path string, v any) (fuse.Key, error) {
	switch x := v.(type) {
	case string:
		return fuse.Key{Name: x}, nil

	case map[string]any:
		name, ok := x["name"].(string)
		if !ok {
			return fuse.Key{}, typeError(path+".name", "string", x["name"])
		}
		raw, ok := x["weight"]
		if !ok {
			return fuse.Key{Name: name}, nil
		}
		w, err := toFloat(path+".weight", raw)
		if err != nil {
			return fuse.Key{}, err
		}
		return weightedKey(name, w)

	default:
		return fuse.Key{}, typeError(path, "string or table", v)
	}
}

func intSetting(field func(*Settings) *int) setter {
	return func(s *Settings, name string, v any) error {
		i, err := toInt(name, v)
		if err != nil {
			return err
		}
		*field(s) = i
		return nil
	}
}

func boolSetting(field func(*Settings) *bool) setter {
	return func(s *Settings, name string, v any) error {
		b, ok := v.(bool)
		if !ok {
			return typeError(name, "bool", v)
		}
		*field(s) = b
		return nil
	}
}

func stringSetting(field func(*Settings) *string) setter {
	return func(s *Settings, name string, v any) error {
		str, ok := v.(string)
		if !ok {
			return typeError(name, "string", v)
		}
		*field(s) = str
		return nil
	}
}

func toInt(name string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case int32:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n == math.Trunc(n) {
			return int(n), nil
		}
	}
	return 0, typeError(name, "int", v)
}

func toFloat(name string, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	}
	return 0, typeError(name, "float", v)
}
