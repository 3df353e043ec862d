package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/dshills/bitfuse/internal/config"
)

// ConfigEnv names the settings file when --config is not given.
const ConfigEnv = config.EnvPrefix + "CONFIG"

// searchFlags holds the flags shared by search and watch. Only flags the
// user set override the loaded settings.
type searchFlags struct {
	configPath string
	collection string
	sel        string
	keys       []string

	threshold      float64
	distance       int
	location       int
	minMatch       int
	tokenize       bool
	matchAllTokens bool
	findAllMatches bool
	caseSensitive  bool

	id             string
	includeScore   bool
	includeMatches bool
	noSort         bool
	sortScript     string

	limit    int
	parallel int
	debounce time.Duration

	verbose  bool
	logLevel string
	noColor  bool
}

func (f *searchFlags) register(fs *pflag.FlagSet) {
	d := config.DefaultSettings()

	fs.StringVarP(&f.configPath, "config", "c", "", "Settings file (.toml, .yaml)")
	fs.StringVarP(&f.collection, "collection", "f", "", "Collection file (.json, .yaml, .txt)")
	fs.StringVar(&f.sel, "select", "", "gjson path to the array inside the collection document")
	fs.StringArrayVarP(&f.keys, "key", "k", nil, "Searched field as name[:weight] (repeatable)")

	fs.Float64Var(&f.threshold, "threshold", d.Options.Threshold, "Match threshold, 0 exact to 1 anything")
	fs.IntVar(&f.distance, "distance", d.Options.Distance, "How far from location a match may be")
	fs.IntVar(&f.location, "location", d.Options.Location, "Expected position of the match")
	fs.IntVar(&f.minMatch, "min-match", d.Options.MinMatchCharLength, "Minimum length of reported matches")
	fs.BoolVar(&f.tokenize, "tokenize", d.Options.Tokenize, "Also match each word of the pattern")
	fs.BoolVar(&f.matchAllTokens, "match-all-tokens", d.Options.MatchAllTokens, "Require every word of the pattern to match")
	fs.BoolVar(&f.findAllMatches, "find-all-matches", d.Options.FindAllMatches, "Keep searching after a perfect match")
	fs.BoolVar(&f.caseSensitive, "case-sensitive", d.Options.CaseSensitive, "Match case")

	fs.StringVar(&f.id, "id", d.Options.ID, "Print this field of each match instead of the item")
	fs.BoolVar(&f.includeScore, "include-score", d.Options.IncludeScore, "Include scores in the output")
	fs.BoolVar(&f.includeMatches, "include-matches", d.Options.IncludeMatches, "Include matched ranges in the output")
	fs.BoolVar(&f.noSort, "no-sort", !d.Options.ShouldSort, "Keep collection order")
	fs.StringVar(&f.sortScript, "sort-script", d.SortScript, "Lua file defining compare(a, b)")

	fs.IntVarP(&f.limit, "limit", "n", d.Limit, "Print at most this many results, 0 for all")
	fs.IntVar(&f.parallel, "parallel", d.Parallel, "Search with this many workers, 0 for sequential")
	fs.DurationVar(&f.debounce, "debounce", d.Debounce, "Delay before reloading a changed collection")

	fs.BoolVarP(&f.verbose, "verbose", "v", d.Options.Verbose, "Log scoring details")
	fs.StringVar(&f.logLevel, "log-level", d.LogLevel, "Log level (trace, debug, info, warn, error)")
	fs.BoolVar(&f.noColor, "no-color", false, "Disable coloured output")
}

// settings loads the settings file and environment, then applies the flags
// that were set on fs.
func (f *searchFlags) settings(fs *pflag.FlagSet) (config.Settings, error) {
	path := f.configPath
	if !fs.Changed("config") {
		path = os.Getenv(ConfigEnv)
	}

	s, err := config.Load(path)
	if err != nil {
		return config.Settings{}, fmt.Errorf("loading settings: %w", err)
	}
	if err := f.apply(fs, &s); err != nil {
		return config.Settings{}, err
	}
	return s, nil
}

func (f *searchFlags) apply(fs *pflag.FlagSet, s *config.Settings) error {
	if fs.Changed("key") {
		s.Options.Keys = nil
		for _, raw := range f.keys {
			key, err := config.ParseKey(raw)
			if err != nil {
				return fmt.Errorf("--key %q: %w", raw, err)
			}
			s.Options.Keys = append(s.Options.Keys, key)
		}
	}

	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	set("collection", func() { s.Collection = f.collection })
	set("select", func() { s.Select = f.sel })
	set("threshold", func() { s.Options.Threshold = f.threshold })
	set("distance", func() { s.Options.Distance = f.distance })
	set("location", func() { s.Options.Location = f.location })
	set("min-match", func() { s.Options.MinMatchCharLength = f.minMatch })
	set("tokenize", func() { s.Options.Tokenize = f.tokenize })
	set("match-all-tokens", func() { s.Options.MatchAllTokens = f.matchAllTokens })
	set("find-all-matches", func() { s.Options.FindAllMatches = f.findAllMatches })
	set("case-sensitive", func() { s.Options.CaseSensitive = f.caseSensitive })
	set("id", func() { s.Options.ID = f.id })
	set("include-score", func() { s.Options.IncludeScore = f.includeScore })
	set("include-matches", func() { s.Options.IncludeMatches = f.includeMatches })
	set("no-sort", func() { s.Options.ShouldSort = !f.noSort })
	set("sort-script", func() { s.SortScript = f.sortScript })
	set("limit", func() { s.Limit = f.limit })
	set("parallel", func() { s.Parallel = f.parallel })
	set("debounce", func() { s.Debounce = f.debounce })
	set("verbose", func() { s.Options.Verbose = f.verbose })
	set("log-level", func() { s.LogLevel = f.logLevel })

	if s.Collection == "" {
		return ErrNoCollection
	}
	if s.Limit < 0 {
		return fmt.Errorf("%w: limit %d", ErrInvalidFlag, s.Limit)
	}
	if s.Parallel < 0 {
		return fmt.Errorf("%w: parallel %d", ErrInvalidFlag, s.Parallel)
	}
	return nil
}
