// Package config loads bitfuse settings and collections.
//
// Settings are merged from layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority (applied by the CLI)
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← BITFUSE_*
//	├─────────────────────────────┤
//	│  2. Settings File           │  ← --config, TOML or YAML
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← fuse.DefaultOptions()
//	└─────────────────────────────┘
//
// Files and the environment are read into map[string]any, merged with
// DeepMerge and decoded into Settings in one pass, so a type error names
// the setting that caused it regardless of the layer it came from.
//
// # Settings
//
// Setting names are camelCase: threshold, distance, location,
// maxPatternLength, caseSensitive, tokenSeparator, findAllMatches,
// minMatchCharLength, id, keys, shouldSort, tokenize, matchAllTokens,
// includeMatches, includeScore, verbose, cacheSize, collection, select,
// sortScript, limit, parallel, debounce and logLevel.
//
// Keys are either strings or tables with a name and a weight:
//
//	keys = ["title", { name = "author", weight = 0.7 }]
//
// # Collections
//
// LoadCollection reads a JSON array, a YAML sequence or a text file with one
// string per line. A gjson path selects the array inside a larger document.
//
// # Basic Usage
//
//	settings, err := config.Load("bitfuse.toml")
//	if err != nil {
//	    return err
//	}
//	items, err := config.LoadCollection(config.DefaultFS(), settings.Collection, settings.Select)
package config
