package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix is the prefix of bitfuse environment variables.
const EnvPrefix = "BITFUSE_"

// EnvLoader loads settings from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "BITFUSE_")
	mapping map[string]string // Env var -> setting name
	ignore  map[string]bool   // Prefixed vars that are not settings
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "BITFUSE_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		ignore:  map[string]bool{prefix + "CONFIG": true},
	}
}

// NewEnvLoaderWithMapping creates a loader with custom environment variable mappings.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: mapping,
		ignore:  map[string]bool{prefix + "CONFIG": true},
	}
}

// defaultEnvMapping returns short aliases for long setting names.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "MIN_MATCH": "minMatchCharLength",
		prefix + "MAX_LEN":   "maxPatternLength",
		prefix + "SEPARATOR": "tokenSeparator",
		prefix + "SCRIPT":    "sortScript",
	}
}

// Load reads environment variables and returns a settings map.
// Note: Empty string values are treated as valid values, not as unset.
func (l *EnvLoader) Load() (map[string]any, error) {
	settings := make(map[string]any)

	for env, name := range l.mapping {
		if val, ok := os.LookupEnv(env); ok {
			settings[name] = l.parseValue(name, val)
		}
	}

	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, l.prefix) {
			continue
		}

		name, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		if _, mapped := l.mapping[name]; mapped || l.ignore[name] {
			continue
		}

		setting := l.envToSetting(name)
		settings[setting] = l.parseValue(setting, value)
	}

	return settings, nil
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, setting string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = setting
}

// Ignore excludes a prefixed environment variable from Load.
func (l *EnvLoader) Ignore(envVar string) {
	l.ignore[envVar] = true
}

// envToSetting converts BITFUSE_MATCH_ALL_TOKENS to matchAllTokens.
func (l *EnvLoader) envToSetting(env string) string {
	parts := strings.Split(strings.TrimPrefix(env, l.prefix), "_")

	var b strings.Builder
	for i, part := range parts {
		if part == "" {
			continue
		}
		part = strings.ToLower(part)
		if i > 0 && b.Len() > 0 {
			part = strings.ToUpper(part[:1]) + part[1:]
		}
		b.WriteString(part)
	}
	return b.String()
}

// parseValue attempts to parse the string value into an appropriate type.
// Free-text settings are kept as strings.
func (l *EnvLoader) parseValue(setting, s string) any {
	switch setting {
	case "id", "tokenSeparator", "collection", "select", "sortScript", "logLevel":
		return s
	}

	if s == "" {
		return s
	}

	lower := strings.ToLower(s)
	if lower == "true" || lower == "yes" || lower == "on" {
		return true
	}
	if lower == "false" || lower == "no" || lower == "off" {
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	// Only values with a decimal point are floats, so ints stay ints.
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	if d, err := time.ParseDuration(s); err == nil {
		return d
	}

	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			return v
		}
	}

	return s
}
