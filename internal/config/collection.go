package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/dshills/bitfuse/pkg/field"
)

// Format is a collection file format.
type Format uint8

const (
	// FormatJSON is a JSON array, or a document holding one.
	FormatJSON Format = iota
	// FormatYAML is a YAML sequence, or a document holding one.
	FormatYAML
	// FormatLines is plain text with one string per line.
	FormatLines
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatLines:
		return "lines"
	default:
		return "unknown"
	}
}

// FormatOf returns the collection format for path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".txt", ".text", "":
		return FormatLines, nil
	default:
		return 0, fmt.Errorf("%w: collection %s", ErrUnsupportedFormat, path)
	}
}

// LoadCollection reads the collection file at path. selectPath, when set,
// is a gjson path to the array inside a JSON or YAML document.
//
// Entries with nothing searchable are not loaded: null and boolean elements
// of JSON and YAML arrays, and blank lines of text files. Result indices
// count loaded items, so they can differ from positions in the file.
func LoadCollection(fsys FileSystem, path, selectPath string) ([]field.Value, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("reading collection %s: %w", path, err)
	}

	return ParseCollection(format, path, data, selectPath)
}

// ParseCollection decodes a collection document. source names the document
// in errors.
func ParseCollection(format Format, source string, data []byte, selectPath string) ([]field.Value, error) {
	switch format {
	case FormatJSON:
		return parseJSON(source, data, selectPath)
	case FormatYAML:
		return parseYAML(source, data, selectPath)
	case FormatLines:
		if selectPath != "" {
			return nil, fmt.Errorf("%w: select path on %s collection %s", ErrUnsupportedFormat, format, source)
		}
		return parseLines(data), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func parseJSON(source string, data []byte, selectPath string) ([]field.Value, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Path: source, Message: "invalid JSON"}
	}

	root := gjson.ParseBytes(data)
	path := "$"
	if selectPath != "" {
		root = root.Get(selectPath)
		path = selectPath
	}

	if !root.Exists() {
		return nil, &TypeError{Path: path, Expected: "array", Actual: "nothing"}
	}
	if !root.IsArray() {
		return nil, &TypeError{Path: path, Expected: "array", Actual: root.Type.String()}
	}

	var (
		items []field.Value
		err   error
	)
	root.ForEach(func(_, elem gjson.Result) bool {
		var v field.Value
		v, err = field.FromAny(elem.Value())
		if err != nil {
			err = fmt.Errorf("%s: %w", source, err)
			return false
		}
		if v != nil {
			items = append(items, v)
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

func parseYAML(source string, data []byte, selectPath string) ([]field.Value, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}

	if selectPath != "" {
		encoded, err := json.Marshal(doc)
		if err != nil {
			return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
		}
		return parseJSON(source, encoded, selectPath)
	}

	seq, ok := doc.([]any)
	if !ok {
		return nil, typeError("$", "sequence", doc)
	}

	items := make([]field.Value, 0, len(seq))
	for _, elem := range seq {
		v, err := field.FromAny(elem)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		if v != nil {
			items = append(items, v)
		}
	}
	return items, nil
}

func parseLines(data []byte) []field.Value {
	var items []field.Value
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		items = append(items, field.String(line))
	}
	return items
}
