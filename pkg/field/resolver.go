package field

import "strings"

// Leaf is a searchable string found at a path.
type Leaf struct {
	// Value is the leaf as text.
	Value string

	// ArrayIndex is the position of the leaf within the innermost array
	// crossed to reach it, or -1 if no array was crossed.
	ArrayIndex int
}

// Resolver extracts the leaves stored at path in item.
// Missing paths yield no leaves.
type Resolver interface {
	Resolve(item Value, path string) []Leaf
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(item Value, path string) []Leaf

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(item Value, path string) []Leaf {
	return f(item, path)
}

// PathResolver resolves dot separated paths. Arrays met along the way are
// searched element by element, and numbers are converted to text.
type PathResolver struct{}

// Resolve implements Resolver.
func (PathResolver) Resolve(item Value, path string) []Leaf {
	return resolve(item, path, -1, nil)
}

func resolve(v Value, path string, arrayIndex int, out []Leaf) []Leaf {
	if path == "" {
		return appendLeaf(v, arrayIndex, out)
	}

	rec, ok := v.(Record)
	if !ok {
		return out
	}

	segment, remaining, _ := strings.Cut(path, ".")
	value, ok := rec[segment]
	if !ok || value == nil {
		return out
	}

	switch x := value.(type) {
	case List:
		for i, elem := range x {
			out = resolve(elem, remaining, i, out)
		}
		return out
	case String, Number:
		if remaining == "" {
			return appendLeaf(x, arrayIndex, out)
		}
		return out
	default:
		if remaining == "" {
			return out
		}
		return resolve(value, remaining, arrayIndex, out)
	}
}

func appendLeaf(v Value, arrayIndex int, out []Leaf) []Leaf {
	switch x := v.(type) {
	case String:
		return append(out, Leaf{Value: string(x), ArrayIndex: arrayIndex})
	case Number:
		return append(out, Leaf{Value: x.String(), ArrayIndex: arrayIndex})
	default:
		return out
	}
}
