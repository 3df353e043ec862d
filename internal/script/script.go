// Package script runs Lua sort comparators for search results.
//
// A sort script defines a global function compare(a, b). Each argument is a
// table with the fields score, index and item, where item is the matched
// element converted to Lua values (records become tables keyed by field
// name, lists become sequences). compare returns a number that is negative
// when a sorts before b, or a boolean that is true when a sorts before b.
//
//	function compare(a, b)
//	  if a.score ~= b.score then
//	    return a.score - b.score
//	  end
//	  return a.index - b.index
//	end
//
// Only the base, table, string and math libraries are available.
package script

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/bitfuse/pkg/field"
	"github.com/dshills/bitfuse/pkg/fuse"
)

// FuncName is the global function a sort script must define.
const FuncName = "compare"

// Errors returned by sort scripts.
var (
	// ErrClosed is returned when comparing with a closed Comparator.
	ErrClosed = errors.New("sort script is closed")

	// ErrNoCompare indicates the script does not define compare.
	ErrNoCompare = errors.New("sort script does not define " + FuncName)

	// ErrBadResult indicates compare returned neither a number nor a boolean.
	ErrBadResult = errors.New("compare must return a number or a boolean")
)

// Comparator orders search results with a Lua function.
//
// gopher-lua's LState is not goroutine-safe; Compare serializes calls with
// a mutex.
type Comparator struct {
	mu sync.Mutex

	L    *lua.LState
	fn   *lua.LFunction
	name string

	// err is the first error raised by compare. Later calls are no-ops.
	err    error
	closed bool
}

// Option configures a Comparator.
type Option func(*lua.LState)

// WithContext cancels running Lua code when ctx is done.
func WithContext(ctx context.Context) Option {
	return func(L *lua.LState) {
		L.SetContext(ctx)
	}
}

// Load compiles the sort script at path.
func Load(path string, opts ...Option) (*Comparator, error) {
	c := newComparator(path, opts)
	if err := c.L.DoFile(path); err != nil {
		c.L.Close()
		return nil, fmt.Errorf("loading sort script %s: %w", path, err)
	}
	return c.bind()
}

// LoadString compiles a sort script from source. name identifies the
// script in errors.
func LoadString(name, source string, opts ...Option) (*Comparator, error) {
	c := newComparator(name, opts)
	if err := c.L.DoString(source); err != nil {
		c.L.Close()
		return nil, fmt.Errorf("loading sort script %s: %w", name, err)
	}
	return c.bind()
}

func newComparator(name string, opts []Option) *Comparator {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	for _, opt := range opts {
		opt(L)
	}
	return &Comparator{L: L, name: name}
}

// openSafeLibraries opens only side-effect free Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Base opens file loaders; scripts only compare values.
	for _, name := range []string{"dofile", "loadfile", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

func (c *Comparator) bind() (*Comparator, error) {
	fn, ok := c.L.GetGlobal(FuncName).(*lua.LFunction)
	if !ok {
		c.L.Close()
		return nil, fmt.Errorf("%w: %s", ErrNoCompare, c.name)
	}
	c.fn = fn
	return c, nil
}

// Compare implements fuse.SortFunc. After the first error it returns 0 for
// every pair, which leaves the remaining order to the stable sort; the
// error is reported by Err.
func (c *Comparator) Compare(a, b fuse.Ranked) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return 0
	}
	if c.closed {
		c.err = ErrClosed
		return 0
	}

	err := c.L.CallByParam(lua.P{
		Fn:      c.fn,
		NRet:    1,
		Protect: true,
	}, c.ranked(a), c.ranked(b))
	if err != nil {
		c.err = fmt.Errorf("sort script %s: %w", c.name, err)
		return 0
	}

	ret := c.L.Get(-1)
	c.L.Pop(1)

	switch v := ret.(type) {
	case lua.LNumber:
		return cmp.Compare(float64(v), 0)
	case lua.LBool:
		if v {
			return -1
		}
		return 1
	default:
		c.err = fmt.Errorf("sort script %s: %w, got %s", c.name, ErrBadResult, ret.Type())
		return 0
	}
}

// SortFunc returns Compare as a fuse.SortFunc.
func (c *Comparator) SortFunc() fuse.SortFunc {
	return c.Compare
}

// Err returns the first error raised while comparing, if any.
func (c *Comparator) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Reset clears a recorded error.
func (c *Comparator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = nil
}

// Close releases the Lua state.
func (c *Comparator) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.L.Close()
	c.closed = true
	return nil
}

func (c *Comparator) ranked(r fuse.Ranked) *lua.LTable {
	t := c.L.NewTable()
	t.RawSetString("score", lua.LNumber(r.Score))
	t.RawSetString("index", lua.LNumber(r.Index))
	t.RawSetString("item", toLua(c.L, r.Item))
	return t
}

// toLua converts an item into Lua values. Lists become 1-based sequences.
func toLua(L *lua.LState, v field.Value) lua.LValue {
	switch x := v.(type) {
	case field.String:
		return lua.LString(x)
	case field.Number:
		return lua.LNumber(x)
	case field.List:
		t := L.CreateTable(len(x), 0)
		for _, elem := range x {
			t.Append(toLua(L, elem))
		}
		return t
	case field.Record:
		t := L.CreateTable(0, len(x))
		for key, elem := range x {
			t.RawSetString(key, toLua(L, elem))
		}
		return t
	default:
		return lua.LNil
	}
}
