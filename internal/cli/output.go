package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/pretty"
	"golang.org/x/term"

	"github.com/dshills/bitfuse/pkg/fuse"
)

// printer writes results as indented JSON, coloured on a terminal.
type printer struct {
	w     io.Writer
	limit int
	color bool
}

func newPrinter(w io.Writer, limit int, noColor bool) *printer {
	return &printer{
		w:     w,
		limit: limit,
		color: !noColor && isTerminal(w),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p *printer) print(results []fuse.Result) error {
	if p.limit > 0 && len(results) > p.limit {
		results = results[:p.limit]
	}
	if results == nil {
		results = []fuse.Result{}
	}

	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	data = pretty.Pretty(data)
	if p.color {
		data = pretty.Color(data, nil)
	}

	_, err = p.w.Write(data)
	return err
}
