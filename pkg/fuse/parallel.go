package fuse

import (
	"context"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/bitfuse/pkg/field"
)

// SearchParallel is Search with the collection split across workers.
// Results are identical to Search. If workers is 0 it defaults to
// runtime.NumCPU(). It returns ctx.Err() if ctx is done before the search
// completes.
func (e *Engine) SearchParallel(ctx context.Context, pattern string, workers int) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cached := e.cached(pattern); cached != nil {
		return cached, nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	list, gen := e.snapshot()
	s := e.newSearchers(pattern)
	kind := kindOf(list)

	chunkSize := (len(list) + workers - 1) / workers
	minChunkSize := 50
	if len(list) < 1000 {
		minChunkSize = 10
	}
	chunkSize = max(chunkSize, minChunkSize)

	chunks := make([][]itemResult, (len(list)+chunkSize-1)/chunkSize)
	e.trace(logrus.Fields{"workers": workers, "chunks": len(chunks)}, "parallel search")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for c := range chunks {
		c := c
		start := c * chunkSize
		end := min(start+chunkSize, len(list))

		g.Go(func() error {
			found, err := e.analyzeChunk(gctx, kind, list[start:end], start, s)
			if err != nil {
				return err
			}
			chunks[c] = found
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var items []itemResult
	for _, found := range chunks {
		items = append(items, found...)
	}

	results := e.finish(kind, items, s)
	e.store(pattern, gen, results)
	return results, nil
}

// analyzeChunk analyzes items whose collection indices start at offset.
func (e *Engine) analyzeChunk(ctx context.Context, kind collectionKind, chunk []field.Value, offset int, s *searchers) ([]itemResult, error) {
	var found []itemResult
	for i, item := range chunk {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if r, ok := e.analyzeItem(kind, item, offset+i, s); ok {
			found = append(found, r)
		}
	}
	return found, nil
}
