package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dshills/bitfuse/internal/config"
	"github.com/dshills/bitfuse/internal/script"
	"github.com/dshills/bitfuse/pkg/field"
	"github.com/dshills/bitfuse/pkg/fuse"
)

// newLogger returns a logger writing to w at the configured level.
// Verbose raises the level to debug so engine traces are shown.
func newLogger(w io.Writer, s config.Settings) (*logrus.Entry, error) {
	level, err := logrus.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: log level %q", ErrInvalidFlag, s.LogLevel)
	}
	if s.Options.Verbose && level < logrus.DebugLevel {
		level = logrus.DebugLevel
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger.WithField("component", "bitfuse"), nil
}

// session owns an engine built from settings and the resources it uses.
type session struct {
	settings config.Settings
	fs       config.FileSystem
	engine   *fuse.Engine
	sorter   *script.Comparator
	log      *logrus.Entry
}

func openSession(ctx context.Context, settings config.Settings, fsys config.FileSystem, log *logrus.Entry) (*session, error) {
	s := &session{
		settings: settings,
		fs:       fsys,
		log:      log,
	}

	opts := settings.Options
	opts.Logger = log.WithField("component", "fuse")

	if settings.SortScript != "" {
		sorter, err := script.Load(settings.SortScript, script.WithContext(ctx))
		if err != nil {
			return nil, err
		}
		s.sorter = sorter
		opts.SortFunc = sorter.SortFunc()
	}

	collection, err := s.loadCollection()
	if err != nil {
		s.Close()
		return nil, err
	}

	engine, err := fuse.New(collection, opts)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.engine = engine

	log.WithFields(logrus.Fields{
		"collection": settings.Collection,
		"items":      len(collection),
	}).Debug("collection loaded")
	return s, nil
}

func (s *session) loadCollection() ([]field.Value, error) {
	return config.LoadCollection(s.fs, s.settings.Collection, s.settings.Select)
}

// search runs one query and tags its log lines with a search id.
func (s *session) search(ctx context.Context, pattern string) ([]fuse.Result, error) {
	log := s.log.WithFields(logrus.Fields{
		"search_id": uuid.NewString(),
		"pattern":   pattern,
	})
	start := time.Now()

	var results []fuse.Result
	if s.settings.Parallel > 0 {
		var err error
		results, err = s.engine.SearchParallel(ctx, pattern, s.settings.Parallel)
		if err != nil {
			return nil, err
		}
	} else {
		results = s.engine.Search(pattern)
	}

	if s.sorter != nil {
		if err := s.sorter.Err(); err != nil {
			// The cached order came from a failed comparator.
			s.engine.ClearCache()
			s.sorter.Reset()
			return nil, err
		}
	}

	log.WithFields(logrus.Fields{
		"results": len(results),
		"elapsed": time.Since(start),
	}).Info("search complete")
	return results, nil
}

func (s *session) Close() {
	if s.sorter != nil {
		s.sorter.Close()
	}
}
