package preview

import (
	"context"

	"go.uber.org/zap"

	"previewd/internal/metrics"
)

// Service composes the bounded fetcher, the metadata parser and the
// memoizing cache into the single get-preview operation exposed to the
// transport layer.
type Service struct {
	fetcher Fetcher
	parser  Parser
	cache   Cache
	logger  *zap.Logger
}

// NewService constructs a Service.
func NewService(fetcher Fetcher, parser Parser, cache Cache, logger *zap.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		parser:  parser,
		cache:   cache,
		logger:  logger,
	}
}

// GetPreview returns the preview outcome for url. A live cached outcome is
// returned without touching the network; otherwise the outcome is computed,
// stored unconditionally (failures included) and returned. Concurrent misses
// for the same URL may each compute independently; the last store wins.
func (s *Service) GetPreview(ctx context.Context, url string) Outcome {
	if out, ok := s.cache.Get(url); ok {
		metrics.ObserveCacheHit()
		s.logger.Debug("cache hit", zap.String("url", url))
		return out
	}
	metrics.ObserveCacheMiss()

	out := s.compute(ctx, url)
	s.cache.Insert(url, out)
	metrics.ObserveCacheInsert()

	if out.OK() {
		metrics.ObservePreview("success")
	} else {
		metrics.ObservePreview("failure")
		s.logger.Info("preview failed", zap.String("url", url), zap.String("error", out.ErrText))
	}
	return out
}

func (s *Service) compute(ctx context.Context, url string) Outcome {
	text, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return Failure(err.Error())
	}
	meta, err := s.parser.Parse(text)
	if err != nil {
		return Failure(err.Error())
	}
	return Success(meta)
}
