package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	repo "github.com/yungbote/solutions-catalog/internal/data/repos/catalog"
	"github.com/yungbote/solutions-catalog/internal/domain/catalog"
	"github.com/yungbote/solutions-catalog/internal/observability"
	"github.com/yungbote/solutions-catalog/internal/pkg/videolink"
	"github.com/yungbote/solutions-catalog/internal/platform/apierr"
)

const (
	cachePrefix     = "catalog:"
	statsCacheKey   = cachePrefix + "stats"
	filtersCacheKey = cachePrefix + "filters:"
)

func (s *solutionService) Stats(ctx context.Context) (out *catalog.Stats, err error) {
	defer observe("stats", &err)

	var cached catalog.Stats
	if s.cacheGet(ctx, "stats", statsCacheKey, &cached) {
		return &cached, nil
	}

	ctx, span := observability.StartSpan(ctx, "catalog.stats")
	defer span.End()
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	stats := &catalog.Stats{}
	g, gctx := errgroup.WithContext(opCtx)
	g.Go(func() error {
		var err error
		stats.TotalSolutions, stats.TotalViews, err = s.repo.Totals(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		stats.ByType, err = s.repo.CountBy(gctx, nil, repo.FieldContentType, catalog.Filter{}, 0)
		return err
	})
	g.Go(func() error {
		var err error
		stats.ByDifficulty, err = s.repo.CountBy(gctx, nil, repo.FieldDifficulty, catalog.Filter{}, 0)
		return err
	})
	g.Go(func() error {
		var err error
		stats.TopBooks, err = s.repo.CountBy(gctx, nil, repo.FieldBookTitle, catalog.Filter{}, s.cfg.TopBooks)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, storeErr("compute stats", err)
	}

	s.cacheSet(ctx, statsCacheKey, stats)
	return stats, nil
}

// Filters lists the distinct values a client can filter on. Chapters are
// narrowed to one book when bookTitle is given.
func (s *solutionService) Filters(ctx context.Context, bookTitle string) (out *catalog.FilterOptions, err error) {
	defer observe("filters", &err)
	bookTitle = strings.TrimSpace(bookTitle)
	key := filtersCacheKey + bookTitle

	var cached catalog.FilterOptions
	if s.cacheGet(ctx, "filters", key, &cached) {
		return &cached, nil
	}

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	opts := &catalog.FilterOptions{
		Types:        catalog.ContentTypes,
		Difficulties: catalog.Difficulties,
	}
	g, gctx := errgroup.WithContext(opCtx)
	distinct := func(dst *[]string, field string, f catalog.Filter) {
		g.Go(func() error {
			vals, err := s.repo.Distinct(gctx, nil, field, f)
			*dst = vals
			return err
		})
	}
	distinct(&opts.Books, repo.FieldBookTitle, catalog.Filter{})
	distinct(&opts.Chapters, repo.FieldChapter, catalog.Filter{ExactBookTitle: bookTitle})
	distinct(&opts.Subjects, repo.FieldSubject, catalog.Filter{})
	distinct(&opts.Grades, repo.FieldGrade, catalog.Filter{})
	if err := g.Wait(); err != nil {
		return nil, storeErr("list filter values", err)
	}

	s.cacheSet(ctx, key, opts)
	return opts, nil
}

// VideoInfo previews what a link would normalize to without storing it.
func (s *solutionService) VideoInfo(ctx context.Context, rawURL, rawQuality string, opts videolink.EmbedOptions) (out *videolink.Links, err error) {
	defer observe("video_info", &err)

	quality := videolink.DefaultQuality
	if strings.TrimSpace(rawQuality) != "" {
		q, ok := videolink.ParseQuality(rawQuality)
		if !ok {
			return nil, apierr.Validation("invalid_quality", "quality must be one of: default, mqdefault, hqdefault, sddefault, maxresdefault")
		}
		quality = q
	}
	id, err := videolink.Validate(rawURL)
	switch {
	case errors.Is(err, videolink.ErrNoIdentifier):
		return nil, apierr.Validation("invalid_url", "url does not contain a recognizable video identifier")
	case err != nil:
		return nil, apierr.Validation("invalid_url", "url must be a valid http(s) URL")
	}
	links := videolink.Derive(id, quality, opts)
	return &links, nil
}

func (s *solutionService) cacheGet(ctx context.Context, name, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.GetJSON(ctx, key, dst)
	if err != nil {
		s.log.Warn("Cache read failed", "key", key, "error", err)
		hit = false
	}
	observability.Current().IncCacheLookup(name, hit)
	return hit
}

func (s *solutionService) cacheSet(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, v, s.cfg.CacheTTL); err != nil {
		s.log.Warn("Cache write failed", "key", key, "error", err)
	}
}

// invalidate drops every cached aggregate after a write.
func (s *solutionService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePrefix(context.WithoutCancel(ctx), cachePrefix); err != nil {
		s.log.Warn("Cache invalidation failed", "error", err)
	}
}

// invalidateStats drops only the stats aggregate; counter bumps never change
// the filter values.
func (s *solutionService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePrefix(context.WithoutCancel(ctx), statsCacheKey); err != nil {
		s.log.Warn("Cache invalidation failed", "key", statsCacheKey, "error", err)
	}
}
