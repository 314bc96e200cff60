package harvest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Adda-Baaj/infomedia-harvester/internal/logger"
	"github.com/Adda-Baaj/infomedia-harvester/internal/storage"
	"github.com/Adda-Baaj/infomedia-harvester/pkg/infomedia"
	"github.com/Adda-Baaj/infomedia-harvester/pkg/publishers"
	"github.com/Adda-Baaj/infomedia-harvester/pkg/sources"
	"golang.org/x/sync/errgroup"
)

const (
	defaultWindow      = 24 * time.Hour
	defaultConcurrency = 2
)

// Options tunes a harvest Service.
type Options struct {
	// Window is used for sources without their own window_hours.
	Window time.Duration
	// Concurrency bounds how many source groups are harvested at once.
	Concurrency int
}

// Result summarises one source group of a harvest pass.
type Result struct {
	SourceID  string `json:"source_id"`
	Found     int    `json:"found"`
	New       int    `json:"new"`
	Fetched   int    `json:"fetched"`
	Published int    `json:"published"`
}

// Service coordinates a harvest pass across the configured source groups.
type Service struct {
	api         ArticleSource
	store       storage.Store
	publisher   EventPublisher
	log         logger.Logger
	window      time.Duration
	concurrency int
}

// NewService wires a harvest service. A nil store republishes every article on each pass.
func NewService(api ArticleSource, store storage.Store, pub EventPublisher, log logger.Logger, opts Options) *Service {
	if store == nil {
		store, _ = storage.NewStore("none", "", storage.Options{})
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if opts.Window <= 0 {
		opts.Window = defaultWindow
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = defaultConcurrency
	}
	return &Service{
		api:         api,
		store:       store,
		publisher:   pub,
		log:         log,
		window:      opts.Window,
		concurrency: opts.Concurrency,
	}
}

// Run harvests every source group for the window ending at until. A failing group
// does not stop the others; their errors are joined.
func (s *Service) Run(ctx context.Context, srcs []sources.Source, until time.Time) ([]Result, error) {
	if s == nil || s.api == nil {
		return nil, fmt.Errorf("harvest service is not initialized")
	}
	if len(srcs) == 0 {
		return nil, fmt.Errorf("no sources configured for harvesting")
	}

	results := make([]Result, len(srcs))
	errs := make([]error, len(srcs))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, src := range srcs {
		g.Go(func() error {
			res, err := s.runSource(ctx, src, until)
			results[i] = res
			if err != nil {
				errs[i] = fmt.Errorf("source %s: %w", src.ID, err)
				s.log.ErrorObj("source harvest failed", "source_error", map[string]any{
					"source_id": src.ID,
					"error":     err.Error(),
				})
			}
			return nil
		})
	}
	_ = g.Wait()

	return results, errors.Join(errs...)
}

func (s *Service) runSource(ctx context.Context, src sources.Source, until time.Time) (Result, error) {
	res := Result{SourceID: src.ID}
	window := src.Window(s.window)
	from := until.Add(-window)

	ids, err := s.api.SearchArticleIDs(ctx, from, window, src.Codes...)
	if err != nil {
		return res, fmt.Errorf("search: %w", err)
	}
	res.Found = ids.Len()

	unseen, err := s.store.FilterUnseen(ids.Sorted())
	if err != nil {
		return res, fmt.Errorf("filter harvested ids: %w", err)
	}
	res.New = len(unseen)
	if len(unseen) == 0 {
		s.logResult(res, from, until)
		return res, nil
	}

	list, err := s.api.GetArticles(ctx, infomedia.NewIDSet(unseen...))
	if err != nil {
		return res, fmt.Errorf("fetch: %w", err)
	}
	res.Fetched = len(list.Articles)

	delivered, publishErr := s.publish(ctx, src, list.Articles)
	res.Published = len(delivered)
	if err := s.store.MarkArticles(delivered...); err != nil {
		return res, errors.Join(publishErr, fmt.Errorf("mark harvested ids: %w", err))
	}

	s.logResult(res, from, until)
	return res, publishErr
}

// publish sends every article and returns the ids at least one sink accepted.
func (s *Service) publish(ctx context.Context, src sources.Source, articles []infomedia.Article) ([]string, error) {
	delivered := make([]string, 0, len(articles))
	var errs []error
	for _, raw := range articles {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		article := NormalizeArticle(raw)
		if article.ID == "" {
			s.log.WarnObj("skipping article without id", "article_skipped", map[string]any{
				"source_id": src.ID,
				"heading":   article.Heading,
			})
			continue
		}
		if s.publisher == nil {
			delivered = append(delivered, article.ID)
			continue
		}

		n, err := s.publisher.Publish(ctx, publishers.NewEvent(src.ID, src.Name, article))
		if err != nil {
			errs = append(errs, fmt.Errorf("publish %s: %w", article.ID, err))
		}
		if err == nil || n > 0 {
			delivered = append(delivered, article.ID)
		}
	}
	return delivered, errors.Join(errs...)
}

func (s *Service) logResult(res Result, from, until time.Time) {
	s.log.InfoObj("source harvest completed", "source_result", map[string]any{
		"source_id": res.SourceID,
		"from":      from.UTC().Format(time.RFC3339),
		"to":        until.UTC().Format(time.RFC3339),
		"found":     res.Found,
		"new":       res.New,
		"fetched":   res.Fetched,
		"published": res.Published,
	})
}
