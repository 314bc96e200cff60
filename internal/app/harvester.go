package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Adda-Baaj/infomedia-harvester/internal/config"
	"github.com/Adda-Baaj/infomedia-harvester/internal/harvest"
	"github.com/Adda-Baaj/infomedia-harvester/internal/logger"
	"github.com/Adda-Baaj/infomedia-harvester/internal/storage"
	"github.com/Adda-Baaj/infomedia-harvester/pkg/publishers"
	"github.com/Adda-Baaj/infomedia-harvester/pkg/sources"
)

// Harvester is the long-running runtime: it harvests every enabled source group
// once at start and then on each tick until the context is cancelled.
type Harvester struct {
	cfg      *config.Config
	sources  *sources.Registry
	fanout   *publishers.Fanout
	service  *harvest.Service
	interval time.Duration
	log      logger.Logger
	store    storage.Store
	now      func() time.Time
	closed   sync.Once
}

// NewHarvester builds a harvester runtime from config files.
func NewHarvester(ctx context.Context, cfg *config.Config, log logger.Logger) (*Harvester, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}

	conn, err := NewConnector(cfg, log)
	if err != nil {
		return nil, err
	}

	sourceReg, err := sources.LoadRegistry(cfg.SourcesFile)
	if err != nil {
		return nil, fmt.Errorf("load sources registry: %w", err)
	}
	sourceIDs := make([]string, 0, len(sourceReg.All()))
	for _, s := range sourceReg.All() {
		sourceIDs = append(sourceIDs, s.ID)
	}
	log.InfoObj("sources registry loaded", "sources_meta", map[string]any{
		"count": len(sourceIDs),
		"ids":   sourceIDs,
	})

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		ArticleTTL:      cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"article_ttl_seconds":      int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	service := harvest.NewService(conn, store, fanout, log, harvest.Options{
		Window:      cfg.HarvestWindow,
		Concurrency: cfg.HarvestConcurrency,
	})

	return &Harvester{
		cfg:      cfg,
		sources:  sourceReg,
		fanout:   fanout,
		service:  service,
		interval: cfg.HarvestInterval,
		log:      log,
		store:    store,
		now:      time.Now,
	}, nil
}

func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabled := publisherReg.Enabled()
	if len(enabled) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubClients), nil
}

// Run starts the harvest loop until the context is cancelled.
func (h *Harvester) Run(ctx context.Context) error {
	if h == nil || h.service == nil {
		return fmt.Errorf("harvester is not initialized")
	}
	defer h.Close()

	enabled := h.sources.Enabled()
	if len(enabled) == 0 {
		h.log.WarnObj("no sources enabled; harvester idle", "sources_file", h.cfg.SourcesFile)
		<-ctx.Done()
		return ctx.Err()
	}

	h.log.InfoObj("harvester loop starting", "harvester_state", map[string]any{
		"sources_count":    len(enabled),
		"publishers_count": h.fanout.Size(),
		"harvest_interval": h.interval.String(),
	})

	if err := h.runOnce(ctx, enabled); err != nil {
		h.log.ErrorObj("initial harvest failed", "error", err.Error())
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.InfoObj("harvester loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := h.runOnce(ctx, enabled); err != nil {
				h.log.ErrorObj("scheduled harvest failed", "error", err.Error())
			}
		}
	}
}

// RunOnce performs a single harvest pass over the enabled sources, or over the
// listed source ids when any are given.
func (h *Harvester) RunOnce(ctx context.Context, ids ...string) ([]harvest.Result, error) {
	if h == nil || h.service == nil {
		return nil, fmt.Errorf("harvester is not initialized")
	}

	selected := h.sources.Enabled()
	if len(ids) > 0 {
		selected = make([]sources.Source, 0, len(ids))
		for _, id := range ids {
			src, ok := h.sources.ByID(id)
			if !ok {
				return nil, fmt.Errorf("unknown source %q", id)
			}
			selected = append(selected, src)
		}
	}
	return h.service.Run(ctx, selected, h.now())
}

func (h *Harvester) runOnce(ctx context.Context, srcs []sources.Source) error {
	start := h.now()
	h.log.InfoObj("harvest started", "harvest_meta", map[string]any{
		"sources_count": len(srcs),
		"started_at":    start.UTC(),
	})
	results, err := h.service.Run(ctx, srcs, start)
	published := 0
	for _, r := range results {
		published += r.Published
	}
	h.log.InfoObj("harvest completed", "harvest_meta", map[string]any{
		"sources_count": len(srcs),
		"published":     published,
		"elapsed_ms":    time.Since(start).Milliseconds(),
	})
	return err
}

// Close releases the publishers and the storage backend. It is safe to call more than once.
func (h *Harvester) Close() {
	if h == nil {
		return
	}
	h.closed.Do(func() {
		if err := h.fanout.Close(); err != nil {
			h.log.ErrorObj("publisher close failed", "error", err.Error())
		}
		if h.store != nil {
			if err := h.store.Close(); err != nil {
				h.log.ErrorObj("storage close failed", "error", err.Error())
			}
		}
	})
}
