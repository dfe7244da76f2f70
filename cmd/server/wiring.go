package main

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/creature-import/internal/catalog"
	"github.com/KirkDiggler/creature-import/internal/catalog/cached"
	"github.com/KirkDiggler/creature-import/internal/catalog/sqlite"
	"github.com/KirkDiggler/creature-import/internal/catalog/yamlpack"
	"github.com/KirkDiggler/creature-import/internal/clients/srd"
	"github.com/KirkDiggler/creature-import/internal/config"
	"github.com/KirkDiggler/creature-import/internal/errors"
	"github.com/KirkDiggler/creature-import/internal/index"
	"github.com/KirkDiggler/creature-import/internal/normalizer"
	"github.com/KirkDiggler/creature-import/internal/orchestrators/importer"
	"github.com/KirkDiggler/creature-import/internal/orchestrators/resolver"
	"github.com/KirkDiggler/creature-import/internal/orchestrators/workflow"
	"github.com/KirkDiggler/creature-import/internal/pkg/clock"
	"github.com/KirkDiggler/creature-import/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/creature-import/internal/redis"
	"github.com/KirkDiggler/creature-import/internal/repositories/creature"
	resolutionsession "github.com/KirkDiggler/creature-import/internal/repositories/resolution_session"
)

// catalogStack is the catalog source and the index built over it
type catalogStack struct {
	source  catalog.Source
	cache   *cached.Source
	index   *index.Index
	mapping *config.Mapping
	close   func()
}

// openCatalog builds the configured catalog source. A non-nil Redis client
// puts the read-through cache in front of it.
func openCatalog(client redisclient.Client) (*catalogStack, error) {
	mapping, err := config.LoadMapping(cfg.MappingFile)
	if err != nil {
		return nil, err
	}

	stack := &catalogStack{mapping: mapping, close: func() {}}

	switch cfg.Catalog {
	case config.CatalogYAML:
		stack.source, err = yamlpack.New(cfg.CatalogDir)
	case config.CatalogSQLite:
		var store *sqlite.Store
		store, err = sqlite.Open(cfg.SQLitePath)
		if err == nil {
			stack.source = store
			stack.close = func() {
				if closeErr := store.Close(); closeErr != nil {
					slog.Warn("failed to close catalog store", "error", closeErr)
				}
			}
		}
	case config.CatalogSRD:
		stack.source, err = srd.New(&srd.Config{
			BaseURL:     cfg.SRDBaseURL,
			HTTPTimeout: cfg.HTTPTimeout,
			CacheTTL:    cfg.SRDCacheTTL,
		})
	default:
		err = errors.InvalidArgumentf("unknown catalog source %q", cfg.Catalog)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s catalog", cfg.Catalog)
	}

	if client != nil {
		stack.cache, err = cached.New(&cached.Config{
			Source:    stack.source,
			Client:    client,
			TTL:       cfg.CatalogCacheTTL,
			Namespace: cfg.Catalog,
		})
		if err != nil {
			stack.close()
			return nil, err
		}
		stack.source = stack.cache
	}

	stack.index, err = index.New(&index.Config{
		Source:          stack.source,
		Mapping:         mapping,
		RefreshInterval: cfg.IndexRefresh,
	})
	if err != nil {
		stack.close()
		return nil, err
	}

	return stack, nil
}

// watchInvalidations drops index scans whenever another process
// invalidates the shared catalog cache. It returns when ctx is done.
func (stack *catalogStack) watchInvalidations(ctx context.Context) {
	if stack.cache == nil {
		return
	}
	go func() {
		if err := stack.cache.Watch(ctx, stack.index.Invalidate); err != nil {
			slog.WarnContext(ctx, "catalog invalidations are not watched", "error", err)
		}
	}()
}

// services are the orchestrators the gRPC handler and the import command share
type services struct {
	catalog  *catalogStack
	resolver resolver.Service
	workflow workflow.Service
	importer importer.Service
	events   events.EventBus
	close    func()
}

func buildServices(ctx context.Context) (*services, error) {
	client, err := redisclient.NewClient(cfg.RedisAddr, nil)
	if err != nil {
		return nil, err
	}
	if err := redisclient.Ping(ctx, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	stack, err := openCatalog(client)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	svc := &services{
		catalog: stack,
		events:  events.NewBus(),
		close: func() {
			stack.close()
			_ = client.Close() // nolint:errcheck // safe to ignore on shutdown
		},
	}

	if err := svc.wire(client); err != nil {
		svc.close()
		return nil, err
	}
	return svc, nil
}

func (svc *services) wire(client redisclient.Client) error {
	clk := clock.New()

	creatures, err := creature.NewRedis(&creature.RedisConfig{Client: client, Clock: clk})
	if err != nil {
		return errors.Wrap(err, "failed to create creature repository")
	}
	sessions, err := resolutionsession.NewRedisRepository(&resolutionsession.Config{Client: client, Clock: clk})
	if err != nil {
		return errors.Wrap(err, "failed to create session repository")
	}

	svc.resolver, err = resolver.NewOrchestrator(&resolver.Config{
		Index:   svc.catalog.index,
		Mapping: svc.catalog.mapping,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create resolver")
	}

	svc.workflow, err = workflow.NewOrchestrator(&workflow.Config{
		Resolver:    svc.resolver,
		Catalog:     svc.catalog.index,
		Creatures:   creatures,
		Sessions:    sessions,
		EventBus:    svc.events,
		IDGenerator: idgen.NewUUID("session"),
		Mapping:     svc.catalog.mapping,
		SessionTTL:  cfg.SessionTTL,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create workflow")
	}

	norm, err := normalizer.New(&normalizer.Config{Mapping: svc.catalog.mapping})
	if err != nil {
		return errors.Wrap(err, "failed to create normalizer")
	}

	svc.importer, err = importer.NewOrchestrator(&importer.Config{
		Normalizer:  norm,
		Resolver:    svc.resolver,
		Catalog:     svc.catalog.index,
		Creatures:   creatures,
		Workflow:    svc.workflow,
		IDGenerator: idgen.NewUUID("creature"),
	})
	if err != nil {
		return errors.Wrap(err, "failed to create importer")
	}

	svc.logTransitions()
	return nil
}

// logTransitions writes every workflow event to the log
func (svc *services) logTransitions() {
	for _, eventType := range []string{
		workflow.EventPresented,
		workflow.EventAssigned,
		workflow.EventSkipped,
		workflow.EventRemoved,
		workflow.EventCompleted,
		workflow.EventAborted,
	} {
		svc.events.SubscribeFunc(eventType, 0, func(ctx context.Context, e events.Event) error {
			attrs := []any{"event", e.Type()}
			if src := e.Source(); src != nil {
				attrs = append(attrs, "session_id", src.GetID())
			}
			if target := e.Target(); target != nil {
				attrs = append(attrs, "item_id", target.GetID())
			}
			slog.DebugContext(ctx, "resolution transition", attrs...)
			return nil
		})
	}
}
