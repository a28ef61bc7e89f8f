// Package ingestion reconciles marketing-site content nodes into the
// catalog: courses, people, schools, sponsors, subjects and xseries
// programs. Node failures are isolated per node; page and login
// failures abort the run.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"catalog-backend/lib/drupal"
	"catalog-backend/lib/htmlutil"
	"catalog-backend/services/catalog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/ingestion")

// errSkipped marks an expected-absence outcome: the processor already
// logged the condition and the node is counted as skipped rather than
// failed.
var errSkipped = errors.New("node skipped")

// Processor turns one raw node of its type into catalog entities.
type Processor interface {
	NodeType() string
	Query() drupal.NodeQuery
	Process(ctx context.Context, node map[string]any) error
}

type Options struct {
	// bounded pool size for page fetches
	MaxWorkers int
	// Threadsafe selects the process-in-worker strategy, which
	// requires the store to tolerate concurrent entity writes. The
	// default serialized strategy keeps all writes on one goroutine.
	Threadsafe bool
	// NodeTypes restricts the run to the named types; empty means
	// every registered type, in dependency order.
	NodeTypes []string
}

// Loader drives the whole ingestion run.
type Loader struct {
	store      *catalog.Store
	client     *drupal.Client
	partner    catalog.Partner
	strategy   drupal.ExecutionStrategy
	summary    *Summary
	processors []Processor
}

func NewLoader(store *catalog.Store, client *drupal.Client, partner catalog.Partner, opts Options) (*Loader, error) {
	strategy := drupal.ExecutionStrategy(drupal.SerializedFetch(opts.MaxWorkers))
	if opts.Threadsafe {
		strategy = drupal.ProcessInWorker(opts.MaxWorkers)
	}

	loader := &Loader{
		store:    store,
		client:   client,
		partner:  partner,
		strategy: strategy,
		summary:  NewSummary(),
	}

	resolve := resolver{store: store, partner: partner}

	// dependency order: subjects, schools and people must exist
	// before courses reference them
	registry := []Processor{
		&subjectProcessor{store: store, partner: partner},
		&schoolProcessor{store: store, partner: partner},
		&sponsorProcessor{store: store, partner: partner},
		&personProcessor{store: store, partner: partner},
		&courseProcessor{store: store, partner: partner, resolve: resolve},
		&xseriesProcessor{store: store, partner: partner},
	}

	if len(opts.NodeTypes) == 0 {
		loader.processors = registry
		return loader, nil
	}

	byType := map[string]Processor{}
	for _, p := range registry {
		byType[p.NodeType()] = p
	}
	for _, nodeType := range opts.NodeTypes {
		p, ok := byType[nodeType]
		if !ok {
			return nil, fmt.Errorf("unknown node type %q", nodeType)
		}
		loader.processors = append(loader.processors, p)
	}
	return loader, nil
}

func (l *Loader) Summary() *Summary {
	return l.summary
}

// Run ingests every selected node type. The first page-level or
// login error aborts the run; node-level errors are contained.
func (l *Loader) Run(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "loader:Run")
	defer span.End()

	for _, processor := range l.processors {
		err := l.ingestType(ctx, processor)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "ingestion run aborted")
			return err
		}
	}
	return nil
}

func (l *Loader) ingestType(ctx context.Context, processor Processor) error {
	ctx, span := tracer.Start(ctx, "loader:ingestType")
	defer span.End()
	span.SetAttributes(attribute.String("node_type", processor.NodeType()))

	slog.InfoContext(ctx, "ingesting nodes", "type", processor.NodeType(), "strategy", l.strategy.Name())

	return l.client.IngestNodes(ctx, processor.Query(), l.strategy, func(ctx context.Context, page *drupal.Page) error {
		l.processPage(ctx, processor, page)
		return nil
	})
}

// processPage dispatches every node on a page, containing per-node
// failures: one malformed record never aborts its page or the run.
func (l *Loader) processPage(ctx context.Context, processor Processor, page *drupal.Page) {
	for _, raw := range page.List {
		nodeURL, _ := raw["url"].(string)
		node := htmlutil.CleanNode(raw)

		err := processor.Process(ctx, node)
		switch {
		case errors.Is(err, errSkipped):
			l.summary.recordSkipped(processor.NodeType())
		case err != nil:
			l.summary.recordFailed(processor.NodeType())
			slog.ErrorContext(
				ctx, "failed to load node",
				"type", processor.NodeType(),
				"url", nodeURL,
				"err", err,
			)
		default:
			l.summary.recordProcessed(processor.NodeType())
		}
	}
}
