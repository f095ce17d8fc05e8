package rdf

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// JSONLDHandler detects and parses JSON-LD documents.
//
// A parse decodes the content, checks for a top-level @context, optionally
// audits that @context for remote references, then builds the default graph
// and extracts named graphs. Only the default graph is required to succeed.
type JSONLDHandler struct {
	detector   DetectionStrategy
	builder    *GraphBuilder
	extractor  *QuadExtractor
	logger     *slog.Logger
	metrics    *Metrics
	concurrent bool
}

var _ FormatHandler = (*JSONLDHandler)(nil)

// NewJSONLDHandler returns a handler backed by json-gold unless engines are
// supplied through options.
func NewJSONLDHandler(opts ...HandlerOption) *JSONLDHandler {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.triples == nil || cfg.quads == nil {
		engine := NewGoldEngine(cfg.loader)
		if cfg.triples == nil {
			cfg.triples = engine
		}
		if cfg.quads == nil {
			cfg.quads = engine
		}
	}
	return &JSONLDHandler{
		detector:   cfg.detector,
		builder:    NewGraphBuilder(cfg.triples),
		extractor:  NewQuadExtractor(cfg.quads, cfg.logger, cfg.metrics),
		logger:     cfg.logger,
		metrics:    cfg.metrics,
		concurrent: cfg.concurrent,
	}
}

// FormatName returns "json-ld".
func (h *JSONLDHandler) FormatName() string { return FormatNameJSONLD }

// Detect reports whether content looks like JSON-LD.
func (h *JSONLDHandler) Detect(content string) bool {
	return h.detector.Detect(content)
}

// Parse parses content with default options.
func (h *JSONLDHandler) Parse(ctx context.Context, content string) (*ParsedResult, error) {
	return h.ParseWithOptions(ctx, content, ParseOptions{})
}

// ParseWithOptions parses content. Errors are *ParseError values of kind
// MalformedInput, MissingContext, PolicyViolation or UpstreamFailure.
func (h *JSONLDHandler) ParseWithOptions(ctx context.Context, content string, opts ParseOptions) (result *ParsedResult, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	defer func() { h.metrics.observeParse(err) }()

	_, contextValue, err := decodeDocument(content)
	if err != nil {
		return nil, err
	}

	if opts.DisableRemoteContexts {
		if err := AuditContext(contextValue); err != nil {
			if parseErr, ok := err.(*ParseError); ok {
				h.logger.Debug("remote context blocked", slog.String("url", parseErr.URL))
			}
			return nil, err
		}
		ctx = withRemoteContextsDisabled(ctx)
	}

	graph, namedGraphs, err := h.convert(ctx, content, opts.Base)
	if err != nil {
		return nil, err
	}

	result = assemble(graph, content, contextValue, namedGraphs)
	h.logger.Debug("parsed JSON-LD document",
		slog.Int("resources", graph.SubjectCount()),
		slog.Int("triples", graph.Len()),
		slog.Int("named_graphs", len(namedGraphs)))
	return result, nil
}

func (h *JSONLDHandler) convert(ctx context.Context, content, base string) (*Graph, NamedGraphMap, error) {
	if !h.concurrent {
		graph, err := h.builder.Build(ctx, content, base)
		if err != nil {
			return nil, nil, err
		}
		return graph, h.extractor.Extract(ctx, content, base), nil
	}

	var (
		graph       *Graph
		namedGraphs NamedGraphMap
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		graph, err = h.builder.Build(gctx, content, base)
		return err
	})
	g.Go(func() error {
		namedGraphs = h.extractor.Extract(gctx, content, base)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return graph, namedGraphs, nil
}
