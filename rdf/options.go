package rdf

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	ld "github.com/piprate/json-gold/ld"
	"gopkg.in/yaml.v3"
)

// ParseOptions configures a single parse. The zero value is the default:
// no base IRI, remote contexts allowed.
type ParseOptions struct {
	// Base resolves relative IRI references in the document.
	Base string `yaml:"base" json:"base"`
	// DisableRemoteContexts rejects documents whose @context references an
	// http(s) URL before any processing happens.
	DisableRemoteContexts bool `yaml:"disableRemoteContexts" json:"disableRemoteContexts"`
}

// Validate checks that Base, when set, is an absolute IRI.
func (o ParseOptions) Validate() error {
	if o.Base == "" {
		return nil
	}
	if err := validateBaseIRI(o.Base); err != nil {
		return fmt.Errorf("%w: base: %v", ErrInvalidOptions, err)
	}
	return nil
}

// LoadParseOptions decodes options from YAML (or JSON). Unknown keys are
// rejected. Empty input yields the defaults.
func LoadParseOptions(r io.Reader) (ParseOptions, error) {
	var opts ParseOptions
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil {
		if errors.Is(err, io.EOF) {
			return ParseOptions{}, nil
		}
		return ParseOptions{}, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if err := opts.Validate(); err != nil {
		return ParseOptions{}, err
	}
	return opts, nil
}

// HandlerOption configures a JSONLDHandler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	logger     *slog.Logger
	metrics    *Metrics
	triples    TripleGraphEngine
	quads      QuadEngine
	loader     ld.DocumentLoader
	detector   DetectionStrategy
	concurrent bool
}

func defaultHandlerConfig() handlerConfig {
	return handlerConfig{
		logger:   slog.Default(),
		detector: KeywordKeyStrategy{},
	}
}

// WithLogger sets the handler logger.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(c *handlerConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records parse outcomes and extraction failures.
func WithMetrics(m *Metrics) HandlerOption {
	return func(c *handlerConfig) {
		c.metrics = m
	}
}

// WithTripleEngine replaces the engine that builds the default graph.
func WithTripleEngine(engine TripleGraphEngine) HandlerOption {
	return func(c *handlerConfig) {
		c.triples = engine
	}
}

// WithQuadEngine replaces the engine that produces quads for named graphs.
func WithQuadEngine(engine QuadEngine) HandlerOption {
	return func(c *handlerConfig) {
		c.quads = engine
	}
}

// WithDocumentLoader sets the loader the default engines use for remote
// @context references.
func WithDocumentLoader(loader ld.DocumentLoader) HandlerOption {
	return func(c *handlerConfig) {
		c.loader = loader
	}
}

// WithDetectionStrategy replaces the content sniffer.
func WithDetectionStrategy(s DetectionStrategy) HandlerOption {
	return func(c *handlerConfig) {
		if s != nil {
			c.detector = s
		}
	}
}

// WithConcurrentExtraction runs named graph extraction alongside graph building.
func WithConcurrentExtraction(enabled bool) HandlerOption {
	return func(c *handlerConfig) {
		c.concurrent = enabled
	}
}
