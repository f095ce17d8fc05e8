package rdf

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	ld "github.com/piprate/json-gold/ld"
)

const defaultGraphName = "@default"

// TripleGraphEngine builds the default graph of a decoded JSON-LD document.
type TripleGraphEngine interface {
	BuildGraph(ctx context.Context, doc any, base string) (*Graph, error)
}

// QuadEngine converts a decoded JSON-LD document into its full quad set.
// Quads in the default graph have a nil graph name.
type QuadEngine interface {
	ToQuads(ctx context.Context, doc any, base string) ([]Quad, error)
}

// GoldEngine implements TripleGraphEngine and QuadEngine on json-gold.
// Documents are always passed decoded, so json-gold never dereferences the
// input itself; only @context references go through the document loader.
type GoldEngine struct {
	loader         ld.DocumentLoader
	processingMode string
}

// NewGoldEngine returns a json-gold backed engine. A nil loader uses a fresh
// caching HTTP loader per call.
func NewGoldEngine(loader ld.DocumentLoader) *GoldEngine {
	return &GoldEngine{loader: loader, processingMode: "json-ld-1.1"}
}

// BuildGraph returns the triples of the default graph.
func (e *GoldEngine) BuildGraph(ctx context.Context, doc any, base string) (*Graph, error) {
	dataset, err := e.toDataset(ctx, doc, base)
	if err != nil {
		return nil, err
	}
	graph := NewGraph()
	for _, quad := range dataset.Graphs[defaultGraphName] {
		q, err := quadFromGold(quad, nil)
		if err != nil {
			return nil, err
		}
		if err := graph.add(q.ToTriple()); err != nil {
			return nil, err
		}
	}
	return graph, nil
}

// ToQuads returns every quad, default graph first, then named graphs ordered by
// name. Order within a graph is the engine's emission order.
func (e *GoldEngine) ToQuads(ctx context.Context, doc any, base string) ([]Quad, error) {
	dataset, err := e.toDataset(ctx, doc, base)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(dataset.Graphs))
	for name := range dataset.Graphs {
		if name != defaultGraphName {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	names = append([]string{defaultGraphName}, names...)

	var quads []Quad
	for _, name := range names {
		graphName := graphTerm(name)
		for _, quad := range dataset.Graphs[name] {
			q, err := quadFromGold(quad, graphName)
			if err != nil {
				return nil, err
			}
			quads = append(quads, q)
		}
	}
	return quads, nil
}

func (e *GoldEngine) toDataset(ctx context.Context, doc any, base string) (dataset *ld.RDFDataset, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			dataset = nil
			err = fmt.Errorf("jsonld: engine panic: %v", r)
		}
	}()
	proc := ld.NewJsonLdProcessor()
	result, err := proc.ToRDF(doc, e.options(ctx, base))
	if err != nil {
		return nil, err
	}
	dataset, ok := result.(*ld.RDFDataset)
	if !ok {
		return nil, fmt.Errorf("jsonld: unexpected ToRDF result %T", result)
	}
	return dataset, nil
}

func (e *GoldEngine) options(ctx context.Context, base string) *ld.JsonLdOptions {
	opts := ld.NewJsonLdOptions(base)
	if e.processingMode != "" {
		opts.ProcessingMode = e.processingMode
	}
	loader := e.loader
	if loader == nil {
		loader = ld.NewCachingDocumentLoader(ld.NewDefaultDocumentLoader(nil))
	}
	opts.DocumentLoader = contextDocumentLoader{ctx: ctx, inner: loader}
	return opts
}

type remoteContextsKey struct{}

// withRemoteContextsDisabled marks ctx so engine loads of remote contexts are
// refused, including references nested in inline context maps.
func withRemoteContextsDisabled(ctx context.Context) context.Context {
	return context.WithValue(ctx, remoteContextsKey{}, true)
}

func remoteContextsDisabled(ctx context.Context) bool {
	disabled, _ := ctx.Value(remoteContextsKey{}).(bool)
	return disabled
}

var errRemoteContextRefused = errors.New("jsonld: remote context loading is disabled")

// contextDocumentLoader stops remote loads once ctx is done or when remote
// contexts are disabled for the call.
type contextDocumentLoader struct {
	ctx   context.Context
	inner ld.DocumentLoader
}

func (l contextDocumentLoader) LoadDocument(iri string) (*ld.RemoteDocument, error) {
	if err := l.ctx.Err(); err != nil {
		return nil, err
	}
	if remoteContextsDisabled(l.ctx) {
		return nil, fmt.Errorf("%w: %s", errRemoteContextRefused, iri)
	}
	return l.inner.LoadDocument(iri)
}

func graphTerm(name string) Term {
	if name == defaultGraphName || name == "" {
		return nil
	}
	if strings.HasPrefix(name, "_:") {
		return BlankNode{ID: strings.TrimPrefix(name, "_:")}
	}
	return IRI{Value: name}
}

func quadFromGold(quad *ld.Quad, graph Term) (Quad, error) {
	if quad == nil {
		return Quad{}, fmt.Errorf("jsonld: invalid quad in dataset")
	}
	s, err := termFromGold(quad.Subject)
	if err != nil {
		return Quad{}, err
	}
	p, err := termFromGold(quad.Predicate)
	if err != nil {
		return Quad{}, err
	}
	pred, ok := p.(IRI)
	if !ok {
		return Quad{}, fmt.Errorf("jsonld: predicate %s is not an IRI", p)
	}
	o, err := termFromGold(quad.Object)
	if err != nil {
		return Quad{}, err
	}
	return Quad{S: s, P: pred, O: o, G: graph}, nil
}

func termFromGold(node ld.Node) (Term, error) {
	switch n := node.(type) {
	case ld.IRI:
		return IRI{Value: n.Value}, nil
	case *ld.IRI:
		return IRI{Value: n.Value}, nil
	case ld.BlankNode:
		return BlankNode{ID: strings.TrimPrefix(n.Attribute, "_:")}, nil
	case *ld.BlankNode:
		return BlankNode{ID: strings.TrimPrefix(n.Attribute, "_:")}, nil
	case ld.Literal:
		return literalFromGold(n.Value, n.Datatype, n.Language), nil
	case *ld.Literal:
		return literalFromGold(n.Value, n.Datatype, n.Language), nil
	case nil:
		return nil, fmt.Errorf("jsonld: missing term")
	default:
		return nil, fmt.Errorf("jsonld: unsupported node %T", node)
	}
}

func literalFromGold(value, datatype, language string) Literal {
	lit := Literal{Lexical: value, Lang: language}
	if language == "" && datatype != "" {
		lit.Datatype = IRI{Value: datatype}
	}
	return lit
}
