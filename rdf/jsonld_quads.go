package rdf

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// ObjectKind tags an ObjectTerm.
type ObjectKind uint8

const (
	// ObjectIRI is an IRI reference (blank node identifiers included).
	ObjectIRI ObjectKind = iota + 1
	// ObjectPlainLiteral is a language-tagged literal.
	ObjectPlainLiteral
	// ObjectTypedLiteral is a literal with a datatype. Plain JSON strings carry
	// xsd:string.
	ObjectTypedLiteral
)

func (k ObjectKind) String() string {
	switch k {
	case ObjectIRI:
		return "iri"
	case ObjectPlainLiteral:
		return "plain"
	case ObjectTypedLiteral:
		return "typed"
	default:
		return "unknown"
	}
}

// ObjectTerm is the object of a named graph quad. Exactly one of the variants
// is set, as reported by Kind.
type ObjectTerm struct {
	kind     ObjectKind
	value    string
	language string
	datatype string
}

// IRIRef returns an IRI object term.
func IRIRef(iri string) ObjectTerm {
	return ObjectTerm{kind: ObjectIRI, value: iri}
}

// PlainLiteral returns a language-tagged object term.
func PlainLiteral(value, language string) ObjectTerm {
	return ObjectTerm{kind: ObjectPlainLiteral, value: value, language: language}
}

// TypedLiteral returns a datatyped object term.
func TypedLiteral(value, datatype string) ObjectTerm {
	return ObjectTerm{kind: ObjectTypedLiteral, value: value, datatype: datatype}
}

// Kind returns the variant tag.
func (o ObjectTerm) Kind() ObjectKind { return o.kind }

// Value returns the IRI or the lexical form.
func (o ObjectTerm) Value() string { return o.value }

// Language returns the language tag of a plain literal.
func (o ObjectTerm) Language() string { return o.language }

// Datatype returns the datatype IRI of a typed literal.
func (o ObjectTerm) Datatype() string { return o.datatype }

// MarshalJSON encodes IRIs as bare strings and literals as
// {"value", "language"} or {"value", "type"} objects.
func (o ObjectTerm) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.export())
}

// MarshalYAML uses the same shape as MarshalJSON.
func (o ObjectTerm) MarshalYAML() (any, error) {
	return o.export(), nil
}

func (o ObjectTerm) export() any {
	switch o.kind {
	case ObjectPlainLiteral:
		return map[string]string{"value": o.value, "language": o.language}
	case ObjectTypedLiteral:
		return map[string]string{"value": o.value, "type": o.datatype}
	default:
		return o.value
	}
}

// NamedGraphQuad is a statement of a named graph; the graph name is the key it
// is stored under in a NamedGraphMap.
type NamedGraphQuad struct {
	Subject   string     `json:"subject" yaml:"subject"`
	Predicate string     `json:"predicate" yaml:"predicate"`
	Object    ObjectTerm `json:"object" yaml:"object"`
}

// NamedGraphMap groups named graph quads by graph name, in extraction order.
type NamedGraphMap map[string][]NamedGraphQuad

func (m NamedGraphMap) clone() NamedGraphMap {
	out := make(NamedGraphMap, len(m))
	for name, quads := range m {
		out[name] = append([]NamedGraphQuad(nil), quads...)
	}
	return out
}

// QuadExtractor collects named graph quads. It is best-effort: failures are
// logged and counted, and the result degrades to an empty map.
type QuadExtractor struct {
	engine  QuadEngine
	logger  *slog.Logger
	metrics *Metrics
}

// NewQuadExtractor returns an extractor delegating to engine.
func NewQuadExtractor(engine QuadEngine, logger *slog.Logger, metrics *Metrics) *QuadExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuadExtractor{engine: engine, logger: logger, metrics: metrics}
}

// Extract returns the named graphs of content. It never fails.
func (x *QuadExtractor) Extract(ctx context.Context, content string, base string) NamedGraphMap {
	graphs, err := x.extract(ctx, content, base)
	if err != nil {
		x.logger.Warn("named graph extraction failed", slog.String("error", err.Error()))
		x.metrics.quadExtractionFailed()
		return NamedGraphMap{}
	}
	return graphs
}

func (x *QuadExtractor) extract(ctx context.Context, content string, base string) (graphs NamedGraphMap, err error) {
	defer func() {
		if r := recover(); r != nil {
			graphs = nil
			err = panicError(r)
		}
	}()
	var doc any
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil, err
	}
	quads, err := x.engine.ToQuads(ctx, doc, base)
	if err != nil {
		return nil, err
	}
	return groupNamedGraphs(quads)
}

// groupNamedGraphs drops default graph quads and groups the rest by graph name.
func groupNamedGraphs(quads []Quad) (NamedGraphMap, error) {
	graphs := NamedGraphMap{}
	for _, q := range quads {
		if q.InDefaultGraph() {
			continue
		}
		if q.S == nil || q.P.Value == "" || q.O == nil {
			return nil, fmt.Errorf("jsonld: malformed quad in graph %s", q.G)
		}
		object, err := classifyObject(q.O)
		if err != nil {
			return nil, err
		}
		name := q.G.String()
		graphs[name] = append(graphs[name], NamedGraphQuad{
			Subject:   q.S.String(),
			Predicate: q.P.Value,
			Object:    object,
		})
	}
	return graphs, nil
}

func classifyObject(term Term) (ObjectTerm, error) {
	switch value := term.(type) {
	case IRI:
		return IRIRef(value.Value), nil
	case BlankNode:
		return IRIRef(value.String()), nil
	case Literal:
		if value.Lang != "" {
			return PlainLiteral(value.Lexical, value.Lang), nil
		}
		datatype := value.Datatype.Value
		if datatype == "" {
			datatype = XSDString
		}
		return TypedLiteral(value.Lexical, datatype), nil
	default:
		return ObjectTerm{}, fmt.Errorf("jsonld: unsupported object term %T", term)
	}
}
