package rdf

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOfflineHandler(opts ...HandlerOption) *JSONLDHandler {
	return NewJSONLDHandler(append([]HandlerOption{WithDocumentLoader(&offlineLoader{})}, opts...)...)
}

func TestJSONLDHandler_ParseMinimalDocument(t *testing.T) {
	input := `{"@context": {"ex": "http://example.org/"}, "@id": "http://example.org/thing"}`
	h := newOfflineHandler()

	assert.True(t, h.Detect(input))
	res, err := h.Parse(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, "json-ld", res.Format())
	assert.Equal(t, "json-ld", h.FormatName())
	assert.Equal(t, input, res.RawContent())
	md := res.Metadata()
	assert.Equal(t, "jsonld_handler", md.Parser)
	assert.Equal(t, "json-ld", md.Format)
	assert.Equal(t, map[string]any{"ex": "http://example.org/"}, md.Context)
	assert.NotNil(t, md.NamedGraphs)
	assert.Empty(t, md.NamedGraphs)
	assert.Equal(t, res.Graph().SubjectCount(), md.ResourceCount)
}

func TestJSONLDHandler_MissingContext(t *testing.T) {
	inputs := map[string]string{
		"plain object":  `{"name": "test"}`,
		"top array":     `[{"@context": {"ex": "http://example.org/"}, "@id": "http://example.org/a"}]`,
		"scalar":        `42`,
		"null":          `null`,
		"nested only":   `{"data": {"@context": {}}}`,
		"case mismatch": `{"@Context": {"ex": "http://example.org/"}}`,
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			engine := &fakeTripleEngine{}
			h := NewJSONLDHandler(WithTripleEngine(engine), WithQuadEngine(&fakeQuadEngine{}))

			_, err := h.Parse(context.Background(), input)
			require.Error(t, err)
			assert.Equal(t, "Missing @context in JSON-LD", err.Error())
			assert.ErrorIs(t, err, ErrMissingContext)
			assert.NotErrorIs(t, err, ErrUpstreamFailure)
			assert.Nil(t, errors.Unwrap(err))
			assert.Zero(t, engine.calls)
		})
	}
	assert.False(t, Detect(`{"name": "test"}`))
}

func TestJSONLDHandler_MalformedInput(t *testing.T) {
	for _, input := range []string{`{not json}`, ``, `{"@context": {}`, `<?xml version="1.0"?><root/>`} {
		t.Run(input, func(t *testing.T) {
			_, err := newOfflineHandler().Parse(context.Background(), input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedInput)
			assert.Contains(t, err.Error(), "Invalid JSON: ")
			assert.Nil(t, errors.Unwrap(err))

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, KindMalformedInput, parseErr.Kind)
		})
	}
}

func TestJSONLDHandler_ContextEchoedVerbatim(t *testing.T) {
	contexts := []string{
		`{"ex": "http://example.org/", "n": {"@id": "http://example.org/n", "@type": "http://www.w3.org/2001/XMLSchema#integer"}}`,
		`[{"ex": "http://example.org/"}, {"@vocab": "http://example.org/vocab#"}]`,
		`{"@version": 1.1, "ex": "http://example.org/"}`,
		`null`,
	}
	for _, raw := range contexts {
		t.Run(raw, func(t *testing.T) {
			input := `{"@context": ` + raw + `, "@id": "http://example.org/thing"}`
			res, err := newOfflineHandler().Parse(context.Background(), input)
			require.NoError(t, err)

			var want any
			require.NoError(t, json.Unmarshal([]byte(raw), &want))
			assert.Equal(t, want, res.Metadata().Context)
		})
	}
}

func TestJSONLDHandler_MetadataIsACopy(t *testing.T) {
	input := `{"@context": {"ex": "http://example.org/"}, "@id": "http://example.org/g", "@graph": [{"@id": "http://example.org/s", "ex:p": "o"}]}`
	res, err := newOfflineHandler().Parse(context.Background(), input)
	require.NoError(t, err)

	md := res.Metadata()
	md.Context.(map[string]any)["ex"] = "changed"
	md.NamedGraphs["http://example.org/other"] = nil
	md.NamedGraphs["http://example.org/g"][0].Subject = "changed"

	again := res.Metadata()
	assert.Equal(t, map[string]any{"ex": "http://example.org/"}, again.Context)
	assert.Len(t, again.NamedGraphs, 1)
	assert.Equal(t, "http://example.org/s", again.NamedGraphs["http://example.org/g"][0].Subject)
}

func TestJSONLDHandler_NamedGraph(t *testing.T) {
	input := `{
		"@context": {"ex": "http://example.org/"},
		"@id": "http://example.org/graph1",
		"@graph": [{"@id": "http://example.org/s", "ex:p": "object"}]
	}`
	res, err := newOfflineHandler().Parse(context.Background(), input)
	require.NoError(t, err)

	graphs := res.Metadata().NamedGraphs
	require.Contains(t, graphs, "http://example.org/graph1")
	quads := graphs["http://example.org/graph1"]
	require.Len(t, quads, 1)
	assert.Equal(t, "http://example.org/s", quads[0].Subject)
	assert.Equal(t, "http://example.org/p", quads[0].Predicate)
	assert.Equal(t, TypedLiteral("object", XSDString), quads[0].Object)
}

func TestJSONLDHandler_MultipleNamedGraphsAndObjectKinds(t *testing.T) {
	input := `{
		"@context": {"ex": "http://example.org/", "xsd": "http://www.w3.org/2001/XMLSchema#"},
		"@graph": [
			{
				"@id": "http://example.org/graph1",
				"@graph": [{"@id": "http://example.org/s1", "ex:knows": {"@id": "http://example.org/o"}}]
			},
			{
				"@id": "http://example.org/graph2",
				"@graph": [
					{"@id": "http://example.org/s2", "ex:label": {"@value": "hallo", "@language": "de"}},
					{"@id": "http://example.org/s3", "ex:count": {"@value": "42", "@type": "xsd:integer"}}
				]
			}
		]
	}`
	res, err := newOfflineHandler().Parse(context.Background(), input)
	require.NoError(t, err)

	graphs := res.Metadata().NamedGraphs
	require.Len(t, graphs, 2)

	g1 := graphs["http://example.org/graph1"]
	require.Len(t, g1, 1)
	assert.Equal(t, IRIRef("http://example.org/o"), g1[0].Object)

	kinds := map[ObjectKind]ObjectTerm{}
	for _, q := range graphs["http://example.org/graph2"] {
		kinds[q.Object.Kind()] = q.Object
	}
	assert.Equal(t, PlainLiteral("hallo", "de"), kinds[ObjectPlainLiteral])
	assert.Equal(t, TypedLiteral("42", "http://www.w3.org/2001/XMLSchema#integer"), kinds[ObjectTypedLiteral])
}

func TestJSONLDHandler_DefaultGraphResources(t *testing.T) {
	input := `{
		"@context": {"ex": "http://example.org/"},
		"@graph": [
			{"@id": "http://example.org/default-resource", "ex:name": "test"},
			{"@id": "http://example.org/other", "ex:name": "a", "ex:alias": "b"}
		]
	}`
	res, err := newOfflineHandler().Parse(context.Background(), input)
	require.NoError(t, err)

	var subjects []string
	for _, r := range res.Graph().Resources() {
		subjects = append(subjects, r.String())
	}
	assert.ElementsMatch(t, []string{"http://example.org/default-resource", "http://example.org/other"}, subjects)
	assert.Equal(t, 2, res.Metadata().ResourceCount)
	assert.Equal(t, 3, res.Graph().Len())
	assert.Empty(t, res.Metadata().NamedGraphs)
}

func TestJSONLDHandler_BaseIRI(t *testing.T) {
	tests := []struct {
		name string
		id   string
		base string
		want string
	}{
		{name: "relative id", id: "resource1", base: "http://example.org/", want: "http://example.org/resource1"},
		{name: "fragment", id: "#fragment", base: "http://example.org/doc", want: "http://example.org/doc#fragment"},
		{name: "absolute ignores base", id: "http://example.org/Absolute", base: "http://other.org/", want: "http://example.org/Absolute"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := `{"@context": {"ex": "http://example.org/"}, "@id": "` + tt.id + `", "@type": "ex:Thing"}`
			res, err := newOfflineHandler().ParseWithOptions(context.Background(), input, ParseOptions{Base: tt.base})
			require.NoError(t, err)

			require.Len(t, res.Graph().Resources(), 1)
			assert.Equal(t, tt.want, res.Graph().Resources()[0].String())
		})
	}
}

func TestJSONLDHandler_UpstreamFailureWrapsCause(t *testing.T) {
	cause := errors.New("engine exploded")
	h := NewJSONLDHandler(WithTripleEngine(&fakeTripleEngine{err: cause}), WithQuadEngine(&fakeQuadEngine{}))

	_, err := h.Parse(context.Background(), `{"@context": {}, "@id": "http://example.org/a"}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamFailure)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "JSON-LD parsing failed: engine exploded", err.Error())
	assert.Equal(t, ErrCodeUpstreamFailure, Code(err))
}

func TestJSONLDHandler_EnginePanicBecomesUpstreamFailure(t *testing.T) {
	h := NewJSONLDHandler(WithTripleEngine(&fakeTripleEngine{panicWith: "bad state"}), WithQuadEngine(&fakeQuadEngine{}))

	_, err := h.Parse(context.Background(), `{"@context": {}}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamFailure)
	assert.Contains(t, err.Error(), "bad state")
}

func TestJSONLDHandler_ExtractionFailureKeepsPrimaryResult(t *testing.T) {
	s := iri("http://example.org/s")
	graph := graphOf(Triple{S: s, P: iri("http://example.org/p"), O: Literal{Lexical: "v"}})
	h := NewJSONLDHandler(
		WithTripleEngine(&fakeTripleEngine{graph: graph}),
		WithQuadEngine(&fakeQuadEngine{err: errors.New("quad engine down")}),
	)

	res, err := h.Parse(context.Background(), `{"@context": {}, "@id": "http://example.org/s"}`)
	require.NoError(t, err)
	assert.Same(t, graph, res.Graph())
	assert.Equal(t, 1, res.Metadata().ResourceCount)
	assert.NotNil(t, res.Metadata().NamedGraphs)
	assert.Empty(t, res.Metadata().NamedGraphs)
}

func TestJSONLDHandler_EnginesReceiveDecodedDocumentAndBase(t *testing.T) {
	triples := &fakeTripleEngine{graph: NewGraph()}
	quads := &fakeQuadEngine{}
	h := NewJSONLDHandler(WithTripleEngine(triples), WithQuadEngine(quads))

	_, err := h.ParseWithOptions(context.Background(), `{"@context": "ctx.jsonld", "@id": "a"}`, ParseOptions{Base: "http://example.org/"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"@context": "ctx.jsonld", "@id": "a"}, triples.gotDoc)
	assert.Equal(t, "http://example.org/", triples.gotBase)
	assert.Equal(t, "http://example.org/", quads.gotBase)
	assert.Equal(t, 1, quads.calls)
}

func TestJSONLDHandler_ConcurrentExtraction(t *testing.T) {
	input := `{
		"@context": {"ex": "http://example.org/"},
		"@graph": [
			{"@id": "http://example.org/d", "ex:p": "default"},
			{"@id": "http://example.org/g", "@graph": [{"@id": "http://example.org/s", "ex:p": "named"}]}
		]
	}`
	sequential, err := newOfflineHandler().Parse(context.Background(), input)
	require.NoError(t, err)
	concurrent, err := newOfflineHandler(WithConcurrentExtraction(true)).Parse(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, sequential.Metadata(), concurrent.Metadata())
	assert.Equal(t, sequential.Graph().Triples(), concurrent.Graph().Triples())
}

func TestJSONLDHandler_ConcurrentExtractionPropagatesPrimaryFailure(t *testing.T) {
	h := NewJSONLDHandler(
		WithTripleEngine(&fakeTripleEngine{err: errors.New("down")}),
		WithQuadEngine(&fakeQuadEngine{}),
		WithConcurrentExtraction(true),
	)
	_, err := h.Parse(context.Background(), `{"@context": {}}`)
	assert.ErrorIs(t, err, ErrUpstreamFailure)
}

func TestJSONLDHandler_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newOfflineHandler().Parse(ctx, `{"@context": {}, "@id": "http://example.org/a"}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamFailure)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, ErrCodeContextCanceled, Code(err))
}

func TestJSONLDHandler_DetectionStrategy(t *testing.T) {
	input := `{"tags": ["@id"]}`
	assert.False(t, newOfflineHandler().Detect(input))
	assert.True(t, newOfflineHandler(WithDetectionStrategy(SubstringStrategy{})).Detect(input))
}

func TestParsedResult_GraphCannotChangeResult(t *testing.T) {
	input := `{"@context": {"ex": "http://example.org/"}, "@id": "http://example.org/s", "ex:p": "v"}`
	res, err := newOfflineHandler().Parse(context.Background(), input)
	require.NoError(t, err)

	triples := res.Graph().Triples()
	require.Len(t, triples, 1)
	triples[0].S = iri("http://example.org/other")
	resources := res.Graph().Resources()
	resources[0] = iri("http://example.org/other")

	assert.Equal(t, 1, res.Metadata().ResourceCount)
	assert.Equal(t, res.Metadata().ResourceCount, res.Graph().SubjectCount())
	assert.Equal(t, 1, res.Graph().Len())
	assert.Equal(t, iri("http://example.org/s"), res.Graph().Triples()[0].S)
	assert.Equal(t, []Term{iri("http://example.org/s")}, res.Graph().Resources())
}
