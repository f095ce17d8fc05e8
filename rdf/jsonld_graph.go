package rdf

import (
	"context"
	"encoding/json"
)

// decodeDocument decodes content and returns the top-level object together with
// its @context value. Presence of @context is checked, never its value.
func decodeDocument(content string) (map[string]any, any, error) {
	var decoded any
	if err := json.Unmarshal([]byte(content), &decoded); err != nil {
		return nil, nil, malformedInputError(err)
	}
	doc, ok := decoded.(map[string]any)
	if !ok {
		return nil, nil, missingContextError()
	}
	ctxValue, ok := doc["@context"]
	if !ok {
		return nil, nil, missingContextError()
	}
	return doc, ctxValue, nil
}

// GraphBuilder produces the default-graph triple store. It is the primary
// path of a parse: every failure is reported.
type GraphBuilder struct {
	engine TripleGraphEngine
}

// NewGraphBuilder returns a builder delegating to engine.
func NewGraphBuilder(engine TripleGraphEngine) *GraphBuilder {
	return &GraphBuilder{engine: engine}
}

// Build validates content and delegates triple generation to the engine.
// MalformedInput and MissingContext are returned as is; any engine failure
// becomes UpstreamFailure with the original error as cause.
func (b *GraphBuilder) Build(ctx context.Context, content string, base string) (graph *Graph, err error) {
	doc, _, err := decodeDocument(content)
	if err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			graph = nil
			err = upstreamError(panicError(r))
		}
	}()
	graph, err = b.engine.BuildGraph(ctx, doc, base)
	if err != nil {
		return nil, upstreamError(err)
	}
	if graph == nil {
		graph = NewGraph()
	}
	return graph, nil
}
