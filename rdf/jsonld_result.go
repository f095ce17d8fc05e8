package rdf

const (
	// FormatNameJSONLD is the format name reported by the JSON-LD handler.
	FormatNameJSONLD = "json-ld"
	parserID         = "jsonld_handler"
)

// Metadata describes a parse result.
type Metadata struct {
	Parser        string        `json:"parser" yaml:"parser"`
	Format        string        `json:"format" yaml:"format"`
	ResourceCount int           `json:"resource_count" yaml:"resource_count"`
	Context       any           `json:"context" yaml:"context"`
	NamedGraphs   NamedGraphMap `json:"named_graphs" yaml:"named_graphs"`
}

// Map returns the metadata keyed the way it is serialized.
func (m Metadata) Map() map[string]any {
	return map[string]any{
		"parser":         m.Parser,
		"format":         m.Format,
		"resource_count": m.ResourceCount,
		"context":        m.Context,
		"named_graphs":   m.NamedGraphs,
	}
}

// ParsedResult is the immutable outcome of a successful parse.
type ParsedResult struct {
	graph      *Graph
	rawContent string
	metadata   Metadata
}

// Graph returns the default graph. Callers must not modify it.
func (r *ParsedResult) Graph() *Graph { return r.graph }

// Format always returns "json-ld".
func (r *ParsedResult) Format() string { return FormatNameJSONLD }

// RawContent returns the input exactly as given.
func (r *ParsedResult) RawContent() string { return r.rawContent }

// Metadata returns a copy of the result metadata.
func (r *ParsedResult) Metadata() Metadata {
	m := r.metadata
	m.Context = cloneJSONValue(m.Context)
	m.NamedGraphs = m.NamedGraphs.clone()
	return m
}

// assemble builds the result. contextValue is stored as decoded, without
// normalization.
func assemble(graph *Graph, rawContent string, contextValue any, namedGraphs NamedGraphMap) *ParsedResult {
	if graph == nil {
		graph = NewGraph()
	}
	if namedGraphs == nil {
		namedGraphs = NamedGraphMap{}
	}
	return &ParsedResult{
		graph:      graph,
		rawContent: rawContent,
		metadata: Metadata{
			Parser:        parserID,
			Format:        FormatNameJSONLD,
			ResourceCount: graph.SubjectCount(),
			Context:       contextValue,
			NamedGraphs:   namedGraphs,
		},
	}
}

// cloneJSONValue deep-copies a value produced by encoding/json.
func cloneJSONValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = cloneJSONValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneJSONValue(item)
		}
		return out
	default:
		return v
	}
}
