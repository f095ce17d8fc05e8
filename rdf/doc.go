// Package rdf ingests JSON-LD documents into an RDF default graph plus named graphs.
//
// Copyright 2026 Geoknoesis LLC (www.geoknoesis.com)
//
// Author: Stephane Fellah (stephanef@geoknoesis.com)
// Geosemantic-AI expert with 30 years of experience
//
// The package is built around a format handler:
//   - Detect: JSONLDHandler.Detect() decides from the top-level keys whether text is JSON-LD.
//   - Parse: JSONLDHandler.Parse() and ParseWithOptions() return an immutable ParsedResult.
//   - Registry: Registry dispatches content to the first handler that detects it.
//
// JSON-LD processing is delegated to json-gold through two narrow engines,
// TripleGraphEngine for the default graph and QuadEngine for named graphs, so
// the pipeline can be exercised with fakes.
//
// Example:
//
//	h := rdf.NewJSONLDHandler()
//	if !h.Detect(input) {
//	    // not JSON-LD
//	}
//	res, err := h.ParseWithOptions(ctx, input, rdf.ParseOptions{DisableRemoteContexts: true})
//	if err != nil {
//	    switch rdf.Code(err) {
//	    case rdf.ErrCodePolicyViolation:
//	        // the document references a remote @context
//	    }
//	}
//	for _, t := range res.Graph().Triples() {
//	    // process t.S, t.P, t.O
//	}
//	for graph, quads := range res.Metadata().NamedGraphs {
//	    // quads of the named graph
//	}
//
// Untrusted input should be parsed with DisableRemoteContexts set: the
// document's @context is audited before any processing, and a string context
// (or a string entry of a context list) that is an http(s) URL fails the parse
// with a PolicyViolation. Inline context maps are not audited; a remote
// reference inside one (a scoped context on a term, say) is refused by the
// default engines' document loader and fails the parse as an UpstreamFailure.
// Engines supplied through WithTripleEngine or WithQuadEngine must enforce
// this themselves.
//
// Named graph extraction is best-effort. When it fails the result still
// carries the default graph, Metadata().NamedGraphs is empty, and the failure
// is logged and counted in Metrics.
package rdf
