package rdf

import "strings"

// Format identifies RDF serialization formats by the name their handler reports.
type Format string

const (
	FormatTurtle   Format = "turtle"
	FormatTriG     Format = "trig"
	FormatNTriples Format = "ntriples"
	FormatNQuads   Format = "nquads"
	FormatRDFXML   Format = "rdfxml"
	FormatJSONLD   Format = FormatNameJSONLD
)

// ParseFormat normalizes a format name, file extension or media type.
func ParseFormat(value string) (Format, bool) {
	value = strings.ToLower(strings.TrimSpace(strings.Split(value, ";")[0]))
	switch strings.TrimPrefix(value, ".") {
	case "turtle", "ttl", "text/turtle":
		return FormatTurtle, true
	case "trig", "application/trig":
		return FormatTriG, true
	case "ntriples", "nt", "application/n-triples":
		return FormatNTriples, true
	case "nquads", "nq", "application/n-quads":
		return FormatNQuads, true
	case "rdfxml", "rdf", "xml", "application/rdf+xml":
		return FormatRDFXML, true
	case "jsonld", "json-ld", "json", "application/ld+json":
		return FormatJSONLD, true
	default:
		return "", false
	}
}
