package rdf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Graph is an in-memory default-graph triple store.
// Triples keep insertion order; duplicates are kept as emitted.
// A Graph is read-only outside this package; the zero value is an empty graph.
type Graph struct {
	triples  []Triple
	subjects []Term
	seen     map[string]struct{}
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{seen: map[string]struct{}{}}
}

// add appends a triple to the graph.
func (g *Graph) add(t Triple) error {
	if t.S == nil || t.P.Value == "" || t.O == nil {
		return fmt.Errorf("graph: missing statement fields")
	}
	if g.seen == nil {
		g.seen = map[string]struct{}{}
	}
	g.triples = append(g.triples, t)
	key := t.S.String()
	if _, ok := g.seen[key]; !ok {
		g.seen[key] = struct{}{}
		g.subjects = append(g.subjects, t.S)
	}
	return nil
}

// Len returns the number of triples.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.triples)
}

// Triples returns a copy of the triples in insertion order.
func (g *Graph) Triples() []Triple {
	if g == nil {
		return nil
	}
	out := make([]Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// Resources returns the distinct subjects in first-seen order.
func (g *Graph) Resources() []Term {
	if g == nil {
		return nil
	}
	out := make([]Term, len(g.subjects))
	copy(out, g.subjects)
	return out
}

// SubjectCount returns the number of distinct subjects.
func (g *Graph) SubjectCount() int {
	if g == nil {
		return 0
	}
	return len(g.subjects)
}

// WriteNTriples serializes the graph as N-Triples.
// Literals typed xsd:string are written as simple literals (RDF 1.1).
func (g *Graph) WriteNTriples(w io.Writer) error {
	writer := bufio.NewWriter(w)
	for _, t := range g.Triples() {
		line := renderTerm(t.S) + " " + renderIRI(t.P) + " " + renderTerm(t.O) + " .\n"
		if _, err := writer.WriteString(line); err != nil {
			return err
		}
	}
	return writer.Flush()
}

func renderIRI(iri IRI) string {
	var b strings.Builder
	b.WriteByte('<')
	for _, r := range iri.Value {
		switch {
		case r <= 0x20, strings.ContainsRune("<>\"{}|^`\\", r):
			fmt.Fprintf(&b, "\\u%04X", r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('>')
	return b.String()
}

func renderTerm(term Term) string {
	switch value := term.(type) {
	case IRI:
		return renderIRI(value)
	case BlankNode:
		return value.String()
	case Literal:
		if value.Lang != "" {
			return quoteLiteral(value.Lexical) + "@" + value.Lang
		}
		if value.Datatype.Value != "" && value.Datatype.Value != XSDString {
			return quoteLiteral(value.Lexical) + "^^" + renderIRI(value.Datatype)
		}
		return quoteLiteral(value.Lexical)
	default:
		return ""
	}
}

// quoteLiteral quotes a lexical form with N-Triples ECHAR escapes. Other
// control characters become UCHAR escapes; everything else is written as UTF-8.
func quoteLiteral(lexical string) string {
	var b strings.Builder
	b.Grow(len(lexical) + 2)
	b.WriteByte('"')
	for _, r := range lexical {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7F {
				fmt.Fprintf(&b, "\\u%04X", r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
