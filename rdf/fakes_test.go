package rdf

import (
	"context"
	"errors"
	"sync/atomic"

	ld "github.com/piprate/json-gold/ld"
)

type fakeTripleEngine struct {
	graph     *Graph
	err       error
	panicWith any
	calls     int
	gotBase   string
	gotDoc    any
}

func (f *fakeTripleEngine) BuildGraph(_ context.Context, doc any, base string) (*Graph, error) {
	f.calls++
	f.gotBase = base
	f.gotDoc = doc
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	return f.graph, f.err
}

type fakeQuadEngine struct {
	quads     []Quad
	err       error
	panicWith any
	calls     int
	gotBase   string
}

func (f *fakeQuadEngine) ToQuads(_ context.Context, _ any, base string) ([]Quad, error) {
	f.calls++
	f.gotBase = base
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	return f.quads, f.err
}

// offlineLoader fails every remote load and counts the attempts.
type offlineLoader struct {
	calls atomic.Int32
}

var errOffline = errors.New("offline")

func (l *offlineLoader) LoadDocument(string) (*ld.RemoteDocument, error) {
	l.calls.Add(1)
	return nil, errOffline
}

func iri(v string) IRI { return IRI{Value: v} }

func graphOf(triples ...Triple) *Graph {
	g := NewGraph()
	for _, t := range triples {
		if err := g.add(t); err != nil {
			panic(err)
		}
	}
	return g
}
