package rdf

import (
	"context"
	"fmt"
	"sync"
)

// FormatHandler is the contract shared by RDF serialization handlers.
type FormatHandler interface {
	// Detect reports whether content is in the handler's format.
	Detect(content string) bool
	// Parse parses content with default options.
	Parse(ctx context.Context, content string) (*ParsedResult, error)
	// ParseWithOptions parses content with explicit options.
	ParseWithOptions(ctx context.Context, content string, opts ParseOptions) (*ParsedResult, error)
	// FormatName returns the handler's format name.
	FormatName() string
}

// Registry manages format handlers. Detection order is registration order.
type Registry struct {
	mu       sync.RWMutex
	handlers map[Format]FormatHandler
	order    []Format
}

// NewRegistry creates a registry with the given handlers.
func NewRegistry(handlers ...FormatHandler) *Registry {
	r := &Registry{handlers: make(map[Format]FormatHandler)}
	for _, h := range handlers {
		r.Register(h)
	}
	return r
}

// Register adds a handler, replacing any handler with the same format name.
func (r *Registry) Register(h FormatHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := Format(h.FormatName())
	if _, ok := r.handlers[name]; !ok {
		r.order = append(r.order, name)
	}
	r.handlers[name] = h
}

// Get returns the handler for a format name, alias or media type.
func (r *Registry) Get(name string) (FormatHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if h, ok := r.handlers[Format(name)]; ok {
		return h, true
	}
	if format, ok := ParseFormat(name); ok {
		h, ok := r.handlers[format]
		return h, ok
	}
	return nil, false
}

// Detect returns the first handler that accepts content.
func (r *Registry) Detect(content string) (FormatHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range r.order {
		if h := r.handlers[name]; h.Detect(content) {
			return h, true
		}
	}
	return nil, false
}

// Parse detects the format of content and parses it.
func (r *Registry) Parse(ctx context.Context, content string, opts ParseOptions) (*ParsedResult, error) {
	h, ok := r.Detect(content)
	if !ok {
		return nil, fmt.Errorf("%w: no handler accepted the content", ErrUnsupportedFormat)
	}
	return h.ParseWithOptions(ctx, content, opts)
}

// Formats returns the registered format names in registration order.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, string(name))
	}
	return out
}
