package rdf

import (
	"context"
	"errors"
	"fmt"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeMalformedInput indicates the content is not valid JSON.
	ErrCodeMalformedInput ErrorCode = "MALFORMED_INPUT"
	// ErrCodeMissingContext indicates a JSON document without a top-level @context.
	ErrCodeMissingContext ErrorCode = "MISSING_CONTEXT"
	// ErrCodePolicyViolation indicates a remote @context reference was blocked.
	ErrCodePolicyViolation ErrorCode = "POLICY_VIOLATION"
	// ErrCodeUpstreamFailure indicates the JSON-LD engine failed.
	ErrCodeUpstreamFailure ErrorCode = "UPSTREAM_FAILURE"
	// ErrCodeUnsupportedFormat indicates no handler accepted the content.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeInvalidOptions indicates rejected parse options.
	ErrCodeInvalidOptions ErrorCode = "INVALID_OPTIONS"
	// ErrCodeContextCanceled indicates the context was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
	// ErrCodeUnknown indicates an error produced outside this package.
	ErrCodeUnknown ErrorCode = "UNKNOWN"
)

var (
	// ErrMalformedInput matches MalformedInput parse errors.
	ErrMalformedInput = errors.New("rdf: malformed input")
	// ErrMissingContext matches MissingContext parse errors.
	ErrMissingContext = errors.New("rdf: missing @context")
	// ErrPolicyViolation matches PolicyViolation parse errors.
	ErrPolicyViolation = errors.New("rdf: remote context blocked")
	// ErrUpstreamFailure matches UpstreamFailure parse errors.
	ErrUpstreamFailure = errors.New("rdf: upstream failure")
	// ErrUnsupportedFormat indicates an unsupported format.
	ErrUnsupportedFormat = errors.New("unsupported RDF format")
	// ErrInvalidOptions indicates rejected parse options.
	ErrInvalidOptions = errors.New("rdf: invalid parse options")
)

const (
	missingContextMessage = "Missing @context in JSON-LD"
	upstreamPrefix        = "JSON-LD parsing failed: "
)

// ErrorKind classifies a ParseError.
type ErrorKind uint8

const (
	// KindMalformedInput: the content failed structural decode.
	KindMalformedInput ErrorKind = iota + 1
	// KindMissingContext: the document lacks a top-level @context.
	KindMissingContext
	// KindPolicyViolation: the remote context guard rejected the document.
	KindPolicyViolation
	// KindUpstreamFailure: the delegated engine failed.
	KindUpstreamFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindMalformedInput:
		return "MalformedInput"
	case KindMissingContext:
		return "MissingContext"
	case KindPolicyViolation:
		return "PolicyViolation"
	case KindUpstreamFailure:
		return "UpstreamFailure"
	default:
		return "Unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindMalformedInput:
		return ErrMalformedInput
	case KindMissingContext:
		return ErrMissingContext
	case KindPolicyViolation:
		return ErrPolicyViolation
	case KindUpstreamFailure:
		return ErrUpstreamFailure
	default:
		return nil
	}
}

// ParseError is the single failure type returned by the JSON-LD handler.
// Only UpstreamFailure carries a cause.
type ParseError struct {
	Kind    ErrorKind
	Message string
	// URL is the blocked context reference for PolicyViolation.
	URL string
	Err error
}

func (e *ParseError) Error() string { return e.Message }

func (e *ParseError) Unwrap() error { return e.Err }

// Is matches the sentinel error of the same kind.
func (e *ParseError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

func malformedInputError(err error) error {
	return &ParseError{Kind: KindMalformedInput, Message: "Invalid JSON: " + err.Error()}
}

func missingContextError() error {
	return &ParseError{Kind: KindMissingContext, Message: missingContextMessage}
}

func policyViolationError(url string) error {
	return &ParseError{
		Kind:    KindPolicyViolation,
		Message: fmt.Sprintf("Remote context resolution is disabled ('%s' cannot be fetched)", url),
		URL:     url,
	}
}

// upstreamError normalizes engine failures. Typed kinds pass through unchanged.
func upstreamError(err error) error {
	if err == nil {
		return nil
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr
	}
	return &ParseError{Kind: KindUpstreamFailure, Message: upstreamPrefix + err.Error(), Err: err}
}

// Code returns the error code for an error.
// Returns empty string for nil errors.
func Code(err error) ErrorCode {
	if err == nil {
		return ""
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		switch parseErr.Kind {
		case KindMalformedInput:
			return ErrCodeMalformedInput
		case KindMissingContext:
			return ErrCodeMissingContext
		case KindPolicyViolation:
			return ErrCodePolicyViolation
		case KindUpstreamFailure:
			if errors.Is(parseErr.Err, context.Canceled) || errors.Is(parseErr.Err, context.DeadlineExceeded) {
				return ErrCodeContextCanceled
			}
			return ErrCodeUpstreamFailure
		}
	}

	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return ErrCodeUnsupportedFormat
	case errors.Is(err, ErrInvalidOptions):
		return ErrCodeInvalidOptions
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeContextCanceled
	}
	return ErrCodeUnknown
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("engine panic: %w", err)
	}
	return fmt.Errorf("engine panic: %v", r)
}
