package solar

import (
	"errors"
	"fmt"
)

// Kind categorizes an operation failure.
type Kind string

const (
	KindTimeout      Kind = "timeout"
	KindUpstream     Kind = "upstream"
	KindTransport    Kind = "transport"
	KindMalformed    Kind = "malformed"
	KindInvalidInput Kind = "invalid_input"
)

// Sentinel errors for errors.Is checks against an *Error's Kind.
var (
	ErrTimeout      = &Error{Kind: KindTimeout}
	ErrUpstream     = &Error{Kind: KindUpstream}
	ErrTransport    = &Error{Kind: KindTransport}
	ErrMalformed    = &Error{Kind: KindMalformed}
	ErrInvalidInput = &Error{Kind: KindInvalidInput}

	// ErrNoProbeStore is returned by health queries when probing is disabled.
	ErrNoProbeStore = errors.New("provider probing is not configured")
)

// Error is the single failure type surfaced by engine operations.
// StatusCode is set only for KindUpstream.
type Error struct {
	Kind       Kind
	Op         string
	Provider   string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// StatusCodeOf returns the upstream status code carried by err, or 0.
func StatusCodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// Malformed builds a KindMalformed error for provider payloads missing expected fields.
func Malformed(provider, format string, args ...any) *Error {
	return &Error{Kind: KindMalformed, Provider: provider, Err: fmt.Errorf(format, args...)}
}

// InvalidInput builds a KindInvalidInput error.
func InvalidInput(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Err: fmt.Errorf(format, args...)}
}

// withOp tags err with the operation name, keeping the originating kind and status.
func withOp(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		tagged := *e
		if tagged.Op == "" {
			tagged.Op = op
		}
		return &tagged
	}
	return &Error{Kind: KindTransport, Op: op, Err: err}
}
