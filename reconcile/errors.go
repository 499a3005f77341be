package reconcile

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a reconciliation attempt stopped. The HTTP
// layer maps kinds to status classes; the engine itself only produces
// the {success, message} result shape.
type FailureKind int

const (
	KindNone FailureKind = iota
	KindInput
	KindNotFound
	KindDuplicate
	KindUpstream
	KindNoTransactions
	KindNoMatch
	KindInternal
)

// Sentinel errors the stores translate their backend errors into, so the
// engine never depends on a specific database driver.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Error carries a failure kind together with provider/operation context.
type Error struct {
	Kind    FailureKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(kind FailureKind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// upstreamErr marks a failure talking to a provider: bad credentials,
// network trouble, or a malformed response.
func upstreamErr(provider, msg string, err error) *Error {
	return wrap(KindUpstream, fmt.Sprintf("%s: %s", provider, msg), err)
}
