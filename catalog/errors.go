package catalog

import (
	"errors"
	"fmt"
)

// Kind classifies a catalog error
type Kind int

const (
	KindUnknown Kind = iota
	KindAuth
	KindNetwork
	KindRejection
	KindPrecondition
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindNetwork:
		return "network"
	case KindRejection:
		return "rejection"
	case KindPrecondition:
		return "precondition"
	default:
		return "unknown"
	}
}

// Sentinel errors for errors.Is checks against a Kind
var (
	ErrAuth         = errors.New("missing or invalid credential")
	ErrNetwork      = errors.New("network failure")
	ErrRejection    = errors.New("rejected by backend")
	ErrPrecondition = errors.New("precondition failed")

	ErrPurchaseInFlight = errors.New("purchase already in flight")
	ErrUploadInFlight   = errors.New("upload already in flight")
	ErrNoPurchaseTarget = errors.New("no ornament awaiting purchase")
	ErrNothingSelected  = errors.New("no ornament selected")
	ErrUnknownOrnament  = errors.New("ornament not found")
)

// Error is the error type returned by catalog operations and collaborators
type Error struct {
	Kind    Kind
	Op      string
	Message string // User-visible message
	Status  int    // Backend HTTP status, if any
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind
func (e *Error) Is(target error) bool {
	switch target {
	case ErrAuth:
		return e.Kind == KindAuth
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrRejection:
		return e.Kind == KindRejection
	case ErrPrecondition:
		return e.Kind == KindPrecondition
	}
	return false
}

// Precondition returns a local validation error that never reaches the network
func Precondition(op, message string) *Error {
	return &Error{Kind: KindPrecondition, Op: op, Message: message}
}

// Network wraps a transport failure
func Network(op string, err error) *Error {
	return &Error{Kind: KindNetwork, Op: op, Message: "request failed", Err: err}
}

// Rejection reports a non-success backend status
func Rejection(op string, status int, message string) *Error {
	if message == "" {
		message = fmt.Sprintf("backend returned status %d", status)
	}
	return &Error{Kind: KindRejection, Op: op, Message: message, Status: status}
}

// Auth reports a missing or refused credential
func Auth(op string, status int) *Error {
	return &Error{Kind: KindAuth, Op: op, Message: "missing or invalid credential", Status: status}
}

// KindOf returns the Kind of err, or KindUnknown
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}

// UserMessage returns the message to surface to the user for err
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ce *Error
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return err.Error()
}
