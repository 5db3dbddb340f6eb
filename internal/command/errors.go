package command

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a command string was rejected.
type ErrorKind int

const (
	_ ErrorKind = iota
	KindSyntax
	KindInvalidOperation
	KindInsufficientArguments
	KindUnprocessableArguments
	KindProcessing
)

func (k ErrorKind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindInvalidOperation:
		return "invalid_operation"
	case KindInsufficientArguments:
		return "insufficient_arguments"
	case KindUnprocessableArguments:
		return "unprocessable_arguments"
	case KindProcessing:
		return "processing"
	default:
		return fmt.Sprintf("UNKNOWN KIND %d", int(k))
	}
}

// Sentinels for errors.Is; every *Error matches the sentinel of its kind.
var (
	ErrSyntax                 = &Error{Kind: KindSyntax}
	ErrInvalidOperation       = &Error{Kind: KindInvalidOperation}
	ErrInsufficientArguments  = &Error{Kind: KindInsufficientArguments}
	ErrUnprocessableArguments = &Error{Kind: KindUnprocessableArguments}
	ErrProcessing             = &Error{Kind: KindProcessing}
)

// Error is a rejected command or a failed operation.
type Error struct {
	Kind    ErrorKind
	Token   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Token != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Token)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf reports the kind carried by err, or zero if err is not a command error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func syntaxError(token, format string, args ...any) error {
	return &Error{Kind: KindSyntax, Token: token, Message: fmt.Sprintf(format, args...)}
}

func invalidOperation(token, name string) error {
	return &Error{Kind: KindInvalidOperation, Token: token, Message: fmt.Sprintf("unknown operation %s", name)}
}

func insufficientArguments(token, format string, args ...any) error {
	return &Error{Kind: KindInsufficientArguments, Token: token, Message: fmt.Sprintf(format, args...)}
}

func unprocessableArguments(token string, err error, format string, args ...any) error {
	return &Error{Kind: KindUnprocessableArguments, Token: token, Message: fmt.Sprintf(format, args...), Err: err}
}

// NewProcessingError reports that a validated operation could not be applied to
// the raster it received.
func NewProcessingError(op string, err error) error {
	return &Error{Kind: KindProcessing, Message: fmt.Sprintf("can not apply %s", op), Err: err}
}
