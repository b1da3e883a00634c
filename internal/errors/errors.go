package errors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindInvalidCropRegion       Kind = "invalid_crop_region"
	KindUnsupportedSourceFormat Kind = "unsupported_source_format"
	KindSourceTooLarge          Kind = "source_too_large"
	KindSourceTooSmall          Kind = "source_too_small"
	KindEncodingFailed          Kind = "encoding_failed"
	KindWorkerTransport         Kind = "worker_transport"
	KindBatchCancelled          Kind = "batch_cancelled"
	KindInvalidInput            Kind = "invalid_input"
	KindConfig                  Kind = "config"
	KindIO                      Kind = "io"
	KindUnknown                 Kind = "unknown"
)

// Sentinels match any *Error of the same kind through errors.Is.
var (
	ErrInvalidCropRegion       = &Error{Kind: KindInvalidCropRegion, Message: "invalid crop region"}
	ErrUnsupportedSourceFormat = &Error{Kind: KindUnsupportedSourceFormat, Message: "unsupported source format"}
	ErrSourceTooLarge          = &Error{Kind: KindSourceTooLarge, Message: "source too large"}
	ErrSourceTooSmall          = &Error{Kind: KindSourceTooSmall, Message: "source too small"}
	ErrEncodingFailed          = &Error{Kind: KindEncodingFailed, Message: "encoding failed"}
	ErrWorkerTransport         = &Error{Kind: KindWorkerTransport, Message: "worker transport error"}
	ErrBatchCancelled          = &Error{Kind: KindBatchCancelled, Message: "batch cancelled"}
	ErrInvalidInput            = &Error{Kind: KindInvalidInput, Message: "invalid input"}
)

type Error struct {
	Kind    Kind
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Op == "" {
		if e.Cause != nil {
			return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
		}
		return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Kind, e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Kind, e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Op != "" || t.Cause != nil {
		return e == t
	}
	return t.Kind == e.Kind
}

func Wrap(kind Kind, op, message string, err error) *Error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}

	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
		Cause:   err,
	}
}

func New(kind Kind, op, message string) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
	}
}

// Newf is New with a formatted message.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return New(kind, op, fmt.Sprintf(format, args...))
}

// IsKind checks whether any error in the chain matches the provided kind.
func IsKind(err error, kind Kind) bool {
	var target *Error
	if errors.As(err, &target) {
		return target.Kind == kind
	}
	return false
}

// KindOf returns the kind of the first typed error in the chain.
func KindOf(err error) Kind {
	var target *Error
	if errors.As(err, &target) {
		return target.Kind
	}
	return KindUnknown
}
