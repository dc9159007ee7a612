package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindForbidden           Kind = "forbidden"
	KindConflict            Kind = "conflict"
	KindValidation          Kind = "validation"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindInternal            Kind = "internal"
)

type Exception struct {
	Kind       Kind
	Message    string
	StatusCode int

	generic bool
}

func (e *Exception) Error() string {
	return e.Message
}

// Is lets a specific exception match the generic sentinel of its kind, so
// errors.Is(ErrTaskNotFound, ErrNotFound) holds.
func (e *Exception) Is(target error) bool {
	t, ok := target.(*Exception)
	if !ok {
		return false
	}
	return t.generic && t.Kind == e.Kind
}

func newKind(kind Kind, message string, status int) *Exception {
	return &Exception{Kind: kind, Message: message, StatusCode: status, generic: true}
}

func New(kind Kind, message string) *Exception {
	return &Exception{Kind: kind, Message: message, StatusCode: statusFor(kind)}
}

func Validationf(format string, args ...any) *Exception {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

func Forbiddenf(format string, args ...any) *Exception {
	return New(KindForbidden, fmt.Sprintf(format, args...))
}

func Conflictf(format string, args ...any) *Exception {
	return New(KindConflict, fmt.Sprintf(format, args...))
}

func statusFor(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindUpstreamUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// KindOf returns the taxonomy label used in logs and error payloads.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
