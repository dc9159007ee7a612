package errors

import "net/http"

var (
	ErrNotFound            = newKind(KindNotFound, "not found", http.StatusNotFound)
	ErrForbidden           = newKind(KindForbidden, "forbidden", http.StatusForbidden)
	ErrConflict            = newKind(KindConflict, "conflict", http.StatusConflict)
	ErrValidation          = newKind(KindValidation, "validation failed", http.StatusUnprocessableEntity)
	ErrUpstreamUnavailable = newKind(KindUpstreamUnavailable, "upstream service unavailable", http.StatusServiceUnavailable)
	ErrInternal            = newKind(KindInternal, "internal error", http.StatusInternalServerError)
)
