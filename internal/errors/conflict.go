package errors

import "net/http"

var ErrAlreadyAssigned = &Exception{
	Kind:       KindConflict,
	Message:    "incident is already assigned to you",
	StatusCode: http.StatusConflict,
}

var ErrIncidentClosed = &Exception{
	Kind:       KindConflict,
	Message:    "incident is closed, reopen it first",
	StatusCode: http.StatusConflict,
}
