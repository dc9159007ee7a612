package errors

import "net/http"

var ErrTaskNotFound = &Exception{
	Kind:       KindNotFound,
	Message:    "task not found",
	StatusCode: http.StatusNotFound,
}

var ErrChecklistItemNotFound = &Exception{
	Kind:       KindNotFound,
	Message:    "checklist item not found",
	StatusCode: http.StatusNotFound,
}
