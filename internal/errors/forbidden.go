package errors

import "net/http"

var ErrOperationForbidden = &Exception{
	Kind:       KindForbidden,
	Message:    "operation not allowed for this role",
	StatusCode: http.StatusForbidden,
}

var ErrNotTaskCollaborator = &Exception{
	Kind:       KindForbidden,
	Message:    "task is neither owned by you nor shared with an active session of yours",
	StatusCode: http.StatusForbidden,
}
