package errors

import "net/http"

var ErrCampaignNotFound = &Exception{
	Kind:       KindNotFound,
	Message:    "campaign not found",
	StatusCode: http.StatusNotFound,
}

var ErrAnalystNotFound = &Exception{
	Kind:       KindNotFound,
	Message:    "analyst not found",
	StatusCode: http.StatusNotFound,
}

var ErrIncidentNotFound = &Exception{
	Kind:       KindNotFound,
	Message:    "incident not found",
	StatusCode: http.StatusNotFound,
}

var ErrNoActiveSession = &Exception{
	Kind:       KindNotFound,
	Message:    "no active session for this campaign",
	StatusCode: http.StatusNotFound,
}
