package constants

type IncidentState string

const (
	IncidentOpen       IncidentState = "OPEN"
	IncidentInProgress IncidentState = "IN_PROGRESS"
	IncidentClosed     IncidentState = "CLOSED"
)

var incidentTransitions = map[IncidentState][]IncidentState{
	IncidentOpen:       {IncidentInProgress, IncidentClosed},
	IncidentInProgress: {IncidentOpen, IncidentClosed},
	IncidentClosed:     {IncidentOpen},
}

func (s IncidentState) Valid() bool {
	_, ok := incidentTransitions[s]
	return ok
}

func (s IncidentState) CanTransitionTo(next IncidentState) bool {
	for _, allowed := range incidentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

func (s Severity) Valid() bool {
	return s == SeverityLow || s == SeverityMedium || s == SeverityHigh
}

type UpdateKind string

const (
	UpdateComment UpdateKind = "comment"
	UpdateChange  UpdateKind = "change"
	UpdateClosure UpdateKind = "closure"
)
