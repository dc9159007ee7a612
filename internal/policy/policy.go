// Package policy holds the role-based authorization table evaluated once per
// request by the services.
package policy

import (
	"ops-portal.com/ops-portal/internal/constants"
)

type Operation string

const (
	OpCreateTask          Operation = "create_task"
	OpUpdateTask          Operation = "update_task"
	OpToggleChecklist     Operation = "toggle_checklist_item"
	OpCommentTask         Operation = "comment_task"
	OpCreateIncident      Operation = "create_incident"
	OpUpdateIncident      Operation = "update_incident"
	OpUpdateIncidentState Operation = "update_incident_state"
	OpClaimIncident       Operation = "claim_incident"
	OpCommentIncident     Operation = "comment_incident"
	OpCoverageReport      Operation = "coverage_report"
	OpSubmitOvertime      Operation = "submit_overtime_validations"
	OpQueryOvertime       Operation = "query_overtime"
	OpListPendingOvertime Operation = "list_pending_overtime"
)

type Decision int

const (
	Denied Decision = iota
	AllowedIfOwner
	Allowed
)

func (d Decision) String() string {
	switch d {
	case AllowedIfOwner:
		return "allowed-if-owner"
	case Allowed:
		return "allowed"
	default:
		return "denied"
	}
}

type Actor struct {
	ID   string
	Role constants.Role
}

var (
	everyone    = rolesFrom(constants.RoleAnalyst, Allowed)
	ownerOnly   = overrides(rolesFrom(constants.RoleResponsible, Allowed), constants.RoleAnalyst, AllowedIfOwner)
	responsible = rolesFrom(constants.RoleResponsible, Allowed)
	supervisors = rolesFrom(constants.RoleSupervisorOps, Allowed)
)

var table = map[Operation]map[constants.Role]Decision{
	OpCreateTask:          everyone,
	OpUpdateTask:          ownerOnly,
	OpToggleChecklist:     ownerOnly,
	OpCommentTask:         ownerOnly,
	OpCreateIncident:      everyone,
	OpUpdateIncident:      ownerOnly,
	OpUpdateIncidentState: ownerOnly,
	OpClaimIncident:       everyone,
	OpCommentIncident:     everyone,
	OpCoverageReport:      everyone,
	OpSubmitOvertime:      supervisors,
	OpQueryOvertime:       responsible,
	OpListPendingOvertime: responsible,
}

// Decide returns Denied for unknown operations and roles.
func Decide(op Operation, role constants.Role) Decision {
	return table[op][role]
}

func rolesFrom(minimum constants.Role, decision Decision) map[constants.Role]Decision {
	decisions := make(map[constants.Role]Decision, 4)
	for _, role := range []constants.Role{
		constants.RoleAnalyst,
		constants.RoleResponsible,
		constants.RoleSupervisorOps,
		constants.RoleSupervisor,
	} {
		if role.AtLeast(minimum) {
			decisions[role] = decision
		}
	}
	return decisions
}

func overrides(base map[constants.Role]Decision, role constants.Role, decision Decision) map[constants.Role]Decision {
	merged := make(map[constants.Role]Decision, len(base)+1)
	for r, d := range base {
		merged[r] = d
	}
	merged[role] = decision
	return merged
}
