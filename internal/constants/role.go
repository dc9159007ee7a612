package constants

type Role string

const (
	RoleAnalyst       Role = "analyst"
	RoleResponsible   Role = "responsible"
	RoleSupervisorOps Role = "supervisor_ops"
	RoleSupervisor    Role = "supervisor"
)

var roleRank = map[Role]int{
	RoleAnalyst:       1,
	RoleResponsible:   2,
	RoleSupervisorOps: 3,
	RoleSupervisor:    4,
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast compares roles along the permission hierarchy.
func (r Role) AtLeast(other Role) bool {
	return roleRank[r] >= roleRank[other] && roleRank[r] > 0
}
