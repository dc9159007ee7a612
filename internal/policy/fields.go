package policy

import "ops-portal.com/ops-portal/internal/constants"

type TaskField string

const (
	FieldTitle       TaskField = "title"
	FieldDescription TaskField = "description"
	FieldDueAt       TaskField = "due_at"
	FieldProgress    TaskField = "progress"
	FieldOwner       TaskField = "owner_id"
	FieldCampaign    TaskField = "campaign_id"
)

var analystTaskFields = map[TaskField]bool{
	FieldProgress:    true,
	FieldDescription: true,
	FieldOwner:       true,
}

// CanEditTaskField reports whether the role may write the field at all. Plain
// analysts are further restricted to setting the owner to themselves or nil,
// see CanAssignOwner.
func CanEditTaskField(role constants.Role, field TaskField) bool {
	if role.AtLeast(constants.RoleResponsible) {
		return true
	}
	return role == constants.RoleAnalyst && analystTaskFields[field]
}

func CanAssignOwner(actor Actor, owner *string) bool {
	if actor.Role.AtLeast(constants.RoleResponsible) {
		return true
	}
	return owner == nil || *owner == actor.ID
}
