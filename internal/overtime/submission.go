package overtime

import (
	"ops-portal.com/ops-portal/internal/constants"
	model "ops-portal.com/ops-portal/internal/models"
)

type Submission struct {
	RUT            string                    `json:"rut" validate:"required"`
	Date           string                    `json:"date" validate:"required,datetime=2006-01-02"`
	Kind           constants.OvertimeKind    `json:"kind" validate:"required,oneof=before_shift after_shift rest_day"`
	DeclaredHours  float64                   `json:"declared_hours" validate:"gte=0"`
	ApprovedHours  float64                   `json:"approved_hours" validate:"gte=0"`
	State          constants.ValidationState `json:"state" validate:"required,oneof=validated pending_correction"`
	Note           string                    `json:"note"`
	IncorrectShift bool                      `json:"incorrect_shift"`
}

type Action string

const (
	ActionCreateValidated Action = "created"
	ActionUpdateValidated Action = "updated"
	ActionSkip            Action = "skipped"
	ActionConvertPending  Action = "converted"
	ActionClearPending    Action = "cleared"
	ActionCreatePending   Action = "pending"
	ActionUpdatePending   Action = "pending_updated"
	ActionBlocked         Action = "blocked"
)

// Plan decides what a submission does given the validated row for its
// (rut, date, kind) and the pending correction for its (rut, date), either of
// which may be nil.
func Plan(sub Submission, validated, pending *model.OvertimeValidation) Action {
	if sub.State == constants.ValidationPendingCorrection {
		if pending != nil {
			return ActionUpdatePending
		}
		return ActionCreatePending
	}

	if validated != nil && validated.ApprovedHours > 0 {
		return ActionSkip
	}

	if pending != nil {
		switch {
		case sub.ApprovedHours > 0:
			return ActionConvertPending
		case !sub.IncorrectShift:
			return ActionClearPending
		default:
			return ActionBlocked
		}
	}

	if validated != nil {
		return ActionUpdateValidated
	}
	return ActionCreateValidated
}
