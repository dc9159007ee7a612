package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"

	dto "ops-portal.com/ops-portal/internal/data_models"
	errs "ops-portal.com/ops-portal/internal/errors"
	"ops-portal.com/ops-portal/internal/overtime"
)

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Validate(&dto.CreateIncidentRequest{Title: "x", Severity: "URGENT", Type: "t"})
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.Contains(t, err.Error(), "severity must be one of [LOW MEDIUM HIGH]")
	assert.Contains(t, err.Error(), "campaign_id is required")
}

func TestValidate_DivesIntoSubmissions(t *testing.T) {
	v := New()

	err := v.Validate(&dto.OvertimeValidationsRequest{Validations: []overtime.Submission{{
		RUT: "1-9", Date: "2024/03/04", Kind: "after_shift", State: "validated",
	}}})
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.Contains(t, err.Error(), "validations[0].date")

	err = v.Validate(&dto.OvertimeValidationsRequest{})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestValidate_Passes(t *testing.T) {
	v := New()

	completed := false
	assert.NoError(t, v.Validate(&dto.ToggleChecklistItemRequest{Completed: &completed}))
	assert.Error(t, v.Validate(&dto.ToggleChecklistItemRequest{}))
}
