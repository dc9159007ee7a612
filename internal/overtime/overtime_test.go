package overtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ops-portal.com/ops-portal/internal/constants"
	model "ops-portal.com/ops-portal/internal/models"
	"ops-portal.com/ops-portal/internal/timewindow"
)

var zone = timewindow.NewZone(time.FixedZone("CLT", -3*3600))

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		day      Attendance
		category Category
		before   float64
		after    float64
		rest     float64
		total    float64
	}{
		{
			name:     "before and after shift",
			day:      Attendance{Date: "2024-03-04", TheoreticalStart: "09:00", TheoreticalEnd: "18:00", Punches: []string{"08:30", "13:00", "14:00", "19:15"}},
			category: CategoryShift, before: 0.5, after: 1.25, total: 1.75,
		},
		{
			name:     "inside shift",
			day:      Attendance{Date: "2024-03-04", TheoreticalStart: "09:00", TheoreticalEnd: "18:00", Punches: []string{"09:05", "17:50"}},
			category: CategoryShift,
		},
		{
			name:     "overnight shift",
			day:      Attendance{Date: "2024-03-04", TheoreticalStart: "22:00", TheoreticalEnd: "06:00", Punches: []string{"21:40", "07:00"}},
			category: CategoryShift, before: 0.33, after: 1, total: 1.33,
		},
		{
			name:     "rest day without shift",
			day:      Attendance{Date: "2024-03-09", Punches: []string{"10:00", "14:30"}},
			category: CategoryRestDay, rest: 4.5, total: 4.5,
		},
		{
			name:     "rest day sentinel overnight",
			day:      Attendance{Date: "2024-03-09", TheoreticalStart: "00:00", TheoreticalEnd: "00:00:00", Punches: []string{"22:00", "02:00"}},
			category: CategoryRestDay, rest: 4, total: 4,
		},
		{
			name:     "single punch",
			day:      Attendance{Date: "2024-03-04", TheoreticalStart: "09:00", TheoreticalEnd: "18:00", Punches: []string{"08:00"}},
			category: CategoryNoPunches,
		},
		{
			name:     "no punches",
			day:      Attendance{Date: "2024-03-04", TheoreticalStart: "09:00", TheoreticalEnd: "18:00"},
			category: CategoryNoPunches,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(zone, tt.day)
			require.NoError(t, err)
			assert.Equal(t, tt.category, got.Category)
			assert.InDelta(t, tt.before, got.BeforeShift, 0.001)
			assert.InDelta(t, tt.after, got.AfterShift, 0.001)
			assert.InDelta(t, tt.rest, got.RestDayHours, 0.001)
			assert.InDelta(t, tt.total, got.Total, 0.001)
		})
	}
}

func TestClassify_InvalidInput(t *testing.T) {
	_, err := Classify(zone, Attendance{Date: "04/03/2024", Punches: []string{"08:00", "10:00"}})
	assert.Error(t, err)

	_, err = Classify(zone, Attendance{Date: "2024-03-04", TheoreticalStart: "09:00", TheoreticalEnd: "18:00", Punches: []string{"8h", "10:00"}})
	assert.Error(t, err)
}

func TestMerge_LocalIsSystemOfRecord(t *testing.T) {
	records := []model.OvertimeValidation{
		{RUT: "1-9", Date: "2024-03-04", Kind: constants.OvertimeAfterShift, ApprovedHours: 1, DeclaredHours: 1.5, State: constants.ValidationValidated},
		{RUT: "1-9", Date: "2024-03-04", Kind: constants.OvertimeBeforeShift, ApprovedHours: 0.5, DeclaredHours: 0.5, State: constants.ValidationValidated},
		{RUT: "1-9", Date: "2024-03-05", Kind: constants.OvertimeAfterShift, State: constants.ValidationPendingCorrection},
	}
	days := []Attendance{
		{Date: "2024-03-04", TheoreticalStart: "09:00", TheoreticalEnd: "18:00", Punches: []string{"08:30", "19:00"}, AuthorizedBeforeHours: 0.5, AuthorizedAfterHours: 2},
		{Date: "2024-03-06", TheoreticalStart: "09:00", TheoreticalEnd: "18:00", Punches: []string{"09:00", "18:00"}},
	}

	reports := Merge(zone, records, days, true)
	require.Len(t, reports, 3)

	first := reports[0]
	assert.Equal(t, "2024-03-04", first.Date)
	assert.Equal(t, 1.5, first.ApprovedHours)
	assert.Equal(t, 2.5, first.AuthorizedHours)
	assert.Equal(t, -1.0, first.Delta)
	require.NotNil(t, first.Classification)
	assert.Equal(t, 1.5, first.Classification.Total)
	assert.Len(t, first.Records, 2)

	assert.Equal(t, "2024-03-05", reports[1].Date)
	assert.True(t, reports[1].PendingCorrection)
	assert.Zero(t, reports[1].ApprovedHours)

	assert.Equal(t, "2024-03-06", reports[2].Date)
	assert.Empty(t, reports[2].Records)
}

func TestMerge_WithoutExternalData(t *testing.T) {
	records := []model.OvertimeValidation{
		{RUT: "1-9", Date: "2024-03-04", Kind: constants.OvertimeAfterShift, ApprovedHours: 2, State: constants.ValidationValidated},
	}
	days := []Attendance{{Date: "2024-03-04", AuthorizedAfterHours: 5}}

	reports := Merge(zone, records, days, false)
	require.Len(t, reports, 1)
	assert.False(t, reports[0].ExternalAvailable)
	assert.Zero(t, reports[0].AuthorizedHours)
	assert.Equal(t, 2.0, reports[0].Delta)
	assert.Nil(t, reports[0].Classification)
}

func TestPlan(t *testing.T) {
	validatedPositive := &model.OvertimeValidation{State: constants.ValidationValidated, ApprovedHours: 2}
	validatedZero := &model.OvertimeValidation{State: constants.ValidationValidated}
	pending := &model.OvertimeValidation{State: constants.ValidationPendingCorrection}

	validated := func(hours float64, incorrectShift bool) Submission {
		return Submission{State: constants.ValidationValidated, ApprovedHours: hours, IncorrectShift: incorrectShift}
	}

	tests := []struct {
		name      string
		sub       Submission
		validated *model.OvertimeValidation
		pending   *model.OvertimeValidation
		want      Action
	}{
		{"fresh", validated(2, false), nil, nil, ActionCreateValidated},
		{"idempotent resubmission", validated(2, false), validatedPositive, nil, ActionSkip},
		{"zero row is overwritten", validated(1, false), validatedZero, nil, ActionUpdateValidated},
		{"pending converted", validated(1.5, false), nil, pending, ActionConvertPending},
		{"pending self-heals", validated(0, false), nil, pending, ActionClearPending},
		{"incorrect shift keeps pending", validated(0, true), nil, pending, ActionBlocked},
		{"new pending", Submission{State: constants.ValidationPendingCorrection}, nil, nil, ActionCreatePending},
		{"pending note updated", Submission{State: constants.ValidationPendingCorrection}, nil, pending, ActionUpdatePending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Plan(tt.sub, tt.validated, tt.pending))
		})
	}
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.33, Round(20.0/60.0))
	assert.Equal(t, 1.67, Round(100.0/60.0))
}
