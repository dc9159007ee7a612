package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ops-portal.com/ops-portal/internal/constants"
	errs "ops-portal.com/ops-portal/internal/errors"
	"ops-portal.com/ops-portal/internal/overtime"
)

type fakeAttendance struct {
	days  []overtime.Attendance
	err   error
	calls int
}

func (f *fakeAttendance) Attendance(_ context.Context, _, _, _ string) ([]overtime.Attendance, error) {
	f.calls++
	return f.days, f.err
}

func validated(rut, date string, kind constants.OvertimeKind, approved float64) overtime.Submission {
	return overtime.Submission{
		RUT:           rut,
		Date:          date,
		Kind:          kind,
		DeclaredHours: approved,
		ApprovedHours: approved,
		State:         constants.ValidationValidated,
	}
}

func TestOvertimeService_RevalidationIsIdempotent(t *testing.T) {
	f := newFixture(t)
	sup := f.analyst("sup", constants.RoleSupervisorOps)

	sub := validated("11111111-1", "2024-03-04", constants.OvertimeAfterShift, 2)

	first, err := f.overtime.SubmitOvertimeValidations(f.ctx, sup, []overtime.Submission{sub})
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, overtime.ActionCreateValidated, first[0].Action)

	second, err := f.overtime.SubmitOvertimeValidations(f.ctx, sup, []overtime.Submission{sub})
	require.NoError(t, err)
	assert.Equal(t, overtime.ActionSkip, second[0].Action)
	assert.Equal(t, first[0].Record.ID, second[0].Record.ID)

	count, err := f.store.Overtime.Count(f.ctx, "11111111-1", "2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestOvertimeService_PendingConvertedInPlace(t *testing.T) {
	f := newFixture(t)
	sup := f.analyst("sup", constants.RoleSupervisorOps)

	pending := overtime.Submission{
		RUT: "11111111-1", Date: "2024-03-04", Kind: constants.OvertimeBeforeShift,
		DeclaredHours: 1.5, State: constants.ValidationPendingCorrection, Note: "shift was wrong",
	}
	res, err := f.overtime.SubmitOvertimeValidations(f.ctx, sup, []overtime.Submission{pending})
	require.NoError(t, err)
	assert.Equal(t, overtime.ActionCreatePending, res[0].Action)
	pendingID := res[0].Record.ID

	listed, err := f.overtime.ListPendingOvertime(f.ctx, sup, "11111111-1")
	require.NoError(t, err)
	require.Len(t, listed, 1)

	res, err = f.overtime.SubmitOvertimeValidations(f.ctx, sup, []overtime.Submission{
		validated("11111111-1", "2024-03-04", constants.OvertimeBeforeShift, 1.25),
	})
	require.NoError(t, err)
	assert.Equal(t, overtime.ActionConvertPending, res[0].Action)
	assert.Equal(t, pendingID, res[0].Record.ID)
	assert.Equal(t, constants.ValidationValidated, res[0].Record.State)
	assert.Equal(t, 1.25, res[0].Record.ApprovedHours)
	assert.Equal(t, "shift was wrong", res[0].Record.Note)

	count, err := f.store.Overtime.Count(f.ctx, "11111111-1", "2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	listed, err = f.overtime.ListPendingOvertime(f.ctx, sup, "")
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestOvertimeService_ConversionReplacesZeroHourRow(t *testing.T) {
	f := newFixture(t)
	sup := f.analyst("sup", constants.RoleSupervisorOps)
	rut, date := "22222222-2", "2024-03-05"

	_, err := f.overtime.SubmitOvertimeValidations(f.ctx, sup, []overtime.Submission{
		validated(rut, date, constants.OvertimeAfterShift, 0),
		{RUT: rut, Date: date, Kind: constants.OvertimeAfterShift, State: constants.ValidationPendingCorrection},
	})
	require.NoError(t, err)

	count, err := f.store.Overtime.Count(f.ctx, rut, date)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	res, err := f.overtime.SubmitOvertimeValidations(f.ctx, sup, []overtime.Submission{
		validated(rut, date, constants.OvertimeAfterShift, 3),
	})
	require.NoError(t, err)
	assert.Equal(t, overtime.ActionConvertPending, res[0].Action)

	count, err = f.store.Overtime.Count(f.ctx, rut, date)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	row, err := f.store.Overtime.FindValidated(f.ctx, rut, date, constants.OvertimeAfterShift)
	require.NoError(t, err)
	assert.Equal(t, 3.0, row.ApprovedHours)
}

func TestOvertimeService_ZeroHourSubmissionAgainstPending(t *testing.T) {
	f := newFixture(t)
	sup := f.analyst("sup", constants.RoleSupervisorOps)
	rut, date := "33333333-3", "2024-03-06"

	_, err := f.overtime.SubmitOvertimeValidations(f.ctx, sup, []overtime.Submission{
		{RUT: rut, Date: date, Kind: constants.OvertimeRestDay, State: constants.ValidationPendingCorrection},
	})
	require.NoError(t, err)

	blocked := validated(rut, date, constants.OvertimeRestDay, 0)
	blocked.IncorrectShift = true
	res, err := f.overtime.SubmitOvertimeValidations(f.ctx, sup, []overtime.Submission{blocked})
	require.NoError(t, err)
	assert.Equal(t, overtime.ActionBlocked, res[0].Action)

	res, err = f.overtime.SubmitOvertimeValidations(f.ctx, sup, []overtime.Submission{
		validated(rut, date, constants.OvertimeRestDay, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, overtime.ActionClearPending, res[0].Action)

	count, err := f.store.Overtime.Count(f.ctx, rut, date)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestOvertimeService_InvalidBatchWritesNothing(t *testing.T) {
	f := newFixture(t)
	sup := f.analyst("sup", constants.RoleSupervisorOps)

	_, err := f.overtime.SubmitOvertimeValidations(f.ctx, sup, []overtime.Submission{
		validated("44444444-4", "2024-03-04", constants.OvertimeAfterShift, 1),
		validated("44444444-4", "2024-03-04", "overnight", 1),
	})
	assert.ErrorIs(t, err, errs.ErrValidation)

	count, err := f.store.Overtime.Count(f.ctx, "44444444-4", "2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	_, err = f.overtime.SubmitOvertimeValidations(f.ctx, sup, nil)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestOvertimeService_Permissions(t *testing.T) {
	f := newFixture(t)
	analyst := f.analyst("a", constants.RoleAnalyst)
	responsible := f.analyst("r", constants.RoleResponsible)

	sub := validated("55555555-5", "2024-03-04", constants.OvertimeAfterShift, 1)

	_, err := f.overtime.SubmitOvertimeValidations(f.ctx, analyst, []overtime.Submission{sub})
	assert.ErrorIs(t, err, errs.ErrForbidden)

	_, err = f.overtime.SubmitOvertimeValidations(f.ctx, responsible, []overtime.Submission{sub})
	assert.ErrorIs(t, err, errs.ErrForbidden)

	_, err = f.overtime.QueryOvertime(f.ctx, analyst, "55555555-5", "2024-03-01", "2024-03-31")
	assert.ErrorIs(t, err, errs.ErrForbidden)

	_, err = f.overtime.ListPendingOvertime(f.ctx, analyst, "")
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func TestOvertimeService_QueryMergesUpstream(t *testing.T) {
	f := newFixture(t)
	sup := f.analyst("sup", constants.RoleSupervisorOps)
	source := &fakeAttendance{days: []overtime.Attendance{{
		Date:                 "2024-03-04",
		TheoreticalStart:     "09:00",
		TheoreticalEnd:       "18:00",
		Punches:              []string{"08:30", "19:30"},
		AuthorizedAfterHours: 1.5,
	}}}
	svc := NewOvertimeService(f.store, source, testZone, f.clock.Now, f.log)

	_, err := svc.SubmitOvertimeValidations(f.ctx, sup, []overtime.Submission{
		validated("66666666-6", "2024-03-04", constants.OvertimeAfterShift, 2),
	})
	require.NoError(t, err)

	report, err := svc.QueryOvertime(f.ctx, sup, "66666666-6", "2024-03-01", "2024-03-31")
	require.NoError(t, err)
	assert.True(t, report.ExternalAvailable)
	require.Len(t, report.Days, 1)

	day := report.Days[0]
	assert.Equal(t, 2.0, day.ApprovedHours)
	assert.Equal(t, 1.5, day.AuthorizedHours)
	assert.Equal(t, 0.5, day.Delta)
	require.NotNil(t, day.Classification)
	assert.Equal(t, overtime.CategoryShift, day.Classification.Category)
	assert.Equal(t, 0.5, day.Classification.BeforeShift)
	assert.Equal(t, 1.5, day.Classification.AfterShift)
}

func TestOvertimeService_QueryDegradesWithoutUpstream(t *testing.T) {
	f := newFixture(t)
	sup := f.analyst("sup", constants.RoleSupervisorOps)
	source := &fakeAttendance{err: errors.New("connection refused")}
	svc := NewOvertimeService(f.store, source, testZone, f.clock.Now, f.log)

	_, err := svc.QueryOvertime(f.ctx, sup, "77777777-7", "2024-03-01", "2024-03-31")
	assert.ErrorIs(t, err, errs.ErrUpstreamUnavailable)

	_, err = svc.SubmitOvertimeValidations(f.ctx, sup, []overtime.Submission{
		validated("77777777-7", "2024-03-04", constants.OvertimeAfterShift, 2),
	})
	require.NoError(t, err)

	report, err := svc.QueryOvertime(f.ctx, sup, "77777777-7", "2024-03-01", "2024-03-31")
	require.NoError(t, err)
	assert.False(t, report.ExternalAvailable)
	require.Len(t, report.Days, 1)
	assert.Equal(t, 2.0, report.Days[0].ApprovedHours)
	assert.Zero(t, report.Days[0].AuthorizedHours)
	assert.Nil(t, report.Days[0].Classification)
	assert.Equal(t, 2, source.calls)
}

func TestOvertimeService_QueryValidatesRange(t *testing.T) {
	f := newFixture(t)
	sup := f.analyst("sup", constants.RoleSupervisorOps)

	_, err := f.overtime.QueryOvertime(f.ctx, sup, "", "2024-03-01", "2024-03-31")
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = f.overtime.QueryOvertime(f.ctx, sup, "1-9", "2024-03-31", "2024-03-01")
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = f.overtime.QueryOvertime(f.ctx, sup, "1-9", "03/01/2024", "2024-03-31")
	assert.ErrorIs(t, err, errs.ErrValidation)
}
