package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"ops-portal.com/ops-portal/internal/constants"
	errs "ops-portal.com/ops-portal/internal/errors"
	"ops-portal.com/ops-portal/internal/logging"
	model "ops-portal.com/ops-portal/internal/models"
	"ops-portal.com/ops-portal/internal/overtime"
	"ops-portal.com/ops-portal/internal/policy"
	repository "ops-portal.com/ops-portal/internal/repositories"
	"ops-portal.com/ops-portal/internal/timewindow"
)

// AttendanceSource is the external time-tracking collaborator.
type AttendanceSource interface {
	Attendance(ctx context.Context, employeeID, start, end string) ([]overtime.Attendance, error)
}

type OvertimeService struct {
	store  *repository.Store
	source AttendanceSource
	zone   timewindow.Zone
	now    Clock
	log    logging.Logger
}

type OvertimeReport struct {
	RUT               string               `json:"rut"`
	From              string               `json:"from"`
	To                string               `json:"to"`
	ExternalAvailable bool                 `json:"external_available"`
	Days              []overtime.DayReport `json:"days"`
}

type SubmissionResult struct {
	Index  int                       `json:"index"`
	Action overtime.Action           `json:"action"`
	Record *model.OvertimeValidation `json:"record,omitempty"`
}

func NewOvertimeService(store *repository.Store, source AttendanceSource, zone timewindow.Zone, now Clock, log logging.Logger) *OvertimeService {
	if log == nil {
		log = logging.Discard()
	}
	return &OvertimeService{store: store, source: source, zone: zone, now: now, log: log}
}

// QueryOvertime merges local validations with upstream attendance. When the
// upstream fails, local records are still served with zero external hours;
// with nothing stored locally the failure is returned.
func (s *OvertimeService) QueryOvertime(ctx context.Context, actor policy.Actor, rut, from, to string) (*OvertimeReport, error) {
	if _, err := authorize(policy.OpQueryOvertime, actor); err != nil {
		return nil, err
	}
	rut = strings.TrimSpace(rut)
	if rut == "" {
		return nil, errs.Validationf("rut is required")
	}
	if err := s.validateRange(from, to); err != nil {
		return nil, err
	}

	records, err := s.store.Overtime.ListRange(ctx, rut, from, to)
	if err != nil {
		return nil, err
	}

	days, upstreamErr := s.fetchAttendance(ctx, rut, from, to)
	external := upstreamErr == nil
	if !external {
		if len(records) == 0 {
			return nil, fmt.Errorf("%w: %v", errs.ErrUpstreamUnavailable, upstreamErr)
		}
		s.log.Warn(ctx, "time tracking unavailable, serving local validations only",
			"rut", rut, "error", upstreamErr)
	}

	return &OvertimeReport{
		RUT:               rut,
		From:              from,
		To:                to,
		ExternalAvailable: external,
		Days:              overtime.Merge(s.zone, records, days, external),
	}, nil
}

func (s *OvertimeService) fetchAttendance(ctx context.Context, rut, from, to string) ([]overtime.Attendance, error) {
	if s.source == nil {
		return nil, errors.New("time tracking not configured")
	}
	return s.source.Attendance(ctx, rut, from, to)
}

func (s *OvertimeService) validateRange(from, to string) error {
	start, err := s.zone.ParseDay(from)
	if err != nil {
		return errs.Validationf("from must be a YYYY-MM-DD date")
	}
	end, err := s.zone.ParseDay(to)
	if err != nil {
		return errs.Validationf("to must be a YYYY-MM-DD date")
	}
	if end.Before(start) {
		return errs.Validationf("from must not be after to")
	}
	return nil
}

// SubmitOvertimeValidations applies every submission in one transaction; any
// failure rolls the whole batch back.
func (s *OvertimeService) SubmitOvertimeValidations(ctx context.Context, actor policy.Actor, subs []overtime.Submission) ([]SubmissionResult, error) {
	if _, err := authorize(policy.OpSubmitOvertime, actor); err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, errs.Validationf("at least one validation is required")
	}
	for i, sub := range subs {
		if err := s.validateSubmission(sub); err != nil {
			return nil, errs.Validationf("validation %d: %s", i, err.Error())
		}
	}

	results := make([]SubmissionResult, 0, len(subs))
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		for i, sub := range subs {
			result, err := s.apply(ctx, tx, actor, sub)
			if err != nil {
				return err
			}
			result.Index = i
			results = append(results, result)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, errs.Conflictf("overtime validation was modified concurrently, retry")
		}
		return nil, err
	}

	s.log.Info(ctx, "overtime validations submitted", "count", len(results), "validator_id", actor.ID)
	return results, nil
}

func (s *OvertimeService) validateSubmission(sub overtime.Submission) error {
	if strings.TrimSpace(sub.RUT) == "" {
		return errors.New("rut is required")
	}
	if _, err := s.zone.ParseDay(sub.Date); err != nil {
		return errors.New("date must be YYYY-MM-DD")
	}
	if !sub.Kind.Valid() {
		return fmt.Errorf("unknown kind %q", sub.Kind)
	}
	if !sub.State.Valid() {
		return fmt.Errorf("unknown state %q", sub.State)
	}
	if sub.DeclaredHours < 0 || sub.ApprovedHours < 0 {
		return errors.New("hours must not be negative")
	}
	return nil
}

func (s *OvertimeService) apply(ctx context.Context, tx *repository.Store, actor policy.Actor, sub overtime.Submission) (SubmissionResult, error) {
	validated, err := optional(tx.Overtime.FindValidated(ctx, sub.RUT, sub.Date, sub.Kind))
	if err != nil {
		return SubmissionResult{}, err
	}
	pending, err := optional(tx.Overtime.FindPending(ctx, sub.RUT, sub.Date))
	if err != nil {
		return SubmissionResult{}, err
	}

	action := overtime.Plan(sub, validated, pending)
	result := SubmissionResult{Action: action}

	switch action {
	case overtime.ActionSkip:
		result.Record = validated

	case overtime.ActionBlocked:
		result.Record = pending

	case overtime.ActionClearPending:
		err = tx.Overtime.Delete(ctx, pending.ID)

	case overtime.ActionConvertPending:
		if validated != nil {
			if err = tx.Overtime.Delete(ctx, validated.ID); err != nil {
				break
			}
		}
		pending.State = constants.ValidationValidated
		fill(pending, sub, actor.ID)
		err = tx.Overtime.Save(ctx, pending)
		result.Record = pending

	case overtime.ActionUpdateValidated:
		fill(validated, sub, actor.ID)
		err = tx.Overtime.Save(ctx, validated)
		result.Record = validated

	case overtime.ActionUpdatePending:
		pending.Note = sub.Note
		pending.DeclaredHours = sub.DeclaredHours
		pending.ValidatorID = actor.ID
		err = tx.Overtime.Save(ctx, pending)
		result.Record = pending

	case overtime.ActionCreatePending, overtime.ActionCreateValidated:
		record := &model.OvertimeValidation{
			ID:    uuid.NewString(),
			RUT:   sub.RUT,
			Date:  sub.Date,
			State: sub.State,
		}
		fill(record, sub, actor.ID)
		err = tx.Overtime.Create(ctx, record)
		result.Record = record
	}

	return result, err
}

func fill(record *model.OvertimeValidation, sub overtime.Submission, validatorID string) {
	record.Kind = sub.Kind
	record.DeclaredHours = overtime.Round(sub.DeclaredHours)
	record.ApprovedHours = overtime.Round(sub.ApprovedHours)
	if sub.Note != "" {
		record.Note = sub.Note
	}
	record.ValidatorID = validatorID
}

func optional(record *model.OvertimeValidation, err error) (*model.OvertimeValidation, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return record, err
}

func (s *OvertimeService) ListPendingOvertime(ctx context.Context, actor policy.Actor, rut string) ([]model.OvertimeValidation, error) {
	if _, err := authorize(policy.OpListPendingOvertime, actor); err != nil {
		return nil, err
	}
	return s.store.Overtime.ListPending(ctx, strings.TrimSpace(rut))
}
