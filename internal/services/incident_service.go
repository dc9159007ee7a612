package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ops-portal.com/ops-portal/internal/constants"
	dto "ops-portal.com/ops-portal/internal/data_models"
	errs "ops-portal.com/ops-portal/internal/errors"
	"ops-portal.com/ops-portal/internal/logging"
	model "ops-portal.com/ops-portal/internal/models"
	"ops-portal.com/ops-portal/internal/policy"
	repository "ops-portal.com/ops-portal/internal/repositories"
	"ops-portal.com/ops-portal/internal/timewindow"
)

const nobody = "nobody"

type IncidentService struct {
	store *repository.Store
	zone  timewindow.Zone
	now   Clock
	log   logging.Logger
}

type CreateIncidentInput struct {
	Title       string
	Description string
	Severity    constants.Severity
	Type        string
	CampaignID  string
	AssigneeID  *string
}

type IncidentUpdate struct {
	Title       *string
	Description *string
	Severity    *constants.Severity
	Type        *string
	CampaignID  *string
	OpenedAt    *time.Time
	AssigneeID  dto.Nullable[string]
}

func NewIncidentService(store *repository.Store, zone timewindow.Zone, now Clock, log logging.Logger) *IncidentService {
	if log == nil {
		log = logging.Discard()
	}
	return &IncidentService{store: store, zone: zone, now: now, log: log}
}

func (s *IncidentService) CreateIncident(ctx context.Context, actor policy.Actor, in CreateIncidentInput) (*model.Incident, error) {
	if _, err := authorize(policy.OpCreateIncident, actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, errs.Validationf("title is required")
	}
	if strings.TrimSpace(in.Type) == "" {
		return nil, errs.Validationf("type is required")
	}
	if !in.Severity.Valid() {
		return nil, errs.Validationf("unknown severity %q", in.Severity)
	}
	if !policy.CanAssignOwner(actor, in.AssigneeID) {
		return nil, errs.Forbiddenf("analysts may only assign incidents to themselves")
	}

	now := nowUTC(s.now)
	incident := &model.Incident{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Severity:    in.Severity,
		Type:        strings.TrimSpace(in.Type),
		State:       constants.IncidentOpen,
		CampaignID:  in.CampaignID,
		CreatorID:   actor.ID,
		AssigneeID:  in.AssigneeID,
		OpenedAt:    now,
		Version:     1,
		UpdatedAt:   now,
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Campaigns.FindByID(ctx, in.CampaignID); err != nil {
			return storeError(err, errs.ErrCampaignNotFound)
		}
		if in.AssigneeID != nil {
			if _, err := tx.Analysts.FindByID(ctx, *in.AssigneeID); err != nil {
				return storeError(err, errs.ErrAnalystNotFound)
			}
		}
		return tx.Incidents.Create(ctx, incident)
	})
	if err != nil {
		return nil, storeError(err, errs.ErrIncidentNotFound)
	}

	s.log.Info(ctx, "incident opened", "incident_id", incident.ID, "severity", incident.Severity)
	return incident, nil
}

func (s *IncidentService) GetIncident(ctx context.Context, id string) (*model.Incident, error) {
	incident, err := s.store.Incidents.FindByID(ctx, id)
	return incident, storeError(err, errs.ErrIncidentNotFound)
}

func (s *IncidentService) ListIncidents(ctx context.Context, filter repository.IncidentFilter) ([]model.Incident, error) {
	if filter.State != "" && !filter.State.Valid() {
		return nil, errs.Validationf("unknown incident state %q", filter.State)
	}
	return s.store.Incidents.List(ctx, filter)
}

// UpdateIncident narrates every changed field into a single change entry.
// Nothing is written when no field actually changes.
func (s *IncidentService) UpdateIncident(ctx context.Context, actor policy.Actor, id string, upd IncidentUpdate) (*model.Incident, error) {
	var incident *model.Incident

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		incident, err = s.loadForMutation(ctx, tx, policy.OpUpdateIncident, actor, id)
		if err != nil {
			return err
		}
		if incident.State == constants.IncidentClosed {
			return errs.ErrIncidentClosed
		}
		if upd.AssigneeID.Set && !policy.CanAssignOwner(actor, upd.AssigneeID.Value) {
			return errs.Forbiddenf("analysts may only assign incidents to themselves or release them")
		}

		changes, err := s.applyIncidentUpdate(ctx, tx, incident, upd)
		if err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}

		return s.save(ctx, tx, incident, actor.ID, update(constants.UpdateChange, strings.Join(changes, "; ")))
	})
	if err != nil {
		return nil, err
	}
	return incident, nil
}

func (s *IncidentService) applyIncidentUpdate(ctx context.Context, tx *repository.Store, incident *model.Incident, upd IncidentUpdate) ([]string, error) {
	var changes []string
	narrate := func(field, from, to string) {
		changes = append(changes, fmt.Sprintf("%s changed from %q to %q", field, from, to))
	}

	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return nil, errs.Validationf("title must not be empty")
		}
		if title != incident.Title {
			narrate("title", incident.Title, title)
			incident.Title = title
		}
	}
	if upd.Description != nil && *upd.Description != incident.Description {
		narrate("description", incident.Description, *upd.Description)
		incident.Description = *upd.Description
	}
	if upd.Severity != nil && *upd.Severity != incident.Severity {
		if !upd.Severity.Valid() {
			return nil, errs.Validationf("unknown severity %q", *upd.Severity)
		}
		narrate("severity", string(incident.Severity), string(*upd.Severity))
		incident.Severity = *upd.Severity
	}
	if upd.Type != nil && strings.TrimSpace(*upd.Type) != incident.Type {
		next := strings.TrimSpace(*upd.Type)
		if next == "" {
			return nil, errs.Validationf("type must not be empty")
		}
		narrate("type", incident.Type, next)
		incident.Type = next
	}
	if upd.OpenedAt != nil && !upd.OpenedAt.Equal(incident.OpenedAt) {
		narrate("opened at", s.zone.Format(incident.OpenedAt), s.zone.Format(*upd.OpenedAt))
		incident.OpenedAt = upd.OpenedAt.UTC()
	}
	if upd.CampaignID != nil && *upd.CampaignID != incident.CampaignID {
		previous, err := tx.Campaigns.FindByID(ctx, incident.CampaignID)
		previousName := incident.CampaignID
		if err == nil {
			previousName = previous.Name
		}
		next, err := tx.Campaigns.FindByID(ctx, *upd.CampaignID)
		if err != nil {
			return nil, storeError(err, errs.ErrCampaignNotFound)
		}
		narrate("campaign", previousName, next.Name)
		incident.CampaignID = next.ID
	}
	if upd.AssigneeID.Set && !sameString(upd.AssigneeID.Value, incident.AssigneeID) {
		if upd.AssigneeID.Value != nil {
			if _, err := tx.Analysts.FindByID(ctx, *upd.AssigneeID.Value); err != nil {
				return nil, storeError(err, errs.ErrAnalystNotFound)
			}
		}
		names, err := s.names(ctx, tx, incident.AssigneeID, upd.AssigneeID.Value)
		if err != nil {
			return nil, err
		}
		narrate("assignee", names(incident.AssigneeID), names(upd.AssigneeID.Value))
		incident.AssigneeID = upd.AssigneeID.Value
	}
	return changes, nil
}

// UpdateIncidentState moves the incident along its state graph. Closing
// records the closer, releases the assignee and stores the optional comment
// as a separate closure entry; HIGH severity incidents need that comment.
func (s *IncidentService) UpdateIncidentState(ctx context.Context, actor policy.Actor, id string, next constants.IncidentState, comment string) (*model.Incident, error) {
	if !next.Valid() {
		return nil, errs.Validationf("unknown incident state %q", next)
	}
	comment = strings.TrimSpace(comment)

	var incident *model.Incident
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		incident, err = s.loadForMutation(ctx, tx, policy.OpUpdateIncidentState, actor, id)
		if err != nil {
			return err
		}

		previous := incident.State
		if previous == next {
			return errs.Validationf("incident is already %s", next)
		}
		if !previous.CanTransitionTo(next) {
			return errs.Validationf("cannot move incident from %s to %s", previous, next)
		}
		if next == constants.IncidentClosed && incident.Severity == constants.SeverityHigh && comment == "" {
			return errs.Validationf("closing a HIGH severity incident requires a comment")
		}

		now := nowUTC(s.now)
		incident.State = next
		switch {
		case next == constants.IncidentClosed:
			incident.ClosedByID = strPtr(actor.ID)
			incident.ClosedAt = &now
			incident.AssigneeID = nil
		case previous == constants.IncidentClosed:
			incident.ClosedByID = nil
			incident.ClosedAt = nil
			incident.AssigneeID = nil
		}

		entries := []*model.IncidentUpdate{
			update(constants.UpdateChange, fmt.Sprintf("state changed from %s to %s", previous, next)),
		}
		if next == constants.IncidentClosed && comment != "" {
			entries = append(entries, update(constants.UpdateClosure, comment))
		}
		return s.save(ctx, tx, incident, actor.ID, entries...)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "incident state changed", "incident_id", id, "state", next, "actor_id", actor.ID)
	return incident, nil
}

// ClaimIncident assigns the incident to the actor and starts work on it.
func (s *IncidentService) ClaimIncident(ctx context.Context, actor policy.Actor, id string) (*model.Incident, error) {
	if _, err := authorize(policy.OpClaimIncident, actor); err != nil {
		return nil, err
	}

	var incident *model.Incident
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		incident, err = tx.Incidents.FindByID(ctx, id)
		if err != nil {
			return storeError(err, errs.ErrIncidentNotFound)
		}
		if incident.State == constants.IncidentClosed {
			return errs.ErrIncidentClosed
		}
		if incident.AssigneeID != nil && *incident.AssigneeID == actor.ID {
			return errs.ErrAlreadyAssigned
		}

		names, err := s.names(ctx, tx, incident.AssigneeID, &actor.ID)
		if err != nil {
			return err
		}
		narration := fmt.Sprintf("reassigned from %s to %s", names(incident.AssigneeID), names(&actor.ID))
		if incident.State != constants.IncidentInProgress {
			narration += fmt.Sprintf("; state changed from %s to %s", incident.State, constants.IncidentInProgress)
		}

		incident.AssigneeID = strPtr(actor.ID)
		incident.State = constants.IncidentInProgress
		return s.save(ctx, tx, incident, actor.ID, update(constants.UpdateChange, narration))
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "incident claimed", "incident_id", id, "actor_id", actor.ID)
	return incident, nil
}

func (s *IncidentService) AddIncidentComment(ctx context.Context, actor policy.Actor, id, body string) (*model.IncidentUpdate, error) {
	if _, err := authorize(policy.OpCommentIncident, actor); err != nil {
		return nil, err
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errs.Validationf("comment body is required")
	}

	entry := update(constants.UpdateComment, body)
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Incidents.FindByID(ctx, id); err != nil {
			return storeError(err, errs.ErrIncidentNotFound)
		}
		entry.ID = uuid.NewString()
		entry.IncidentID = id
		entry.AuthorID = actor.ID
		entry.CreatedAt = nowUTC(s.now)
		return tx.Incidents.AddUpdate(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// loadForMutation fetches the incident and applies the role table; plain
// analysts may only touch incidents they created or are assigned to.
func (s *IncidentService) loadForMutation(ctx context.Context, tx *repository.Store, op policy.Operation, actor policy.Actor, id string) (*model.Incident, error) {
	decision, err := authorize(op, actor)
	if err != nil {
		return nil, err
	}

	incident, err := tx.Incidents.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, errs.ErrIncidentNotFound)
	}

	if decision == policy.AllowedIfOwner &&
		incident.CreatorID != actor.ID &&
		(incident.AssigneeID == nil || *incident.AssigneeID != actor.ID) {
		return nil, errs.ErrOperationForbidden
	}
	return incident, nil
}

func (s *IncidentService) save(ctx context.Context, tx *repository.Store, incident *model.Incident, authorID string, entries ...*model.IncidentUpdate) error {
	now := nowUTC(s.now)
	incident.UpdatedAt = now
	if err := tx.Incidents.Update(ctx, incident); err != nil {
		return storeError(err, errs.ErrIncidentNotFound)
	}

	for _, entry := range entries {
		entry.ID = uuid.NewString()
		entry.IncidentID = incident.ID
		entry.AuthorID = authorID
		entry.CreatedAt = now
		if err := tx.Incidents.AddUpdate(ctx, entry); err != nil {
			return err
		}
		incident.Updates = append(incident.Updates, *entry)
	}
	return nil
}

// names resolves analyst ids to display names, falling back to the id and to
// "nobody" for nil.
func (s *IncidentService) names(ctx context.Context, tx *repository.Store, ids ...*string) (func(*string) string, error) {
	lookup := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != nil {
			lookup = append(lookup, *id)
		}
	}
	resolved, err := tx.Analysts.NamesByID(ctx, lookup...)
	if err != nil {
		return nil, err
	}
	return func(id *string) string {
		if id == nil {
			return nobody
		}
		if name, ok := resolved[*id]; ok {
			return name
		}
		return *id
	}, nil
}

func update(kind constants.UpdateKind, body string) *model.IncidentUpdate {
	return &model.IncidentUpdate{Kind: kind, Body: body}
}
