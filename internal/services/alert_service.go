package services

import (
	"context"
	"errors"

	"ops-portal.com/ops-portal/internal/alerts"
	"ops-portal.com/ops-portal/internal/policy"
	repository "ops-portal.com/ops-portal/internal/repositories"
	"ops-portal.com/ops-portal/internal/timewindow"
)

type AlertService struct {
	store  *repository.Store
	zone   timewindow.Zone
	now    Clock
	policy alerts.Policy
}

func NewAlertService(store *repository.Store, zone timewindow.Zone, now Clock, policy alerts.Policy) *AlertService {
	return &AlertService{store: store, zone: zone, now: now, policy: policy}
}

// GetAlerts evaluates today's routine of every campaign the actor is checked
// in on. It is empty when the actor has no open session.
func (s *AlertService) GetAlerts(ctx context.Context, actor policy.Actor) ([]alerts.Alert, error) {
	sessions, err := s.store.Sessions.ListActiveByAnalyst(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	now := nowUTC(s.now)
	day := s.zone.CivilDay(now)
	seen := make(map[string]bool, len(sessions))
	result := []alerts.Alert{}

	for _, session := range sessions {
		if seen[session.CampaignID] {
			continue
		}
		seen[session.CampaignID] = true

		task, err := s.store.Tasks.FindRoutine(ctx, session.CampaignID, day)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		result = append(result, s.policy.Evaluate(s.zone, now, *task)...)
	}

	alerts.Sort(result)
	return result, nil
}
