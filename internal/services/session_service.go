package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"ops-portal.com/ops-portal/internal/constants"
	errs "ops-portal.com/ops-portal/internal/errors"
	"ops-portal.com/ops-portal/internal/logging"
	model "ops-portal.com/ops-portal/internal/models"
	"ops-portal.com/ops-portal/internal/policy"
	repository "ops-portal.com/ops-portal/internal/repositories"
)

type SessionService struct {
	store    *repository.Store
	routines *RoutineService
	now      Clock
	log      logging.Logger
}

type CheckInResult struct {
	Session *model.Session `json:"session"`
	Routine *model.Task    `json:"routine,omitempty"`
}

type ActiveAnalyst struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Since time.Time `json:"since"`
}

type CoverageEntry struct {
	Campaign       model.Campaign          `json:"campaign"`
	State          constants.CoverageState `json:"state"`
	ActiveAnalysts []ActiveAnalyst         `json:"active_analysts"`
}

func NewSessionService(store *repository.Store, routines *RoutineService, now Clock, log logging.Logger) *SessionService {
	if log == nil {
		log = logging.Discard()
	}
	return &SessionService{store: store, routines: routines, now: now, log: log}
}

// CheckIn is idempotent: an analyst already checked in gets the open session
// back. The routine of the day is created or joined in the same transaction.
func (s *SessionService) CheckIn(ctx context.Context, actor policy.Actor, campaignID string) (*CheckInResult, error) {
	var result CheckInResult

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		campaign, err := tx.Campaigns.FindByID(ctx, campaignID)
		if err != nil {
			return storeError(err, errs.ErrCampaignNotFound)
		}
		if !campaign.Active {
			return errs.ErrCampaignNotFound
		}

		session, err := s.openSession(ctx, tx, actor.ID, campaign.ID)
		if err != nil {
			return err
		}
		result.Session = session

		routine, err := s.routines.Ensure(ctx, tx, campaign, actor.ID)
		if err != nil {
			return err
		}
		result.Routine = routine
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "checked in", "analyst_id", actor.ID, "campaign_id", campaignID, "session_id", result.Session.ID)
	return &result, nil
}

func (s *SessionService) openSession(ctx context.Context, tx *repository.Store, analystID, campaignID string) (*model.Session, error) {
	existing, err := tx.Sessions.FindActive(ctx, analystID, campaignID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	session := &model.Session{
		ID:         uuid.NewString(),
		AnalystID:  analystID,
		CampaignID: campaignID,
		StartedAt:  nowUTC(s.now),
	}
	err = tx.Transaction(ctx, func(sp *repository.Store) error {
		return sp.Sessions.Create(ctx, session)
	})
	if errors.Is(err, repository.ErrDuplicateKey) {
		return tx.Sessions.FindActive(ctx, analystID, campaignID)
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) CheckOut(ctx context.Context, actor policy.Actor, campaignID string) (*model.Session, error) {
	var session *model.Session

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		active, err := tx.Sessions.FindActive(ctx, actor.ID, campaignID)
		if err != nil {
			return storeError(err, errs.ErrNoActiveSession)
		}
		if err := tx.Sessions.Close(ctx, active, nowUTC(s.now)); err != nil {
			return storeError(err, errs.ErrNoActiveSession)
		}
		session = active
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "checked out", "analyst_id", actor.ID, "campaign_id", campaignID, "session_id", session.ID)
	return session, nil
}

func (s *SessionService) ListActive(ctx context.Context, analystID string) ([]model.Session, error) {
	return s.store.Sessions.ListActiveByAnalyst(ctx, analystID)
}

// Coverage reports every active campaign as COVERED when at least one analyst
// holds an open session on it.
func (s *SessionService) Coverage(ctx context.Context, actor policy.Actor) ([]CoverageEntry, error) {
	if _, err := authorize(policy.OpCoverageReport, actor); err != nil {
		return nil, err
	}

	campaigns, err := s.store.Campaigns.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	sessions, err := s.store.Sessions.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	analystIDs := make([]string, 0, len(sessions))
	byCampaign := make(map[string][]model.Session)
	for _, session := range sessions {
		byCampaign[session.CampaignID] = append(byCampaign[session.CampaignID], session)
		analystIDs = append(analystIDs, session.AnalystID)
	}

	names, err := s.store.Analysts.NamesByID(ctx, analystIDs...)
	if err != nil {
		return nil, err
	}

	report := make([]CoverageEntry, 0, len(campaigns))
	for _, campaign := range campaigns {
		entry := CoverageEntry{
			Campaign:       campaign,
			State:          constants.Uncovered,
			ActiveAnalysts: []ActiveAnalyst{},
		}
		for _, session := range byCampaign[campaign.ID] {
			name, ok := names[session.AnalystID]
			if !ok {
				name = session.AnalystID
			}
			entry.ActiveAnalysts = append(entry.ActiveAnalysts, ActiveAnalyst{
				ID:    session.AnalystID,
				Name:  name,
				Since: session.StartedAt,
			})
		}
		if len(entry.ActiveAnalysts) > 0 {
			entry.State = constants.Covered
		}
		report = append(report, entry)
	}
	return report, nil
}
