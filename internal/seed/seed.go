// Package seed loads analysts, campaigns and routine templates from a JSON
// document. Existing analysts (by email) and campaigns (by name) are left
// untouched so the same file can be applied repeatedly.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"ops-portal.com/ops-portal/internal/constants"
	"ops-portal.com/ops-portal/internal/logging"
	model "ops-portal.com/ops-portal/internal/models"
	repository "ops-portal.com/ops-portal/internal/repositories"
	"ops-portal.com/ops-portal/internal/timewindow"
)

type File struct {
	Analysts  []Analyst  `json:"analysts"`
	Campaigns []Campaign `json:"campaigns"`
}

type Analyst struct {
	Name  string         `json:"name"`
	Email string         `json:"email"`
	RUT   string         `json:"rut"`
	Role  constants.Role `json:"role"`
}

type Campaign struct {
	Name     string    `json:"name"`
	Template *Template `json:"template"`
}

type Template struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

type Item struct {
	Description   string `json:"description"`
	SuggestedTime string `json:"suggested_time"`
	Weekdays      string `json:"weekdays"`
}

type Summary struct {
	Analysts  int
	Campaigns int
	Templates int
}

func Decode(r io.Reader) (File, error) {
	var f File
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("decode seed file: %w", err)
	}
	return f, nil
}

func Apply(ctx context.Context, store *repository.Store, f File, now time.Time, log logging.Logger) (Summary, error) {
	if log == nil {
		log = logging.Discard()
	}

	var summary Summary
	err := store.Transaction(ctx, func(tx *repository.Store) error {
		for _, a := range f.Analysts {
			created, err := applyAnalyst(ctx, tx, a, now)
			if err != nil {
				return err
			}
			if created {
				summary.Analysts++
			}
		}
		for _, c := range f.Campaigns {
			campaignCreated, templateCreated, err := applyCampaign(ctx, tx, c, now)
			if err != nil {
				return err
			}
			if campaignCreated {
				summary.Campaigns++
			}
			if templateCreated {
				summary.Templates++
			}
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	log.Info(ctx, "seed applied",
		"analysts", summary.Analysts,
		"campaigns", summary.Campaigns,
		"templates", summary.Templates,
	)
	return summary, nil
}

func applyAnalyst(ctx context.Context, tx *repository.Store, a Analyst, now time.Time) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(a.Email))
	if email == "" || strings.TrimSpace(a.Name) == "" {
		return false, errors.New("analyst needs a name and an email")
	}
	if !a.Role.Valid() {
		return false, fmt.Errorf("analyst %s: unknown role %q", email, a.Role)
	}

	_, err := tx.Analysts.FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}

	return true, tx.Analysts.Create(ctx, &model.Analyst{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(a.Name),
		Email:     email,
		RUT:       strings.TrimSpace(a.RUT),
		Role:      a.Role,
		Active:    true,
		CreatedAt: now.UTC(),
	})
}

// applyCampaign creates the campaign when missing and installs its template
// only when the campaign has no active one yet.
func applyCampaign(ctx context.Context, tx *repository.Store, c Campaign, now time.Time) (bool, bool, error) {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return false, false, errors.New("campaign needs a name")
	}

	campaign, err := tx.Campaigns.FindByName(ctx, name)
	created := false
	switch {
	case errors.Is(err, repository.ErrNotFound):
		campaign = &model.Campaign{ID: uuid.NewString(), Name: name, Active: true, CreatedAt: now.UTC()}
		if err := tx.Campaigns.Create(ctx, campaign); err != nil {
			return false, false, err
		}
		created = true
	case err != nil:
		return false, false, err
	}

	if c.Template == nil {
		return created, false, nil
	}
	if _, err := tx.Campaigns.ActiveTemplate(ctx, campaign.ID); err == nil {
		return created, false, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return created, false, err
	}

	template, err := buildTemplate(campaign, *c.Template, now)
	if err != nil {
		return created, false, err
	}
	if err := tx.Campaigns.CreateTemplate(ctx, template); err != nil {
		return created, false, err
	}
	return created, true, nil
}

func buildTemplate(campaign *model.Campaign, t Template, now time.Time) (*model.ChecklistTemplate, error) {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		name = campaign.Name
	}

	template := &model.ChecklistTemplate{
		ID:         uuid.NewString(),
		CampaignID: campaign.ID,
		Name:       name,
		Active:     true,
		CreatedAt:  now.UTC(),
	}

	for i, it := range t.Items {
		if strings.TrimSpace(it.Description) == "" {
			return nil, fmt.Errorf("campaign %s: item %d needs a description", campaign.Name, i+1)
		}
		days, err := model.ParseWeekdays(it.Weekdays)
		if err != nil {
			return nil, fmt.Errorf("campaign %s: item %d: %w", campaign.Name, i+1, err)
		}

		item := model.TemplateItem{
			ID:          uuid.NewString(),
			TemplateID:  template.ID,
			Position:    i + 1,
			Description: strings.TrimSpace(it.Description),
			Weekdays:    days,
		}
		if it.SuggestedTime != "" {
			clock, err := timewindow.ParseClock(it.SuggestedTime)
			if err != nil {
				return nil, fmt.Errorf("campaign %s: item %d: %w", campaign.Name, i+1, err)
			}
			suggested := clock.String()
			item.SuggestedTime = &suggested
		}
		template.Items = append(template.Items, item)
	}
	return template, nil
}
