// Package alerts classifies outstanding checklist items against their
// suggested time of day (the semáforo).
package alerts

import (
	"sort"
	"time"

	model "ops-portal.com/ops-portal/internal/models"
	"ops-portal.com/ops-portal/internal/timewindow"
)

type Level string

const (
	Attention Level = "ATTENTION"
	InWindow  Level = "IN_WINDOW"
	Critical  Level = "CRITICAL"
)

// Policy bounds are in minutes: an item is CRITICAL once more than Grace
// minutes late and ATTENTION from Lookahead minutes before its time.
type Policy struct {
	Grace     int
	Lookahead int
}

var DefaultPolicy = Policy{Grace: 15, Lookahead: 45}

type Alert struct {
	TaskID        string `json:"task_id"`
	CampaignID    string `json:"campaign_id"`
	ItemID        string `json:"item_id"`
	Position      int    `json:"position"`
	Description   string `json:"description"`
	SuggestedTime string `json:"suggested_time"`
	Level         Level  `json:"level"`
	DiffMinutes   int    `json:"diff_minutes"`
}

// Classify maps a signed minute difference (now minus suggested) to a level.
// ok is false when the item is not yet relevant.
func (p Policy) Classify(diff int) (Level, bool) {
	switch {
	case diff > p.Grace:
		return Critical, true
	case diff >= 0:
		return InWindow, true
	case diff >= -p.Lookahead:
		return Attention, true
	default:
		return "", false
	}
}

// Evaluate returns the alerts of a task's incomplete checklist items ordered by
// suggested time and then position. Items without a parseable suggested time
// are ignored.
func (p Policy) Evaluate(zone timewindow.Zone, now time.Time, task model.Task) []Alert {
	type scored struct {
		alert   Alert
		minutes int
	}

	var campaignID string
	if task.CampaignID != nil {
		campaignID = *task.CampaignID
	}

	var found []scored
	for _, item := range task.ChecklistItems {
		if item.Completed || item.SuggestedTime == nil {
			continue
		}
		suggested, err := timewindow.ParseClock(*item.SuggestedTime)
		if err != nil {
			continue
		}

		diff := zone.SameDayMinutesDiff(now, suggested)
		level, ok := p.Classify(diff)
		if !ok {
			continue
		}

		found = append(found, scored{
			minutes: suggested.Minutes(),
			alert: Alert{
				TaskID:        task.ID,
				CampaignID:    campaignID,
				ItemID:        item.ID,
				Position:      item.Position,
				Description:   item.Description,
				SuggestedTime: suggested.String(),
				Level:         level,
				DiffMinutes:   diff,
			},
		})
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].minutes != found[j].minutes {
			return found[i].minutes < found[j].minutes
		}
		return found[i].alert.Position < found[j].alert.Position
	})

	alerts := make([]Alert, 0, len(found))
	for _, s := range found {
		alerts = append(alerts, s.alert)
	}
	return alerts
}

// Sort orders alerts gathered from several tasks the same way Evaluate does.
func Sort(alerts []Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		if a.SuggestedTime != b.SuggestedTime {
			return a.SuggestedTime < b.SuggestedTime
		}
		return a.Position < b.Position
	})
}
