package overtime

import (
	"sort"

	"ops-portal.com/ops-portal/internal/constants"
	model "ops-portal.com/ops-portal/internal/models"
	"ops-portal.com/ops-portal/internal/timewindow"
)

// DayReport merges the local validations of one day with the upstream
// attendance. ApprovedHours comes only from validated local rows;
// AuthorizedHours is the upstream reference and never overrides them.
type DayReport struct {
	Date              string                     `json:"date"`
	Classification    *Classification            `json:"classification,omitempty"`
	Records           []model.OvertimeValidation `json:"records"`
	ApprovedHours     float64                    `json:"approved_hours"`
	DeclaredHours     float64                    `json:"declared_hours"`
	PendingCorrection bool                       `json:"pending_correction"`
	AuthorizedHours   float64                    `json:"authorized_hours"`
	Delta             float64                    `json:"delta_hours"`
	ExternalAvailable bool                       `json:"external_available"`
}

// Merge builds one report per day present locally or upstream, ordered by
// date. With external=false the upstream figures are reported as zero.
func Merge(zone timewindow.Zone, records []model.OvertimeValidation, days []Attendance, external bool) []DayReport {
	byDate := map[string]*DayReport{}
	get := func(date string) *DayReport {
		if r, ok := byDate[date]; ok {
			return r
		}
		r := &DayReport{Date: date, Records: []model.OvertimeValidation{}, ExternalAvailable: external}
		byDate[date] = r
		return r
	}

	for _, rec := range records {
		r := get(rec.Date)
		r.Records = append(r.Records, rec)
		switch rec.State {
		case constants.ValidationValidated:
			r.ApprovedHours += rec.ApprovedHours
			r.DeclaredHours += rec.DeclaredHours
		case constants.ValidationPendingCorrection:
			r.PendingCorrection = true
		}
	}

	if external {
		for _, day := range days {
			r := get(day.Date)
			r.AuthorizedHours = day.AuthorizedHours()
			if c, err := Classify(zone, day); err == nil {
				r.Classification = &c
			}
		}
	}

	reports := make([]DayReport, 0, len(byDate))
	for _, r := range byDate {
		r.ApprovedHours = Round(r.ApprovedHours)
		r.DeclaredHours = Round(r.DeclaredHours)
		r.Delta = Round(r.ApprovedHours - r.AuthorizedHours)
		reports = append(reports, *r)
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Date < reports[j].Date })
	return reports
}
