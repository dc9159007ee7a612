package model

import (
	"fmt"
	"strings"
	"time"
)

// Weekdays is a bitmask where bit n is set when the item applies on
// time.Weekday(n).
type Weekdays uint8

const AllWeekdays Weekdays = 0x7f

func WeekdaysOf(days ...time.Weekday) Weekdays {
	var w Weekdays
	for _, d := range days {
		w |= 1 << uint(d)
	}
	return w
}

func (w Weekdays) Has(day time.Weekday) bool {
	return w&(1<<uint(day)) != 0
}

func (w Weekdays) String() string {
	names := make([]string, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if w.Has(d) {
			names = append(names, d.String()[:3])
		}
	}
	return strings.Join(names, ",")
}

// ParseWeekdays reads a comma separated list of three-letter day names, or
// "all".
func ParseWeekdays(value string) (Weekdays, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "all") {
		return AllWeekdays, nil
	}

	var w Weekdays
	for _, part := range strings.Split(value, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		found := false
		for d := time.Sunday; d <= time.Saturday; d++ {
			if strings.ToLower(d.String()[:3]) == part {
				w |= 1 << uint(d)
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown weekday %q", part)
		}
	}
	return w, nil
}

type TemplateItem struct {
	ID            string   `gorm:"primaryKey;size:36" json:"id"`
	TemplateID    string   `gorm:"size:36;not null;index" json:"template_id"`
	Position      int      `gorm:"not null" json:"position"`
	Description   string   `gorm:"not null" json:"description"`
	SuggestedTime *string  `gorm:"size:5" json:"suggested_time,omitempty"`
	Weekdays      Weekdays `gorm:"not null" json:"weekdays"`
}
