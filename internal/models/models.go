package model

// All lists every table for AutoMigrate.
func All() []any {
	return []any{
		&Analyst{},
		&Campaign{},
		&ChecklistTemplate{},
		&TemplateItem{},
		&Session{},
		&Task{},
		&ChecklistItem{},
		&TaskHistory{},
		&TaskComment{},
		&Incident{},
		&IncidentUpdate{},
		&OvertimeValidation{},
	}
}
