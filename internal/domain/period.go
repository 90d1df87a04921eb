package domain

import "github.com/google/uuid"

// Period is a named date range used as the unit of capacity accounting.
// WorkingDays is derived from the dates, the plan settings and holidays.
type Period struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	StartDate   Date   `json:"startDate"`
	EndDate     Date   `json:"endDate"`
	WorkingDays int    `json:"workingDays" validate:"gte=0"`
}

// NewPeriod creates a period with a fresh ID.
func NewPeriod(name string, start, end Date, workingDays int) Period {
	return Period{
		ID:          uuid.New().String(),
		Name:        name,
		StartDate:   start,
		EndDate:     end,
		WorkingDays: workingDays,
	}
}
