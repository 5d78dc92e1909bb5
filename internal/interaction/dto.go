// internal/interaction/dto.go
package interaction

import "time"

// DTOs for API requests/responses

type LogInteractionDTO struct {
	Type       string     `json:"type" validate:"required"`
	Direction  string     `json:"direction" validate:"required"`
	Notes      string     `json:"notes,omitempty" validate:"omitempty,max=2000"`
	OccurredAt *time.Time `json:"occurred_at,omitempty"` // defaults to now
}

// CheckinEntry is one row of the weekly check-in report: has this lead
// responded since Monday?
type CheckinEntry struct {
	LeadID             string     `json:"lead_id"`
	Name               string     `json:"name"`
	Stage              string     `json:"stage"`
	ContactedThisWeek  bool       `json:"contacted_this_week"`
	LastResponseAt     *time.Time `json:"last_response_at,omitempty"`
}
