// internal/lead/dto.go
package lead

import "time"

// DTOs for API requests/responses

type CreateLeadDTO struct {
	Name                   string   `json:"name" validate:"required"`
	PlatformOrigin         string   `json:"platform_origin" validate:"required"`
	CommunicationPlatforms []string `json:"communication_platforms,omitempty"`
	Country                string   `json:"country,omitempty"`
	PersonalityTraits      string   `json:"personality_traits,omitempty"`
	Notes                  string   `json:"notes,omitempty"`
	QualificationScore     *int     `json:"qualification_score,omitempty"`
	AestheticsScore        *int     `json:"aesthetics_score,omitempty"`
	DatingIntention        string   `json:"dating_intention,omitempty"`
	HowMet                 string   `json:"how_met,omitempty"`
	PhotoURI               string   `json:"photo_uri,omitempty"`
	FunnelStage            string   `json:"funnel_stage,omitempty"`
}

type UpdateLeadDTO struct {
	Name                   *string  `json:"name,omitempty"`
	PlatformOrigin         *string  `json:"platform_origin,omitempty"`
	CommunicationPlatforms []string `json:"communication_platforms,omitempty"`
	Country                *string  `json:"country,omitempty"`
	PersonalityTraits      *string  `json:"personality_traits,omitempty"`
	Notes                  *string  `json:"notes,omitempty"`
	QualificationScore     *int     `json:"qualification_score,omitempty"`
	AestheticsScore        *int     `json:"aesthetics_score,omitempty"`
	DatingIntention        *string  `json:"dating_intention,omitempty"`
	HowMet                 *string  `json:"how_met,omitempty"`
	PhotoURI               *string  `json:"photo_uri,omitempty"`
	DeadNotes              *string  `json:"dead_notes,omitempty"`
}

type MoveStageDTO struct {
	Stage     string `json:"stage" validate:"required"`
	DeadNotes string `json:"dead_notes,omitempty" validate:"omitempty,max=1000"`
}

type OverrideTemperatureDTO struct {
	Value int    `json:"value" validate:"gte=0,lte=100"`
	Notes string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// LeadView is a lead plus its derived temperature, as served to the UI.
type LeadView struct {
	Lead
	TemperaturePct  int             `json:"temperature_pct"`
	TemperatureBand TemperatureBand `json:"temperature_band"`
}

// BoardColumn is one kanban column: a stage and its leads.
type BoardColumn struct {
	Stage FunnelStage `json:"stage"`
	Leads []*LeadView `json:"leads"`
}

// TemperatureView is the full temperature state for one lead.
type TemperatureView struct {
	Pct           int                   `json:"pct"`
	Band          TemperatureBand       `json:"band"`
	Override      *int                  `json:"override,omitempty"`
	OverrideNotes string                `json:"override_notes,omitempty"`
	ReferenceAt   time.Time             `json:"reference_at"`
	History       []TemperatureSnapshot `json:"history,omitempty"`
}
