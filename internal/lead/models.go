// internal/lead/models.go

package lead

import "time"

// Platform is where a lead was met or is talked to.
type Platform string

const (
	PlatformTinder    Platform = "Tinder"
	PlatformBumble    Platform = "Bumble"
	PlatformHinge     Platform = "Hinge"
	PlatformBadoo     Platform = "Badoo"
	PlatformInstagram Platform = "Instagram"
	PlatformFacebook  Platform = "Facebook"
	PlatformWhatsApp  Platform = "WhatsApp"
	PlatformTelegram  Platform = "Telegram"
	PlatformInPerson  Platform = "InPerson"
	PlatformOther     Platform = "Other"
)

// DatingIntention is what the lead is looking for.
type DatingIntention string

const (
	IntentionSerious   DatingIntention = "Serious"
	IntentionCasual    DatingIntention = "Casual"
	IntentionFriends   DatingIntention = "Friends"
	IntentionUndecided DatingIntention = "Undecided"
)

// FunnelStage is one of the six pipeline states a lead occupies.
type FunnelStage string

const (
	StageOne   FunnelStage = "Stage1"
	StageTwo   FunnelStage = "Stage2"
	StageThree FunnelStage = "Stage3"
	StageFour  FunnelStage = "Stage4"
	StageLover FunnelStage = "Lover"
	StageDead  FunnelStage = "Dead"
)

// TemperatureBand is the coarse classification of a temperature percentage.
type TemperatureBand string

const (
	BandHot  TemperatureBand = "Hot"
	BandWarm TemperatureBand = "Warm"
	BandCold TemperatureBand = "Cold"
)

// TemperatureSnapshot is one point of the charted temperature history.
// Snapshots are appended opportunistically, one per band transition.
type TemperatureSnapshot struct {
	Timestamp time.Time       `json:"timestamp"`
	Band      TemperatureBand `json:"band"`
}

// Lead is a tracked dating prospect.
type Lead struct {
	ID string `json:"id"`

	// Profile
	Name                   string          `json:"name"`
	PlatformOrigin         Platform        `json:"platform_origin"`
	CommunicationPlatforms []Platform      `json:"communication_platforms"`
	Country                string          `json:"country,omitempty"`
	PersonalityTraits      string          `json:"personality_traits,omitempty"` // comma-delimited keywords
	Notes                  string          `json:"notes,omitempty"`
	QualificationScore     int             `json:"qualification_score"`
	AestheticsScore        int             `json:"aesthetics_score"`
	DatingIntention        DatingIntention `json:"dating_intention"`
	HowMet                 string          `json:"how_met,omitempty"`
	PhotoURI               string          `json:"photo_uri,omitempty"`

	// Funnel
	FunnelStage    FunnelStage  `json:"funnel_stage"`
	StageEnteredAt time.Time    `json:"stage_entered_at"`
	DeadFromStage  *FunnelStage `json:"dead_from_stage,omitempty"`
	DeadNotes      string       `json:"dead_notes,omitempty"`

	// Temperature
	LastInteractionAt   *time.Time            `json:"last_interaction_at,omitempty"`
	LastResponseAt      *time.Time            `json:"last_response_at,omitempty"`
	TemperatureOverride *int                  `json:"temperature_override,omitempty"`
	OverrideNotes       string                `json:"override_notes,omitempty"`
	Temperature         TemperatureBand       `json:"temperature"` // legacy coarse field kept for display compatibility
	TemperatureHistory  []TemperatureSnapshot `json:"temperature_history,omitempty"`

	// Bookkeeping
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidPlatform reports whether p is a known platform.
func ValidPlatform(p Platform) bool {
	switch p {
	case PlatformTinder, PlatformBumble, PlatformHinge, PlatformBadoo,
		PlatformInstagram, PlatformFacebook, PlatformWhatsApp,
		PlatformTelegram, PlatformInPerson, PlatformOther:
		return true
	}
	return false
}

// ValidIntention reports whether i is a known dating intention.
func ValidIntention(i DatingIntention) bool {
	switch i {
	case IntentionSerious, IntentionCasual, IntentionFriends, IntentionUndecided:
		return true
	}
	return false
}

// Stages returns all funnel stages in board display order.
func Stages() []FunnelStage {
	return []FunnelStage{StageOne, StageTwo, StageThree, StageFour, StageLover, StageDead}
}

// ValidStage reports whether s is a known funnel stage.
func ValidStage(s FunnelStage) bool {
	switch s {
	case StageOne, StageTwo, StageThree, StageFour, StageLover, StageDead:
		return true
	}
	return false
}

// ValidBand reports whether b is a known temperature band.
func ValidBand(b TemperatureBand) bool {
	switch b {
	case BandHot, BandWarm, BandCold:
		return true
	}
	return false
}
