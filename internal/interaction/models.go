// internal/interaction/models.go

package interaction

import "time"

// Type is the kind of communication event.
type Type string

const (
	TypeMessage Type = "Message"
	TypeCall    Type = "Call"
	TypeDate    Type = "Date"
	TypeMeeting Type = "Meeting"
	TypeOther   Type = "Other"
)

// Direction says who initiated the interaction.
type Direction string

const (
	DirectionIncoming Direction = "Incoming"
	DirectionOutgoing Direction = "Outgoing"
)

// Interaction is a single logged communication event owned by one lead.
// Records are append-only; only the free-text notes may be corrected.
type Interaction struct {
	ID         string    `json:"id"`
	LeadID     string    `json:"lead_id"`
	Type       Type      `json:"type"`
	Direction  Direction `json:"direction"`
	Notes      string    `json:"notes,omitempty"`
	OccurredAt time.Time `json:"occurred_at"` // caller-supplied, may be backdated
	CreatedAt  time.Time `json:"created_at"`
}

// ValidType reports whether t is a known interaction type.
func ValidType(t Type) bool {
	switch t {
	case TypeMessage, TypeCall, TypeDate, TypeMeeting, TypeOther:
		return true
	}
	return false
}

// ValidDirection reports whether d is a known direction.
func ValidDirection(d Direction) bool {
	switch d {
	case DirectionIncoming, DirectionOutgoing:
		return true
	}
	return false
}
