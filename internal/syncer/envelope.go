// internal/syncer/envelope.go

package syncer

import (
	"time"

	"github.com/avelinoh/amoretrack/internal/interaction"
	"github.com/avelinoh/amoretrack/internal/lead"
	"github.com/avelinoh/amoretrack/internal/settings"
)

// AppData is the sync envelope: the full lead and interaction
// collections plus settings, the unit of remote persistence.
type AppData struct {
	Leads        []lead.Lead               `json:"leads"`
	Interactions []interaction.Interaction `json:"interactions"`
	Settings     settings.Settings         `json:"settings"`
	UpdatedAt    time.Time                 `json:"updated_at"`
}

// Status is the coordinator's connectivity state.
type Status string

const (
	StatusConnecting Status = "connecting"
	StatusSynced     Status = "synced"
	StatusError      Status = "error"
	// StatusOffline exists for API completeness; remote failures are
	// reported as error, matching the behavior this tracker mirrors.
	StatusOffline Status = "offline"
)

// StatusInfo is the connectivity report served to the UI.
type StatusInfo struct {
	Status       Status     `json:"status"`
	Message      string     `json:"message,omitempty"`
	LastSyncAt   *time.Time `json:"last_sync_at,omitempty"`
	LocalWarning string     `json:"local_warning,omitempty"`
}
