// internal/lead/funnel.go
// Funnel stage transitions. Every transition is a legal move; the board
// may present logical adjacency but nothing is enforced here, so the
// user stays in control of their own pipeline.

package lead

import "time"

// MoveToStage applies a stage transition to the lead in place.
//
// Entering Dead always captures the stage the lead occupied immediately
// before, so a later revival can put it back where it died. Leaving
// Dead clears that provenance along with any dead notes.
func MoveToStage(l *Lead, target FunnelStage, now time.Time) {
	if target == StageDead {
		prev := l.FunnelStage
		l.DeadFromStage = &prev
	} else if l.DeadFromStage != nil {
		l.DeadFromStage = nil
		l.DeadNotes = ""
	}

	l.FunnelStage = target
	l.StageEnteredAt = now
	l.UpdatedAt = now
}
