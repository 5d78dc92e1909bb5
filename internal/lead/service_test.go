package lead

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avelinoh/amoretrack/internal/store"
)

// fakePersister records every snapshot handed to it and can be told to
// fail with a quota error.
type fakePersister struct {
	mu        sync.Mutex
	saves     int
	last      []Lead
	quotaFail bool
}

func (p *fakePersister) SaveLeads(_ context.Context, leads []Lead) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.quotaFail {
		return store.ErrQuotaExceeded
	}
	p.saves++
	p.last = leads
	return nil
}

type fakeLedger struct {
	deletedFor []string
	removed    int
	err        error
}

func (l *fakeLedger) DeleteAllForLead(_ context.Context, leadID string) (int, error) {
	l.deletedFor = append(l.deletedFor, leadID)
	return l.removed, l.err
}

func newTestService(t *testing.T, now time.Time) (Service, *fakePersister) {
	t.Helper()
	persister := &fakePersister{}
	svc := NewService(NewMemoryRepository(), persister, zap.NewNop(), func() time.Time { return now })
	return svc, persister
}

func TestCreateLeadDefaults(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc, persister := newTestService(t, now)

	l, err := svc.CreateLead(context.Background(), &CreateLeadDTO{
		Name:           "  Sarah  ",
		PlatformOrigin: "Tinder",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, l.ID)
	assert.Equal(t, "Sarah", l.Name, "name is trimmed")
	assert.Equal(t, PlatformTinder, l.PlatformOrigin)
	assert.Equal(t, []Platform{PlatformTinder}, l.CommunicationPlatforms, "defaults to the origin platform")
	assert.Equal(t, 5, l.QualificationScore)
	assert.Equal(t, 5, l.AestheticsScore)
	assert.Equal(t, IntentionUndecided, l.DatingIntention)
	assert.Equal(t, StageOne, l.FunnelStage)
	assert.Equal(t, now, l.StageEnteredAt)
	assert.Equal(t, now, l.CreatedAt)
	assert.Equal(t, 1, persister.saves, "creation persists the collection")
}

func TestCreateLeadValidation(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)

	_, err := svc.CreateLead(context.Background(), &CreateLeadDTO{Name: "   ", PlatformOrigin: "Tinder"})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = svc.CreateLead(context.Background(), &CreateLeadDTO{Name: "A", PlatformOrigin: "MySpace"})
	assert.ErrorIs(t, err, ErrInvalidPlatform)

	_, err = svc.CreateLead(context.Background(), &CreateLeadDTO{
		Name: "A", PlatformOrigin: "Tinder", DatingIntention: "Polka",
	})
	assert.ErrorIs(t, err, ErrInvalidIntention)

	_, err = svc.CreateLead(context.Background(), &CreateLeadDTO{
		Name: "A", PlatformOrigin: "Tinder", FunnelStage: "Stage9",
	})
	assert.ErrorIs(t, err, ErrInvalidStage)
}

func TestCreateLeadClampsScores(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)

	tooHigh, tooLow := 15, -3
	l, err := svc.CreateLead(context.Background(), &CreateLeadDTO{
		Name:               "Maya",
		PlatformOrigin:     "Hinge",
		QualificationScore: &tooHigh,
		AestheticsScore:    &tooLow,
	})
	require.NoError(t, err)

	assert.Equal(t, 10, l.QualificationScore)
	assert.Equal(t, 1, l.AestheticsScore)
}

func TestUpdateLead(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)

	l, err := svc.CreateLead(context.Background(), &CreateLeadDTO{Name: "Maya", PlatformOrigin: "Hinge"})
	require.NoError(t, err)

	country := "Brazil"
	notes := "met at a salsa class"
	updated, err := svc.UpdateLead(context.Background(), l.ID, &UpdateLeadDTO{
		Country: &country,
		Notes:   &notes,
	})
	require.NoError(t, err)

	assert.Equal(t, "Brazil", updated.Country)
	assert.Equal(t, "met at a salsa class", updated.Notes)
	assert.Equal(t, "Maya", updated.Name, "untouched fields keep their values")

	_, err = svc.UpdateLead(context.Background(), "nope", &UpdateLeadDTO{Country: &country})
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestDeleteLeadCascades(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)
	ledger := &fakeLedger{removed: 3}
	svc.SetLedger(ledger)

	l, err := svc.CreateLead(context.Background(), &CreateLeadDTO{Name: "Maya", PlatformOrigin: "Hinge"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteLead(context.Background(), l.ID))
	assert.Equal(t, []string{l.ID}, ledger.deletedFor)

	_, err = svc.GetLead(context.Background(), l.ID)
	assert.ErrorIs(t, err, ErrLeadNotFound)

	assert.ErrorIs(t, svc.DeleteLead(context.Background(), l.ID), ErrLeadNotFound)
}

func TestDeleteLeadSurvivesLedgerFailure(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)
	svc.SetLedger(&fakeLedger{err: errors.New("ledger exploded")})

	l, err := svc.CreateLead(context.Background(), &CreateLeadDTO{Name: "Maya", PlatformOrigin: "Hinge"})
	require.NoError(t, err)

	// A ledger failure is logged, not surfaced; the lead is gone.
	require.NoError(t, svc.DeleteLead(context.Background(), l.ID))
}

func TestMoveLeadToStage(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)

	l, err := svc.CreateLead(context.Background(), &CreateLeadDTO{
		Name: "Maya", PlatformOrigin: "Hinge", FunnelStage: "Stage3",
	})
	require.NoError(t, err)

	dead, err := svc.MoveLeadToStage(context.Background(), l.ID, &MoveStageDTO{
		Stage:     "Dead",
		DeadNotes: "stopped replying",
	})
	require.NoError(t, err)
	require.NotNil(t, dead.DeadFromStage)
	assert.Equal(t, StageThree, *dead.DeadFromStage)
	assert.Equal(t, "stopped replying", dead.DeadNotes)

	revived, err := svc.MoveLeadToStage(context.Background(), l.ID, &MoveStageDTO{Stage: "Stage1"})
	require.NoError(t, err)
	assert.Nil(t, revived.DeadFromStage)
	assert.Empty(t, revived.DeadNotes)

	_, err = svc.MoveLeadToStage(context.Background(), l.ID, &MoveStageDTO{Stage: "Limbo"})
	assert.ErrorIs(t, err, ErrInvalidStage)
}

func TestTemperatureOverrideLifecycle(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)

	l, err := svc.CreateLead(context.Background(), &CreateLeadDTO{Name: "Maya", PlatformOrigin: "Hinge"})
	require.NoError(t, err)

	overridden, err := svc.SetTemperatureOverride(context.Background(), l.ID, &OverrideTemperatureDTO{
		Value: 42,
		Notes: "gut feeling",
	})
	require.NoError(t, err)
	require.NotNil(t, overridden.TemperatureOverride)
	assert.Equal(t, 42, *overridden.TemperatureOverride)
	assert.Equal(t, "gut feeling", overridden.OverrideNotes)

	view, err := svc.Temperature(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, 42, view.Pct)
	assert.Equal(t, BandWarm, view.Band)

	cleared, err := svc.ClearTemperatureOverride(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Nil(t, cleared.TemperatureOverride)
	assert.Empty(t, cleared.OverrideNotes)

	// Freshly created lead decays from CreatedAt, which is "now".
	view, err = svc.Temperature(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, view.Pct)
}

func TestTouchInteractionDates(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)

	l, err := svc.CreateLead(context.Background(), &CreateLeadDTO{Name: "Sarah", PlatformOrigin: "Tinder"})
	require.NoError(t, err)

	// An outgoing message moves lastInteractionAt only.
	outgoingAt := now.AddDate(0, 0, -1)
	require.NoError(t, svc.TouchInteractionDates(context.Background(), l.ID, outgoingAt, false))

	view, err := svc.GetLead(context.Background(), l.ID)
	require.NoError(t, err)
	require.NotNil(t, view.LastInteractionAt)
	assert.Equal(t, outgoingAt, *view.LastInteractionAt)
	assert.Nil(t, view.LastResponseAt)

	// An incoming reply two days ago moves both, and the decay now
	// counts from the reply.
	incomingAt := now.AddDate(0, 0, -2)
	require.NoError(t, svc.TouchInteractionDates(context.Background(), l.ID, incomingAt, true))

	view, err = svc.GetLead(context.Background(), l.ID)
	require.NoError(t, err)
	require.NotNil(t, view.LastResponseAt)
	assert.Equal(t, incomingAt, *view.LastResponseAt)
	assert.Equal(t, 71, view.TemperaturePct)
	assert.Equal(t, BandHot, view.TemperatureBand)

	assert.ErrorIs(t, svc.TouchInteractionDates(context.Background(), "nope", now, true), ErrLeadNotFound)
}

func TestListLeadsFilters(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)

	a, err := svc.CreateLead(context.Background(), &CreateLeadDTO{Name: "A", PlatformOrigin: "Tinder"})
	require.NoError(t, err)
	b, err := svc.CreateLead(context.Background(), &CreateLeadDTO{Name: "B", PlatformOrigin: "Bumble", FunnelStage: "Stage2"})
	require.NoError(t, err)

	// Age lead A out of the Hot band.
	staleAt := now.AddDate(0, 0, -10)
	require.NoError(t, svc.TouchInteractionDates(context.Background(), a.ID, staleAt, true))

	byStage, err := svc.ListLeads(context.Background(), StageTwo, "")
	require.NoError(t, err)
	require.Len(t, byStage, 1)
	assert.Equal(t, b.ID, byStage[0].ID)

	hot, err := svc.ListLeads(context.Background(), "", BandHot)
	require.NoError(t, err)
	require.Len(t, hot, 1)
	assert.Equal(t, b.ID, hot[0].ID)

	_, err = svc.ListLeads(context.Background(), "Stage9", "")
	assert.ErrorIs(t, err, ErrInvalidStage)
}

func TestBoardGroupsByStage(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)

	_, err := svc.CreateLead(context.Background(), &CreateLeadDTO{Name: "A", PlatformOrigin: "Tinder"})
	require.NoError(t, err)
	_, err = svc.CreateLead(context.Background(), &CreateLeadDTO{Name: "B", PlatformOrigin: "Bumble", FunnelStage: "Lover"})
	require.NoError(t, err)

	board, err := svc.Board(context.Background())
	require.NoError(t, err)
	require.Len(t, board, len(Stages()), "every stage gets a column even when empty")

	byStage := map[FunnelStage]int{}
	for _, col := range board {
		byStage[col.Stage] = len(col.Leads)
	}
	assert.Equal(t, 1, byStage[StageOne])
	assert.Equal(t, 1, byStage[StageLover])
	assert.Equal(t, 0, byStage[StageDead])
}

func TestQuotaFailureIsOptimistic(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc, persister := newTestService(t, now)
	persister.quotaFail = true

	// The write is not durable but the operation still succeeds and
	// the lead is visible in memory.
	l, err := svc.CreateLead(context.Background(), &CreateLeadDTO{Name: "Maya", PlatformOrigin: "Hinge"})
	require.NoError(t, err)

	_, err = svc.GetLead(context.Background(), l.ID)
	assert.NoError(t, err)
}

func TestSnapshotAndReplaceAll(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)

	_, err := svc.CreateLead(context.Background(), &CreateLeadDTO{Name: "Old", PlatformOrigin: "Tinder"})
	require.NoError(t, err)

	replacement := []Lead{{
		ID:             "remote-1",
		Name:           "Remote",
		PlatformOrigin: PlatformBumble,
		FunnelStage:    StageTwo,
		CreatedAt:      now,
		UpdatedAt:      now,
	}}
	svc.ReplaceAll(replacement)

	snap := svc.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "remote-1", snap[0].ID)
}
