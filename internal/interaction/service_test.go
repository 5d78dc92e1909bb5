package interaction

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avelinoh/amoretrack/internal/lead"
)

// fakeDirectory records touch calls and serves a canned lead list.
type fakeDirectory struct {
	touches []touchCall
	leads   []lead.Lead
	err     error
}

type touchCall struct {
	leadID     string
	occurredAt time.Time
	incoming   bool
}

func (d *fakeDirectory) TouchInteractionDates(_ context.Context, leadID string, occurredAt time.Time, incoming bool) error {
	if d.err != nil {
		return d.err
	}
	d.touches = append(d.touches, touchCall{leadID, occurredAt, incoming})
	return nil
}

func (d *fakeDirectory) ActiveLeads(_ context.Context) ([]lead.Lead, error) {
	return d.leads, nil
}

type fakePersister struct {
	saves int
}

func (p *fakePersister) SaveInteractions(_ context.Context, _ []Interaction) error {
	p.saves++
	return nil
}

func newTestService(t *testing.T, now time.Time, dir *fakeDirectory) (Service, *fakePersister) {
	t.Helper()
	persister := &fakePersister{}
	svc := NewService(NewMemoryRepository(), dir, persister, zap.NewNop(), func() time.Time { return now })
	return svc, persister
}

func TestLogInteractionTouchesLead(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	dir := &fakeDirectory{}
	svc, persister := newTestService(t, now, dir)

	it, err := svc.LogInteraction(context.Background(), "lead-1", &LogInteractionDTO{
		Type:      "Message",
		Direction: "Incoming",
		Notes:     "she suggested dinner",
	})
	require.NoError(t, err)

	assert.Equal(t, "lead-1", it.LeadID)
	assert.Equal(t, TypeMessage, it.Type)
	assert.Equal(t, DirectionIncoming, it.Direction)
	assert.Equal(t, now, it.OccurredAt, "occurredAt defaults to now")
	assert.Equal(t, 1, persister.saves)

	require.Len(t, dir.touches, 1)
	assert.Equal(t, "lead-1", dir.touches[0].leadID)
	assert.True(t, dir.touches[0].incoming)
}

func TestLogInteractionOutgoingDoesNotCountAsResponse(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	dir := &fakeDirectory{}
	svc, _ := newTestService(t, now, dir)

	_, err := svc.LogInteraction(context.Background(), "lead-1", &LogInteractionDTO{
		Type:      "Message",
		Direction: "Outgoing",
	})
	require.NoError(t, err)

	require.Len(t, dir.touches, 1)
	assert.False(t, dir.touches[0].incoming)
}

func TestLogInteractionBackdated(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	occurred := now.AddDate(0, 0, -3)
	dir := &fakeDirectory{}
	svc, _ := newTestService(t, now, dir)

	it, err := svc.LogInteraction(context.Background(), "lead-1", &LogInteractionDTO{
		Type:       "Date",
		Direction:  "Incoming",
		OccurredAt: &occurred,
	})
	require.NoError(t, err)

	assert.Equal(t, occurred, it.OccurredAt)
	assert.Equal(t, now, it.CreatedAt)
	assert.Equal(t, occurred, dir.touches[0].occurredAt)
}

func TestLogInteractionMissingLeadAborts(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	dir := &fakeDirectory{err: lead.ErrLeadNotFound}
	svc, persister := newTestService(t, now, dir)

	_, err := svc.LogInteraction(context.Background(), "ghost", &LogInteractionDTO{
		Type:      "Message",
		Direction: "Incoming",
	})
	assert.ErrorIs(t, err, lead.ErrLeadNotFound)

	items, err := svc.GetInteractionsByLead(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, items, "nothing was inserted for the missing lead")
	assert.Zero(t, persister.saves)
}

func TestLogInteractionValidation(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now, &fakeDirectory{})

	_, err := svc.LogInteraction(context.Background(), "lead-1", &LogInteractionDTO{
		Type: "Carrier Pigeon", Direction: "Incoming",
	})
	assert.ErrorIs(t, err, ErrInvalidType)

	_, err = svc.LogInteraction(context.Background(), "lead-1", &LogInteractionDTO{
		Type: "Message", Direction: "Sideways",
	})
	assert.ErrorIs(t, err, ErrInvalidDirection)
}

func TestDeleteInteraction(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now, &fakeDirectory{})

	it, err := svc.LogInteraction(context.Background(), "lead-1", &LogInteractionDTO{
		Type: "Call", Direction: "Outgoing",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteInteraction(context.Background(), it.ID))
	assert.ErrorIs(t, svc.DeleteInteraction(context.Background(), it.ID), ErrInteractionNotFound)
}

func TestDeleteAllForLead(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now, &fakeDirectory{})

	for i := 0; i < 3; i++ {
		_, err := svc.LogInteraction(context.Background(), "lead-1", &LogInteractionDTO{
			Type: "Message", Direction: "Outgoing",
		})
		require.NoError(t, err)
	}
	_, err := svc.LogInteraction(context.Background(), "lead-2", &LogInteractionDTO{
		Type: "Message", Direction: "Outgoing",
	})
	require.NoError(t, err)

	removed, err := svc.DeleteAllForLead(context.Background(), "lead-1")
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	survivors, err := svc.GetInteractionsByLead(context.Background(), "lead-2")
	require.NoError(t, err)
	assert.Len(t, survivors, 1)
}

func TestStartOfWeek(t *testing.T) {
	loc := time.UTC

	tests := []struct {
		name     string
		now      time.Time
		expected time.Time
	}{
		{
			"wednesday reaches back to monday",
			time.Date(2025, 6, 18, 15, 30, 0, 0, loc), // Wednesday
			time.Date(2025, 6, 16, 0, 0, 0, 0, loc),
		},
		{
			"monday is its own week start",
			time.Date(2025, 6, 16, 0, 0, 1, 0, loc),
			time.Date(2025, 6, 16, 0, 0, 0, 0, loc),
		},
		{
			"sunday belongs to the week that began six days earlier",
			time.Date(2025, 6, 22, 23, 59, 0, 0, loc), // Sunday
			time.Date(2025, 6, 16, 0, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StartOfWeek(tt.now))
		})
	}
}

func TestHadContactThisWeek(t *testing.T) {
	// Wednesday June 18th; the week began Monday June 16th 00:00.
	now := time.Date(2025, 6, 18, 15, 0, 0, 0, time.UTC)

	incoming := func(at time.Time) *Interaction {
		return &Interaction{Direction: DirectionIncoming, OccurredAt: at}
	}
	outgoing := func(at time.Time) *Interaction {
		return &Interaction{Direction: DirectionOutgoing, OccurredAt: at}
	}

	justAfterBoundary := time.Date(2025, 6, 16, 0, 0, 1, 0, time.UTC)
	assert.True(t, HadContactThisWeek([]*Interaction{incoming(justAfterBoundary)}, now))

	lastSunday := time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC)
	assert.False(t, HadContactThisWeek([]*Interaction{incoming(lastSunday)}, now),
		"late Sunday falls in the previous week")

	// Outgoing messages never count; reaching out is not a response.
	assert.False(t, HadContactThisWeek([]*Interaction{outgoing(now)}, now))

	assert.False(t, HadContactThisWeek(nil, now))
}

func TestWeeklyCheckin(t *testing.T) {
	now := time.Date(2025, 6, 18, 15, 0, 0, 0, time.UTC) // Wednesday
	lastResponse := time.Date(2025, 6, 17, 9, 0, 0, 0, time.UTC)

	dir := &fakeDirectory{leads: []lead.Lead{
		{ID: "lead-1", Name: "Sarah", FunnelStage: lead.StageTwo, LastResponseAt: &lastResponse},
		{ID: "lead-2", Name: "Maya", FunnelStage: lead.StageOne},
	}}
	svc, _ := newTestService(t, now, dir)

	_, err := svc.LogInteraction(context.Background(), "lead-1", &LogInteractionDTO{
		Type: "Message", Direction: "Incoming", OccurredAt: &lastResponse,
	})
	require.NoError(t, err)

	entries, err := svc.WeeklyCheckin(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byID := map[string]*CheckinEntry{}
	for _, e := range entries {
		byID[e.LeadID] = e
	}
	assert.True(t, byID["lead-1"].ContactedThisWeek)
	assert.False(t, byID["lead-2"].ContactedThisWeek)
	assert.Equal(t, "Sarah", byID["lead-1"].Name)
	assert.Equal(t, string(lead.StageTwo), byID["lead-1"].Stage)
}
