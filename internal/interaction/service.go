// internal/interaction/service.go

package interaction

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avelinoh/amoretrack/internal/common/utils"
	"github.com/avelinoh/amoretrack/internal/lead"
	"github.com/avelinoh/amoretrack/internal/store"
)

var (
	ErrInteractionNotFound = errors.New("interaction not found")
	ErrInvalidType         = errors.New("unknown interaction type")
	ErrInvalidDirection    = errors.New("unknown interaction direction")
)

// LeadDirectory is the slice of the lead service the ledger needs:
// the interaction-date side effect and the lead list for check-ins.
type LeadDirectory interface {
	TouchInteractionDates(ctx context.Context, leadID string, occurredAt time.Time, incoming bool) error
	ActiveLeads(ctx context.Context) ([]lead.Lead, error)
}

// Persister is the slice of the sync coordinator the ledger needs.
type Persister interface {
	SaveInteractions(ctx context.Context, items []Interaction) error
}

type Service interface {
	LogInteraction(ctx context.Context, leadID string, dto *LogInteractionDTO) (*Interaction, error)
	GetInteractionsByLead(ctx context.Context, leadID string) ([]*Interaction, error)
	DeleteInteraction(ctx context.Context, id string) error
	DeleteAllForLead(ctx context.Context, leadID string) (int, error)
	WeeklyCheckin(ctx context.Context) ([]*CheckinEntry, error)

	// Hooks for the sync coordinator
	ReplaceAll(items []Interaction)
	Snapshot() []Interaction
}

type service struct {
	repo      Repository
	leads     LeadDirectory
	persister Persister
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(repo Repository, leads LeadDirectory, persister Persister, logger *zap.Logger, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:      repo,
		leads:     leads,
		persister: persister,
		logger:    logger,
		now:       now,
	}
}

func (s *service) LogInteraction(ctx context.Context, leadID string, dto *LogInteractionDTO) (*Interaction, error) {
	if err := utils.ValidateStruct(dto); err != nil {
		return nil, err
	}

	itype := Type(dto.Type)
	if !ValidType(itype) {
		return nil, ErrInvalidType
	}
	direction := Direction(dto.Direction)
	if !ValidDirection(direction) {
		return nil, ErrInvalidDirection
	}

	now := s.now()
	occurredAt := now
	if dto.OccurredAt != nil {
		occurredAt = *dto.OccurredAt
	}

	// Touch the lead first so a missing lead aborts before any insert.
	incoming := direction == DirectionIncoming
	if err := s.leads.TouchInteractionDates(ctx, leadID, occurredAt, incoming); err != nil {
		return nil, err
	}

	it := &Interaction{
		ID:         uuid.NewString(),
		LeadID:     leadID,
		Type:       itype,
		Direction:  direction,
		Notes:      dto.Notes,
		OccurredAt: occurredAt,
		CreatedAt:  now,
	}

	s.repo.Insert(it)
	s.persist(ctx)
	RecordInteraction(string(itype), string(direction))

	return it, nil
}

func (s *service) GetInteractionsByLead(_ context.Context, leadID string) ([]*Interaction, error) {
	return s.repo.ListByLead(leadID), nil
}

func (s *service) DeleteInteraction(ctx context.Context, id string) error {
	if ok := s.repo.Delete(id); !ok {
		return ErrInteractionNotFound
	}
	s.persist(ctx)
	return nil
}

// DeleteAllForLead removes every interaction owned by the lead. Called
// by the lead service when a lead is deleted.
func (s *service) DeleteAllForLead(ctx context.Context, leadID string) (int, error) {
	removed := s.repo.DeleteAllForLead(leadID)
	if removed > 0 {
		s.persist(ctx)
	}
	return removed, nil
}

// WeeklyCheckin reports, for every non-dead lead, whether an incoming
// interaction landed since the most recent Monday 00:00 local time.
func (s *service) WeeklyCheckin(ctx context.Context) ([]*CheckinEntry, error) {
	leads, err := s.leads.ActiveLeads(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	entries := make([]*CheckinEntry, 0, len(leads))
	for i := range leads {
		l := leads[i]
		entries = append(entries, &CheckinEntry{
			LeadID:            l.ID,
			Name:              l.Name,
			Stage:             string(l.FunnelStage),
			ContactedThisWeek: HadContactThisWeek(s.repo.ListByLead(l.ID), now),
			LastResponseAt:    l.LastResponseAt,
		})
	}
	return entries, nil
}

func (s *service) ReplaceAll(items []Interaction) {
	s.repo.ReplaceAll(items)
}

func (s *service) Snapshot() []Interaction {
	return s.repo.Snapshot()
}

func (s *service) persist(ctx context.Context) {
	if err := s.persister.SaveInteractions(ctx, s.repo.Snapshot()); err != nil {
		if errors.Is(err, store.ErrQuotaExceeded) {
			s.logger.Warn("local store quota exceeded, interaction changes not durable", zap.Error(err))
			return
		}
		s.logger.Error("failed to persist interactions", zap.Error(err))
	}
}

// StartOfWeek returns the most recent Monday 00:00 in now's location.
// ISO weeks start on Monday, so a Sunday "now" reaches 6 days back.
func StartOfWeek(now time.Time) time.Time {
	offset := (int(now.Weekday()) + 6) % 7
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, -offset)
}

// HadContactThisWeek reports whether any incoming interaction occurred
// on or after the current week's Monday boundary.
func HadContactThisWeek(items []*Interaction, now time.Time) bool {
	monday := StartOfWeek(now)
	for _, it := range items {
		if it.Direction == DirectionIncoming && !it.OccurredAt.Before(monday) {
			return true
		}
	}
	return false
}
