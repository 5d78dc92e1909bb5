// internal/lead/service.go

package lead

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avelinoh/amoretrack/internal/common/utils"
	"github.com/avelinoh/amoretrack/internal/store"
)

var (
	ErrLeadNotFound     = errors.New("lead not found")
	ErrNameRequired     = errors.New("lead name is required")
	ErrInvalidPlatform  = errors.New("unknown platform")
	ErrInvalidIntention = errors.New("unknown dating intention")
	ErrInvalidStage     = errors.New("unknown funnel stage")
)

const (
	defaultQualificationScore = 5
	defaultAestheticsScore    = 5
)

// Persister is the slice of the sync coordinator the lead service needs.
type Persister interface {
	SaveLeads(ctx context.Context, leads []Lead) error
}

// Ledger is the slice of the interaction service needed for cascade
// deletes. Wired after construction to break the mutual dependency.
type Ledger interface {
	DeleteAllForLead(ctx context.Context, leadID string) (int, error)
}

type Service interface {
	CreateLead(ctx context.Context, dto *CreateLeadDTO) (*Lead, error)
	GetLead(ctx context.Context, id string) (*LeadView, error)
	ListLeads(ctx context.Context, stage FunnelStage, band TemperatureBand) ([]*LeadView, error)
	UpdateLead(ctx context.Context, id string, dto *UpdateLeadDTO) (*Lead, error)
	DeleteLead(ctx context.Context, id string) error
	MoveLeadToStage(ctx context.Context, id string, dto *MoveStageDTO) (*Lead, error)

	SetTemperatureOverride(ctx context.Context, id string, dto *OverrideTemperatureDTO) (*Lead, error)
	ClearTemperatureOverride(ctx context.Context, id string) (*Lead, error)
	Temperature(ctx context.Context, id string) (*TemperatureView, error)
	Board(ctx context.Context) ([]*BoardColumn, error)

	// Hooks for the interaction ledger
	TouchInteractionDates(ctx context.Context, id string, occurredAt time.Time, incoming bool) error
	ActiveLeads(ctx context.Context) ([]Lead, error)

	// Hooks for the sync coordinator
	ReplaceAll(leads []Lead)
	Snapshot() []Lead

	SetLedger(ledger Ledger)
}

type service struct {
	repo      Repository
	persister Persister
	ledger    Ledger
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(repo Repository, persister Persister, logger *zap.Logger, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:      repo,
		persister: persister,
		logger:    logger,
		now:       now,
	}
}

// SetLedger wires the interaction service in after construction
// (resolves the circular dependency between leads and interactions).
func (s *service) SetLedger(ledger Ledger) {
	s.ledger = ledger
}

func (s *service) CreateLead(ctx context.Context, dto *CreateLeadDTO) (*Lead, error) {
	if err := utils.ValidateStruct(dto); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(dto.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	origin := Platform(dto.PlatformOrigin)
	if !ValidPlatform(origin) {
		return nil, ErrInvalidPlatform
	}

	commPlatforms := make([]Platform, 0, len(dto.CommunicationPlatforms))
	for _, p := range dto.CommunicationPlatforms {
		platform := Platform(p)
		if !ValidPlatform(platform) {
			return nil, ErrInvalidPlatform
		}
		commPlatforms = append(commPlatforms, platform)
	}
	if len(commPlatforms) == 0 {
		commPlatforms = []Platform{origin}
	}

	intention := IntentionUndecided
	if dto.DatingIntention != "" {
		intention = DatingIntention(dto.DatingIntention)
		if !ValidIntention(intention) {
			return nil, ErrInvalidIntention
		}
	}

	stage := StageOne
	if dto.FunnelStage != "" {
		stage = FunnelStage(dto.FunnelStage)
		if !ValidStage(stage) {
			return nil, ErrInvalidStage
		}
	}

	qualification := defaultQualificationScore
	if dto.QualificationScore != nil {
		qualification = clampScore(*dto.QualificationScore)
	}
	aesthetics := defaultAestheticsScore
	if dto.AestheticsScore != nil {
		aesthetics = clampScore(*dto.AestheticsScore)
	}

	now := s.now()
	l := &Lead{
		ID:                     uuid.NewString(),
		Name:                   name,
		PlatformOrigin:         origin,
		CommunicationPlatforms: commPlatforms,
		Country:                dto.Country,
		PersonalityTraits:      dto.PersonalityTraits,
		Notes:                  dto.Notes,
		QualificationScore:     qualification,
		AestheticsScore:        aesthetics,
		DatingIntention:        intention,
		HowMet:                 dto.HowMet,
		PhotoURI:               dto.PhotoURI,
		FunnelStage:            stage,
		StageEnteredAt:         now,
		Temperature:            BandCold, // legacy field starts Cold regardless of computed pct
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	s.repo.Insert(l)
	s.persist(ctx)
	RecordLeadCreated(string(origin))

	return l, nil
}

func (s *service) GetLead(_ context.Context, id string) (*LeadView, error) {
	l, ok := s.repo.Get(id)
	if !ok {
		return nil, ErrLeadNotFound
	}
	return s.view(l), nil
}

func (s *service) ListLeads(_ context.Context, stage FunnelStage, band TemperatureBand) ([]*LeadView, error) {
	if stage != "" && !ValidStage(stage) {
		return nil, ErrInvalidStage
	}

	now := s.now()
	views := make([]*LeadView, 0)
	for _, l := range s.repo.List() {
		if stage != "" && l.FunnelStage != stage {
			continue
		}
		pct := ComputeTemperature(l, now)
		if band != "" && BandFor(pct) != band {
			continue
		}
		views = append(views, &LeadView{Lead: *l, TemperaturePct: pct, TemperatureBand: BandFor(pct)})
	}
	return views, nil
}

func (s *service) UpdateLead(ctx context.Context, id string, dto *UpdateLeadDTO) (*Lead, error) {
	l, ok := s.repo.Get(id)
	if !ok {
		return nil, ErrLeadNotFound
	}

	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		l.Name = name
	}
	if dto.PlatformOrigin != nil {
		origin := Platform(*dto.PlatformOrigin)
		if !ValidPlatform(origin) {
			return nil, ErrInvalidPlatform
		}
		l.PlatformOrigin = origin
	}
	if len(dto.CommunicationPlatforms) > 0 {
		commPlatforms := make([]Platform, 0, len(dto.CommunicationPlatforms))
		for _, p := range dto.CommunicationPlatforms {
			platform := Platform(p)
			if !ValidPlatform(platform) {
				return nil, ErrInvalidPlatform
			}
			commPlatforms = append(commPlatforms, platform)
		}
		l.CommunicationPlatforms = commPlatforms
	}
	if dto.Country != nil {
		l.Country = *dto.Country
	}
	if dto.PersonalityTraits != nil {
		l.PersonalityTraits = *dto.PersonalityTraits
	}
	if dto.Notes != nil {
		l.Notes = *dto.Notes
	}
	if dto.QualificationScore != nil {
		l.QualificationScore = clampScore(*dto.QualificationScore)
	}
	if dto.AestheticsScore != nil {
		l.AestheticsScore = clampScore(*dto.AestheticsScore)
	}
	if dto.DatingIntention != nil {
		intention := DatingIntention(*dto.DatingIntention)
		if !ValidIntention(intention) {
			return nil, ErrInvalidIntention
		}
		l.DatingIntention = intention
	}
	if dto.HowMet != nil {
		l.HowMet = *dto.HowMet
	}
	if dto.PhotoURI != nil {
		l.PhotoURI = *dto.PhotoURI
	}
	if dto.DeadNotes != nil {
		l.DeadNotes = *dto.DeadNotes
	}

	l.UpdatedAt = s.now()
	s.repo.Update(l)
	s.persist(ctx)

	return l, nil
}

func (s *service) DeleteLead(ctx context.Context, id string) error {
	if ok := s.repo.Delete(id); !ok {
		return ErrLeadNotFound
	}

	if s.ledger != nil {
		removed, err := s.ledger.DeleteAllForLead(ctx, id)
		if err != nil {
			s.logger.Error("failed to cascade interaction delete",
				zap.String("lead_id", id), zap.Error(err))
		} else if removed > 0 {
			s.logger.Info("cascaded interaction delete",
				zap.String("lead_id", id), zap.Int("removed", removed))
		}
	}

	s.persist(ctx)
	RecordLeadDeleted()
	return nil
}

func (s *service) MoveLeadToStage(ctx context.Context, id string, dto *MoveStageDTO) (*Lead, error) {
	if err := utils.ValidateStruct(dto); err != nil {
		return nil, err
	}

	target := FunnelStage(dto.Stage)
	if !ValidStage(target) {
		return nil, ErrInvalidStage
	}

	l, ok := s.repo.Get(id)
	if !ok {
		return nil, ErrLeadNotFound
	}

	from := l.FunnelStage
	MoveToStage(l, target, s.now())
	if target == StageDead && dto.DeadNotes != "" {
		l.DeadNotes = dto.DeadNotes
	}

	s.repo.Update(l)
	s.persist(ctx)
	RecordStageTransition(string(from), string(target))

	return l, nil
}

func (s *service) SetTemperatureOverride(ctx context.Context, id string, dto *OverrideTemperatureDTO) (*Lead, error) {
	if err := utils.ValidateStruct(dto); err != nil {
		return nil, err
	}

	l, ok := s.repo.Get(id)
	if !ok {
		return nil, ErrLeadNotFound
	}

	value := clampPct(dto.Value)
	now := s.now()
	l.TemperatureOverride = &value
	l.OverrideNotes = dto.Notes
	l.UpdatedAt = now
	s.refreshBand(l, now)

	s.repo.Update(l)
	s.persist(ctx)

	return l, nil
}

// ClearTemperatureOverride resumes automatic decay from the lead's
// existing reference dates. The score may jump visibly when the natural
// decay position differs from the override; that matches the source of
// record for this behavior.
func (s *service) ClearTemperatureOverride(ctx context.Context, id string) (*Lead, error) {
	l, ok := s.repo.Get(id)
	if !ok {
		return nil, ErrLeadNotFound
	}

	now := s.now()
	l.TemperatureOverride = nil
	l.OverrideNotes = ""
	l.UpdatedAt = now
	s.refreshBand(l, now)

	s.repo.Update(l)
	s.persist(ctx)

	return l, nil
}

func (s *service) Temperature(_ context.Context, id string) (*TemperatureView, error) {
	l, ok := s.repo.Get(id)
	if !ok {
		return nil, ErrLeadNotFound
	}

	now := s.now()
	pct := ComputeTemperature(l, now)

	ref := l.CreatedAt
	switch {
	case l.LastResponseAt != nil:
		ref = *l.LastResponseAt
	case l.LastInteractionAt != nil:
		ref = *l.LastInteractionAt
	}

	return &TemperatureView{
		Pct:           pct,
		Band:          BandFor(pct),
		Override:      l.TemperatureOverride,
		OverrideNotes: l.OverrideNotes,
		ReferenceAt:   ref,
		History:       l.TemperatureHistory,
	}, nil
}

func (s *service) Board(_ context.Context) ([]*BoardColumn, error) {
	now := s.now()
	columns := make([]*BoardColumn, 0, len(Stages()))
	byStage := make(map[FunnelStage]*BoardColumn)

	for _, stage := range Stages() {
		col := &BoardColumn{Stage: stage, Leads: []*LeadView{}}
		byStage[stage] = col
		columns = append(columns, col)
	}

	for _, l := range s.repo.List() {
		col, ok := byStage[l.FunnelStage]
		if !ok {
			continue
		}
		pct := ComputeTemperature(l, now)
		col.Leads = append(col.Leads, &LeadView{Lead: *l, TemperaturePct: pct, TemperatureBand: BandFor(pct)})
	}

	return columns, nil
}

// TouchInteractionDates is the ledger's side effect on the lead: every
// interaction moves lastInteractionAt; only incoming ones move
// lastResponseAt, because only responses reset the decay.
func (s *service) TouchInteractionDates(ctx context.Context, id string, occurredAt time.Time, incoming bool) error {
	l, ok := s.repo.Get(id)
	if !ok {
		return ErrLeadNotFound
	}

	occurred := occurredAt
	l.LastInteractionAt = &occurred
	if incoming {
		l.LastResponseAt = &occurred
	}

	now := s.now()
	l.UpdatedAt = now
	s.refreshBand(l, now)

	s.repo.Update(l)
	s.persist(ctx)
	return nil
}

func (s *service) ActiveLeads(_ context.Context) ([]Lead, error) {
	out := make([]Lead, 0)
	for _, l := range s.repo.List() {
		if l.FunnelStage == StageDead {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (s *service) ReplaceAll(leads []Lead) {
	s.repo.ReplaceAll(leads)
}

func (s *service) Snapshot() []Lead {
	return s.repo.Snapshot()
}

// refreshBand recomputes the coarse band and appends a history snapshot
// when the band changed since the last one.
func (s *service) refreshBand(l *Lead, now time.Time) {
	band := BandFor(ComputeTemperature(l, now))
	n := len(l.TemperatureHistory)
	if n == 0 || l.TemperatureHistory[n-1].Band != band {
		l.TemperatureHistory = append(l.TemperatureHistory, TemperatureSnapshot{Timestamp: now, Band: band})
	}
	l.Temperature = band
}

func (s *service) view(l *Lead) *LeadView {
	pct := ComputeTemperature(l, s.now())
	return &LeadView{Lead: *l, TemperaturePct: pct, TemperatureBand: BandFor(pct)}
}

// persist writes the lead collection through the sync coordinator. A
// quota failure keeps the in-memory state (optimistic) and is logged as
// a durability warning rather than failing the operation.
func (s *service) persist(ctx context.Context) {
	if err := s.persister.SaveLeads(ctx, s.repo.Snapshot()); err != nil {
		if errors.Is(err, store.ErrQuotaExceeded) {
			s.logger.Warn("local store quota exceeded, lead changes not durable", zap.Error(err))
			return
		}
		s.logger.Error("failed to persist leads", zap.Error(err))
	}
}
