// internal/settings/settings.go
// User settings carried in the sync envelope alongside leads and
// interactions.

package settings

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/avelinoh/amoretrack/internal/store"
)

// Settings is the single user-preferences record.
type Settings struct {
	DisplayName   string    `json:"display_name,omitempty"`
	HideDeadLeads bool      `json:"hide_dead_leads"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type UpdateSettingsDTO struct {
	DisplayName   *string `json:"display_name,omitempty"`
	HideDeadLeads *bool   `json:"hide_dead_leads,omitempty"`
}

// Persister is the slice of the sync coordinator settings need.
type Persister interface {
	SaveSettings(ctx context.Context, s Settings) error
}

type Service interface {
	Get(ctx context.Context) Settings
	Update(ctx context.Context, dto *UpdateSettingsDTO) (Settings, error)

	// Hooks for the sync coordinator
	Replace(s Settings)
	Snapshot() Settings
}

type service struct {
	mu        sync.RWMutex
	current   Settings
	persister Persister
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(persister Persister, logger *zap.Logger, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{
		persister: persister,
		logger:    logger,
		now:       now,
	}
}

func (s *service) Get(_ context.Context) Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *service) Update(ctx context.Context, dto *UpdateSettingsDTO) (Settings, error) {
	s.mu.Lock()
	if dto.DisplayName != nil {
		s.current.DisplayName = *dto.DisplayName
	}
	if dto.HideDeadLeads != nil {
		s.current.HideDeadLeads = *dto.HideDeadLeads
	}
	s.current.UpdatedAt = s.now()
	snapshot := s.current
	s.mu.Unlock()

	if err := s.persister.SaveSettings(ctx, snapshot); err != nil {
		if errors.Is(err, store.ErrQuotaExceeded) {
			s.logger.Warn("local store quota exceeded, settings not durable", zap.Error(err))
		} else {
			s.logger.Error("failed to persist settings", zap.Error(err))
		}
	}

	return snapshot, nil
}

func (s *service) Replace(settings Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = settings
}

func (s *service) Snapshot() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
