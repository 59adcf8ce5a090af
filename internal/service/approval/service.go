// Package approval implements the change-request workflow: non-privileged
// actors stage mutations, admins approve or deny, approval replays the
// staged payload through the schedule commit path.
package approval

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/shiftbot-backend/internal/domain"
)

type requestRepo interface {
	Create(ctx context.Context, req domain.ChangeRequest) (*domain.ChangeRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ChangeRequest, error)
	Pending(ctx context.Context, limit int) ([]domain.ChangeRequest, error)
	Decide(ctx context.Context, id uuid.UUID, status domain.RequestStatus, reviewer int64, at time.Time) (*domain.ChangeRequest, error)
}

type rosterService interface {
	NamesToMask(ctx context.Context, names []string) (domain.Mask, []string, error)
}

type scheduleService interface {
	Commit(ctx context.Context, day time.Time, newMask domain.Mask, actorID int64) (*domain.ChangeEntry, error)
}

// Service provides the request/approval lifecycle.
type Service struct {
	requests requestRepo
	roster   rosterService
	schedule scheduleService
	log      *slog.Logger
	now      func() time.Time
}

// NewService creates a new approval service.
func NewService(log *slog.Logger, requests requestRepo, roster rosterService, schedule scheduleService) *Service {
	return &Service{
		requests: requests,
		roster:   roster,
		schedule: schedule,
		log:      log.With("service", "approval"),
		now:      time.Now,
	}
}

// Get returns one request by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.ChangeRequest, error) {
	return s.requests.GetByID(ctx, id)
}

// Pending returns pending requests, newest first.
func (s *Service) Pending(ctx context.Context, limit int) ([]domain.ChangeRequest, error) {
	return s.requests.Pending(ctx, limit)
}
