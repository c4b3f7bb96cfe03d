package service

import (
	"context"
	"time"

	"jokerclub/internal/models"
	"jokerclub/internal/repository"
)

// ConsultingService manages session bookings. Members book sessions with a
// consultant; admins confirm them and attach the meeting link. Payment is
// settled off-platform.
type ConsultingService struct {
	repo    repository.ConsultingRepository
	users   repository.UserRepository
	isAdmin func(ctx context.Context, userID uint) (bool, error)
	now     func() time.Time
}

type BookSessionInput struct {
	ClientID        uint
	ConsultantID    uint
	SessionTime     time.Time
	DurationMinutes int
	ClientNotes     string
}

type UpdateSessionInput struct {
	UserID          uint
	SessionID       uint
	Status          string
	MeetingLink     string
	SessionTime     time.Time
	DurationMinutes int
}

func NewConsultingService(repo repository.ConsultingRepository, users repository.UserRepository, isAdmin func(ctx context.Context, userID uint) (bool, error)) *ConsultingService {
	return &ConsultingService{repo: repo, users: users, isAdmin: isAdmin, now: time.Now}
}

func (s *ConsultingService) BookSession(ctx context.Context, in BookSessionInput) (*models.ConsultingSession, error) {
	if in.ConsultantID == in.ClientID {
		return nil, models.NewValidationError("Cannot book a session with yourself")
	}
	if !in.SessionTime.After(s.now()) {
		return nil, models.NewValidationError("Session time must be in the future")
	}
	if in.DurationMinutes == 0 {
		in.DurationMinutes = 60
	}
	if in.DurationMinutes < 15 || in.DurationMinutes > 240 {
		return nil, models.NewValidationError("Session duration must be between 15 and 240 minutes")
	}
	if _, err := s.users.GetByID(ctx, in.ConsultantID); err != nil {
		return nil, err
	}

	session := &models.ConsultingSession{
		ClientID:        in.ClientID,
		ConsultantID:    in.ConsultantID,
		SessionTime:     in.SessionTime,
		DurationMinutes: in.DurationMinutes,
		Status:          models.SessionStatusPending,
		ClientNotes:     in.ClientNotes,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ListMySessions returns sessions the user participates in, as client or
// consultant.
func (s *ConsultingService) ListMySessions(ctx context.Context, userID uint, limit, offset int) ([]models.ConsultingSession, error) {
	return s.repo.ListByUser(ctx, userID, clampLimit(limit, defaultPageLimit, 100), offset)
}

// ListAllSessions is the moderation view over every booking.
func (s *ConsultingService) ListAllSessions(ctx context.Context, userID uint, limit, offset int) ([]models.ConsultingSession, error) {
	if err := s.requireAdmin(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListAll(ctx, clampLimit(limit, defaultPageLimit, 100), offset)
}

func (s *ConsultingService) UpdateSession(ctx context.Context, in UpdateSessionInput) (*models.ConsultingSession, error) {
	if err := s.requireAdmin(ctx, in.UserID); err != nil {
		return nil, err
	}

	session, err := s.repo.GetByID(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}

	if in.Status != "" && in.Status != session.Status {
		if !validTransition(session.Status, in.Status) {
			return nil, models.NewValidationError("Invalid status transition from " + session.Status + " to " + in.Status)
		}
		session.Status = in.Status
	}
	if in.MeetingLink != "" {
		session.MeetingLink = in.MeetingLink
	}
	if !in.SessionTime.IsZero() {
		session.SessionTime = in.SessionTime
	}
	if in.DurationMinutes > 0 {
		if in.DurationMinutes < 15 || in.DurationMinutes > 240 {
			return nil, models.NewValidationError("Session duration must be between 15 and 240 minutes")
		}
		session.DurationMinutes = in.DurationMinutes
	}

	if err := s.repo.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// validTransition enforces the session lifecycle: pending sessions are
// confirmed or cancelled, confirmed sessions complete or cancel, terminal
// states never move.
func validTransition(from, to string) bool {
	switch from {
	case models.SessionStatusPending:
		return to == models.SessionStatusConfirmed || to == models.SessionStatusCancelled
	case models.SessionStatusConfirmed:
		return to == models.SessionStatusCompleted || to == models.SessionStatusCancelled
	}
	return false
}

func (s *ConsultingService) requireAdmin(ctx context.Context, userID uint) error {
	if s.isAdmin == nil {
		return models.NewUnauthorizedError("Admin role required")
	}
	admin, err := s.isAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewUnauthorizedError("Admin role required")
	}
	return nil
}
