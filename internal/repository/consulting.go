package repository

import (
	"context"
	"errors"

	"jokerclub/internal/models"

	"gorm.io/gorm"
)

// ConsultingRepository manages booked consulting sessions.
type ConsultingRepository interface {
	Create(ctx context.Context, session *models.ConsultingSession) error
	GetByID(ctx context.Context, id uint) (*models.ConsultingSession, error)
	// ListAll returns every session, newest first. Moderation view.
	ListAll(ctx context.Context, limit, offset int) ([]models.ConsultingSession, error)
	// ListByUser returns sessions where the user is the client or the consultant.
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.ConsultingSession, error)
	Update(ctx context.Context, session *models.ConsultingSession) error
}

type consultingRepository struct {
	db *gorm.DB
}

// NewConsultingRepository creates a new consulting session repository.
func NewConsultingRepository(db *gorm.DB) ConsultingRepository {
	return &consultingRepository{db: db}
}

func (r *consultingRepository) Create(ctx context.Context, session *models.ConsultingSession) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *consultingRepository) GetByID(ctx context.Context, id uint) (*models.ConsultingSession, error) {
	var session models.ConsultingSession
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Consultant").
		First(&session, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Consulting session", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &session, nil
}

func (r *consultingRepository) ListAll(ctx context.Context, limit, offset int) ([]models.ConsultingSession, error) {
	var sessions []models.ConsultingSession
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Consultant").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&sessions).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return sessions, nil
}

func (r *consultingRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.ConsultingSession, error) {
	var sessions []models.ConsultingSession
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Consultant").
		Where("client_id = ? OR consultant_id = ?", userID, userID).
		Order("session_time DESC").
		Limit(limit).
		Offset(offset).
		Find(&sessions).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return sessions, nil
}

func (r *consultingRepository) Update(ctx context.Context, session *models.ConsultingSession) error {
	if err := r.db.WithContext(ctx).
		Omit("Client", "Consultant").
		Save(session).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
