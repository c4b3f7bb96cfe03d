package repository

import (
	"context"
	"errors"

	"jokerclub/internal/cache"
	"jokerclub/internal/models"

	"gorm.io/gorm"
)

// CodeblockRepository defines the interface for codeblock data operations.
type CodeblockRepository interface {
	Create(ctx context.Context, cb *models.Codeblock) error
	GetByID(ctx context.Context, id uint) (*models.Codeblock, error)
	List(ctx context.Context, opts CodeblockListOptions) ([]models.Codeblock, error)
	Update(ctx context.Context, cb *models.Codeblock) error
	Delete(ctx context.Context, id uint) error
	ReplaceLinks(ctx context.Context, codeblockID uint, links []models.CodeblockLink) error
}

// CodeblockListOptions narrows a codeblock listing. ViewerID and ViewerIsAdmin
// control whether private rows are included: admins see everything, other
// viewers only their own private rows.
type CodeblockListOptions struct {
	Category      string
	Language      string
	Query         string
	Limit         int
	Offset        int
	ViewerID      uint
	ViewerIsAdmin bool
}

type codeblockRepository struct {
	db *gorm.DB
}

// NewCodeblockRepository creates a new codeblock repository.
func NewCodeblockRepository(db *gorm.DB) CodeblockRepository {
	return &codeblockRepository{db: db}
}

func (r *codeblockRepository) Create(ctx context.Context, cb *models.Codeblock) error {
	if err := r.db.WithContext(ctx).Create(cb).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCodeblock(ctx, cb.ID)
	return nil
}

func (r *codeblockRepository) GetByID(ctx context.Context, id uint) (*models.Codeblock, error) {
	var cb models.Codeblock
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Links", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&cb, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Codeblock", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &cb, nil
}

func (r *codeblockRepository) List(ctx context.Context, opts CodeblockListOptions) ([]models.Codeblock, error) {
	var cbs []models.Codeblock

	q := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Links", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})

	// Private rows never leave the database for viewers who cannot see them.
	if !opts.ViewerIsAdmin {
		if opts.ViewerID != 0 {
			q = q.Where("is_public = ? OR created_by = ?", true, opts.ViewerID)
		} else {
			q = q.Where("is_public = ?", true)
		}
	}

	if opts.Category != "" {
		q = q.Where("category = ?", opts.Category)
	}
	if opts.Language != "" {
		q = q.Where("language = ?", opts.Language)
	}
	if opts.Query != "" {
		like := "%" + opts.Query + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}

	if err := q.Order("created_at DESC").
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&cbs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return cbs, nil
}

func (r *codeblockRepository) Update(ctx context.Context, cb *models.Codeblock) error {
	if err := r.db.WithContext(ctx).Omit("Links", "Creator").Save(cb).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCodeblock(ctx, cb.ID)
	return nil
}

// Delete soft-deletes a codeblock and removes its access grants. The grant
// rows have to go explicitly: the codeblock row survives as a soft-deleted
// record, so the database-level cascade never fires.
func (r *codeblockRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("codeblock_id = ?", id).
			Delete(&models.CodeblockGrant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Codeblock{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCodeblock(ctx, id)
	return nil
}

// ReplaceLinks swaps the full link set for a codeblock in one transaction.
func (r *codeblockRepository) ReplaceLinks(ctx context.Context, codeblockID uint, links []models.CodeblockLink) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("codeblock_id = ?", codeblockID).
			Delete(&models.CodeblockLink{}).Error; err != nil {
			return err
		}
		for i := range links {
			links[i].ID = 0
			links[i].CodeblockID = codeblockID
			links[i].Position = i
		}
		if len(links) == 0 {
			return nil
		}
		return tx.Create(&links).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCodeblock(ctx, codeblockID)
	return nil
}
