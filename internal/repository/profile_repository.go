package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "autobid/internal/errors"
	"autobid/internal/model"
)

// ProfileRepository defines profile persistence operations.
type ProfileRepository interface {
	// Ensure creates an empty profile for id unless one exists, and returns it.
	Ensure(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	Update(ctx context.Context, profile *model.Profile) error
	MarkSeller(ctx context.Context, id uuid.UUID) error
	MarkWorldIDVerified(ctx context.Context, id uuid.UUID) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Ensure(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	profile := &model.Profile{ID: id}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(profile).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *profileRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, notFound(err, apperrors.ErrProfileNotFound)
	}
	return &profile, nil
}

// Update writes the editable contact fields only; flags are changed by their own operations.
func (r *profileRepository) Update(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Model(&model.Profile{ID: profile.ID}).
		Select("Username", "FullName", "AvatarURL", "PhoneNumber", "Address").
		Updates(profile).Error
}

func (r *profileRepository) MarkSeller(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("id = ?", id).
		Update("is_seller", true).Error
}

func (r *profileRepository) MarkWorldIDVerified(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("id = ?", id).
		Update("world_id_verified", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Setting an already true flag may report zero rows on MySQL, so confirm the row exists.
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
