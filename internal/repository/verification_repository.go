package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "autobid/internal/errors"
	"autobid/internal/model"
)

// VerificationRepository stores World ID nullifiers.
type VerificationRepository interface {
	// CreateIfAbsent inserts v unless its nullifier is already recorded and
	// reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, v *model.WorldIDVerification) (bool, error)
	FindByNullifier(ctx context.Context, nullifierHash string) (*model.WorldIDVerification, error)
	ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error)
}

type verificationRepository struct {
	db *gorm.DB
}

// NewVerificationRepository creates a new verification repository.
func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) CreateIfAbsent(ctx context.Context, v *model.WorldIDVerification) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "nullifier_hash"}}, DoNothing: true}).
		Create(v)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *verificationRepository) FindByNullifier(ctx context.Context, nullifierHash string) (*model.WorldIDVerification, error) {
	var v model.WorldIDVerification
	if err := r.db.WithContext(ctx).Where("nullifier_hash = ?", nullifierHash).First(&v).Error; err != nil {
		return nil, notFound(err, apperrors.ErrNotFound)
	}
	return &v, nil
}

func (r *verificationRepository) ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.WorldIDVerification{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}
