package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "autobid/internal/errors"
	"autobid/internal/model"
)

// VehicleRepository defines vehicle persistence operations.
type VehicleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error)
	List(ctx context.Context, limit, offset int) ([]model.Vehicle, error)
	// Update writes the vehicle's own columns and, when images is non-nil, replaces its images.
	Update(ctx context.Context, vehicle *model.Vehicle, images []model.VehicleImage) error
}

type vehicleRepository struct {
	db *gorm.DB
}

// NewVehicleRepository creates a new vehicle repository.
func NewVehicleRepository(db *gorm.DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	if err := r.db.WithContext(ctx).Preload("Images").Where("id = ?", id).First(&vehicle).Error; err != nil {
		return nil, notFound(err, apperrors.ErrVehicleNotFound)
	}
	return &vehicle, nil
}

func (r *vehicleRepository) List(ctx context.Context, limit, offset int) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	err := r.db.WithContext(ctx).
		Preload("Images").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&vehicles).Error
	return vehicles, err
}

func (r *vehicleRepository) Update(ctx context.Context, vehicle *model.Vehicle, images []model.VehicleImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Vehicle{ID: vehicle.ID}).
			Select("Make", "Model", "Year", "Mileage", "Engine", "Transmission",
				"ExteriorColor", "InteriorColor", "VIN", "Description", "Condition").
			Updates(vehicle).Error
		if err != nil {
			return err
		}
		if images == nil {
			return nil
		}
		if err := tx.Where("vehicle_id = ?", vehicle.ID).Delete(&model.VehicleImage{}).Error; err != nil {
			return err
		}
		if len(images) == 0 {
			return nil
		}
		return tx.Omit(clause.Associations).Create(&images).Error
	})
}
