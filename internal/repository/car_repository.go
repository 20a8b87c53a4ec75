package repository

import (
	"context"

	"gorm.io/gorm"

	"autobid/internal/model"
)

// CarRepository defines inventory persistence operations.
type CarRepository interface {
	Create(ctx context.Context, car *model.Car) error
	List(ctx context.Context) ([]model.Car, error)
}

type carRepository struct {
	db *gorm.DB
}

// NewCarRepository creates a new car repository.
func NewCarRepository(db *gorm.DB) CarRepository {
	return &carRepository{db: db}
}

func (r *carRepository) Create(ctx context.Context, car *model.Car) error {
	return r.db.WithContext(ctx).Create(car).Error
}

func (r *carRepository) List(ctx context.Context) ([]model.Car, error) {
	var cars []model.Car
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&cars).Error
	return cars, err
}
