package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/camden-git/dwhbackend/models"
	"gorm.io/gorm"
)

// VehicleRepository handles database operations for Vehicle entities
type VehicleRepository struct {
	DB *gorm.DB
}

// NewVehicleRepository creates a new instance of VehicleRepository
func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{DB: db}
}

// WithTx returns a copy of the repository bound to tx
func (r *VehicleRepository) WithTx(tx *gorm.DB) VehicleRepositoryInterface {
	return &VehicleRepository{DB: tx}
}

// Create inserts a new vehicle row. Client supplied timestamps are overwritten.
func (r *VehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	now := time.Now().Unix()
	vehicle.ID = 0
	vehicle.CreatedAt = now
	vehicle.UpdatedAt = now

	err := r.DB.WithContext(ctx).Create(vehicle).Error
	if err != nil {
		return fmt.Errorf("failed to create vehicle %s: %w", vehicle.RegistrationPlate, err)
	}
	return nil
}

// GetByID retrieves a vehicle by its ID
func (r *VehicleRepository) GetByID(ctx context.Context, id uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.DB.WithContext(ctx).First(&vehicle, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get vehicle by ID %d: %w", id, err)
	}
	return &vehicle, nil
}

// ListByPlate retrieves every vehicle row recorded for a plate, oldest first
func (r *VehicleRepository) ListByPlate(ctx context.Context, plate string) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := r.DB.WithContext(ctx).
		Where("registration_plate = ?", plate).
		Order("id ASC").
		Find(&vehicles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles for plate %s: %w", plate, err)
	}
	return vehicles, nil
}

// Count returns the number of vehicle rows
func (r *VehicleRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Vehicle{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count vehicles: %w", err)
	}
	return n, nil
}

// Delete removes a vehicle by its ID. Fails with ErrReferenced while the
// vehicle has an ownership link.
func (r *VehicleRepository) Delete(ctx context.Context, id uint) error {
	result := r.DB.WithContext(ctx).Delete(&models.Vehicle{}, id)
	if result.Error != nil {
		return translateDeleteError(result.Error, fmt.Sprintf("vehicle ID %d", id))
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
