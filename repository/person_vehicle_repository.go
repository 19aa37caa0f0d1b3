package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/camden-git/dwhbackend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PersonVehicleRepository handles database operations for ownership links
type PersonVehicleRepository struct {
	DB *gorm.DB
}

// NewPersonVehicleRepository creates a new instance of PersonVehicleRepository
func NewPersonVehicleRepository(db *gorm.DB) *PersonVehicleRepository {
	return &PersonVehicleRepository{DB: db}
}

// WithTx returns a copy of the repository bound to tx
func (r *PersonVehicleRepository) WithTx(tx *gorm.DB) PersonVehicleRepositoryInterface {
	return &PersonVehicleRepository{DB: tx}
}

// UpsertByVehicle keys the link on vehicleID. An existing link has its
// person_id and updated_at rewritten; otherwise a new link is inserted.
func (r *PersonVehicleRepository) UpsertByVehicle(ctx context.Context, vehicleID, personID uint) (*models.PersonVehicle, bool, error) {
	var (
		link    models.PersonVehicle
		created bool
	)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var matches []models.PersonVehicle
		err := tx.Where("vehicle_id = ?", vehicleID).Limit(2).Find(&matches).Error
		if err != nil {
			return fmt.Errorf("failed to look up link for vehicle ID %d: %w", vehicleID, err)
		}

		now := time.Now().Unix()
		switch len(matches) {
		case 0:
			link = models.PersonVehicle{
				VehicleID: vehicleID,
				PersonID:  personID,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.Omit(clause.Associations).Create(&link).Error; err != nil {
				return fmt.Errorf("failed to link vehicle ID %d to person ID %d: %w", vehicleID, personID, err)
			}
			created = true
		case 1:
			link = matches[0]
			err := tx.Model(&models.PersonVehicle{ID: link.ID}).Updates(map[string]interface{}{
				"person_id":  personID,
				"updated_at": now,
			}).Error
			if err != nil {
				return fmt.Errorf("failed to relink vehicle ID %d to person ID %d: %w", vehicleID, personID, err)
			}
			link.PersonID = personID
			link.UpdatedAt = now
		default:
			return fmt.Errorf("link for vehicle ID %d: %w", vehicleID, ErrMultipleRecords)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &link, created, nil
}

// GetByVehicleID retrieves the link for a vehicle, preloading both sides
func (r *PersonVehicleRepository) GetByVehicleID(ctx context.Context, vehicleID uint) (*models.PersonVehicle, error) {
	var link models.PersonVehicle
	err := r.DB.WithContext(ctx).
		Preload("Vehicle").
		Preload("Person").
		Where("vehicle_id = ?", vehicleID).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get link for vehicle ID %d: %w", vehicleID, err)
	}
	return &link, nil
}

// ListByPersonID retrieves all links owned by a person, preloading vehicles
func (r *PersonVehicleRepository) ListByPersonID(ctx context.Context, personID uint) ([]models.PersonVehicle, error) {
	var links []models.PersonVehicle
	err := r.DB.WithContext(ctx).
		Preload("Vehicle").
		Where("person_id = ?", personID).
		Order("id ASC").
		Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list links for person ID %d: %w", personID, err)
	}
	return links, nil
}

// Count returns the number of ownership links
func (r *PersonVehicleRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.PersonVehicle{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count person vehicles: %w", err)
	}
	return n, nil
}
