package repository

import (
	"context"

	"github.com/camden-git/dwhbackend/models"
	"gorm.io/gorm"
)

// PersonRepositoryInterface defines the methods for person data operations
type PersonRepositoryInterface interface {
	// UpsertByName updates the email of the person matching the name pair or
	// inserts a new person. created reports whether a row was inserted.
	UpsertByName(ctx context.Context, firstName, lastName, email string) (person *models.Person, created bool, err error)
	GetByName(ctx context.Context, firstName, lastName string) (*models.Person, error)
	GetByID(ctx context.Context, id uint) (*models.Person, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uint) error
	WithTx(tx *gorm.DB) PersonRepositoryInterface
}

// VehicleRepositoryInterface defines the methods for vehicle data operations
type VehicleRepositoryInterface interface {
	// Create always inserts, plates are never deduplicated
	Create(ctx context.Context, vehicle *models.Vehicle) error
	GetByID(ctx context.Context, id uint) (*models.Vehicle, error)
	ListByPlate(ctx context.Context, plate string) ([]models.Vehicle, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uint) error
	WithTx(tx *gorm.DB) VehicleRepositoryInterface
}

// PersonVehicleRepositoryInterface defines the methods for ownership link operations
type PersonVehicleRepositoryInterface interface {
	// UpsertByVehicle points the link for vehicleID at personID, inserting the
	// link if the vehicle has none yet.
	UpsertByVehicle(ctx context.Context, vehicleID, personID uint) (link *models.PersonVehicle, created bool, err error)
	GetByVehicleID(ctx context.Context, vehicleID uint) (*models.PersonVehicle, error)
	ListByPersonID(ctx context.Context, personID uint) ([]models.PersonVehicle, error)
	Count(ctx context.Context) (int64, error)
	WithTx(tx *gorm.DB) PersonVehicleRepositoryInterface
}

var (
	_ PersonRepositoryInterface        = (*PersonRepository)(nil)
	_ VehicleRepositoryInterface       = (*VehicleRepository)(nil)
	_ PersonVehicleRepositoryInterface = (*PersonVehicleRepository)(nil)
)
