package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camden-git/dwhbackend/models"
	"github.com/camden-git/dwhbackend/repository"
)

// IngestionService writes validated payloads into the warehouse
type IngestionService struct {
	db          *gorm.DB
	personRepo  repository.PersonRepositoryInterface
	vehicleRepo repository.VehicleRepositoryInterface
	ownerRepo   repository.PersonVehicleRepositoryInterface
	atomic      bool
}

// NewIngestionService creates a new ingestion service. With atomic set the
// whole upsert/link sequence of one payload runs in a single transaction on
// db; otherwise every step commits on its own and a failure part way through
// leaves the earlier writes in place.
func NewIngestionService(
	db *gorm.DB,
	personRepo repository.PersonRepositoryInterface,
	vehicleRepo repository.VehicleRepositoryInterface,
	ownerRepo repository.PersonVehicleRepositoryInterface,
	atomic bool,
) *IngestionService {
	return &IngestionService{
		db:          db,
		personRepo:  personRepo,
		vehicleRepo: vehicleRepo,
		ownerRepo:   ownerRepo,
		atomic:      atomic,
	}
}

// NewDefaultIngestionService wires the GORM repositories over db
func NewDefaultIngestionService(db *gorm.DB, atomic bool) *IngestionService {
	return NewIngestionService(
		db,
		repository.NewPersonRepository(db),
		repository.NewVehicleRepository(db),
		repository.NewPersonVehicleRepository(db),
		atomic,
	)
}

// Result summarizes the rows written for one payload
type Result struct {
	IngestionID   string `json:"ingestion_id"`
	PersonID      uint   `json:"person_id"`
	PersonCreated bool   `json:"person_created"`
	VehicleIDs    []uint `json:"vehicle_ids"`
	LinkIDs       []uint `json:"link_ids"`
}

// Ingest upserts the person by name, then for each vehicle in order creates
// a new vehicle row and links it to that person.
func (s *IngestionService) Ingest(ctx context.Context, p Payload) (*Result, error) {
	res := &Result{
		IngestionID: uuid.New().String(),
		VehicleIDs:  make([]uint, 0, len(p.Vehicles)),
		LinkIDs:     make([]uint, 0, len(p.Vehicles)),
	}
	log := slog.With("ingestion_id", res.IngestionID)

	var err error
	if s.atomic {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return s.run(ctx, p, res, s.personRepo.WithTx(tx), s.vehicleRepo.WithTx(tx), s.ownerRepo.WithTx(tx))
		})
	} else {
		err = s.run(ctx, p, res, s.personRepo, s.vehicleRepo, s.ownerRepo)
	}
	if err != nil {
		log.Error("Ingestion failed",
			"person", p.FirstName+" "+p.LastName,
			"vehicles_linked", len(res.LinkIDs),
			"vehicles_total", len(p.Vehicles),
			"atomic", s.atomic,
			"error", err,
		)
		return nil, err
	}

	log.Info("Ingestion completed",
		"person_id", res.PersonID,
		"person_created", res.PersonCreated,
		"vehicles", len(res.VehicleIDs),
	)
	return res, nil
}

func (s *IngestionService) run(
	ctx context.Context,
	p Payload,
	res *Result,
	people repository.PersonRepositoryInterface,
	vehicles repository.VehicleRepositoryInterface,
	owners repository.PersonVehicleRepositoryInterface,
) error {
	person, created, err := people.UpsertByName(ctx, p.FirstName, p.LastName, p.Email)
	if err != nil {
		return fmt.Errorf("upsert person: %w", err)
	}
	res.PersonID = person.ID
	res.PersonCreated = created

	for i, v := range p.Vehicles {
		vehicle := &models.Vehicle{RegistrationPlate: v.RegistrationPlate}
		if err := vehicles.Create(ctx, vehicle); err != nil {
			return fmt.Errorf("vehicle %d: %w", i, err)
		}
		res.VehicleIDs = append(res.VehicleIDs, vehicle.ID)

		link, _, err := owners.UpsertByVehicle(ctx, vehicle.ID, person.ID)
		if err != nil {
			return fmt.Errorf("vehicle %d: %w", i, err)
		}
		res.LinkIDs = append(res.LinkIDs, link.ID)
	}
	return nil
}
