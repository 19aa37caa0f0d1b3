package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/camden-git/dwhbackend/database"
	"github.com/camden-git/dwhbackend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), gormlogger.Silent)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	return db
}

func TestPersonRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewPersonRepository(db)
	ctx := context.Background()

	t.Run("UpsertByName inserts unseen name pair", func(t *testing.T) {
		person, created, err := repo.UpsertByName(ctx, "Ada", "Lovelace", "ada@x.com")
		if err != nil {
			t.Fatalf("UpsertByName failed: %v", err)
		}
		if !created {
			t.Error("expected created=true for a new name pair")
		}
		if person.ID == 0 {
			t.Error("expected ID to be assigned")
		}
		if person.CreatedAt == 0 || person.UpdatedAt == 0 {
			t.Error("expected timestamps to be set")
		}
	})

	t.Run("UpsertByName updates email of existing pair", func(t *testing.T) {
		before, err := repo.GetByName(ctx, "Ada", "Lovelace")
		if err != nil {
			t.Fatalf("GetByName failed: %v", err)
		}

		person, created, err := repo.UpsertByName(ctx, "Ada", "Lovelace", "ada@analytical.engine")
		if err != nil {
			t.Fatalf("UpsertByName failed: %v", err)
		}
		if created {
			t.Error("expected created=false for an existing name pair")
		}
		if person.ID != before.ID {
			t.Errorf("expected same ID %d, got %d", before.ID, person.ID)
		}

		stored, err := repo.GetByID(ctx, person.ID)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if stored.Email != "ada@analytical.engine" {
			t.Errorf("expected updated email, got %q", stored.Email)
		}
		if stored.CreatedAt != before.CreatedAt {
			t.Errorf("created_at changed from %d to %d", before.CreatedAt, stored.CreatedAt)
		}
		if stored.UpdatedAt < before.UpdatedAt {
			t.Errorf("updated_at went backwards: %d < %d", stored.UpdatedAt, before.UpdatedAt)
		}

		n, err := repo.Count(ctx)
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 person, got %d", n)
		}
	})

	t.Run("Name pair is case sensitive and independent per field", func(t *testing.T) {
		_, created, err := repo.UpsertByName(ctx, "Ada", "Byron", "ada@x.com")
		if err != nil {
			t.Fatalf("UpsertByName failed: %v", err)
		}
		if !created {
			t.Error("expected a different last name to create a new person")
		}
	})

	t.Run("GetByName reports missing person", func(t *testing.T) {
		_, err := repo.GetByName(ctx, "Charles", "Babbage")
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			t.Errorf("expected ErrRecordNotFound, got %v", err)
		}
	})

	t.Run("UpsertByName rejects ambiguous key", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			dup := models.Person{FirstName: "Grace", LastName: "Hopper", Email: "g@x.com", CreatedAt: 1, UpdatedAt: 1}
			if err := db.Create(&dup).Error; err != nil {
				t.Fatalf("seed duplicate: %v", err)
			}
		}
		_, _, err := repo.UpsertByName(ctx, "Grace", "Hopper", "grace@navy.mil")
		if !errors.Is(err, ErrMultipleRecords) {
			t.Errorf("expected ErrMultipleRecords, got %v", err)
		}
	})

	t.Run("Delete of unlinked person succeeds", func(t *testing.T) {
		person, _, err := repo.UpsertByName(ctx, "Alan", "Turing", "alan@x.com")
		if err != nil {
			t.Fatalf("UpsertByName failed: %v", err)
		}
		if err := repo.Delete(ctx, person.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if err := repo.Delete(ctx, person.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
			t.Errorf("expected ErrRecordNotFound on second delete, got %v", err)
		}
	})
}

func TestVehicleRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewVehicleRepository(db)
	ctx := context.Background()

	t.Run("Create never deduplicates plates", func(t *testing.T) {
		first := &models.Vehicle{RegistrationPlate: "AB-123"}
		second := &models.Vehicle{RegistrationPlate: "AB-123"}
		if err := repo.Create(ctx, first); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := repo.Create(ctx, second); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if first.ID == second.ID {
			t.Errorf("expected distinct IDs, both are %d", first.ID)
		}

		vehicles, err := repo.ListByPlate(ctx, "AB-123")
		if err != nil {
			t.Fatalf("ListByPlate failed: %v", err)
		}
		if len(vehicles) != 2 {
			t.Errorf("expected 2 rows for plate, got %d", len(vehicles))
		}
	})

	t.Run("Create overwrites client timestamps", func(t *testing.T) {
		v := &models.Vehicle{RegistrationPlate: "ZZ-999", CreatedAt: 1, UpdatedAt: 1}
		if err := repo.Create(ctx, v); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		stored, err := repo.GetByID(ctx, v.ID)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if stored.CreatedAt <= 1 || stored.UpdatedAt <= 1 {
			t.Errorf("expected store-managed timestamps, got created=%d updated=%d", stored.CreatedAt, stored.UpdatedAt)
		}
	})

	t.Run("GetByID reports missing vehicle", func(t *testing.T) {
		if _, err := repo.GetByID(ctx, 9999); !errors.Is(err, gorm.ErrRecordNotFound) {
			t.Errorf("expected ErrRecordNotFound, got %v", err)
		}
	})
}

func TestPersonVehicleRepository(t *testing.T) {
	db := newTestDB(t)
	people := NewPersonRepository(db)
	vehicles := NewVehicleRepository(db)
	links := NewPersonVehicleRepository(db)
	ctx := context.Background()

	ada, _, err := people.UpsertByName(ctx, "Ada", "Lovelace", "ada@x.com")
	if err != nil {
		t.Fatalf("seed person: %v", err)
	}
	charles, _, err := people.UpsertByName(ctx, "Charles", "Babbage", "charles@x.com")
	if err != nil {
		t.Fatalf("seed person: %v", err)
	}
	car := &models.Vehicle{RegistrationPlate: "AB-123"}
	if err := vehicles.Create(ctx, car); err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}

	t.Run("UpsertByVehicle inserts first link", func(t *testing.T) {
		link, created, err := links.UpsertByVehicle(ctx, car.ID, ada.ID)
		if err != nil {
			t.Fatalf("UpsertByVehicle failed: %v", err)
		}
		if !created {
			t.Error("expected created=true for first link")
		}
		if link.VehicleID != car.ID || link.PersonID != ada.ID {
			t.Errorf("unexpected link %+v", link)
		}
	})

	t.Run("UpsertByVehicle moves ownership instead of duplicating", func(t *testing.T) {
		link, created, err := links.UpsertByVehicle(ctx, car.ID, charles.ID)
		if err != nil {
			t.Fatalf("UpsertByVehicle failed: %v", err)
		}
		if created {
			t.Error("expected created=false when relinking")
		}

		stored, err := links.GetByVehicleID(ctx, car.ID)
		if err != nil {
			t.Fatalf("GetByVehicleID failed: %v", err)
		}
		if stored.ID != link.ID {
			t.Errorf("expected link ID %d, got %d", link.ID, stored.ID)
		}
		if stored.PersonID != charles.ID {
			t.Errorf("expected owner %d, got %d", charles.ID, stored.PersonID)
		}
		if stored.Person == nil || stored.Person.FirstName != "Charles" {
			t.Errorf("expected preloaded person Charles, got %+v", stored.Person)
		}
		if stored.Vehicle == nil || stored.Vehicle.RegistrationPlate != "AB-123" {
			t.Errorf("expected preloaded vehicle AB-123, got %+v", stored.Vehicle)
		}

		n, err := links.Count(ctx)
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 link, got %d", n)
		}

		owned, err := links.ListByPersonID(ctx, ada.ID)
		if err != nil {
			t.Fatalf("ListByPersonID failed: %v", err)
		}
		if len(owned) != 0 {
			t.Errorf("expected Ada to own nothing, got %d links", len(owned))
		}
	})

	t.Run("UpsertByVehicle rejects unknown vehicle", func(t *testing.T) {
		if _, _, err := links.UpsertByVehicle(ctx, 9999, ada.ID); err == nil {
			t.Error("expected foreign key failure for unknown vehicle")
		}
	})

	t.Run("Linked records are protected from deletion", func(t *testing.T) {
		if err := people.Delete(ctx, charles.ID); !errors.Is(err, ErrReferenced) {
			t.Errorf("expected ErrReferenced deleting linked person, got %v", err)
		}
		if err := vehicles.Delete(ctx, car.ID); !errors.Is(err, ErrReferenced) {
			t.Errorf("expected ErrReferenced deleting linked vehicle, got %v", err)
		}
		if _, err := people.GetByID(ctx, charles.ID); err != nil {
			t.Errorf("person should survive failed delete: %v", err)
		}
		if _, err := vehicles.GetByID(ctx, car.ID); err != nil {
			t.Errorf("vehicle should survive failed delete: %v", err)
		}
	})
}

func TestWithTxRollsBack(t *testing.T) {
	db := newTestDB(t)
	people := NewPersonRepository(db)
	ctx := context.Background()

	errAbort := errors.New("abort")
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, _, err := people.WithTx(tx).UpsertByName(ctx, "Ada", "Lovelace", "ada@x.com"); err != nil {
			return err
		}
		return errAbort
	})
	if !errors.Is(err, errAbort) {
		t.Fatalf("expected abort error, got %v", err)
	}

	n, err := people.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected rollback to leave 0 people, got %d", n)
	}
}
