package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/camden-git/dwhbackend/models"
	"gorm.io/gorm"
)

// PersonRepository handles database operations for Person entities
type PersonRepository struct {
	DB *gorm.DB
}

// NewPersonRepository creates a new instance of PersonRepository
func NewPersonRepository(db *gorm.DB) *PersonRepository {
	return &PersonRepository{DB: db}
}

// WithTx returns a copy of the repository bound to tx
func (r *PersonRepository) WithTx(tx *gorm.DB) PersonRepositoryInterface {
	return &PersonRepository{DB: tx}
}

// UpsertByName looks the person up by first and last name. A match gets its
// email and updated_at rewritten, even when the email is unchanged; no match
// inserts a new person with both timestamps set to now.
func (r *PersonRepository) UpsertByName(ctx context.Context, firstName, lastName, email string) (*models.Person, bool, error) {
	var (
		person  models.Person
		created bool
	)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var matches []models.Person
		err := tx.Where("first_name = ? AND last_name = ?", firstName, lastName).
			Order("id ASC").
			Limit(2).
			Find(&matches).Error
		if err != nil {
			return fmt.Errorf("failed to look up person %s %s: %w", firstName, lastName, err)
		}

		now := time.Now().Unix()
		switch len(matches) {
		case 0:
			person = models.Person{
				FirstName: firstName,
				LastName:  lastName,
				Email:     email,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.Create(&person).Error; err != nil {
				return fmt.Errorf("failed to create person %s %s: %w", firstName, lastName, err)
			}
			created = true
		case 1:
			person = matches[0]
			err := tx.Model(&models.Person{ID: person.ID}).Updates(map[string]interface{}{
				"email":      email,
				"updated_at": now,
			}).Error
			if err != nil {
				return fmt.Errorf("failed to update person ID %d: %w", person.ID, err)
			}
			person.Email = email
			person.UpdatedAt = now
		default:
			return fmt.Errorf("person %s %s: %w", firstName, lastName, ErrMultipleRecords)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &person, created, nil
}

// GetByName retrieves the person with the given name pair. When several rows
// share the pair the oldest one is returned.
func (r *PersonRepository) GetByName(ctx context.Context, firstName, lastName string) (*models.Person, error) {
	var person models.Person
	err := r.DB.WithContext(ctx).
		Where("first_name = ? AND last_name = ?", firstName, lastName).
		Order("id ASC").
		First(&person).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get person %s %s: %w", firstName, lastName, err)
	}
	return &person, nil
}

// GetByID retrieves a person by their ID
func (r *PersonRepository) GetByID(ctx context.Context, id uint) (*models.Person, error) {
	var person models.Person
	err := r.DB.WithContext(ctx).First(&person, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get person by ID %d: %w", id, err)
	}
	return &person, nil
}

// Count returns the number of people
func (r *PersonRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Person{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count people: %w", err)
	}
	return n, nil
}

// Delete removes a person by their ID. Fails with ErrReferenced while an
// ownership link points at the person.
func (r *PersonRepository) Delete(ctx context.Context, id uint) error {
	result := r.DB.WithContext(ctx).Delete(&models.Person{}, id)
	if result.Error != nil {
		return translateDeleteError(result.Error, fmt.Sprintf("person ID %d", id))
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
