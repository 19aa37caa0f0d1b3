package models

// MaxFieldLength bounds every free-text column in the warehouse.
const MaxFieldLength = 100

// Person represents a physical person in the warehouse using GORM.
// It corresponds to the 'people' table. The (FirstName, LastName) pair is the
// upsert key used by ingestion; it is indexed but deliberately not unique.
type Person struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName string `gorm:"size:100;not null;index:idx_people_name" json:"first_name"`
	LastName  string `gorm:"size:100;not null;index:idx_people_name" json:"last_name"`
	Email     string `gorm:"size:100;not null" json:"email"`
	CreatedAt int64  `gorm:"not null;autoCreateTime:false" json:"created_at"` // Unix timestamp, set by the repository
	UpdatedAt int64  `gorm:"not null;autoUpdateTime:false" json:"updated_at"` // Unix timestamp, set by the repository
}

// TableName explicitly sets the table name for GORM.
func (Person) TableName() string {
	return "people"
}

func (p Person) String() string {
	return p.FirstName + " " + p.LastName
}
