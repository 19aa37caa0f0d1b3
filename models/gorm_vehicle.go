package models

// Vehicle represents a vehicle identified by its registration plate.
// It corresponds to the 'vehicles' table. Plates are not unique: every
// ingestion that lists a plate creates a fresh row.
type Vehicle struct {
	ID                uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	RegistrationPlate string `gorm:"size:100;not null;index" json:"registration_plate"`
	CreatedAt         int64  `gorm:"not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt         int64  `gorm:"not null;autoUpdateTime:false" json:"updated_at"`
}

// TableName explicitly sets the table name for GORM.
func (Vehicle) TableName() string {
	return "vehicles"
}

func (v Vehicle) String() string {
	return v.RegistrationPlate
}
