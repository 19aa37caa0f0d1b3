package models

import "fmt"

// PersonVehicle records the owner of a vehicle at a given point in time.
// It corresponds to the 'person_vehicles' table and is keyed by VehicleID:
// re-linking a vehicle moves the ownership instead of adding a second row.
// Both references are protected, deleting a linked Person or Vehicle fails.
type PersonVehicle struct {
	ID        uint  `gorm:"primaryKey;autoIncrement" json:"id"`
	VehicleID uint  `gorm:"not null;uniqueIndex" json:"vehicle_id"`
	PersonID  uint  `gorm:"not null;index" json:"person_id"`
	CreatedAt int64 `gorm:"not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt int64 `gorm:"not null;autoUpdateTime:false" json:"updated_at"`

	// Relationships
	Vehicle *Vehicle `gorm:"foreignKey:VehicleID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"vehicle,omitempty"`
	Person  *Person  `gorm:"foreignKey:PersonID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"person,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (PersonVehicle) TableName() string {
	return "person_vehicles"
}

func (pv PersonVehicle) String() string {
	return fmt.Sprintf("vehicle %d owned by person %d", pv.VehicleID, pv.PersonID)
}
