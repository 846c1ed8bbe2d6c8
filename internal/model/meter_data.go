package model

import "time"

// MeterData is a single consumption reading for a building. The upload
// endpoint currently only acknowledges files; rows land here once CSV
// ingestion is implemented.
type MeterData struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	BuildingID  uint      `json:"building_id" gorm:"index;not null"`
	Timestamp   time.Time `json:"timestamp"`
	Consumption float64   `json:"consumption"`

	// Relations
	Building Building `json:"-" gorm:"foreignKey:BuildingID"`
}
