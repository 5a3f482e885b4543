package entities

import (
	"time"

	"gorm.io/datatypes"
)

// StoredRecord is the row backing one Record in the sqlite record store.
type StoredRecord struct {
	Collection string         `gorm:"primaryKey;size:64" json:"collection"`
	RecordID   string         `gorm:"primaryKey;size:128;column:record_id" json:"record_id"`
	Seq        int64          `gorm:"index" json:"seq"` // insertion order within the collection
	Data       datatypes.JSON `gorm:"type:json;not null" json:"data"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (StoredRecord) TableName() string {
	return "records"
}

// StoredCollection registers a collection name.
type StoredCollection struct {
	Name      string    `gorm:"primaryKey;size:64" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (StoredCollection) TableName() string {
	return "collections"
}
