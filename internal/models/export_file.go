package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExportFile is the ledger of produced result files. Filenames carry the
// run timestamp, so the unique index makes file naming unique per run.
type ExportFile struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	Filename   string    `gorm:"type:text;not null;uniqueIndex" json:"filename"`
	Format     string    `gorm:"type:text;not null" json:"format"`
	Rows       int       `gorm:"type:int;not null" json:"rows"`
	Checksum   string    `gorm:"type:text;not null" json:"checksum"`
	EventID    *string   `gorm:"type:uuid" json:"event_id,omitempty"`
	ExportedAt time.Time `gorm:"not null" json:"exported_at"`
}

func (f *ExportFile) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
