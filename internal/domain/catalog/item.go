package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Item struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Unit  Unit      `gorm:"column:unit;not null" json:"unit"`
	Emoji *string   `gorm:"column:emoji" json:"emoji,omitempty"`

	// Prices is only populated when explicitly preloaded.
	Prices []Price `gorm:"foreignKey:ItemID" json:"prices,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Item) TableName() string { return "items" }

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
