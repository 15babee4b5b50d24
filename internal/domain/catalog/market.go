package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinRating = 0.0
	MaxRating = 5.0
)

type Market struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Rating   *float64  `gorm:"column:rating" json:"rating,omitempty"`
	Verified bool      `gorm:"column:verified;not null;default:false" json:"verified"`

	Prices []Price `gorm:"foreignKey:MarketID" json:"prices,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Market) TableName() string { return "markets" }

func (m *Market) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func ValidRating(r *float64) bool {
	return r == nil || (*r >= MinRating && *r <= MaxRating)
}
