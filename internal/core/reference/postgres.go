package reference

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ReferenceName is a row of the reference_names table.
type ReferenceName struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:text;not null;uniqueIndex"`
	Active    bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name
func (ReferenceName) TableName() string {
	return "reference_names"
}

// GormSource loads active reference names through GORM.
type GormSource struct {
	db *gorm.DB
}

func NewGormSource(db *gorm.DB) *GormSource {
	return &GormSource{db: db}
}

func (s *GormSource) GetSourceName() string { return "postgres" }

func (s *GormSource) Load(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).
		Model(&ReferenceName{}).
		Where("active = ?", true).
		Order("id ASC").
		Pluck("name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load reference names: %w", err)
	}
	return names, nil
}
