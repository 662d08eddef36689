package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service provides extraction logging
type Service struct {
	db *gorm.DB
}

// NewService creates a new audit service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Log stores an entry, filling in the ID when missing.
func (s *Service) Log(ctx context.Context, entry *ExtractionLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create extraction log: %w", err)
	}
	return nil
}

// Recent returns the newest entries first.
func (s *Service) Recent(ctx context.Context, filter Filter) ([]ExtractionLog, error) {
	query := s.db.WithContext(ctx).Model(&ExtractionLog{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Provider != "" {
		query = query.Where("provider = ?", filter.Provider)
	}
	if filter.Since != nil {
		query = query.Where("created_at >= ?", *filter.Since)
	}

	var logs []ExtractionLog
	if err := query.Order("created_at DESC").Limit(filter.limit()).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to get extraction logs: %w", err)
	}
	return logs, nil
}

const (
	defaultLimit = 50
	maxLimit     = 200
)

// limit is 50 when unset and never more than 200.
func (f Filter) limit() int {
	switch {
	case f.Limit < 1:
		return defaultLimit
	case f.Limit > maxLimit:
		return maxLimit
	}
	return f.Limit
}

// ToJSON marshals value for a datatypes.JSON column.
func ToJSON(value interface{}) datatypes.JSON {
	if value == nil {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Msg("failed to serialize audit value")
		return nil
	}
	return datatypes.JSON(b)
}
