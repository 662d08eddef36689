package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Extraction outcomes stored in ExtractionLog.Status.
const (
	StatusSuccess          = "success"
	StatusTransportFailure = "transport_failure"
	StatusProcessingFailed = "processing_failed"
	StatusRejected         = "rejected"
)

// ExtractionLog records one document run through the pipeline. Image bytes
// and raw OCR text are never stored.
type ExtractionLog struct {
	ID uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`

	Filename string `json:"filename" gorm:"type:text"`
	Size     int    `json:"size" gorm:"type:integer"`
	Provider string `json:"provider" gorm:"type:text;index"`

	Status string `json:"status" gorm:"type:text;not null;index"`
	Error  string `json:"error,omitempty" gorm:"type:text"`

	Query   string         `json:"query,omitempty" gorm:"type:text"`
	Fields  datatypes.JSON `json:"fields,omitempty" gorm:"type:jsonb"`
	Matches datatypes.JSON `json:"matches,omitempty" gorm:"type:jsonb"`

	Duration  int64     `json:"duration_ms" gorm:"type:bigint"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// TableName specifies the table name
func (ExtractionLog) TableName() string {
	return "extraction_logs"
}

// Filter narrows Recent queries.
type Filter struct {
	Status   string
	Provider string
	Since    *time.Time
	Limit    int
}
