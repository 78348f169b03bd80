package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QueryLog records a processed claims query and the decision reached.
type QueryLog struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	QueryText       string    `gorm:"column:query_text;type:text;not null" json:"query_text"`
	ParsedEntities  JSONB     `gorm:"column:parsed_entities;type:jsonb" json:"parsed_entities"`
	SearchResults   JSONBList `gorm:"column:search_results;type:jsonb" json:"search_results"`
	Decision        Decision  `gorm:"column:decision;type:varchar(32)" json:"decision"`
	DecisionAmount  *float64  `gorm:"column:decision_amount" json:"decision_amount,omitempty"`
	ConfidenceScore float64   `gorm:"column:confidence_score" json:"confidence_score"`
	ProcessingTime  float64   `gorm:"column:processing_time" json:"processing_time"`
	Justification   JSONB     `gorm:"column:justification;type:jsonb" json:"justification"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
}

func (QueryLog) TableName() string {
	return "query_logs"
}

func (q *QueryLog) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
