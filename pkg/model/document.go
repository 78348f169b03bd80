package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document represents an uploaded insurance document and its processing state.
type Document struct {
	ID               uuid.UUID        `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Filename         string           `gorm:"column:filename;not null" json:"filename"`
	OriginalFilename string           `gorm:"column:original_filename;not null" json:"original_filename"`
	FilePath         string           `gorm:"column:file_path;not null" json:"file_path"`
	FileSize         int64            `gorm:"column:file_size;not null" json:"file_size"`
	FileType         string           `gorm:"column:file_type;not null" json:"file_type"`
	DocumentType     string           `gorm:"column:document_type" json:"document_type"`
	Content          string           `gorm:"column:content;type:text" json:"-"`
	Metadata         JSONB            `gorm:"column:metadata;type:jsonb" json:"metadata"`
	Processed        bool             `gorm:"column:processed;default:false" json:"processed"`
	ProcessingStatus ProcessingStatus `gorm:"column:processing_status;type:varchar(32);default:pending" json:"processing_status"`
	ErrorMessage     string           `gorm:"column:error_message" json:"error_message,omitempty"`
	CreatedAt        time.Time        `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"column:updated_at" json:"updated_at"`

	Chunks []DocumentChunk `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Document) TableName() string {
	return "documents"
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// DocumentChunk is a classified slice of document text with its embedding.
type DocumentChunk struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	DocumentID      uuid.UUID `gorm:"column:document_id;type:uuid;not null;index" json:"document_id"`
	ChunkIndex      int       `gorm:"column:chunk_index;not null" json:"chunk_index"`
	ChunkText       string    `gorm:"column:chunk_text;type:text;not null" json:"chunk_text"`
	ChunkMetadata   JSONB     `gorm:"column:chunk_metadata;type:jsonb" json:"chunk_metadata"`
	SectionType     string    `gorm:"column:section_type" json:"section_type"`
	PageNumber      int       `gorm:"column:page_number" json:"page_number"`
	ConfidenceScore float64   `gorm:"column:confidence_score" json:"confidence_score"`
	Embedding       Vector    `gorm:"column:embedding;type:jsonb" json:"-"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}

func (c *DocumentChunk) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
