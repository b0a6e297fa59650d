package models

import (
	"time"
)

// ApplicationDocument is one uploaded file attached to an application.
// Resubmissions append rows; prior uploads are never replaced.
type ApplicationDocument struct {
	DocumentID       int        `gorm:"primaryKey;column:document_id" json:"document_id"`
	ApplicationID    int        `gorm:"column:application_id" json:"application_id"`
	UploadedBy       int        `gorm:"column:uploaded_by" json:"uploaded_by"`
	OriginalFilename string     `gorm:"column:original_filename" json:"original_filename"`
	StoredFilename   string     `gorm:"column:stored_filename" json:"stored_filename"`
	MimeType         string     `gorm:"column:mime_type" json:"mime_type"`
	FileSize         int64      `gorm:"column:file_size" json:"file_size"`
	URL              string     `gorm:"column:url" json:"url"`
	UploadedAt       *time.Time `gorm:"column:uploaded_at" json:"uploaded_at"`
	CreateAt         *time.Time `gorm:"column:create_at" json:"create_at"`
	DeleteAt         *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (ApplicationDocument) TableName() string {
	return "application_documents"
}

// Helper methods for file validation
func (d *ApplicationDocument) IsValidDocumentType() bool {
	validTypes := []string{
		"application/pdf",
		"image/png",
		"image/jpeg",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
	for _, validType := range validTypes {
		if d.MimeType == validType {
			return true
		}
	}
	return false
}

func (d *ApplicationDocument) GetFileSizeInMB() float64 {
	return float64(d.FileSize) / (1024 * 1024)
}
