package schema

import "time"

// Document represents the documents table - intake metadata owned by the
// document pipeline. Content bytes live in content-addressed storage; rows
// here carry the reference and the link to the NFT record.
type Document struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TokenID links to the NFTRecord issued for this document
	TokenID string `gorm:"column:token_id;not null;type:text;uniqueIndex:idx_document_token_id"`
	// FileName is the original upload name
	FileName string `gorm:"column:file_name;not null;type:text"`
	// ContentType is the sniffed MIME type (application/pdf)
	ContentType string `gorm:"column:content_type;not null;type:text"`
	// SizeBytes is the upload size
	SizeBytes int64 `gorm:"column:size_bytes;not null"`
	// ContentRef is the content-addressed reference; empty until the
	// background upload lands
	ContentRef string `gorm:"column:content_ref;not null;default:'';type:text"`
	// CreatedAt is when the document was accepted
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is when the record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Document model
func (Document) TableName() string {
	return "documents"
}
