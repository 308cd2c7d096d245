// File: internal/domain/message.go
package domain

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Attachment is one structured attachment record.
type Attachment map[string]interface{}

// Message represents a single message within a chat. It is keyed by (ID, ChatID).
type Message struct {
	ID          string         `gorm:"primaryKey;size:36"`
	ChatID      string         `gorm:"primaryKey;index"`
	SenderID    string         `gorm:"not null"`
	Content     string         `gorm:"type:text;not null"`
	Attachments datatypes.JSON // nullable JSON array of objects
	IsRead      bool           `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SetAttachments stores the list as JSON; nil leaves the column NULL.
func (m *Message) SetAttachments(attachments []Attachment) error {
	if attachments == nil {
		m.Attachments = nil
		return nil
	}
	raw, err := json.Marshal(attachments)
	if err != nil {
		return err
	}
	m.Attachments = datatypes.JSON(raw)
	return nil
}

// AttachmentList decodes the stored attachments; a NULL column yields nil.
func (m *Message) AttachmentList() ([]Attachment, error) {
	if len(m.Attachments) == 0 || string(m.Attachments) == "null" {
		return nil, nil
	}
	var out []Attachment
	if err := json.Unmarshal(m.Attachments, &out); err != nil {
		return nil, err
	}
	return out, nil
}
