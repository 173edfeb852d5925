package dbschema

import (
	"time"

	"gorm.io/datatypes"

	"modai/services/message-api/internal/domain/conversation"
	"modai/services/message-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Conversation{})
}

// Conversation represents the database schema for conversations
type Conversation struct {
	ID            string              `gorm:"type:varchar(50);primaryKey"`
	TeenID        string              `gorm:"type:varchar(50);index:idx_conversation_teen_status;index:idx_conversation_teen_recency;not null"`
	Title         string              `gorm:"type:varchar(200);not null"`
	Status        conversation.Status `gorm:"type:varchar(20);index:idx_conversation_teen_status;not null;default:'active'"`
	CreatedAt     time.Time           `gorm:"not null"`
	UpdatedAt     time.Time           `gorm:"not null"`
	LastMessageAt *time.Time          `gorm:"index:idx_conversation_teen_recency"`
	MessageCount  int                 `gorm:"not null;default:0"`
	Metadata      datatypes.JSONMap   `gorm:"type:jsonb"`

	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

// NewSchemaConversation creates a database schema from a domain conversation
func NewSchemaConversation(c *conversation.Conversation) *Conversation {
	return &Conversation{
		ID:            c.ID,
		TeenID:        c.TeenID,
		Title:         c.Title,
		Status:        c.Status,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
		LastMessageAt: c.LastMessageAt,
		MessageCount:  c.MessageCount,
		Metadata:      datatypes.JSONMap(c.Metadata),
	}
}

// EtoD converts the database schema to a domain conversation
func (c *Conversation) EtoD() *conversation.Conversation {
	metadata := map[string]any(c.Metadata)
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &conversation.Conversation{
		ID:            c.ID,
		TeenID:        c.TeenID,
		Title:         c.Title,
		Status:        c.Status,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
		LastMessageAt: c.LastMessageAt,
		MessageCount:  c.MessageCount,
		Metadata:      metadata,
	}
}
