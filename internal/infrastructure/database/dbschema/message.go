package dbschema

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"

	"modai/services/message-api/internal/domain/message"
	"modai/services/message-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Message{})
}

// Message represents the database schema for messages
type Message struct {
	ID              string            `gorm:"type:varchar(50);primaryKey"`
	ConversationID  string            `gorm:"type:varchar(50);index:idx_message_conversation_order;not null"`
	Role            message.Role      `gorm:"type:varchar(20);not null"`
	Content         string            `gorm:"type:text;not null"`
	TopicTier       *string           `gorm:"type:varchar(10)"`
	TopicCategories pq.StringArray    `gorm:"type:text[]"`
	SafetyFlags     datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt       time.Time         `gorm:"index:idx_message_conversation_order;not null"`
	Metadata        datatypes.JSONMap `gorm:"type:jsonb"`
}

// NewSchemaMessage creates a database schema from a domain message
func NewSchemaMessage(m *message.Message) *Message {
	var tier *string
	if m.TopicTier != nil {
		value := string(*m.TopicTier)
		tier = &value
	}
	return &Message{
		ID:              m.ID,
		ConversationID:  m.ConversationID,
		Role:            m.Role,
		Content:         m.Content,
		TopicTier:       tier,
		TopicCategories: pq.StringArray(m.TopicCategories),
		SafetyFlags:     datatypes.JSONMap(m.SafetyFlags),
		CreatedAt:       m.CreatedAt,
		Metadata:        datatypes.JSONMap(m.Metadata),
	}
}

// EtoD converts the database schema to a domain message
func (m *Message) EtoD() *message.Message {
	var tier *message.TopicTier
	if m.TopicTier != nil {
		value := message.TopicTier(*m.TopicTier)
		tier = &value
	}
	safetyFlags := map[string]any(m.SafetyFlags)
	if safetyFlags == nil {
		safetyFlags = map[string]any{}
	}
	metadata := map[string]any(m.Metadata)
	if metadata == nil {
		metadata = map[string]any{}
	}
	categories := []string(m.TopicCategories)
	if categories == nil {
		categories = []string{}
	}
	return &message.Message{
		ID:              m.ID,
		ConversationID:  m.ConversationID,
		Role:            m.Role,
		Content:         m.Content,
		TopicTier:       tier,
		TopicCategories: categories,
		SafetyFlags:     safetyFlags,
		CreatedAt:       m.CreatedAt,
		Metadata:        metadata,
	}
}
