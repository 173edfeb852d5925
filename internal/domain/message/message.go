package message

import (
	"context"
	"errors"
	"time"

	"modai/services/message-api/internal/domain/query"
	"modai/services/message-api/internal/utils/idgen"
	"modai/services/message-api/internal/utils/stringutils"
)

// ===============================================
// Message Types
// ===============================================

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"      // Teen's message
	RoleAssistant Role = "assistant" // AI's response
	RoleSystem    Role = "system"    // System messages (e.g. "Conversation started")
)

// ValidateRole reports whether input names a known role.
func ValidateRole(input string) bool {
	switch Role(input) {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	default:
		return false
	}
}

// TopicTier is the four-level safety classification assigned to user
// messages by the external classifier.
type TopicTier string

const (
	TierOne   TopicTier = "tier_1" // Green - always allowed
	TierTwo   TopicTier = "tier_2" // Yellow - needs approval
	TierThree TopicTier = "tier_3" // Orange - requires supervision
	TierFour  TopicTier = "tier_4" // Red - auto-blocked
)

// TierFromInt maps a 1-4 integer to its tier. Out-of-range values map to
// nil (unclassified) rather than erroring; callers that care should log.
func TierFromInt(n int) *TopicTier {
	var tier TopicTier
	switch n {
	case 1:
		tier = TierOne
	case 2:
		tier = TierTwo
	case 3:
		tier = TierThree
	case 4:
		tier = TierFour
	default:
		return nil
	}
	return &tier
}

const (
	safetyFlagBlocked     = "blocked"
	safetyFlagBlockReason = "block_reason"
)

// ErrEmptyContent rejects messages with no content.
var ErrEmptyContent = errors.New("message content cannot be empty")

// ===============================================
// Message Aggregate
// ===============================================

// Message is a single message inside a conversation, together with its
// safety classification state. Classification fields are filled in later by
// the external classifier via repository updates.
type Message struct {
	ID              string         `json:"id"`
	ConversationID  string         `json:"conversation_id"`
	Role            Role           `json:"role"`
	Content         string         `json:"content"`
	TopicTier       *TopicTier     `json:"topic_tier,omitempty"`
	TopicCategories []string       `json:"topic_categories"`
	SafetyFlags     map[string]any `json:"safety_flags"`
	CreatedAt       time.Time      `json:"created_at"`
	Metadata        map[string]any `json:"metadata"`
}

// New constructs a message. Classification seed fields (tier, categories)
// may be supplied by the caller; they are stored as-is, not computed here.
func New(conversationID string, role Role, content string, tier *TopicTier, categories []string) (*Message, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}

	id, err := idgen.GenerateSecureID("msg", 16)
	if err != nil {
		return nil, err
	}

	if categories == nil {
		categories = []string{}
	}

	return &Message{
		ID:              id,
		ConversationID:  conversationID,
		Role:            role,
		Content:         content,
		TopicTier:       tier,
		TopicCategories: categories,
		SafetyFlags:     map[string]any{},
		CreatedAt:       time.Now().UTC(),
		Metadata:        map[string]any{},
	}, nil
}

func (m *Message) IsUserMessage() bool {
	return m.Role == RoleUser
}

func (m *Message) IsAssistantMessage() bool {
	return m.Role == RoleAssistant
}

// IsSafe reports whether the message carries no blocking classification.
// Unclassified messages are safe.
func (m *Message) IsSafe() bool {
	if blocked, ok := m.SafetyFlags[safetyFlagBlocked].(bool); ok && blocked {
		return false
	}
	if m.TopicTier != nil && *m.TopicTier == TierFour {
		return false
	}
	return true
}

// NeedsApproval reports whether the message requires parental approval
// (tier 2 or tier 3).
func (m *Message) NeedsApproval() bool {
	if m.TopicTier == nil {
		return false
	}
	return *m.TopicTier == TierTwo || *m.TopicTier == TierThree
}

// MarkAsBlocked records a blocking decision. Called by the classifier
// consumer when it writes results back, never by the ingestion pipeline.
func (m *Message) MarkAsBlocked(reason string) {
	if m.SafetyFlags == nil {
		m.SafetyFlags = map[string]any{}
	}
	m.SafetyFlags[safetyFlagBlocked] = true
	m.SafetyFlags[safetyFlagBlockReason] = reason
	tier := TierFour
	m.TopicTier = &tier
}

// SetTopicClassification stores classifier results on the message.
func (m *Message) SetTopicClassification(tier TopicTier, categories []string) {
	m.TopicTier = &tier
	m.TopicCategories = categories
}

// GetPreview returns the content truncated to length runes for display.
func (m *Message) GetPreview(length int) string {
	return stringutils.Preview(m.Content, length)
}

// ===============================================
// Message Repository
// ===============================================

// Repository is the persistence gateway for messages.
type Repository interface {
	Create(ctx context.Context, msg *Message) error
	FindByID(ctx context.Context, id string) (*Message, error)
	// FindByConversationID lists messages in chronological replay order.
	FindByConversationID(ctx context.Context, conversationID string, pagination *query.Pagination) ([]*Message, error)
	CountByConversationID(ctx context.Context, conversationID string) (int64, error)
	// Update replaces all mutable fields; the external classifier uses it to
	// write classification results back.
	Update(ctx context.Context, msg *Message) error
	Delete(ctx context.Context, id string) (bool, error)
	DeleteByConversationID(ctx context.Context, conversationID string) (int64, error)
}
