package messageresponses

import (
	"time"

	"modai/services/message-api/internal/domain/conversation"
	"modai/services/message-api/internal/domain/message"
	conversationresponses "modai/services/message-api/internal/interfaces/httpserver/responses/conversation"
)

// MessageResponse represents a message in API responses
type MessageResponse struct {
	ID              string         `json:"id"`
	ConversationID  string         `json:"conversation_id"`
	Role            string         `json:"role"`
	Content         string         `json:"content"`
	TopicTier       *string        `json:"topic_tier"`
	TopicCategories []string       `json:"topic_categories"`
	SafetyFlags     map[string]any `json:"safety_flags"`
	CreatedAt       time.Time      `json:"created_at"`
	Metadata        map[string]any `json:"metadata"`
}

// MessageListResponse represents a list of messages in replay order
type MessageListResponse struct {
	Data  []MessageResponse `json:"data"`
	Total int64             `json:"total"`
}

// ConversationWithMessagesResponse bundles a conversation with its messages
type ConversationWithMessagesResponse struct {
	Conversation  conversationresponses.ConversationResponse `json:"conversation"`
	Messages      []MessageResponse                          `json:"messages"`
	TotalMessages int64                                      `json:"total_messages"`
}

// NewMessageResponse creates a response from a domain message
func NewMessageResponse(msg *message.Message) *MessageResponse {
	var tier *string
	if msg.TopicTier != nil {
		value := string(*msg.TopicTier)
		tier = &value
	}
	return &MessageResponse{
		ID:              msg.ID,
		ConversationID:  msg.ConversationID,
		Role:            string(msg.Role),
		Content:         msg.Content,
		TopicTier:       tier,
		TopicCategories: msg.TopicCategories,
		SafetyFlags:     msg.SafetyFlags,
		CreatedAt:       msg.CreatedAt,
		Metadata:        msg.Metadata,
	}
}

// NewConversationWithMessagesResponse bundles a conversation with its full
// message history
func NewConversationWithMessagesResponse(
	conv *conversation.Conversation,
	messages []*message.Message,
	totalMessages int64,
) *ConversationWithMessagesResponse {
	data := make([]MessageResponse, 0, len(messages))
	for _, msg := range messages {
		if msg == nil {
			continue
		}
		data = append(data, *NewMessageResponse(msg))
	}
	return &ConversationWithMessagesResponse{
		Conversation:  *conversationresponses.NewConversationResponse(conv),
		Messages:      data,
		TotalMessages: totalMessages,
	}
}

// NewMessageListResponse creates a message list response
func NewMessageListResponse(messages []*message.Message, total int64) *MessageListResponse {
	data := make([]MessageResponse, 0, len(messages))
	for _, msg := range messages {
		if msg == nil {
			continue
		}
		data = append(data, *NewMessageResponse(msg))
	}
	return &MessageListResponse{Data: data, Total: total}
}
