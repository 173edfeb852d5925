package conversationresponses

import (
	"time"

	"modai/services/message-api/internal/domain/conversation"
)

// ConversationResponse represents a conversation in API responses
type ConversationResponse struct {
	ID            string         `json:"id"`
	TeenID        string         `json:"teen_id"`
	Title         string         `json:"title"`
	Status        string         `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	LastMessageAt *time.Time     `json:"last_message_at"`
	MessageCount  int            `json:"message_count"`
	Metadata      map[string]any `json:"metadata"`
}

// ConversationListResponse represents a paginated list of conversations
type ConversationListResponse struct {
	Data  []ConversationResponse `json:"data"`
	Total int64                  `json:"total"`
}

// NewConversationResponse creates a response from a domain conversation
func NewConversationResponse(conv *conversation.Conversation) *ConversationResponse {
	return &ConversationResponse{
		ID:            conv.ID,
		TeenID:        conv.TeenID,
		Title:         conv.Title,
		Status:        string(conv.Status),
		CreatedAt:     conv.CreatedAt,
		UpdatedAt:     conv.UpdatedAt,
		LastMessageAt: conv.LastMessageAt,
		MessageCount:  conv.MessageCount,
		Metadata:      conv.Metadata,
	}
}

// NewConversationListResponse creates a conversation list response
func NewConversationListResponse(conversations []*conversation.Conversation, total int64) *ConversationListResponse {
	data := make([]ConversationResponse, 0, len(conversations))
	for _, conv := range conversations {
		if conv == nil {
			continue
		}
		data = append(data, *NewConversationResponse(conv))
	}
	return &ConversationListResponse{Data: data, Total: total}
}
