package conversationrequests

// CreateConversationRequest represents the request to create a conversation
type CreateConversationRequest struct {
	TeenID string  `json:"teen_id" binding:"required"`
	Title  *string `json:"title,omitempty"`
}

// UpdateConversationRequest represents the request to update a conversation
type UpdateConversationRequest struct {
	Title  *string `json:"title,omitempty"`
	Status *string `json:"status,omitempty"`
}
