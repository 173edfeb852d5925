package messagerequests

// CreateMessageRequest represents the request to append a message to a
// conversation. The classification seed fields and token fields are
// optional; token fields matter only for assistant messages.
type CreateMessageRequest struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content" binding:"required"`

	// Safety metadata from an upstream classifier pass
	TopicTier       *int     `json:"topic_tier,omitempty"`
	TopicCategories []string `json:"topic_categories,omitempty"`

	// Usage/token metadata for assistant messages
	Provider     *string  `json:"provider,omitempty"`
	Model        *string  `json:"model,omitempty"`
	InputTokens  *int64   `json:"input_tokens,omitempty"`
	OutputTokens *int64   `json:"output_tokens,omitempty"`
	TotalTokens  *int64   `json:"total_tokens,omitempty"`
	CostUSD      *float64 `json:"cost_usd,omitempty"`
}
