package usage

import (
	"context"
)

// ===============================================
// Daily Limit Guard
// ===============================================

// DefaultMessagesLimit is assumed when the usage service cannot be reached.
const DefaultMessagesLimit = 100

// LimitCheck is the usage service's verdict on whether a teen may send
// another message today.
type LimitCheck struct {
	Allowed       bool `json:"allowed"`
	MessagesSent  int  `json:"messages_sent"`
	MessagesLimit int  `json:"messages_limit"`
}

// FailOpen is the verdict used when the usage service is unreachable:
// sending is never blocked by guard infrastructure failures.
func FailOpen() LimitCheck {
	return LimitCheck{Allowed: true, MessagesSent: 0, MessagesLimit: DefaultMessagesLimit}
}

// LimitGuard answers whether a teen is under their daily message budget.
type LimitGuard interface {
	CheckDailyLimit(ctx context.Context, teenID string) (LimitCheck, error)
}

// ===============================================
// Classification Queue
// ===============================================

// ClassificationJob is the work item handed to the topic classifier for
// every persisted user message.
type ClassificationJob struct {
	MessageID      string         `json:"message_id"`
	ConversationID string         `json:"conversation_id"`
	TeenID         string         `json:"teen_id"`
	Content        string         `json:"content"`
	Metadata       map[string]any `json:"metadata"`
}

// ClassificationPublisher enqueues classification jobs.
type ClassificationPublisher interface {
	PublishClassificationJob(ctx context.Context, job ClassificationJob) error
}

// ===============================================
// Usage Event Queue
// ===============================================

// Usage event types consumed by the user service's queue worker.
const (
	EventTypeMessageRecord = "message_record"
	EventTypeTokenUsage    = "token_usage"
	EventTypeSessionRecord = "session_record"
)

// Event is the envelope written to the usage queue.
type Event struct {
	EventType string `json:"event_type"`
	Payload   any    `json:"payload"`
}

// MessageRecord counts one sent message against a teen's daily budget.
type MessageRecord struct {
	UserID         string  `json:"user_id"`
	ConversationID string  `json:"conversation_id,omitempty"`
	TopicCategory  *string `json:"topic_category"`
	TopicTier      *int    `json:"topic_tier"`
	SafetyIncident *string `json:"safety_incident"`
}

// TokenUsage records token consumption and cost for an assistant response.
type TokenUsage struct {
	UserID       string   `json:"user_id"`
	Provider     string   `json:"provider"`
	Model        string   `json:"model"`
	InputTokens  int64    `json:"input_tokens"`
	OutputTokens int64    `json:"output_tokens"`
	TotalTokens  int64    `json:"total_tokens"`
	SessionID    *string  `json:"session_id"`
	CostUSD      *float64 `json:"cost_usd"`
}

// SessionRecord summarizes a finished chat session.
type SessionRecord struct {
	UserID          string   `json:"user_id"`
	SessionID       string   `json:"session_id"`
	DurationSeconds int64    `json:"duration_seconds"`
	TopicCategories []string `json:"topic_categories"`
}

// UsagePublisher enqueues usage events.
type UsagePublisher interface {
	PublishUsageEvent(ctx context.Context, event Event) error
}
