package conversation

import (
	"context"
	"errors"
	"time"

	"modai/services/message-api/internal/domain/query"
	"modai/services/message-api/internal/utils/idgen"
	"modai/services/message-api/internal/utils/stringutils"
)

// ===============================================
// Conversation Types
// ===============================================

type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
	StatusDeleted  Status = "deleted"
)

// ValidateStatus reports whether input names a known conversation status.
func ValidateStatus(input string) bool {
	switch Status(input) {
	case StatusActive, StatusArchived, StatusDeleted:
		return true
	default:
		return false
	}
}

const (
	// DefaultTitle is assigned when a conversation is created without one.
	DefaultTitle = "New Conversation"

	// MaxTitleLength caps titles after trimming.
	MaxTitleLength = 200
)

// Sentinel errors for illegal aggregate operations. Services wrap these into
// platform errors; entities stay free of transport concerns.
var (
	ErrConversationDeleted = errors.New("conversation is deleted")
	ErrEmptyTitle          = errors.New("title cannot be empty")
)

// ===============================================
// Conversation Aggregate
// ===============================================

// Conversation is a conversation thread between a teen and the assistant.
// All mutations go through methods so updated_at stays accurate.
type Conversation struct {
	ID            string         `json:"id"`
	TeenID        string         `json:"teen_id"`
	Title         string         `json:"title"`
	Status        Status         `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	LastMessageAt *time.Time     `json:"last_message_at,omitempty"`
	MessageCount  int            `json:"message_count"`
	Metadata      map[string]any `json:"metadata"`
}

// New creates an active conversation owned by teenID. A blank title falls
// back to DefaultTitle; a provided one is trimmed and capped.
func New(teenID string, title string) (*Conversation, error) {
	id, err := idgen.GenerateSecureID("conv", 16)
	if err != nil {
		return nil, err
	}

	normalized := stringutils.TrimAndCap(title, MaxTitleLength)
	if normalized == "" {
		normalized = DefaultTitle
	}

	now := time.Now().UTC()
	return &Conversation{
		ID:        id,
		TeenID:    teenID,
		Title:     normalized,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
		Metadata:  map[string]any{},
	}, nil
}

// SetTitle trims and stores a new title, capped at MaxTitleLength runes.
func (c *Conversation) SetTitle(title string) error {
	trimmed := stringutils.TrimAndCap(title, MaxTitleLength)
	if trimmed == "" {
		return ErrEmptyTitle
	}
	c.Title = trimmed
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// Archive moves the conversation out of the active list.
func (c *Conversation) Archive() error {
	if c.Status == StatusDeleted {
		return ErrConversationDeleted
	}
	c.Status = StatusArchived
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// Restore brings an archived conversation back to active.
func (c *Conversation) Restore() error {
	if c.Status == StatusDeleted {
		return ErrConversationDeleted
	}
	c.Status = StatusActive
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// Delete marks the conversation deleted. This is terminal for the aggregate;
// removing the row (and its messages) is the repository's job.
func (c *Conversation) Delete() {
	c.Status = StatusDeleted
	c.UpdatedAt = time.Now().UTC()
}

// AddMessage bumps the message counter and touch timestamps. Call exactly
// once per successfully persisted message.
func (c *Conversation) AddMessage() {
	now := time.Now().UTC()
	c.MessageCount++
	c.LastMessageAt = &now
	c.UpdatedAt = now
}

func (c *Conversation) IsActive() bool {
	return c.Status == StatusActive
}

func (c *Conversation) IsArchived() bool {
	return c.Status == StatusArchived
}

func (c *Conversation) IsDeleted() bool {
	return c.Status == StatusDeleted
}

// CanAddMessages reports whether the ingestion pipeline may append messages.
func (c *Conversation) CanAddMessages() bool {
	return c.Status == StatusActive
}

// ===============================================
// Conversation Repository
// ===============================================

type Filter struct {
	TeenID string
	Status *Status
}

// Repository is the persistence gateway for conversations. Absence is
// reported as a typed not-found error, never a nil dereference.
type Repository interface {
	Create(ctx context.Context, conv *Conversation) error
	FindByID(ctx context.Context, id string) (*Conversation, error)
	FindByFilter(ctx context.Context, filter Filter, pagination *query.Pagination) ([]*Conversation, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	Update(ctx context.Context, conv *Conversation) error
	// Delete hard-deletes the conversation and cascades to its messages in
	// one transaction. Returns false when no row matched.
	Delete(ctx context.Context, id string) (bool, error)
}
