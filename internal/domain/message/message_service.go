package message

import (
	"context"

	"modai/services/message-api/internal/domain/query"
	"modai/services/message-api/internal/utils/platformerrors"
)

// Service exposes read operations over stored messages.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetMessage retrieves a single message by ID.
func (s *Service) GetMessage(ctx context.Context, id string) (*Message, error) {
	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "message not found")
	}
	return msg, nil
}

// ListMessages returns a conversation's messages in chronological order.
func (s *Service) ListMessages(ctx context.Context, conversationID string, pagination *query.Pagination) ([]*Message, error) {
	messages, err := s.repo.FindByConversationID(ctx, conversationID, pagination)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list messages")
	}
	return messages, nil
}

// CountMessages returns the number of stored messages in a conversation.
func (s *Service) CountMessages(ctx context.Context, conversationID string) (int64, error) {
	count, err := s.repo.CountByConversationID(ctx, conversationID)
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to count messages")
	}
	return count, nil
}
