package conversation

import (
	"context"
	"errors"
	"fmt"

	"modai/services/message-api/internal/domain/query"
	"modai/services/message-api/internal/utils/platformerrors"
)

// Service handles business logic for conversations
type Service struct {
	repo Repository
}

// NewService creates a new conversation service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateConversationInput represents the input for creating a conversation
type CreateConversationInput struct {
	TeenID string
	Title  string
}

// UpdateConversationInput represents the input for updating a conversation.
// Nil fields are left untouched.
type UpdateConversationInput struct {
	Title  *string
	Status *string
}

// CreateConversation creates and persists a new conversation for a teen.
func (s *Service) CreateConversation(ctx context.Context, input CreateConversationInput) (*Conversation, error) {
	conv, err := New(input.TeenID, input.Title)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"failed to generate conversation ID", err, "c3f1a8d2-5b6e-4f9a-8d1c-2e7b4a9f0c3d")
	}

	if err := s.repo.Create(ctx, conv); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create conversation")
	}

	return conv, nil
}

// GetConversation retrieves a conversation by ID.
func (s *Service) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	conv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "conversation not found")
	}
	return conv, nil
}

// ListConversations lists a teen's conversations ordered by recency. An
// unknown status string is rejected before the query runs.
func (s *Service) ListConversations(ctx context.Context, teenID string, status string, pagination *query.Pagination) ([]*Conversation, error) {
	filter := Filter{TeenID: teenID}
	if status != "" {
		if !ValidateStatus(status) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				fmt.Sprintf("invalid status: %s", status), nil, "e9d4b7a1-3c2f-4e8d-9a6b-5f0c1d8e2a74")
		}
		st := Status(status)
		filter.Status = &st
	}

	conversations, err := s.repo.FindByFilter(ctx, filter, pagination)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list conversations")
	}
	return conversations, nil
}

// CountConversations counts a teen's conversations matching the status
// filter. Status is assumed validated by the caller.
func (s *Service) CountConversations(ctx context.Context, teenID string, status string) (int64, error) {
	filter := Filter{TeenID: teenID}
	if status != "" {
		st := Status(status)
		filter.Status = &st
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to count conversations")
	}
	return total, nil
}

// UpdateConversation applies a title and/or status change. Status strings map
// onto the aggregate's transitions; an unknown status is a validation error
// and an illegal transition surfaces as an invalid-state error.
func (s *Service) UpdateConversation(ctx context.Context, id string, input UpdateConversationInput) (*Conversation, error) {
	conv, err := s.GetConversation(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if err := conv.SetTitle(*input.Title); err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				"title cannot be empty", err, "b8a2c5f0-7d4e-4a1b-9c3f-6e8d0a2b5c17")
		}
	}

	if input.Status != nil {
		if err := s.applyStatusTransition(conv, *input.Status); err != nil {
			return nil, s.mapTransitionError(ctx, err, *input.Status)
		}
	}

	if err := s.repo.Update(ctx, conv); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update conversation")
	}

	return conv, nil
}

// DeleteConversation hard-deletes a conversation and all its messages.
func (s *Service) DeleteConversation(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete conversation")
	}
	if !deleted {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"conversation not found", nil, "f2e6a9c4-1b8d-4f7e-a3c5-9d0b6e4f8a21")
	}
	return nil
}

func (s *Service) applyStatusTransition(conv *Conversation, status string) error {
	switch Status(status) {
	case StatusArchived:
		return conv.Archive()
	case StatusActive:
		return conv.Restore()
	case StatusDeleted:
		conv.Delete()
		return nil
	default:
		return fmt.Errorf("invalid status: %s", status)
	}
}

func (s *Service) mapTransitionError(ctx context.Context, err error, status string) error {
	if errors.Is(err, ErrConversationDeleted) {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInvalidState,
			fmt.Sprintf("cannot transition a deleted conversation to %s", status), err, "a7c1e4b9-8f2d-4c6a-b5e3-0d9f7a1c4e82")
	}
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
		err.Error(), err, "d5b9f2e7-4a0c-4d8b-9f1e-3c6a8b2d5f09")
}
