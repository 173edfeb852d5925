package conversation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modai/services/message-api/internal/domain/conversation"
	"modai/services/message-api/internal/domain/query"
	"modai/services/message-api/internal/utils/platformerrors"
)

type fakeConversationRepo struct {
	conversations map[string]*conversation.Conversation
	lastFilter    conversation.Filter
	deleted       []string
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{conversations: map[string]*conversation.Conversation{}}
}

func (r *fakeConversationRepo) Create(_ context.Context, conv *conversation.Conversation) error {
	r.conversations[conv.ID] = conv
	return nil
}

func (r *fakeConversationRepo) FindByID(ctx context.Context, id string) (*conversation.Conversation, error) {
	conv, ok := r.conversations[id]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "conversation not found", nil, "test-not-found")
	}
	clone := *conv
	return &clone, nil
}

func (r *fakeConversationRepo) FindByFilter(_ context.Context, filter conversation.Filter, _ *query.Pagination) ([]*conversation.Conversation, error) {
	r.lastFilter = filter
	var out []*conversation.Conversation
	for _, conv := range r.conversations {
		if conv.TeenID != filter.TeenID {
			continue
		}
		if filter.Status != nil && conv.Status != *filter.Status {
			continue
		}
		out = append(out, conv)
	}
	return out, nil
}

func (r *fakeConversationRepo) Count(ctx context.Context, filter conversation.Filter) (int64, error) {
	matched, err := r.FindByFilter(ctx, filter, nil)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

func (r *fakeConversationRepo) Update(_ context.Context, conv *conversation.Conversation) error {
	r.conversations[conv.ID] = conv
	return nil
}

func (r *fakeConversationRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := r.conversations[id]; !ok {
		return false, nil
	}
	delete(r.conversations, id)
	r.deleted = append(r.deleted, id)
	return true, nil
}

func seedConversation(t *testing.T, repo *fakeConversationRepo, teenID, title string) *conversation.Conversation {
	t.Helper()
	conv, err := conversation.New(teenID, title)
	require.NoError(t, err)
	repo.conversations[conv.ID] = conv
	return conv
}

func TestCreateConversation(t *testing.T) {
	repo := newFakeConversationRepo()
	svc := conversation.NewService(repo)

	conv, err := svc.CreateConversation(context.Background(), conversation.CreateConversationInput{
		TeenID: "teen_42",
		Title:  "Homework help",
	})
	require.NoError(t, err)
	assert.Equal(t, "teen_42", conv.TeenID)
	assert.Equal(t, conversation.StatusActive, conv.Status)
	assert.Contains(t, repo.conversations, conv.ID)
}

func TestGetConversation_NotFound(t *testing.T) {
	svc := conversation.NewService(newFakeConversationRepo())

	_, err := svc.GetConversation(context.Background(), "conv_missing")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestListConversations_InvalidStatus(t *testing.T) {
	svc := conversation.NewService(newFakeConversationRepo())

	_, err := svc.ListConversations(context.Background(), "teen_42", "paused", nil)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestListConversations_StatusFilter(t *testing.T) {
	repo := newFakeConversationRepo()
	svc := conversation.NewService(repo)
	active := seedConversation(t, repo, "teen_42", "Open chat")
	archived := seedConversation(t, repo, "teen_42", "Old chat")
	require.NoError(t, archived.Archive())

	out, err := svc.ListConversations(context.Background(), "teen_42", "active", nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, active.ID, out[0].ID)
	require.NotNil(t, repo.lastFilter.Status)
	assert.Equal(t, conversation.StatusActive, *repo.lastFilter.Status)
}

func TestUpdateConversation_ArchiveAndRestore(t *testing.T) {
	repo := newFakeConversationRepo()
	svc := conversation.NewService(repo)
	conv := seedConversation(t, repo, "teen_42", "Chat")

	archivedStatus := "archived"
	updated, err := svc.UpdateConversation(context.Background(), conv.ID,
		conversation.UpdateConversationInput{Status: &archivedStatus})
	require.NoError(t, err)
	assert.Equal(t, conversation.StatusArchived, updated.Status)

	activeStatus := "active"
	updated, err = svc.UpdateConversation(context.Background(), conv.ID,
		conversation.UpdateConversationInput{Status: &activeStatus})
	require.NoError(t, err)
	assert.Equal(t, conversation.StatusActive, updated.Status)
}

func TestUpdateConversation_DeletedIsTerminal(t *testing.T) {
	repo := newFakeConversationRepo()
	svc := conversation.NewService(repo)
	conv := seedConversation(t, repo, "teen_42", "Chat")
	conv.Delete()
	repo.conversations[conv.ID] = conv

	archivedStatus := "archived"
	_, err := svc.UpdateConversation(context.Background(), conv.ID,
		conversation.UpdateConversationInput{Status: &archivedStatus})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeInvalidState))
}

func TestUpdateConversation_EmptyTitle(t *testing.T) {
	repo := newFakeConversationRepo()
	svc := conversation.NewService(repo)
	conv := seedConversation(t, repo, "teen_42", "Chat")

	blank := "   "
	_, err := svc.UpdateConversation(context.Background(), conv.ID,
		conversation.UpdateConversationInput{Title: &blank})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestDeleteConversation(t *testing.T) {
	repo := newFakeConversationRepo()
	svc := conversation.NewService(repo)
	conv := seedConversation(t, repo, "teen_42", "Chat")

	require.NoError(t, svc.DeleteConversation(context.Background(), conv.ID))
	assert.Equal(t, []string{conv.ID}, repo.deleted)

	err := svc.DeleteConversation(context.Background(), conv.ID)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}
