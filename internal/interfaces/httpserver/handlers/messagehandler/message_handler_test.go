package messagehandler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modai/services/message-api/internal/domain/conversation"
	"modai/services/message-api/internal/domain/message"
	"modai/services/message-api/internal/domain/query"
	"modai/services/message-api/internal/domain/usage"
	"modai/services/message-api/internal/interfaces/httpserver/handlers/messagehandler"
	"modai/services/message-api/internal/utils/platformerrors"
)

type fakeConversationRepo struct {
	conversations map[string]*conversation.Conversation
}

func (r *fakeConversationRepo) Create(_ context.Context, conv *conversation.Conversation) error {
	r.conversations[conv.ID] = conv
	return nil
}

func (r *fakeConversationRepo) FindByID(ctx context.Context, id string) (*conversation.Conversation, error) {
	conv, ok := r.conversations[id]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "conversation not found", nil, "")
	}
	return conv, nil
}

func (r *fakeConversationRepo) FindByFilter(_ context.Context, _ conversation.Filter, _ *query.Pagination) ([]*conversation.Conversation, error) {
	return nil, nil
}

func (r *fakeConversationRepo) Count(_ context.Context, _ conversation.Filter) (int64, error) {
	return 0, nil
}

func (r *fakeConversationRepo) Update(_ context.Context, conv *conversation.Conversation) error {
	r.conversations[conv.ID] = conv
	return nil
}

func (r *fakeConversationRepo) Delete(_ context.Context, id string) (bool, error) {
	_, ok := r.conversations[id]
	delete(r.conversations, id)
	return ok, nil
}

type fakeMessageRepo struct {
	messages []*message.Message
}

func (r *fakeMessageRepo) Create(_ context.Context, msg *message.Message) error {
	r.messages = append(r.messages, msg)
	return nil
}

func (r *fakeMessageRepo) FindByID(ctx context.Context, id string) (*message.Message, error) {
	for _, msg := range r.messages {
		if msg.ID == id {
			return msg, nil
		}
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
		platformerrors.ErrorTypeNotFound, "message not found", nil, "")
}

func (r *fakeMessageRepo) FindByConversationID(_ context.Context, conversationID string, _ *query.Pagination) ([]*message.Message, error) {
	var out []*message.Message
	for _, msg := range r.messages {
		if msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) CountByConversationID(ctx context.Context, conversationID string) (int64, error) {
	msgs, _ := r.FindByConversationID(ctx, conversationID, nil)
	return int64(len(msgs)), nil
}

func (r *fakeMessageRepo) Update(_ context.Context, _ *message.Message) error { return nil }

func (r *fakeMessageRepo) Delete(_ context.Context, _ string) (bool, error) { return false, nil }

func (r *fakeMessageRepo) DeleteByConversationID(_ context.Context, _ string) (int64, error) {
	return 0, nil
}

type fakeGuard struct {
	check usage.LimitCheck
}

func (g *fakeGuard) CheckDailyLimit(_ context.Context, _ string) (usage.LimitCheck, error) {
	return g.check, nil
}

type fakeClassifier struct {
	jobs []usage.ClassificationJob
}

func (f *fakeClassifier) PublishClassificationJob(_ context.Context, job usage.ClassificationJob) error {
	f.jobs = append(f.jobs, job)
	return nil
}

type fakeUsagePublisher struct {
	events []usage.Event
}

func (f *fakeUsagePublisher) PublishUsageEvent(_ context.Context, event usage.Event) error {
	f.events = append(f.events, event)
	return nil
}

type handlerFixture struct {
	router     *gin.Engine
	convRepo   *fakeConversationRepo
	msgRepo    *fakeMessageRepo
	guard      *fakeGuard
	classifier *fakeClassifier
	conv       *conversation.Conversation
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conv, err := conversation.New("teen_123", "Homework")
	require.NoError(t, err)

	f := &handlerFixture{
		convRepo:   &fakeConversationRepo{conversations: map[string]*conversation.Conversation{conv.ID: conv}},
		msgRepo:    &fakeMessageRepo{},
		guard:      &fakeGuard{check: usage.LimitCheck{Allowed: true, MessagesSent: 1, MessagesLimit: 100}},
		classifier: &fakeClassifier{},
		conv:       conv,
	}

	ingestService := message.NewIngestService(f.convRepo, f.msgRepo, f.guard, f.classifier,
		&fakeUsagePublisher{}, 5*time.Second, 2*time.Second)
	handler := messagehandler.NewMessageHandler(ingestService, message.NewService(f.msgRepo))

	f.router = gin.New()
	f.router.POST("/api/v1/conversations/:conversation_id/messages", handler.CreateMessage)
	f.router.GET("/api/v1/conversations/:conversation_id/messages", handler.GetConversationMessages)
	f.router.GET("/api/v1/messages/:message_id", handler.GetMessage)
	return f
}

func (f *handlerFixture) postMessage(t *testing.T, conversationID string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost,
		"/api/v1/conversations/"+conversationID+"/messages", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)
	return recorder
}

func decodeDetail(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body.Detail
}

func TestCreateMessage(t *testing.T) {
	f := newHandlerFixture(t)

	recorder := f.postMessage(t, f.conv.ID, map[string]any{
		"role":    "user",
		"content": "Hi",
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, f.conv.ID, body["conversation_id"])
	assert.Equal(t, "user", body["role"])
	assert.Equal(t, "Hi", body["content"])

	assert.Equal(t, 1, f.conv.MessageCount)
	assert.Len(t, f.classifier.jobs, 1)
}

func TestCreateMessage_ConversationNotFound(t *testing.T) {
	f := newHandlerFixture(t)

	recorder := f.postMessage(t, "conv_missing", map[string]any{
		"role":    "user",
		"content": "Hi",
	})
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.NotEmpty(t, decodeDetail(t, recorder))
}

func TestCreateMessage_InactiveConversation(t *testing.T) {
	f := newHandlerFixture(t)
	require.NoError(t, f.conv.Archive())

	recorder := f.postMessage(t, f.conv.ID, map[string]any{
		"role":    "user",
		"content": "Hi",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Empty(t, f.msgRepo.messages)
}

func TestCreateMessage_MissingContent(t *testing.T) {
	f := newHandlerFixture(t)

	recorder := f.postMessage(t, f.conv.ID, map[string]any{"role": "user"})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.NotEmpty(t, decodeDetail(t, recorder))
}

func TestCreateMessage_DailyLimitExceeded(t *testing.T) {
	f := newHandlerFixture(t)
	f.guard.check = usage.LimitCheck{Allowed: false, MessagesSent: 100, MessagesLimit: 100}

	recorder := f.postMessage(t, f.conv.ID, map[string]any{
		"role":    "user",
		"content": "one more",
	})
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Contains(t, decodeDetail(t, recorder), "100/100")
	assert.Empty(t, f.msgRepo.messages)
}

func TestGetConversationMessages(t *testing.T) {
	f := newHandlerFixture(t)
	f.postMessage(t, f.conv.ID, map[string]any{"role": "user", "content": "first"})
	f.postMessage(t, f.conv.ID, map[string]any{"role": "assistant", "content": "second"})

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/conversations/"+f.conv.ID+"/messages", nil)
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data  []map[string]any `json:"data"`
		Total int64            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, int64(2), body.Total)
	assert.Equal(t, "first", body.Data[0]["content"])
	assert.Equal(t, "second", body.Data[1]["content"])
}

func TestGetConversationMessages_InvalidLimit(t *testing.T) {
	f := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/conversations/"+f.conv.ID+"/messages?limit=abc", nil)
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetMessage(t *testing.T) {
	f := newHandlerFixture(t)
	created := f.postMessage(t, f.conv.ID, map[string]any{"role": "user", "content": "Hi"})
	var createdBody map[string]any
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &createdBody))
	messageID := createdBody["id"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/messages/"+messageID, nil)
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, messageID, body["id"])
}

func TestGetMessage_NotFound(t *testing.T) {
	f := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/messages/msg_missing", nil)
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.NotEmpty(t, decodeDetail(t, recorder))
}
