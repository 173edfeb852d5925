package messagehandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"modai/services/message-api/internal/domain/message"
	"modai/services/message-api/internal/interfaces/httpserver/requests"
	messagerequests "modai/services/message-api/internal/interfaces/httpserver/requests/message"
	"modai/services/message-api/internal/interfaces/httpserver/responses"
	messageresponses "modai/services/message-api/internal/interfaces/httpserver/responses/message"
	"modai/services/message-api/internal/utils/platformerrors"
)

const (
	defaultMessageLimit = 100
	maxMessageLimit     = 500
)

// MessageHandler handles message-related HTTP requests
type MessageHandler struct {
	ingestService  *message.IngestService
	messageService *message.Service
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(
	ingestService *message.IngestService,
	messageService *message.Service,
) *MessageHandler {
	return &MessageHandler{
		ingestService:  ingestService,
		messageService: messageService,
	}
}

// CreateMessage handles POST /v1/conversations/:conversation_id/messages
func (h *MessageHandler) CreateMessage(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	var req messagerequests.CreateMessageRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation,
			"invalid request body", "d6a3f0e8-5c1b-4d9f-a7e2-8b4c0f6d3a95")
		return
	}

	msg, err := h.ingestService.IngestMessage(ctx, message.IngestInput{
		ConversationID:  reqCtx.Param("conversation_id"),
		Role:            req.Role,
		Content:         req.Content,
		TopicTier:       req.TopicTier,
		TopicCategories: req.TopicCategories,
		Provider:        req.Provider,
		Model:           req.Model,
		InputTokens:     req.InputTokens,
		OutputTokens:    req.OutputTokens,
		TotalTokens:     req.TotalTokens,
		CostUSD:         req.CostUSD,
	})
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to create message")
		return
	}

	reqCtx.JSON(http.StatusCreated, messageresponses.NewMessageResponse(msg))
}

// GetConversationMessages handles GET /v1/conversations/:conversation_id/messages
func (h *MessageHandler) GetConversationMessages(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	conversationID := reqCtx.Param("conversation_id")

	pagination, err := requests.GetPaginationFromQuery(reqCtx, defaultMessageLimit, maxMessageLimit)
	if err != nil {
		responses.HandleError(reqCtx, err, "invalid pagination parameters")
		return
	}

	messages, err := h.messageService.ListMessages(ctx, conversationID, pagination)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to list messages")
		return
	}

	total, err := h.messageService.CountMessages(ctx, conversationID)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to count messages")
		return
	}

	reqCtx.JSON(http.StatusOK, messageresponses.NewMessageListResponse(messages, total))
}

// GetMessage handles GET /v1/messages/:message_id
func (h *MessageHandler) GetMessage(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	msg, err := h.messageService.GetMessage(ctx, reqCtx.Param("message_id"))
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to get message")
		return
	}

	reqCtx.JSON(http.StatusOK, messageresponses.NewMessageResponse(msg))
}
