package conversationhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"modai/services/message-api/internal/domain/conversation"
	"modai/services/message-api/internal/domain/message"
	"modai/services/message-api/internal/infrastructure/metrics"
	"modai/services/message-api/internal/interfaces/httpserver/requests"
	conversationrequests "modai/services/message-api/internal/interfaces/httpserver/requests/conversation"
	"modai/services/message-api/internal/interfaces/httpserver/responses"
	conversationresponses "modai/services/message-api/internal/interfaces/httpserver/responses/conversation"
	messageresponses "modai/services/message-api/internal/interfaces/httpserver/responses/message"
	"modai/services/message-api/internal/utils/platformerrors"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// ConversationHandler handles conversation-related HTTP requests
type ConversationHandler struct {
	conversationService *conversation.Service
	messageService      *message.Service
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(
	conversationService *conversation.Service,
	messageService *message.Service,
) *ConversationHandler {
	return &ConversationHandler{
		conversationService: conversationService,
		messageService:      messageService,
	}
}

// CreateConversation handles POST /v1/conversations
func (h *ConversationHandler) CreateConversation(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	var req conversationrequests.CreateConversationRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation,
			"invalid request body", "9c1e5a70-2d4b-4f8e-b6a3-0c7d9e2f5a18")
		return
	}

	input := conversation.CreateConversationInput{TeenID: req.TeenID}
	if req.Title != nil {
		input.Title = *req.Title
	}

	conv, err := h.conversationService.CreateConversation(ctx, input)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to create conversation")
		return
	}

	metrics.ConversationsCreatedTotal.Inc()
	reqCtx.JSON(http.StatusCreated, conversationresponses.NewConversationResponse(conv))
}

// GetConversation handles GET /v1/conversations/:conversation_id
func (h *ConversationHandler) GetConversation(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	conv, err := h.conversationService.GetConversation(ctx, reqCtx.Param("conversation_id"))
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to get conversation")
		return
	}

	reqCtx.JSON(http.StatusOK, conversationresponses.NewConversationResponse(conv))
}

// ListTeenConversations handles GET /v1/teens/:teen_id/conversations
func (h *ConversationHandler) ListTeenConversations(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	teenID := reqCtx.Param("teen_id")
	status := reqCtx.Query("status")

	pagination, err := requests.GetPaginationFromQuery(reqCtx, defaultListLimit, maxListLimit)
	if err != nil {
		responses.HandleError(reqCtx, err, "invalid pagination parameters")
		return
	}

	conversations, err := h.conversationService.ListConversations(ctx, teenID, status, pagination)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to list conversations")
		return
	}

	total, err := h.conversationService.CountConversations(ctx, teenID, status)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to count conversations")
		return
	}

	reqCtx.JSON(http.StatusOK, conversationresponses.NewConversationListResponse(conversations, total))
}

// UpdateConversation handles PATCH /v1/conversations/:conversation_id
func (h *ConversationHandler) UpdateConversation(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	var req conversationrequests.UpdateConversationRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation,
			"invalid request body", "4f8b2d6e-9a1c-4e7f-8b5d-3a0c6f9e2d41")
		return
	}

	conv, err := h.conversationService.UpdateConversation(ctx, reqCtx.Param("conversation_id"),
		conversation.UpdateConversationInput{
			Title:  req.Title,
			Status: req.Status,
		})
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to update conversation")
		return
	}

	reqCtx.JSON(http.StatusOK, conversationresponses.NewConversationResponse(conv))
}

// DeleteConversation handles DELETE /v1/conversations/:conversation_id
func (h *ConversationHandler) DeleteConversation(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	if err := h.conversationService.DeleteConversation(ctx, reqCtx.Param("conversation_id")); err != nil {
		responses.HandleError(reqCtx, err, "failed to delete conversation")
		return
	}

	reqCtx.Status(http.StatusNoContent)
}

// GetConversationWithMessages handles GET /v1/conversations/:conversation_id/with-messages
func (h *ConversationHandler) GetConversationWithMessages(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	conversationID := reqCtx.Param("conversation_id")

	conv, err := h.conversationService.GetConversation(ctx, conversationID)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to get conversation")
		return
	}

	messages, err := h.messageService.ListMessages(ctx, conversationID, nil)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to list messages")
		return
	}

	total, err := h.messageService.CountMessages(ctx, conversationID)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to count messages")
		return
	}

	reqCtx.JSON(http.StatusOK, messageresponses.NewConversationWithMessagesResponse(conv, messages, total))
}
