package conversation

import (
	"github.com/gin-gonic/gin"

	"modai/services/message-api/internal/interfaces/httpserver/handlers/conversationhandler"
	"modai/services/message-api/internal/interfaces/httpserver/handlers/messagehandler"
)

// ConversationRoute handles routing for conversation endpoints
type ConversationRoute struct {
	handler        *conversationhandler.ConversationHandler
	messageHandler *messagehandler.MessageHandler
}

// NewConversationRoute creates a new conversation route handler
func NewConversationRoute(
	handler *conversationhandler.ConversationHandler,
	messageHandler *messagehandler.MessageHandler,
) *ConversationRoute {
	return &ConversationRoute{
		handler:        handler,
		messageHandler: messageHandler,
	}
}

// RegisterRouter registers conversation routes
func (route *ConversationRoute) RegisterRouter(router gin.IRouter) {
	conversations := router.Group("/conversations")
	conversations.POST("", route.handler.CreateConversation)
	conversations.GET("/:conversation_id", route.handler.GetConversation)
	conversations.PATCH("/:conversation_id", route.handler.UpdateConversation)
	conversations.DELETE("/:conversation_id", route.handler.DeleteConversation)
	conversations.GET("/:conversation_id/with-messages", route.handler.GetConversationWithMessages)

	conversations.POST("/:conversation_id/messages", route.messageHandler.CreateMessage)
	conversations.GET("/:conversation_id/messages", route.messageHandler.GetConversationMessages)

	teens := router.Group("/teens")
	teens.GET("/:teen_id/conversations", route.handler.ListTeenConversations)
}
