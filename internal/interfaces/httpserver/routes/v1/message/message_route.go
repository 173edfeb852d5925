package message

import (
	"github.com/gin-gonic/gin"

	"modai/services/message-api/internal/interfaces/httpserver/handlers/messagehandler"
)

// MessageRoute handles routing for standalone message endpoints
type MessageRoute struct {
	handler *messagehandler.MessageHandler
}

// NewMessageRoute creates a new message route handler
func NewMessageRoute(handler *messagehandler.MessageHandler) *MessageRoute {
	return &MessageRoute{handler: handler}
}

// RegisterRouter registers message routes
func (route *MessageRoute) RegisterRouter(router gin.IRouter) {
	messages := router.Group("/messages")
	messages.GET("/:message_id", route.handler.GetMessage)
}
