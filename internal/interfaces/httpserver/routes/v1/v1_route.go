package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"modai/services/message-api/internal/config"
	"modai/services/message-api/internal/interfaces/httpserver/routes/v1/conversation"
	"modai/services/message-api/internal/interfaces/httpserver/routes/v1/message"
)

type V1Route struct {
	conversation *conversation.ConversationRoute
	message      *message.MessageRoute
}

func NewV1Route(
	conversation *conversation.ConversationRoute,
	message *message.MessageRoute,
) *V1Route {
	return &V1Route{
		conversation,
		message,
	}
}

func (v1Route *V1Route) RegisterRouter(router gin.IRouter) {
	v1Router := router.Group("/api/v1")
	v1Router.GET("/version", GetVersion)
	v1Router.GET("/healthz", GetHealthz)
	v1Router.GET("/readyz", GetReadyz)

	v1Route.conversation.RegisterRouter(v1Router)
	v1Route.message.RegisterRouter(v1Router)
}

// GetVersion returns the current build version of the API server and the
// environment reload timestamp.
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":         config.Version,
		"env_reloaded_at": config.GetEnvReloadedAt().Format("2006-01-02T15:04:05Z07:00"),
	})
}

// GetHealthz reports liveness for orchestrators and monitoring systems.
func GetHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetReadyz reports whether the service is ready to accept traffic.
func GetReadyz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
