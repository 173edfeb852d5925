package responses

import (
	"github.com/gin-gonic/gin"

	"modai/services/message-api/internal/infrastructure/logger"
	"modai/services/message-api/internal/utils/platformerrors"
)

// ErrorResponse is the error body contract shared by every endpoint.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// HandleError maps a (platform) error onto the HTTP response and aborts the
// request. Unknown errors become opaque 500s; the real cause goes to the log.
func HandleError(reqCtx *gin.Context, err error, fallbackMessage string) {
	platformErr := platformerrors.GetPlatformError(err)
	if platformErr == nil {
		platformErr = platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerHandler,
			platformerrors.ErrorTypeInternal, fallbackMessage, err, "")
	}
	platformerrors.LogError(logger.GetLogger(), platformErr)

	status := platformerrors.ErrorTypeToHTTPStatus(platformErr.Type)

	detail := platformErr.Message
	if status >= 500 {
		detail = fallbackMessage
	}

	reqCtx.AbortWithStatusJSON(status, ErrorResponse{Detail: detail})
}

// HandleNewError builds a fresh platform error at the handler layer and
// writes it out.
func HandleNewError(reqCtx *gin.Context, errorType platformerrors.ErrorType, message string, customUUID string) {
	err := platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerHandler, errorType, message, nil, customUUID)
	HandleError(reqCtx, err, message)
}
