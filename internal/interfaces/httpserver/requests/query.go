package requests

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"modai/services/message-api/internal/domain/query"
	"modai/services/message-api/internal/utils/platformerrors"
)

// GetPaginationFromQuery parses limit/offset query parameters with the
// given defaults and cap.
func GetPaginationFromQuery(reqCtx *gin.Context, defaultLimit, maxLimit int) (*query.Pagination, error) {
	limit := defaultLimit
	if limitStr := reqCtx.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			return nil, platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerHandler,
				platformerrors.ErrorTypeValidation, "invalid limit number", nil, "04aecd25-bd32-428b-864d-aeb7ecb06e53")
		}
		limit = parsed
	}

	offset := 0
	if offsetStr := reqCtx.Query("offset"); offsetStr != "" {
		parsed, err := strconv.Atoi(offsetStr)
		if err != nil || parsed < 0 {
			return nil, platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerHandler,
				platformerrors.ErrorTypeValidation, "invalid offset number", nil, "a3e0ea22-afc6-45df-b686-a194868af415")
		}
		offset = parsed
	}

	return query.NewPagination(limit, offset, defaultLimit, maxLimit), nil
}
