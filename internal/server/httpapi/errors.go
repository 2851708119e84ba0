package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/seniko/internal/common"
	"github.com/dmitrijs2005/seniko/internal/server/metrics"
	"github.com/dmitrijs2005/seniko/internal/server/services"
	"github.com/gin-gonic/gin"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type errorMapping struct {
	kind    error
	status  int
	code    string
	message string
}

// Order matters: the first matching kind wins.
var errorMappings = []errorMapping{
	{common.ErrorUnauthorized, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password"},
	{common.ErrTokenExpired, http.StatusUnauthorized, "TOKEN_EXPIRED", "token has expired"},
	{common.ErrInvalidToken, http.StatusUnauthorized, "INVALID_TOKEN", "token is invalid"},
	{common.ErrEmailTaken, http.StatusConflict, "EMAIL_TAKEN", "email is already registered"},
	{common.ErrStoreUnavailable, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "service temporarily unavailable"},
}

func writeMalformed(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{
		Code:    "INVALID_INPUT",
		Message: "request body must be a JSON object",
	})
}

// writeError maps err onto a status code and a body. Internal details are
// logged, never returned.
func (s *HTTPServer) writeError(c *gin.Context, op string, err error) {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{
			Code:    "VALIDATION_FAILED",
			Message: vErr.Message,
			Field:   vErr.Field,
		})
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.kind) {
			if m.status >= http.StatusInternalServerError {
				s.logger.Error(c.Request.Context(), "Request failed", "operation", op, "error", err)
			}
			c.AbortWithStatusJSON(m.status, errorResponse{Code: m.code, Message: m.message})
			return
		}
	}

	s.logger.Error(c.Request.Context(), "Request failed", "operation", op, "error", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{
		Code:    "INTERNAL_ERROR",
		Message: "internal server error",
	})
}

func outcomeOf(err error) string {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		return metrics.OutcomeInvalid
	case errors.Is(err, common.ErrorUnauthorized):
		return metrics.OutcomeRejected
	case errors.Is(err, common.ErrEmailTaken):
		return metrics.OutcomeConflict
	default:
		return metrics.OutcomeError
	}
}
