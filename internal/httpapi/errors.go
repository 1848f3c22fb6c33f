package httpapi

import (
	"net/http"

	"github.com/alexanderramin/folio/internal/workflow"
	"github.com/gin-gonic/gin"
)

func statusFor(kind workflow.Kind) int {
	switch kind {
	case workflow.KindUnauthorized:
		return http.StatusForbidden
	case workflow.KindIllegalTransition:
		return http.StatusConflict
	case workflow.KindValidation:
		return http.StatusBadRequest
	case workflow.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError renders err with the status its workflow kind maps to.
// Unclassified errors are logged and reported without detail.
func (s *Server) abortWithError(c *gin.Context, err error) {
	kind := workflow.KindOf(err)
	status := statusFor(kind)
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request.Context(), "http_internal_error", "path", c.FullPath(), "error", err)
		c.AbortWithStatusJSON(status, gin.H{"error": "internal error", "kind": "INTERNAL"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error(), "kind": string(kind)})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": string(workflow.KindValidation)})
}
