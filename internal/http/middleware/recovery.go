package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/prizely-backend/internal/http/response"
	"github.com/yungbote/prizely-backend/internal/platform/ctxutil"
	"github.com/yungbote/prizely-backend/internal/platform/logger"
)

// Recovery turns a panic into a 500 error envelope and logs it.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if log != nil {
			fields := append([]interface{}{"panic", fmt.Sprint(recovered), "path", c.Request.URL.Path},
				ctxutil.LogFields(c.Request.Context())...)
			log.Error("panic recovered", fields...)
		}
		response.RespondError(c, http.StatusInternalServerError, "internal_error", errors.New("internal server error"))
		c.Abort()
	})
}
