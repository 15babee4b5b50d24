package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yungbote/prizely-backend/internal/platform/apierr"
)

// RespondErr writes err using the status and code of an *apierr.Error. Anything
// else is a 500 whose cause stays in the request log, not the body.
func RespondErr(c *gin.Context, err error) {
	_ = c.Error(err)

	var ae *apierr.Error
	if !errors.As(err, &ae) {
		RespondError(c, http.StatusInternalServerError, "internal_error", errors.New("internal server error"))
		return
	}
	status := ae.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		RespondError(c, status, ae.Code, errors.New("internal server error"))
		return
	}
	RespondError(c, status, ae.Code, ae)
}

// BadBody reports a request body that could not be decoded.
func BadBody(c *gin.Context, err error) {
	_ = c.Error(err)
	RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("invalid request body"))
}
