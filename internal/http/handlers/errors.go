package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/storefront-admin/internal/http/response"
	"github.com/yungbote/storefront-admin/internal/platform/apierr"
)

// respondErr writes err using its apierr status and code, falling back to a
// 500 with fallbackCode.
func respondErr(c *gin.Context, fallbackCode string, err error) {
	if ae, ok := apierr.As(err); ok {
		status := ae.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		code := ae.Code
		if code == "" {
			code = fallbackCode
		}
		response.RespondErrorFields(c, status, code, ae.Err, ae.Details)
		return
	}
	_ = c.Error(err)
	response.RespondError(c, http.StatusInternalServerError, fallbackCode, err)
}
