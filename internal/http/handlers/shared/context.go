package shared

import (
	"strings"

	"github.com/freshcart/internal/http/response"
	"github.com/freshcart/internal/models"

	"github.com/gin-gonic/gin"
)

// ParamID 读取路径参数中的 ID，为空时直接返回 400。
func ParamID(c *gin.Context, name string) (models.ID, bool) {
	id := models.ID(strings.TrimSpace(c.Param(name)))
	if id.IsZero() {
		RespondError(c, response.CodeBadRequest, name+" is required", nil)
		return "", false
	}
	return id, true
}
