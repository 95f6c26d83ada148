package public

import (
	handlershared "github.com/freshcart/internal/http/handlers/shared"
	"github.com/freshcart/internal/models"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func paramID(c *gin.Context, name string) (models.ID, bool) {
	return handlershared.ParamID(c, name)
}
