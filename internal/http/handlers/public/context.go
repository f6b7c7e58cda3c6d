package public

import (
	handlershared "github.com/balneario-store/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "user_id")
}

func getUserEmail(c *gin.Context) string {
	return handlershared.GetContextString(c, "user_email")
}

func getUserName(c *gin.Context) string {
	return handlershared.GetContextString(c, "user_name")
}
