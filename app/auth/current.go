package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskbox/task-api/internal"
	"taskbox/task-api/internal/model"
)

// CurrentUser returns the account behind the presented token. The auth
// middleware already loaded the row, so this is just serialization.
func CurrentUser(c *gin.Context, _ *internal.Deps) {
	user := c.MustGet("user").(*model.User)

	c.JSON(http.StatusOK, gin.H{
		"user": user.Public(),
	})
}
