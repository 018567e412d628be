package task

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskbox/task-api/internal"
	"taskbox/task-api/internal/model"
)

// ListShared returns only the tasks other users shared with the
// caller, never the caller's own
func ListShared(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var tasks []model.Task

	err := d.DB.
		Where("user_id <> ? AND "+sharedWithClause, userID, sharedWithPattern(userID)).
		Order("due_date IS NULL, due_date asc").
		Find(&tasks).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch shared tasks", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	out := tasks[:0]
	for i := range tasks {
		if tasks[i].SharedWith.Contains(userID) {
			out = append(out, tasks[i])
		}
	}

	c.JSON(http.StatusOK, out)
}
