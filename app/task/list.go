package task

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskbox/task-api/internal"
	"taskbox/task-api/internal/model"
)

// sharedWithPattern matches a user ID inside the comma-joined
// shared_with column. Wrapping both sides in commas keeps "abc" from
// matching inside "xabcx".
func sharedWithPattern(userID string) string {
	return "%," + userID + ",%"
}

// LIKE folds ASCII case on the sqlite driver, so this clause only
// narrows the scan. Callers recheck membership with IDList.Contains
// before returning anything.
const sharedWithClause = "(',' || shared_with || ',') LIKE ?"

// List returns every task the caller owns or was given read access to,
// due date ascending with undated tasks last
func List(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var tasks []model.Task

	err := d.DB.
		Where("user_id = ? OR "+sharedWithClause, userID, sharedWithPattern(userID)).
		Order("due_date IS NULL, due_date asc").
		Find(&tasks).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch tasks", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	out := tasks[:0]
	for i := range tasks {
		if tasks[i].UserID == userID || tasks[i].SharedWith.Contains(userID) {
			out = append(out, tasks[i])
		}
	}

	c.JSON(http.StatusOK, out)
}
