package task

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskbox/task-api/internal"
	"taskbox/task-api/internal/model"
)

func Delete(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	taskID := c.Param("id")
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No task ID provided",
			"requestID": requestID,
		})
		return
	}

	var t model.Task
	err := d.DB.
		Where("id = ?", taskID).
		First(&t).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Task not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch task", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if t.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{
			"error":     "Only the owner can delete a task",
			"requestID": requestID,
		})
		return
	}

	if err := d.DB.Delete(&t).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete task", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted",
	})
}
