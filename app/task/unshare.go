package task

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskbox/task-api/internal"
	"taskbox/task-api/internal/model"
	"taskbox/task-api/pkg/validators"
)

// Unshare revokes a recipient's read access again. Same body shape as
// Share, same all-or-nothing ownership check, removing someone who was
// never on the list is a no-op.
func Unshare(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data shareBody
	if err := c.BindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if len(data.TaskIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No task IDs provided",
			"requestID": requestID,
		})
		return
	}

	var recipient model.User
	err := d.DB.
		Where("email = ?", strings.ToLower(strings.TrimSpace(data.Email))).
		First(&recipient).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Recipient not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up recipient", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// Listing the same ID twice counts once
	taskIDs := slices.Compact(slices.Sorted(slices.Values(data.TaskIDs)))

	var tasks []model.Task
	err = d.DB.
		Where("id IN ?", taskIDs).
		Find(&tasks).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch tasks to unshare", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if len(tasks) != len(taskIDs) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Task not found",
			"requestID": requestID,
		})
		return
	}

	for _, t := range tasks {
		if t.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{
				"error":     "Only the owner can unshare a task",
				"requestID": requestID,
			})
			return
		}
	}

	err = d.DB.Transaction(func(tx *gorm.DB) error {
		for i := range tasks {
			if !tasks[i].SharedWith.Remove(recipient.ID) {
				continue
			}

			err := tx.Model(model.Task{}).
				Where("id = ?", tasks[i].ID).
				Update("shared_with", tasks[i].SharedWith).
				Error
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to unshare tasks", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Tasks unshared successfully",
	})
}
