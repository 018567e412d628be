package task

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskbox/task-api/internal"
	"taskbox/task-api/internal/model"
)

// Pointer fields so an explicit false/empty value is distinguishable
// from a field that wasn't sent at all
type updateBody struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
	Important   *bool      `json:"important,omitempty"`
}

// Update applies a partial edit to a task. Only the owner may write,
// users on the share list get a 403 like everyone else.
func Update(c *gin.Context, d *internal.Deps) {
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

	var data updateBody
	if err := c.BindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})

		zap.L().Debug("Failed to read JSON body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Title == nil && data.Description == nil && data.DueDate == nil &&
		data.Completed == nil && data.Important == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No fields to update",
			"requestID": requestID,
		})
		return
	}

	if data.Title != nil && strings.TrimSpace(*data.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Title field can't be empty",
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
			"error":     "Only the owner can modify a task",
			"requestID": requestID,
		})
		return
	}

	if data.Title != nil {
		t.Title = strings.TrimSpace(*data.Title)
	}
	if data.Description != nil {
		t.Description = *data.Description
	}
	if data.DueDate != nil {
		t.DueDate = data.DueDate
	}
	if data.Completed != nil {
		t.Completed = *data.Completed
	}
	if data.Important != nil {
		t.Important = *data.Important
	}

	// Save instead of Updates so explicit false values make it to the db
	if err := d.DB.Save(&t).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to save task", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, t)
}
