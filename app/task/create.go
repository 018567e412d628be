// Package task contains the task CRUD and sharing endpoints
package task

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	"taskbox/task-api/internal"
	"taskbox/task-api/internal/model"
)

// Same alphabet as user IDs, letters only so share lists can be
// comma-joined safely
const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
const idLength = 16

type createBody struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Important   bool       `json:"important"`
}

func Create(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data createBody
	if err := c.BindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})

		zap.L().Debug("Failed to read JSON body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if strings.TrimSpace(data.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Title field can't be empty",
			"requestID": requestID,
		})
		return
	}

	if strings.TrimSpace(data.Description) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Description field can't be empty",
			"requestID": requestID,
		})
		return
	}

	taskID, err := gonanoid.Generate(idCharset, idLength)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate task ID", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	t := model.Task{
		ID:          taskID,
		UserID:      userID,
		Title:       strings.TrimSpace(data.Title),
		Description: data.Description,
		DueDate:     data.DueDate,
		Completed:   false,
		Important:   data.Important,
		SharedWith:  model.IDList{},
	}

	if err := d.DB.Create(&t).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create task", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, t)
}
