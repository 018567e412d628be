package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskbox/task-api/internal"
	"taskbox/task-api/internal/model"
	"taskbox/task-api/internal/service"
	"taskbox/task-api/pkg/security"
	"taskbox/task-api/pkg/validators"
)

type forgotBody struct {
	Email string `json:"email"`
}

// The response is identical whether the account exists or not

const forgotMessage = "If that email is registered, a reset link is on its way"

func ForgotPassword(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data forgotBody
	if err := c.ShouldBind(&data); err != nil {
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

	var user model.User
	err := d.DB.
		Where("email = ?", strings.ToLower(strings.TrimSpace(data.Email))).
		First(&user).
		Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			zap.L().Error("Failed to look up user for reset", zap.Error(err), zap.String("requestID", requestID))
		}

		c.JSON(http.StatusOK, gin.H{
			"message":   forgotMessage,
			"requestID": requestID,
		})
		return
	}

	resetToken, err := security.MakeResetToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate reset token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = d.DB.Transaction(func(tx *gorm.DB) error {
		// A single active token per user
		if err := tx.Where("user_id = ?", user.ID).Delete(model.PasswordResetToken{}).Error; err != nil {
			return err
		}

		return tx.Create(resetToken).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to store reset token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// Mail delivery runs off the request path. Failures get logged,
	// the caller already got their generic answer
	go func() {
		if err := service.SendResetMail(resetToken, user.Email); err != nil {
			zap.L().Error("Failed to send reset mail", zap.Error(err), zap.String("requestID", requestID))
		}
	}()

	c.JSON(http.StatusOK, gin.H{
		"message":   forgotMessage,
		"requestID": requestID,
	})
}
