package auth

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskbox/task-api/internal"
	"taskbox/task-api/internal/model"
	"taskbox/task-api/pkg/validators"
)

func UploadAvatar(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	fh, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No avatar file provided",
			"requestID": requestID,
		})
		return
	}

	code, f, err := validators.AvatarValidator(fh)
	if err != nil {
		c.JSON(code, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}
	defer f.Close()

	// One object per user, re-uploading replaces the old avatar
	key := "avatars/" + userID + path.Ext(fh.Filename)

	url, err := d.Storage.Put(c.Request.Context(), key, fh.Header.Get("Content-Type"), f, fh.Size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to store avatar", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = d.DB.Model(model.User{}).
		Where("id = ?", userID).
		Update("avatar_path", url).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to save avatar path", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"avatarUrl": url,
	})
}
