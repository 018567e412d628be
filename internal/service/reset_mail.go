// Package service contains background work that runs outside the
// request path
package service

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"taskbox/task-api/internal/model"
)

// SendResetMail delivers the password reset link for a freshly issued
// token. With mail disabled the link only lands in the logs, which is
// what you want during development.
func SendResetMail(t *model.PasswordResetToken, sendTo string) error {
	var s string
	if viper.GetBool("host.ssl_enabled") {
		s = "s"
	}

	resetLink := fmt.Sprintf("http%v://%v/reset-password?token=%v",
		s, viper.GetString("host.domain"), t.Token)

	if !viper.GetBool("mail.enabled") {
		zap.L().Info("Mail disabled, reset link not sent", zap.String("link", resetLink))
		return nil
	}

	from := viper.GetString("mail.sender_address")

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", sendTo)
	m.SetHeader("Subject", "Reset your taskbox password")
	m.SetBody("text/html", fmt.Sprintf("Click <a href='%v'>here</a> to choose a new password.\n\nThis link will expire in 1 hour. If you didn't request this you can ignore this mail", resetLink))

	d := gomail.NewDialer(
		viper.GetString("mail.host"),
		viper.GetInt("mail.port"),
		from,
		viper.GetString("mail.password"),
	)

	if err := d.DialAndSend(m); err != nil {
		return err
	}

	return nil
}
