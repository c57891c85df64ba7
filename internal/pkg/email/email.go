package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/tiffinbox/tiffin_go_server/config"
)

type Service struct {
	cfg *config.EmailConfig
}

func NewService(cfg *config.EmailConfig) *Service {
	return &Service{cfg: cfg}
}

// SendWelcome 发送注册欢迎邮件
func (s *Service) SendWelcome(to, userName string) error {
	subject := "Welcome to TiffinBox"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #16a34a;">Welcome, %s!</h2>
        <p>Your TiffinBox account is ready.</p>
        <p>Browse our meal plans and start your subscription whenever you like.
        Fresh lunch and dinner, delivered to your door.</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">This is an automated message, please do not reply.</p>
    </div>
</body>
</html>
`, userName)

	return s.sendHTML(to, subject, body)
}

// SendSubscriptionConfirmed 发送订阅确认邮件
func (s *Service) SendSubscriptionConfirmed(to, userName, planName, endDate string) error {
	subject := "Your TiffinBox subscription is active"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #16a34a;">Subscription confirmed</h2>
        <p>Hi %s,</p>
        <p>Your <strong>%s</strong> subscription is now active and runs until <strong>%s</strong>.</p>
        <p>You can skip any future meal before 10 PM the previous day; skipped
        meals extend your subscription automatically.</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">This is an automated message, please do not reply.</p>
    </div>
</body>
</html>
`, userName, planName, endDate)

	return s.sendHTML(to, subject, body)
}

func (s *Service) sendHTML(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)

	headers := []string{
		fmt.Sprintf("From: %s", s.cfg.From),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
	}

	msg := strings.Join(headers, "\r\n") + "\r\n\r\n" + body

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg))
}
