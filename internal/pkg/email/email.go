package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/qs3c/blogmind_server/config"
)

type Service struct {
	cfg  *config.EmailConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewService(cfg *config.EmailConfig) *Service {
	return &Service{cfg: cfg, send: smtp.SendMail}
}

// SendVerificationCode 发送注册验证码
func (s *Service) SendVerificationCode(to, username, code string) error {
	subject := "Verify your BlogMind account"
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #7c3aed;">Verify your email</h2>
        <p>Hi %s,</p>
        <p>Use the code below to finish creating your BlogMind account:</p>
        <div style="background-color: #f3f4f6; padding: 15px; text-align: center; font-size: 24px; font-weight: bold; letter-spacing: 5px; margin: 20px 0;">%s</div>
        <p>The code expires in 10 minutes.</p>
        <p style="color: #6b7280; font-size: 12px;">If you did not sign up, you can ignore this email.</p>
    </div>
</body>
</html>
`, username, code)

	return s.sendHTML(to, subject, body)
}

// SendWelcome 邮箱验证通过后的欢迎邮件
func (s *Service) SendWelcome(to, username string) error {
	subject := "Welcome to BlogMind"
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #7c3aed;">Welcome, %s!</h2>
        <p>Your account is verified. You can now:</p>
        <ul>
            <li>Write and publish blogs</li>
            <li>Generate AI-assisted posts with a Standard or Premium plan</li>
            <li>Like and comment on posts from the community</li>
        </ul>
    </div>
</body>
</html>
`, username)

	return s.sendHTML(to, subject, body)
}

func (s *Service) sendHTML(to, subject, body string) error {
	msg := buildMessage(s.cfg.From, to, subject, body)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	return s.send(addr, auth, s.cfg.From, []string{to}, msg)
}

// buildMessage 组装 MIME 邮件，头部顺序固定
func buildMessage(from, to, subject, body string) []byte {
	var msg strings.Builder
	msg.WriteString("From: " + from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	return []byte(msg.String())
}
