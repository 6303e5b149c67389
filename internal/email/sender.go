// Package email sends account notifications.
// It supports a development mode (log-only) and a production mode (SMTP).
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"strconv"

	"portal/internal/config"
)

// Sender defines the interface for sending emails
type Sender interface {
	SendWelcome(ctx context.Context, recipient string) error
}

// Config holds email configuration
type Config struct {
	Mode     string // "log" or "smtp"
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

// NewConfig creates a new email configuration from environment variables
func NewConfig() *Config {
	port, _ := strconv.Atoi(config.GetEnvOrDefault("SMTP_PORT", "587"))

	return &Config{
		Mode:     config.GetEnvOrDefault("EMAIL_MODE", "log"),
		Host:     config.GetEnvOrDefault("SMTP_HOST", ""),
		Port:     port,
		User:     config.GetEnvOrDefault("SMTP_USER", ""),
		Password: config.GetEnvOrDefault("SMTP_PASSWORD", ""),
		From:     config.GetEnvOrDefault("SMTP_FROM", "noreply@example.com"),
		FromName: config.GetEnvOrDefault("SMTP_FROM_NAME", "Portal"),
	}
}

// NewSender creates a new email sender based on configuration
func NewSender(cfg *Config, logger *slog.Logger) Sender {
	if cfg.Mode == "smtp" {
		return &smtpSender{config: cfg, logger: logger, send: smtp.SendMail}
	}
	return &logSender{logger: logger}
}

// logSender logs emails instead of delivering them (development mode)
type logSender struct {
	logger *slog.Logger
}

func (s *logSender) SendWelcome(_ context.Context, recipient string) error {
	s.logger.Info("[DEV] welcome email", "recipient", recipient)
	return nil
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// smtpSender sends emails via SMTP (production mode)
type smtpSender struct {
	config *Config
	logger *slog.Logger
	send   sendFunc
}

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Welcome</title></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1>Welcome to {{.App}}</h1>
    <p>Your account for <strong>{{.Recipient}}</strong> is ready. You can sign in at any time.</p>
    <p style="font-size: 12px; color: #999;">This is an automated message, please do not reply to this email.</p>
</body>
</html>
`))

func (s *smtpSender) SendWelcome(ctx context.Context, recipient string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := s.buildMessage(recipient)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if s.config.User != "" {
		auth = smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	if err := s.send(addr, auth, s.config.From, []string{recipient}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("welcome email sent", "recipient", recipient)
	return nil
}

func (s *smtpSender) buildMessage(recipient string) ([]byte, error) {
	var body bytes.Buffer
	err := welcomeTemplate.Execute(&body, struct{ App, Recipient string }{s.config.FromName, recipient})
	if err != nil {
		return nil, fmt.Errorf("failed to render welcome email: %w", err)
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", s.config.FromName, s.config.From)
	fmt.Fprintf(&msg, "To: %s\r\n", recipient)
	fmt.Fprintf(&msg, "Subject: Welcome to %s\r\n", s.config.FromName)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}
