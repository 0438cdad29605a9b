package mail

import (
	"context"
	"fmt"

	"github.com/keighl/postmark"
	"go.uber.org/zap"
)

const (
	welcomeSubject = "Welcome to Purrfect Café ☕🐾"
	welcomeTag     = "newsletter-welcome"
)

// emailSender часть postmark.Client, нужная mailer'у
type emailSender interface {
	SendEmail(email postmark.Email) (postmark.EmailResponse, error)
}

// PostmarkMailer отправляет письма через Postmark
type PostmarkMailer struct {
	client   emailSender
	renderer *Renderer
	sender   string
	logger   *zap.Logger
}

// NewPostmarkMailer создаёт mailer для серверного токена Postmark
func NewPostmarkMailer(serverToken, sender string, renderer *Renderer, logger *zap.Logger) *PostmarkMailer {
	return &PostmarkMailer{
		client:   postmark.NewClient(serverToken, ""),
		renderer: renderer,
		sender:   sender,
		logger:   logger,
	}
}

// SendWelcome отправляет приветственное письмо подписчику
func (m *PostmarkMailer) SendWelcome(ctx context.Context, email string) error {
	// Клиент Postmark не принимает context, проверяем отмену до отправки
	if err := ctx.Err(); err != nil {
		return err
	}

	htmlBody, textBody, err := m.renderer.RenderWelcome(WelcomeData{Email: email, Sender: m.sender})
	if err != nil {
		return err
	}

	resp, err := m.client.SendEmail(postmark.Email{
		From:     m.sender,
		To:       email,
		Subject:  welcomeSubject,
		Tag:      welcomeTag,
		HtmlBody: htmlBody,
		TextBody: textBody,
	})
	if err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	if resp.ErrorCode != 0 {
		return fmt.Errorf("postmark rejected welcome email: %d %s", resp.ErrorCode, resp.Message)
	}

	m.logger.Info("welcome email sent", zap.String("message_id", resp.MessageID))
	return nil
}

// LogMailer пишет письма в лог (POSTMARK_API_TOKEN не задан)
type LogMailer struct {
	renderer *Renderer
	logger   *zap.Logger
}

// NewLogMailer создаёт LogMailer
func NewLogMailer(renderer *Renderer, logger *zap.Logger) *LogMailer {
	return &LogMailer{renderer: renderer, logger: logger}
}

// SendWelcome рендерит письмо и логирует его текстовую версию
func (m *LogMailer) SendWelcome(ctx context.Context, email string) error {
	_, textBody, err := m.renderer.RenderWelcome(WelcomeData{Email: email, Sender: "Purrfect Café"})
	if err != nil {
		return err
	}
	m.logger.Debug("welcome email (postmark disabled)",
		zap.String("subject", welcomeSubject),
		zap.String("body", textBody),
	)
	return nil
}
