package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/omeldon/purrfect-cafe/platform/clock"
	"github.com/omeldon/purrfect-cafe/services/storefront/internal/repository"
)

// NewsletterService подписка на рассылку
type NewsletterService struct {
	subscribers repository.SubscriberRepository
	mailer      Mailer
	clock       clock.Clock
	logger      *zap.Logger
}

// NewNewsletterService создаёт NewsletterService
func NewNewsletterService(subscribers repository.SubscriberRepository, mailer Mailer, clk clock.Clock, logger *zap.Logger) *NewsletterService {
	return &NewsletterService{
		subscribers: subscribers,
		mailer:      mailer,
		clock:       clk,
		logger:      logger,
	}
}

// ValidateEmail проверка формы подписки: непустой email с "@"
func ValidateEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrEmailRequired
	}
	if !strings.Contains(email, "@") {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// Subscribe сохраняет подписчика. Повторная подписка не ошибка (created == false).
// Приветственное письмо уходит только новым подписчикам; ошибка отправки только логируется.
func (s *NewsletterService) Subscribe(ctx context.Context, email string) (bool, error) {
	email, err := ValidateEmail(email)
	if err != nil {
		return false, err
	}

	created, err := s.subscribers.Add(ctx, repository.Subscriber{
		Email:        email,
		SubscribedAt: s.clock.Now(),
	})
	if err != nil {
		return false, fmt.Errorf("failed to save subscriber: %w", err)
	}
	if !created {
		s.logger.Debug("newsletter subscriber already exists")
		return false, nil
	}

	if err := s.mailer.SendWelcome(ctx, email); err != nil {
		s.logger.Warn("failed to send welcome email", zap.Error(err))
	}

	s.logger.Info("newsletter subscriber added")
	return true, nil
}
