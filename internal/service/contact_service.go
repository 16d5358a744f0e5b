package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/hirehub/hirehub-backend/internal/domain"
	"github.com/hirehub/hirehub-backend/internal/logging"
	"github.com/hirehub/hirehub-backend/internal/metrics"
	"github.com/hirehub/hirehub-backend/internal/repository/ports"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type ReplySender interface {
	SendContactReply(ctx context.Context, email, name, reply string) error
}

type ContactService struct {
	messages ports.ContactRepository
	replies  ReplySender
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewContactService(messages ports.ContactRepository, replies ReplySender, m *metrics.Metrics, logger *zap.Logger) *ContactService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactService{messages: messages, replies: replies, metrics: m, logger: logger}
}

func (s *ContactService) Submit(ctx context.Context, name, email, message string) (*domain.ContactMessage, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	message = strings.TrimSpace(message)
	if name == "" || email == "" || message == "" {
		return nil, fmt.Errorf("%w: name, email and message are required", ErrValidation)
	}
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	saved, err := s.messages.Create(ctx, &domain.ContactMessage{Name: name, Email: email, Message: message})
	if err != nil {
		return nil, fmt.Errorf("save contact message: %w", err)
	}
	return saved, nil
}

func (s *ContactService) List(ctx context.Context, limit, offset int) ([]domain.ContactMessage, error) {
	limit, offset = NormalizePage(limit, offset)
	msgs, err := s.messages.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return msgs, nil
}

// Reply emails reply to the sender of messageID. email overrides the stored
// address when set.
func (s *ContactService) Reply(ctx context.Context, messageID, email, reply string) error {
	messageID = strings.TrimSpace(messageID)
	reply = strings.TrimSpace(reply)
	if messageID == "" || reply == "" {
		return fmt.Errorf("%w: messageId and reply are required", ErrValidation)
	}
	msg, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		if isNotFound(err) {
			return ErrContactNotFound
		}
		return fmt.Errorf("find contact message: %w", err)
	}
	to := strings.TrimSpace(email)
	if to == "" {
		to = msg.Email
	}
	if !emailPattern.MatchString(to) {
		return fmt.Errorf("%w: invalid email address", ErrValidation)
	}

	err = s.replies.SendContactReply(ctx, to, msg.Name, reply)
	s.metrics.EmailSent("contact_reply", err)
	if err != nil {
		logging.FromContext(ctx, s.logger).Error("contact reply failed",
			zap.String("message_id", msg.ID), zap.Error(err))
		if errors.Is(err, ports.ErrNotConfigured) {
			return fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}
	return nil
}

func (s *ContactService) Delete(ctx context.Context, messageID string) error {
	if err := s.messages.Delete(ctx, strings.TrimSpace(messageID)); err != nil {
		if isNotFound(err) {
			return ErrContactNotFound
		}
		return fmt.Errorf("delete contact message: %w", err)
	}
	return nil
}
