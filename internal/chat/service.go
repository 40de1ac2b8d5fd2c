package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wichananm65/shop-assistant-backend/internal/chatbot"
)

// welcomePrompt is fed to the responder to open every new or reset session.
const welcomePrompt = "hello"

// Responder produces the bot side of a turn.
type Responder interface {
	GenerateResponse(ctx context.Context, message string, userID int) (chatbot.Reply, error)
}

type Service struct {
	repo Repository
	bot  Responder
	now  func() time.Time
}

func NewService(repo Repository, bot Responder) *Service {
	return &Service{repo: repo, bot: bot, now: func() time.Time { return time.Now().UTC() }}
}

// CreateSession opens a session for userID and writes the welcome message.
func (s *Service) CreateSession(ctx context.Context, userID int) (Session, error) {
	now := s.now()
	created, err := s.repo.CreateSession(ctx, Session{
		UserID:    userID,
		SessionID: uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		IsActive:  true,
	})
	if err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	if err := s.welcome(ctx, created); err != nil {
		return Session{}, err
	}
	created.MessageCount = 1
	return created, nil
}

func (s *Service) ListSessions(ctx context.Context, userID int) ([]Session, error) {
	return s.repo.ListSessions(ctx, userID)
}

// GetSession returns ErrSessionNotFound unless the session exists and belongs
// to userID.
func (s *Service) GetSession(ctx context.Context, userID int, sessionID string) (Session, error) {
	return s.repo.GetSession(ctx, userID, sessionID)
}

func (s *Service) DeleteSession(ctx context.Context, userID int, sessionID string) error {
	sess, err := s.repo.GetSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	return s.repo.DeleteSession(ctx, sess.ID)
}

func (s *Service) ListMessages(ctx context.Context, userID int, sessionID string) ([]Message, error) {
	sess, err := s.repo.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, sess.ID)
}

// PostMessage stores the user's message and the bot's answer, with the
// answer's products attached, and marks the session as updated.
func (s *Service) PostMessage(ctx context.Context, userID int, sessionID, content string) (Message, Message, error) {
	if strings.TrimSpace(content) == "" {
		return Message{}, Message{}, ErrEmptyContent
	}
	sess, err := s.repo.GetSession(ctx, userID, sessionID)
	if err != nil {
		return Message{}, Message{}, err
	}

	reply, err := s.bot.GenerateResponse(ctx, content, userID)
	if err != nil {
		return Message{}, Message{}, fmt.Errorf("generate response: %w", err)
	}

	now := s.now()
	userMsg, err := s.repo.AddMessage(ctx, Message{
		SessionID:   sess.ID,
		MessageType: MessageUser,
		Content:     content,
		Timestamp:   now,
	})
	if err != nil {
		return Message{}, Message{}, fmt.Errorf("store user message: %w", err)
	}
	botMsg, err := s.repo.AddMessage(ctx, Message{
		SessionID:       sess.ID,
		MessageType:     MessageBot,
		Content:         reply.Text,
		Timestamp:       now,
		RelatedProducts: reply.Products,
	})
	if err != nil {
		return Message{}, Message{}, fmt.Errorf("store bot message: %w", err)
	}

	if err := s.repo.TouchSession(ctx, sess.ID, now); err != nil {
		return Message{}, Message{}, fmt.Errorf("touch session: %w", err)
	}
	return userMsg, botMsg, nil
}

// ResetSession drops every message and writes a fresh welcome message.
func (s *Service) ResetSession(ctx context.Context, userID int, sessionID string) error {
	sess, err := s.repo.GetSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if err := s.repo.ClearMessages(ctx, sess.ID); err != nil {
		return fmt.Errorf("clear messages: %w", err)
	}
	return s.welcome(ctx, sess)
}

func (s *Service) welcome(ctx context.Context, sess Session) error {
	reply, err := s.bot.GenerateResponse(ctx, welcomePrompt, sess.UserID)
	if err != nil {
		return fmt.Errorf("generate welcome: %w", err)
	}
	if _, err := s.repo.AddMessage(ctx, Message{
		SessionID:   sess.ID,
		MessageType: MessageBot,
		Content:     reply.Text,
		Timestamp:   s.now(),
	}); err != nil {
		return fmt.Errorf("store welcome: %w", err)
	}
	return nil
}
