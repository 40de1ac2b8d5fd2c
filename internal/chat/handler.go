package chat

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wichananm65/shop-assistant-backend/internal/user"
)

type Handler struct {
	service *Service
	limiter fiber.Handler
	log     *zap.Logger
}

type messageRequest struct {
	Content string `json:"content"`
}

// NewHandler builds the chat routes. limiter, when set, guards message
// posting.
func NewHandler(service *Service, limiter fiber.Handler, log *zap.Logger) *Handler {
	if limiter == nil {
		limiter = func(c *fiber.Ctx) error { return c.Next() }
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{service: service, limiter: limiter, log: log}
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router) {
	app.Get("/api/chat/sessions", h.listSessions)
	app.Post("/api/chat/sessions", h.createSession)
	app.Get("/api/chat/sessions/:sessionID", h.getSession)
	app.Delete("/api/chat/sessions/:sessionID", h.deleteSession)
	app.Get("/api/chat/sessions/:sessionID/messages", h.listMessages)
	app.Post("/api/chat/sessions/:sessionID/messages", h.limiter, h.postMessage)
	app.Post("/api/chat/sessions/:sessionID/reset", h.resetSession)
}

func (h *Handler) listSessions(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}
	sessions, err := h.service.ListSessions(c.UserContext(), userID)
	if err != nil {
		return h.internalError(c, "list chat sessions", err)
	}
	return c.JSON(sessions)
}

func (h *Handler) createSession(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}
	created, err := h.service.CreateSession(c.UserContext(), userID)
	if err != nil {
		return h.internalError(c, "create chat session", err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) getSession(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}
	sess, err := h.service.GetSession(c.UserContext(), userID, c.Params("sessionID"))
	if err != nil {
		return h.sessionError(c, "get chat session", err)
	}
	return c.JSON(sess)
}

func (h *Handler) deleteSession(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}
	if err := h.service.DeleteSession(c.UserContext(), userID, c.Params("sessionID")); err != nil {
		return h.sessionError(c, "delete chat session", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) listMessages(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}
	messages, err := h.service.ListMessages(c.UserContext(), userID, c.Params("sessionID"))
	if err != nil {
		return h.sessionError(c, "list chat messages", err)
	}
	return c.JSON(messages)
}

func (h *Handler) postMessage(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}
	payload := new(messageRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userMsg, botMsg, err := h.service.PostMessage(c.UserContext(), userID, c.Params("sessionID"), payload.Content)
	if err != nil {
		if errors.Is(err, ErrEmptyContent) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": fiber.Map{"content": "This field may not be blank."}})
		}
		return h.sessionError(c, "post chat message", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user_message": userMsg,
		"bot_message":  botMsg,
	})
}

func (h *Handler) resetSession(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}
	if err := h.service.ResetSession(c.UserContext(), userID, c.Params("sessionID")); err != nil {
		return h.sessionError(c, "reset chat session", err)
	}
	return c.JSON(fiber.Map{"message": "Chat session reset successfully"})
}

func (h *Handler) sessionError(c *fiber.Ctx, op string, err error) error {
	if errors.Is(err, ErrSessionNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}
	return h.internalError(c, op, err)
}

func (h *Handler) internalError(c *fiber.Ctx, op string, err error) error {
	h.log.Error(op, zap.Error(err), zap.String("path", c.Path()))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
}
