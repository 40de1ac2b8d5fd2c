package user

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wichananm65/shop-assistant-backend/internal/session"
)

type Handler struct {
	service  *Service
	sessions session.Store
	tokens   *TokenIssuer
	log      *zap.Logger
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func NewHandler(service *Service, sessions session.Store, tokens *TokenIssuer, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{service: service, sessions: sessions, tokens: tokens, log: log}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Post("/api/auth/signup", h.signup)
	app.Post("/api/auth/login", h.login)
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router) {
	app.Post("/api/auth/logout", h.logout)
	app.Get("/api/auth/profile", h.getProfile)
}

func (h *Handler) signup(c *fiber.Ctx) error {
	payload := new(Registration)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if errs := payload.Validate(); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(errs)
	}

	created, err := h.service.Register(c.UserContext(), *payload)
	if err != nil {
		if errors.Is(err, ErrUsernameExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Username already exists"})
		}
		return h.internalError(c, "register user", err)
	}

	token, err := h.startSession(c, created)
	if err != nil {
		return h.internalError(c, "start session", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"user":    created,
		"token":   token,
	})
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if payload.Username == "" || payload.Password == "" {
		return nonFieldError(c, "Must include username and password")
	}

	u, err := h.service.Authenticate(c.UserContext(), payload.Username, payload.Password)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return nonFieldError(c, "Invalid login credentials")
	case errors.Is(err, ErrInactiveUser):
		return nonFieldError(c, "User account is disabled")
	case err != nil:
		return h.internalError(c, "authenticate", err)
	}

	token, err := h.startSession(c, u)
	if err != nil {
		return h.internalError(c, "start session", err)
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    u,
		"token":   token,
	})
}

func (h *Handler) logout(c *fiber.Ctx) error {
	s, ok := session.FromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	if err := h.sessions.Delete(c.UserContext(), s.Key); err != nil {
		return h.internalError(c, "delete session", err)
	}
	return c.JSON(fiber.Map{"message": "Logout successful"})
}

// getProfile returns the user named by the JWT's user_id claim.
func (h *Handler) getProfile(c *fiber.Ctx) error {
	userID, err := GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	u, err := h.service.GetByID(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return h.internalError(c, "get user", err)
	}
	return c.JSON(fiber.Map{"user": u})
}

func (h *Handler) startSession(c *fiber.Ctx, u User) (string, error) {
	s, err := session.Start(c.UserContext(), h.sessions, u.ID, c.IP(), c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return "", err
	}
	return h.tokens.Issue(u, s.Key)
}

func nonFieldError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"non_field_errors": []string{msg}})
}

func (h *Handler) internalError(c *fiber.Ctx, op string, err error) error {
	h.log.Error(op, zap.Error(err), zap.String("path", c.Path()))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
