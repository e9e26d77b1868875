package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/service"
)

// UsersHandler exposes registration, login and the caller's identity.
type UsersHandler struct {
	auth      *service.AuthService
	validator *RequestValidator
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, validator *RequestValidator) *UsersHandler {
	return &UsersHandler{auth: authService, validator: validator}
}

// Register handles POST /api/auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := h.validator.bind(c, &req); err != nil {
		return err
	}

	session, err := h.auth.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": sessionResponse(session)})
}

// Login handles POST /api/auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := h.validator.bind(c, &req); err != nil {
		return err
	}

	session, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sessionResponse(session)})
}

// Me handles GET /api/auth/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.IdentityResponse{
		SubjectID: identity.SubjectID,
		Role:      identity.Role,
		IssuedAt:  identity.IssuedAt,
		ExpiresAt: identity.ExpiresAt,
	}})
}

func sessionResponse(session *service.Session) dto.SessionResponse {
	return dto.SessionResponse{
		User: dto.UserResponse{
			ID:    session.User.ID,
			Name:  session.User.Name,
			Email: session.User.Email,
		},
		Auth: dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
		Role: session.User.Role,
	}
}
