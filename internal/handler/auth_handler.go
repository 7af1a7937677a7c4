package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/eduflow/course-booking/internal/domain"
	"github.com/eduflow/course-booking/internal/dto"
	"github.com/eduflow/course-booking/internal/service"
	"github.com/eduflow/course-booking/pkg/response"
	"github.com/eduflow/course-booking/pkg/telemetry"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.auth.register")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}

	span.SetAttributes(attribute.String("email", req.Email))

	result, err := h.authService.Register(ctx, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Created(c, result)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.auth.login")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}

	span.SetAttributes(attribute.String("email", req.Email))

	result, err := h.authService.Login(ctx, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.auth.logout")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	token := bearerToken(c)
	if err := h.authService.Logout(ctx, token); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		response.InternalError(c, err)
		return
	}

	response.Success(c, gin.H{"loggedOut": true})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.auth.me")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	user, err := h.authService.CurrentUser(ctx, bearerToken(c))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	response.Success(c, dto.UserFromDomain(user))
}

// UpdateProfile handles PATCH /auth/me
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.auth.update_profile")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.GetString("user_id")
	if userID == "" {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.UpdateProfile(ctx, userID, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	response.Success(c, dto.UserFromDomain(user))
}

func (h *AuthHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrEmailAlreadyRegistered):
		response.Conflict(c, "EMAIL_ALREADY_REGISTERED", err.Error())
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrInvalidPassword),
		errors.Is(err, domain.ErrSessionNotFoundAuth):
		response.Unauthorized(c, err.Error())
	case domain.IsAuthError(err):
		response.Unauthorized(c, err.Error())
	case domain.IsValidationError(err):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}

// bearerToken extracts the token from the Authorization header
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return header
}
