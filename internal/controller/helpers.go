// FILE: internal/controller/helpers.go
package controller

import (
	"errors"

	"contextual-chatbot-be/internal/repository/memory"
	"contextual-chatbot-be/internal/service"
	"contextual-chatbot-be/pkg/provider"
	"contextual-chatbot-be/pkg/store"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// currentSession resolves the session referenced by the JWT claim. A missing
// session (expired, or logged out) is treated the same as no login.
func currentSession(ctx *fiber.Ctx, repo *memory.SessionRepository) (*store.SessionContext, error) {
	sessionID, ok := ctx.Locals("session_id").(string)
	if !ok || sessionID == "" {
		return nil, service.ErrNotLoggedIn
	}
	session, found := repo.Get(sessionID)
	if !found {
		return nil, service.ErrNotLoggedIn
	}
	return session, nil
}

// respondError maps service errors to the standard response envelope.
func respondError(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var provErr *provider.Error
	switch {
	case errors.Is(err, service.ErrNotLoggedIn), errors.Is(err, service.ErrAuthentication):
		code = fiber.StatusUnauthorized
	case errors.Is(err, service.ErrSettingsIncomplete):
		code = fiber.StatusBadRequest
	case errors.Is(err, service.ErrOwnershipViolation):
		code = fiber.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		code = fiber.StatusNotFound
	case errors.As(err, &provErr):
		code = fiber.StatusBadGateway
	}

	return ctx.Status(code).JSON(fiber.Map{
		"success": false,
		"code":    code,
		"message": err.Error(),
	})
}

func respondValidationError(ctx *fiber.Ctx, err error) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"code":    400,
		"message": err.Error(),
	})
}
