// FILE: internal/controller/settings_controller.go
package controller

import (
	"contextual-chatbot-be/internal/dto"
	"contextual-chatbot-be/internal/pkg/serverutils"
	"contextual-chatbot-be/internal/repository/memory"
	"contextual-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISettingsController interface {
	RegisterRoutes(r fiber.Router)
	Get(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
}

type settingsController struct {
	service     service.ISettingsService
	sessionRepo *memory.SessionRepository
}

func NewSettingsController(service service.ISettingsService, sessionRepo *memory.SessionRepository) ISettingsController {
	return &settingsController{service: service, sessionRepo: sessionRepo}
}

func (c *settingsController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/settings")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/", c.Get)
	h.Put("/", c.Update)
}

func (c *settingsController) Get(ctx *fiber.Ctx) error {
	session, err := currentSession(ctx, c.sessionRepo)
	if err != nil {
		return respondError(ctx, err)
	}

	res, err := c.service.Get(session)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Current settings",
		"data":    res,
	})
}

func (c *settingsController) Update(ctx *fiber.Ctx) error {
	session, err := currentSession(ctx, c.sessionRepo)
	if err != nil {
		return respondError(ctx, err)
	}

	var req dto.UpdateSettingsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := validate.Struct(req); err != nil {
		return respondValidationError(ctx, err)
	}

	res, err := c.service.Update(session, &req)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Settings updated",
		"data":    res,
	})
}
