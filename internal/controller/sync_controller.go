// FILE: internal/controller/sync_controller.go
package controller

import (
	"contextual-chatbot-be/internal/pkg/serverutils"
	"contextual-chatbot-be/internal/repository/memory"
	"contextual-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISyncController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	GetJob(ctx *fiber.Ctx) error
}

type syncController struct {
	service     service.ISyncService
	sessionRepo *memory.SessionRepository
}

func NewSyncController(service service.ISyncService, sessionRepo *memory.SessionRepository) ISyncController {
	return &syncController{service: service, sessionRepo: sessionRepo}
}

func (c *syncController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/sync")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/", c.Start)
	h.Get("/jobs/:id", c.GetJob)
}

func (c *syncController) Start(ctx *fiber.Ctx) error {
	session, err := currentSession(ctx, c.sessionRepo)
	if err != nil {
		return respondError(ctx, err)
	}

	res, err := c.service.StartRefresh(ctx.Context(), session)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
		"code":    202,
		"message": "Sync started",
		"data":    res,
	})
}

func (c *syncController) GetJob(ctx *fiber.Ctx) error {
	session, err := currentSession(ctx, c.sessionRepo)
	if err != nil {
		return respondError(ctx, err)
	}

	res, err := c.service.GetJob(ctx.Params("id"), session.Identity.UserName)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Sync job status",
		"data":    res,
	})
}
