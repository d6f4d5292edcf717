// FILE: internal/controller/chatbot_controller.go
package controller

import (
	"contextual-chatbot-be/internal/dto"
	"contextual-chatbot-be/internal/pkg/serverutils"
	"contextual-chatbot-be/internal/repository/memory"
	"contextual-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	SendChat(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
}

type chatbotController struct {
	service     service.IChatbotService
	sessionRepo *memory.SessionRepository
}

func NewChatbotController(service service.IChatbotService, sessionRepo *memory.SessionRepository) IChatbotController {
	return &chatbotController{service: service, sessionRepo: sessionRepo}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/", c.SendChat)
	h.Get("/history", c.GetHistory)
}

func (c *chatbotController) SendChat(ctx *fiber.Ctx) error {
	session, err := currentSession(ctx, c.sessionRepo)
	if err != nil {
		return respondError(ctx, err)
	}

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := validate.Struct(req); err != nil {
		return respondValidationError(ctx, err)
	}

	res, err := c.service.Ask(ctx.Context(), session, req.Chat)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Chat processed",
		"data":    res,
	})
}

func (c *chatbotController) GetHistory(ctx *fiber.Ctx) error {
	session, err := currentSession(ctx, c.sessionRepo)
	if err != nil {
		return respondError(ctx, err)
	}

	history, err := c.service.History(session)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Chat history",
		"data":    history,
	})
}
