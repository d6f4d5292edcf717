// FILE: internal/controller/auth_controller.go
package controller

import (
	"contextual-chatbot-be/internal/dto"
	"contextual-chatbot-be/internal/pkg/serverutils"
	"contextual-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Callback(ctx *fiber.Ctx) error
	LoginURL(ctx *fiber.Ctx) error
	Me(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
}

func NewAuthController(service service.IAuthService) IAuthController {
	return &authController{service: service}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/login", c.Login)
	h.Post("/callback", c.Callback)
	h.Get("/login-url", c.LoginURL)
	h.Get("/me", serverutils.JwtMiddleware, c.Me)
	h.Post("/logout", serverutils.JwtMiddleware, c.Logout)
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := validate.Struct(req); err != nil {
		return respondValidationError(ctx, err)
	}

	res, err := c.service.Login(ctx.Context(), req.UserName, req.Password)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Login successful",
		"data":    res,
	})
}

func (c *authController) Callback(ctx *fiber.Ctx) error {
	var req dto.CallbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := validate.Struct(req); err != nil {
		return respondValidationError(ctx, err)
	}

	res, err := c.service.HandleCallback(ctx.Context(), req.Code)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Login successful",
		"data":    res,
	})
}

func (c *authController) LoginURL(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Hosted identity pages",
		"data":    c.service.HostedURLs(),
	})
}

func (c *authController) Me(ctx *fiber.Ctx) error {
	sessionID, _ := ctx.Locals("session_id").(string)
	res, err := c.service.Me(sessionID)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Current identity",
		"data":    res,
	})
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	sessionID, _ := ctx.Locals("session_id").(string)
	if sessionID != "" {
		c.service.Logout(sessionID)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Logged out successfully",
		"data":    nil,
	})
}
