// FILE: internal/controller/document_controller.go
package controller

import (
	"io"

	"contextual-chatbot-be/internal/dto"
	"contextual-chatbot-be/internal/pkg/serverutils"
	"contextual-chatbot-be/internal/repository/memory"
	"contextual-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Upload(ctx *fiber.Ctx) error
	GetContent(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type documentController struct {
	service     service.IDocumentService
	sessionRepo *memory.SessionRepository
}

func NewDocumentController(service service.IDocumentService, sessionRepo *memory.SessionRepository) IDocumentController {
	return &documentController{service: service, sessionRepo: sessionRepo}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/documents")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/", c.List)
	h.Post("/", c.Upload)
	h.Get("/content", c.GetContent)
	h.Delete("/", c.Delete)
}

func (c *documentController) List(ctx *fiber.Ctx) error {
	session, err := currentSession(ctx, c.sessionRepo)
	if err != nil {
		return respondError(ctx, err)
	}

	docs, err := c.service.List(ctx.Context(), session)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Documents retrieved",
		"data":    docs,
	})
}

func (c *documentController) Upload(ctx *fiber.Ctx) error {
	session, err := currentSession(ctx, c.sessionRepo)
	if err != nil {
		return respondError(ctx, err)
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": "Missing multipart field 'file'",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return respondError(ctx, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return respondError(ctx, err)
	}

	doc, err := c.service.Upload(ctx.Context(), session, fileHeader.Filename, data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"code":    201,
		"message": "Document uploaded",
		"data":    doc,
	})
}

func (c *documentController) GetContent(ctx *fiber.Ctx) error {
	session, err := currentSession(ctx, c.sessionRepo)
	if err != nil {
		return respondError(ctx, err)
	}

	name := ctx.Query("name")
	if name == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": "Missing query param 'name'",
		})
	}

	obj, err := c.service.GetContent(ctx.Context(), session, name)
	if err != nil {
		return respondError(ctx, err)
	}

	if obj.ContentType != "" {
		ctx.Set(fiber.HeaderContentType, obj.ContentType)
	}
	return ctx.Send(obj.Data)
}

func (c *documentController) Delete(ctx *fiber.Ctx) error {
	session, err := currentSession(ctx, c.sessionRepo)
	if err != nil {
		return respondError(ctx, err)
	}

	var req dto.DeleteDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := validate.Struct(req); err != nil {
		return respondValidationError(ctx, err)
	}

	if err := c.service.Delete(ctx.Context(), session, req.Name); err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Document deleted",
		"data":    nil,
	})
}
