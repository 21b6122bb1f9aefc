package controller

import (
	"errors"
	"strings"

	"techgear-support-be/internal/dto"
	"techgear-support-be/internal/pkg/serverutils"
	"techgear-support-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	Categories(ctx *fiber.Ctx) error
	Products(ctx *fiber.Ctx) error
}

type chatbotController struct {
	chatbotService service.IChatbotService
}

func NewChatbotController(chatbotService service.IChatbotService) IChatbotController {
	return &chatbotController{
		chatbotService: chatbotService,
	}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat", c.Chat)
	r.Get("/categories", c.Categories)
	r.Get("/products", c.Products)
}

func (c *chatbotController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if strings.TrimSpace(req.Query) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Query cannot be empty")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatbotService.Answer(ctx.UserContext(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuery) {
			return fiber.NewError(fiber.StatusBadRequest, "Query cannot be empty")
		}
		return err
	}

	return ctx.JSON(res)
}

func (c *chatbotController) Categories(ctx *fiber.Ctx) error {
	return ctx.JSON(c.chatbotService.Categories())
}

func (c *chatbotController) Products(ctx *fiber.Ctx) error {
	return ctx.JSON(c.chatbotService.Products())
}
