package controller

import (
	"paper-assistant-be/internal/dto"
	"paper-assistant-be/internal/pkg/serverutils"
	"paper-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITranslateController interface {
	RegisterRoutes(r fiber.Router)
	Translate(ctx *fiber.Ctx) error
}

type translateController struct {
	translationService service.ITranslationService
}

func NewTranslateController(translationService service.ITranslationService) ITranslateController {
	return &translateController{
		translationService: translationService,
	}
}

func (c *translateController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/translate/v1")
	h.Post("", c.Translate)
}

func (c *translateController) Translate(ctx *fiber.Ctx) error {
	var req dto.TranslateRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	res, err := c.translationService.Translate(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return serverutils.SuccessResponse(ctx, "Success translate text", res)
}
