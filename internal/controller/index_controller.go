package controller

import (
	"paper-assistant-be/internal/pkg/serverutils"
	"paper-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IIndexController interface {
	RegisterRoutes(r fiber.Router)
	Build(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type indexController struct {
	indexerService service.IIndexerService
}

func NewIndexController(indexerService service.IIndexerService) IIndexController {
	return &indexController{
		indexerService: indexerService,
	}
}

func (c *indexController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/index/v1")
	h.Post("build", c.Build)
	h.Get("stats", c.Stats)
}

// Build embeds every paper still waiting for indexing.
func (c *indexController) Build(ctx *fiber.Ctx) error {
	indexed, err := c.indexerService.IndexPending(ctx.Context())
	if err != nil {
		return err
	}

	return serverutils.SuccessResponse(ctx, "Success build index", fiber.Map{
		"indexed": indexed,
	})
}

func (c *indexController) Stats(ctx *fiber.Ctx) error {
	res, err := c.indexerService.Stats(ctx.Context())
	if err != nil {
		return err
	}

	return serverutils.SuccessResponse(ctx, "Success show index stats", res)
}
