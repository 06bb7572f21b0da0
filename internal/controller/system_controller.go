package controller

import (
	"paper-assistant-be/internal/pkg/serverutils"
	"paper-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISystemController interface {
	RegisterRoutes(r fiber.Router)
	Status(ctx *fiber.Ctx) error
	Tasks(ctx *fiber.Ctx) error
	Digest(ctx *fiber.Ctx) error
}

type systemController struct {
	systemService service.ISystemService
	digestService service.IDigestService
}

func NewSystemController(systemService service.ISystemService, digestService service.IDigestService) ISystemController {
	return &systemController{
		systemService: systemService,
		digestService: digestService,
	}
}

func (c *systemController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/system/v1")
	h.Get("status", c.Status)
	h.Get("tasks", c.Tasks)
	h.Post("digest", c.Digest)
}

func (c *systemController) Status(ctx *fiber.Ctx) error {
	res, err := c.systemService.Status(ctx.Context())
	if err != nil {
		return err
	}

	return serverutils.SuccessResponse(ctx, "Success show system status", res)
}

func (c *systemController) Tasks(ctx *fiber.Ctx) error {
	return serverutils.SuccessResponse(ctx, "Success list scheduled tasks", c.systemService.Tasks())
}

// Digest triggers the daily mail outside the schedule.
func (c *systemController) Digest(ctx *fiber.Ctx) error {
	papers, err := c.digestService.SendDailyDigest(ctx.Context())
	if err != nil {
		return err
	}

	return serverutils.SuccessResponse(ctx, "Success send digest", fiber.Map{
		"papers": papers,
	})
}
