package controller

import (
	"paper-assistant-be/internal/dto"
	"paper-assistant-be/internal/pkg/serverutils"
	"paper-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITopicController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	FetchNow(ctx *fiber.Ctx) error
}

type topicController struct {
	topicService service.ITopicService
}

func NewTopicController(topicService service.ITopicService) ITopicController {
	return &topicController{
		topicService: topicService,
	}
}

func (c *topicController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/topic/v1")
	h.Post("fetch", c.FetchNow)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Delete(":id", c.Delete)
}

func (c *topicController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateTopicRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	res, err := c.topicService.CreateTopic(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return serverutils.SuccessResponse(ctx, "Success create topic", res)
}

func (c *topicController) List(ctx *fiber.Ctx) error {
	res, err := c.topicService.GetTopics(ctx.Context())
	if err != nil {
		return err
	}

	return serverutils.SuccessResponse(ctx, "Success list topics", res)
}

func (c *topicController) Delete(ctx *fiber.Ctx) error {
	if err := c.topicService.DeleteTopic(ctx.Context(), ctx.Params("id")); err != nil {
		return err
	}

	return serverutils.SuccessResponse(ctx, "Success delete topic", nil)
}

// FetchNow runs the topic fetch outside the schedule.
func (c *topicController) FetchNow(ctx *fiber.Ctx) error {
	res, err := c.topicService.FetchAll(ctx.Context())
	if err != nil {
		return err
	}

	return serverutils.SuccessResponse(ctx, "Success fetch topics", res)
}
