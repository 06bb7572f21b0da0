package controller

import (
	"paper-assistant-be/internal/dto"
	"paper-assistant-be/internal/pkg/serverutils"
	"paper-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPaperController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	SearchArxiv(ctx *fiber.Ctx) error
	ListFavorites(ctx *fiber.Ctx) error
	AddFavorite(ctx *fiber.Ctx) error
	RemoveFavorite(ctx *fiber.Ctx) error
}

type paperController struct {
	paperService service.IPaperService
}

func NewPaperController(paperService service.IPaperService) IPaperController {
	return &paperController{
		paperService: paperService,
	}
}

func (c *paperController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/paper/v1")
	h.Get("favorites", c.ListFavorites)
	h.Post("search", c.Search)
	h.Post("search-arxiv", c.SearchArxiv)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
	h.Post(":id/favorite", c.AddFavorite)
	h.Delete(":id/favorite", c.RemoveFavorite)
}

func (c *paperController) List(ctx *fiber.Ctx) error {
	var req dto.ListPapersRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query parameters")
	}

	papers, total, err := c.paperService.GetPapers(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return serverutils.SuccessResponse(ctx, "Success list papers", fiber.Map{
		"papers": papers,
		"total":  total,
	})
}

func (c *paperController) Show(ctx *fiber.Ctx) error {
	res, err := c.paperService.GetPaper(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return serverutils.SuccessResponse(ctx, "Success show paper", res)
}

func (c *paperController) Delete(ctx *fiber.Ctx) error {
	if err := c.paperService.DeletePaper(ctx.Context(), ctx.Params("id")); err != nil {
		return err
	}

	return serverutils.SuccessResponse(ctx, "Success delete paper", nil)
}

func (c *paperController) Search(ctx *fiber.Ctx) error {
	var req dto.SearchPapersRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	res, err := c.paperService.SearchPapers(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return serverutils.SuccessResponse(ctx, "Success search papers", res)
}

func (c *paperController) SearchArxiv(ctx *fiber.Ctx) error {
	var req dto.ArxivSearchRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	res, err := c.paperService.SearchArxiv(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return serverutils.SuccessResponse(ctx, "Success search arxiv", res)
}

func (c *paperController) ListFavorites(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.paperService.GetFavorites(ctx.Context(), limit, offset)
	if err != nil {
		return err
	}

	return serverutils.SuccessResponse(ctx, "Success list favorites", res)
}

func (c *paperController) AddFavorite(ctx *fiber.Ctx) error {
	if err := c.paperService.AddFavorite(ctx.Context(), ctx.Params("id")); err != nil {
		return err
	}

	return serverutils.SuccessResponse(ctx, "Success add favorite", nil)
}

func (c *paperController) RemoveFavorite(ctx *fiber.Ctx) error {
	if err := c.paperService.RemoveFavorite(ctx.Context(), ctx.Params("id")); err != nil {
		return err
	}

	return serverutils.SuccessResponse(ctx, "Success remove favorite", nil)
}
