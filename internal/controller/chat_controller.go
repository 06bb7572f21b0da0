package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"paper-assistant-be/internal/dto"
	"paper-assistant-be/internal/pkg/serverutils"
	"paper-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	AskStream(ctx *fiber.Ctx) error
	ShowConversation(ctx *fiber.Ctx) error
	ConversationStats(ctx *fiber.Ctx) error
	ClearConversation(ctx *fiber.Ctx) error
	DeleteConversation(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("ask", c.Ask)
	h.Post("ask-stream", c.AskStream)
	h.Get("conversations/:id", c.ShowConversation)
	h.Get("conversations/:id/stats", c.ConversationStats)
	h.Post("conversations/:id/clear", c.ClearConversation)
	h.Delete("conversations/:id", c.DeleteConversation)
}

func (c *chatController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	res, err := c.chatService.Ask(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return serverutils.SuccessResponse(ctx, "Success answer question", res)
}

// AskStream answers over server-sent events: a sources frame, answer
// deltas, then done (or error).
func (c *chatController) AskStream(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")

	// The fiber context is recycled once the handler returns; the stream
	// writer below runs after that, so it needs its own context.
	streamCtx, cancel := context.WithCancel(context.Background())

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()

		for event := range c.chatService.AskStream(streamCtx, &req) {
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				// Client disconnected; cancel stops the pipeline.
				return
			}
		}
	}))

	return nil
}

func (c *chatController) ShowConversation(ctx *fiber.Ctx) error {
	res, err := c.chatService.GetConversation(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return serverutils.SuccessResponse(ctx, "Success show conversation", res)
}

func (c *chatController) ConversationStats(ctx *fiber.Ctx) error {
	res, err := c.chatService.GetConversationStats(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return serverutils.SuccessResponse(ctx, "Success show conversation stats", res)
}

func (c *chatController) ClearConversation(ctx *fiber.Ctx) error {
	if err := c.chatService.ClearConversation(ctx.Context(), ctx.Params("id")); err != nil {
		return err
	}

	return serverutils.SuccessResponse(ctx, "Success clear conversation", nil)
}

func (c *chatController) DeleteConversation(ctx *fiber.Ctx) error {
	if err := c.chatService.DeleteConversation(ctx.Context(), ctx.Params("id")); err != nil {
		return err
	}

	return serverutils.SuccessResponse(ctx, "Success delete conversation", nil)
}
