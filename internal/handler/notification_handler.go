package handler

import (
	"paper-assistant-be/internal/pkg/logger"
	"paper-assistant-be/internal/pkg/serverutils"
	"paper-assistant-be/internal/service"
	internalWS "paper-assistant-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// NotificationHandler exposes the notification history plus the websocket
// endpoint that pushes new notifications live.
type NotificationHandler struct {
	service service.INotificationService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewNotificationHandler(svc service.INotificationService, hub *internalWS.Hub, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{
		service: svc,
		hub:     hub,
		logger:  log,
	}
}

func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	notif := router.Group("/notifications")
	notif.Get("/", h.GetNotifications)
	notif.Get("/unread-count", h.GetUnreadCount)
	notif.Patch("/:id/read", h.MarkAsRead)

	// WebSocket
	router.Get("/ws", h.ServeWs)
}

// ServeWs upgrades the connection and parks it on the hub.
func (h *NotificationHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("NotificationHandler", "WebSocket session started", nil)
		internalWS.ServeWs(h.hub, conn)
		h.logger.Info("NotificationHandler", "WebSocket session ended", nil)
	})(c)
}

func (h *NotificationHandler) GetNotifications(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	notifications, total, err := h.service.GetNotifications(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}

	return serverutils.SuccessResponse(c, "Success list notifications", fiber.Map{
		"notifications": notifications,
		"total":         total,
	})
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	count, err := h.service.UnreadCount(c.UserContext())
	if err != nil {
		return err
	}

	return serverutils.SuccessResponse(c, "Success count unread notifications", fiber.Map{
		"count": count,
	})
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	if err := h.service.MarkAsRead(c.UserContext(), c.Params("id")); err != nil {
		return err
	}

	return serverutils.SuccessResponse(c, "Success mark notification read", nil)
}
