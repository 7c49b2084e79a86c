package handlers

import (
	"github.com/anonto42/nano-midea/engagement/internal/services"
	"github.com/labstack/echo/v4"
)

// NotificationHandler serves the caller's own notifications
type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
	g.DELETE("/notifications/:id", h.DeleteNotification)
}

// GetNotifications returns a page of notifications with the unread count
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	page, limit := pageParams(c)
	res, err := h.notificationService.List(c.Request().Context(), actor, page, limit)
	if err != nil {
		return err
	}
	return respond(c, res)
}

func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	res, err := h.notificationService.UnreadCount(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return respond(c, res)
}

func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	res, err := h.notificationService.MarkAsRead(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, res)
}

func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	res, err := h.notificationService.MarkAllAsRead(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return respond(c, res)
}

func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	res, err := h.notificationService.Delete(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, res)
}
