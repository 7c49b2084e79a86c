package handlers

import (
	"github.com/anonto42/nano-midea/engagement/internal/models"
	"github.com/anonto42/nano-midea/engagement/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow requests and their decisions
type FollowHandler struct {
	followService *services.FollowService
}

func NewFollowHandler(followService *services.FollowService) *FollowHandler {
	return &FollowHandler{followService: followService}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.PUT("/users/:username/follow", h.SendFollowRequest)
	g.PUT("/follow/:followReqId/respond", h.RespondToFollowRequest)
	g.GET("/follow/requests", h.ListPendingRequests)
}

// SendFollowRequest follows a public user or asks to follow a private one
func (h *FollowHandler) SendFollowRequest(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	res, err := h.followService.SendFollowRequest(c.Request().Context(), actor, c.Param("username"))
	if err != nil {
		return err
	}
	return respond(c, res)
}

// RespondToFollowRequest accepts or rejects a pending request addressed to the caller
func (h *FollowHandler) RespondToFollowRequest(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req models.RespondFollowRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	res, err := h.followService.RespondToFollowRequest(c.Request().Context(), actor, c.Param("followReqId"), req.Status)
	if err != nil {
		return err
	}
	return respond(c, res)
}

func (h *FollowHandler) ListPendingRequests(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	page, limit := pageParams(c)
	res, err := h.followService.ListPendingRequests(c.Request().Context(), actor, page, limit)
	if err != nil {
		return err
	}
	return respond(c, res)
}
