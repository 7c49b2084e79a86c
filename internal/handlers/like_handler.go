package handlers

import (
	"github.com/anonto42/nano-midea/engagement/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler toggles likes on any registered resource type
type LikeHandler struct {
	likeService *services.LikeService
}

func NewLikeHandler(likeService *services.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/likes/:resourceType/:resourceId", h.ToggleLike)
	g.GET("/likes/:resourceType/:resourceId", h.CheckLike)
}

// ToggleLike likes the resource, or removes the caller's like if present
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	res, err := h.likeService.Toggle(c.Request().Context(), actor, c.Param("resourceType"), c.Param("resourceId"))
	if err != nil {
		return err
	}
	return respond(c, res)
}

// CheckLike reports whether the current user has liked the resource
func (h *LikeHandler) CheckLike(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	res, err := h.likeService.LikeStatus(c.Request().Context(), actor, c.Param("resourceType"), c.Param("resourceId"))
	if err != nil {
		return err
	}
	return respond(c, res)
}
