package handlers

import (
	"github.com/anonto42/nano-midea/engagement/internal/services"
	"github.com/labstack/echo/v4"
)

// SavedPostHandler handles bookmark requests
type SavedPostHandler struct {
	bookmarkService *services.BookmarkService
}

func NewSavedPostHandler(bookmarkService *services.BookmarkService) *SavedPostHandler {
	return &SavedPostHandler{bookmarkService: bookmarkService}
}

// RegisterSavedPostRoutes registers bookmark routes
func (h *SavedPostHandler) RegisterSavedPostRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/bookmark", h.BookmarkPost)
	g.DELETE("/posts/:post_id/bookmark", h.RemoveBookmark)
	g.GET("/posts/:post_id/bookmark", h.CheckBookmark)
}

func (h *SavedPostHandler) BookmarkPost(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	res, err := h.bookmarkService.BookmarkPost(c.Request().Context(), actor, c.Param("post_id"))
	if err != nil {
		return err
	}
	return respond(c, res)
}

func (h *SavedPostHandler) RemoveBookmark(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	res, err := h.bookmarkService.RemoveBookmark(c.Request().Context(), actor, c.Param("post_id"))
	if err != nil {
		return err
	}
	return respond(c, res)
}

func (h *SavedPostHandler) CheckBookmark(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	res, err := h.bookmarkService.IsBookmarked(c.Request().Context(), actor, c.Param("post_id"))
	if err != nil {
		return err
	}
	return respond(c, res)
}
