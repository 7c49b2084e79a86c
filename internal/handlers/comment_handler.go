package handlers

import (
	"github.com/anonto42/nano-midea/engagement/internal/models"
	"github.com/anonto42/nano-midea/engagement/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles comment and reply requests
type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/comments", h.CreateComment)
	g.PATCH("/posts/:post_id/comments/:id", h.UpdateComment)
	g.DELETE("/posts/:post_id/comments/:id", h.DeleteComment)
}

// CreateComment adds a top-level comment or, with parent_comment_id, a reply
func (h *CommentHandler) CreateComment(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	res, err := h.commentService.CreateComment(c.Request().Context(), actor, services.CreateCommentInput{
		PostID:          c.Param("post_id"),
		Content:         req.Content,
		ParentCommentID: req.ParentCommentID,
	})
	if err != nil {
		return err
	}
	return respond(c, res)
}

func (h *CommentHandler) UpdateComment(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req models.UpdateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	res, err := h.commentService.UpdateComment(c.Request().Context(), actor, c.Param("id"), req.Content)
	if err != nil {
		return err
	}
	return respond(c, res)
}

// DeleteComment soft-deletes the comment and its direct replies
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	res, err := h.commentService.DeleteComment(c.Request().Context(), actor, c.Param("post_id"), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, res)
}
