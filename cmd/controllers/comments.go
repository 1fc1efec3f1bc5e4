package controllers

import (
	"context"
	"errors"
	"net/http"

	"regscrape/internal/models"
	"regscrape/internal/services"

	"github.com/gin-gonic/gin"
)

type CommentProvider interface {
	GetComments(ctx context.Context, docketID string, country string, withdrawn string, from string, to string, sort string, limit string) ([]models.Comment, error)
	DeleteComments(ctx context.Context) (int, error)
}

type CommentsController struct {
	service CommentProvider
}

type DeleteCommentsResponse struct {
	Deleted int `json:"deleted"`
}

func NewCommentsController(service CommentProvider) (*CommentsController, error) {
	if service == nil {
		return nil, errors.New("data service is nil")
	}

	return &CommentsController{service: service}, nil
}

func (c *CommentsController) RegisterRoutes(router *gin.Engine) error {
	if c == nil {
		return errors.New("comments controller is nil")
	}
	if router == nil {
		return errors.New("router is nil")
	}

	router.GET("/comments", c.getComments)
	router.DELETE("/comments", c.deleteComments)
	return nil
}

func (c *CommentsController) getComments(ctx *gin.Context) {
	docketID := ctx.Query("docket")
	country := ctx.Query("country")
	withdrawn := ctx.Query("withdrawn")
	from := ctx.Query("from")
	to := ctx.Query("to")
	sort := ctx.Query("sort")
	limit := ctx.Query("n")

	comments, err := c.service.GetComments(ctx.Request.Context(), docketID, country, withdrawn, from, to, sort, limit)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidLimit):
			ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		case errors.Is(err, services.ErrInvalidSort):
			ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid sort"})
		case errors.Is(err, services.ErrInvalidDateRange):
			ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid date range"})
		case errors.Is(err, services.ErrInvalidWithdrawn):
			ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid withdrawn filter"})
		default:
			ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load comments"})
		}
		return
	}

	ctx.JSON(http.StatusOK, comments)
}

func (c *CommentsController) deleteComments(ctx *gin.Context) {
	deleted, err := c.service.DeleteComments(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to delete comments"})
		return
	}

	ctx.JSON(http.StatusOK, DeleteCommentsResponse{Deleted: deleted})
}
