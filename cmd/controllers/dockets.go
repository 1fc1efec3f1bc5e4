package controllers

import (
	"context"
	"errors"
	"net/http"

	"regscrape/internal/models"

	"github.com/gin-gonic/gin"
)

type DocketProvider interface {
	GetDockets(ctx context.Context) ([]models.Docket, error)
}

type DocketsController struct {
	service DocketProvider
}

type DocketsResponse struct {
	Dockets []models.Docket `json:"dockets"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewDocketsController(service DocketProvider) (*DocketsController, error) {
	if service == nil {
		return nil, errors.New("docket service is nil")
	}

	return &DocketsController{service: service}, nil
}

func (c *DocketsController) RegisterRoutes(router *gin.Engine) error {
	if c == nil {
		return errors.New("dockets controller is nil")
	}
	if router == nil {
		return errors.New("router is nil")
	}

	router.GET("/dockets", c.getDockets)
	return nil
}

func (c *DocketsController) getDockets(ctx *gin.Context) {
	dockets, err := c.service.GetDockets(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load dockets"})
		return
	}

	ctx.JSON(http.StatusOK, DocketsResponse{Dockets: dockets})
}
