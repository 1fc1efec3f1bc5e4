package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ScrapeService interface {
	Run(ctx context.Context) error
}

type ScrapeController struct {
	service ScrapeService
}

type ScrapeResponse struct {
	Status string `json:"status"`
}

func NewScrapeController(service ScrapeService) (*ScrapeController, error) {
	if service == nil {
		return nil, errors.New("scrape service is nil")
	}

	return &ScrapeController{service: service}, nil
}

func (c *ScrapeController) RegisterRoutes(router *gin.Engine) error {
	if c == nil {
		return errors.New("scrape controller is nil")
	}
	if router == nil {
		return errors.New("router is nil")
	}

	router.GET("/scrape", c.scrape)
	return nil
}

func (c *ScrapeController) scrape(ctx *gin.Context) {
	if err := c.service.Run(ctx.Request.Context()); err != nil {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "scrape run failed"})
		return
	}

	ctx.JSON(http.StatusOK, ScrapeResponse{Status: "ok"})
}
