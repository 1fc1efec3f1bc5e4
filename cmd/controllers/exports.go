package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"regscrape/internal/models"

	"github.com/gin-gonic/gin"
)

const defaultExportsLimit = 20

type ExportProvider interface {
	GetExports(ctx context.Context, limit int) ([]models.ExportFile, error)
}

type ExportsController struct {
	service ExportProvider
}

type ExportsResponse struct {
	Exports []models.ExportFile `json:"exports"`
}

func NewExportsController(service ExportProvider) (*ExportsController, error) {
	if service == nil {
		return nil, errors.New("export service is nil")
	}

	return &ExportsController{service: service}, nil
}

func (c *ExportsController) RegisterRoutes(router *gin.Engine) error {
	if c == nil {
		return errors.New("exports controller is nil")
	}
	if router == nil {
		return errors.New("router is nil")
	}

	router.GET("/exports", c.getExports)
	return nil
}

func (c *ExportsController) getExports(ctx *gin.Context) {
	limit := defaultExportsLimit
	if value := ctx.Query("n"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid exports limit"})
			return
		}
		limit = parsed
	}

	exports, err := c.service.GetExports(ctx.Request.Context(), limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load exports"})
		return
	}

	ctx.JSON(http.StatusOK, ExportsResponse{Exports: exports})
}
