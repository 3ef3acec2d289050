package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nemo-coupling/orca-grids/internal/adapter/store"
	"github.com/nemo-coupling/orca-grids/internal/domain"
	"github.com/nemo-coupling/orca-grids/internal/usecase"
)

// Handler handles HTTP requests for grid descriptions.
type Handler struct {
	source store.GridSource
}

// NewHandler creates a new HTTP handler.
func NewHandler(source store.GridSource) *Handler {
	return &Handler{source: source}
}

// GetGrids handles GET /v1/grids: the supported configuration registry and
// the currently loaded grid.
func (h *Handler) GetGrids(c *gin.Context) {
	type gridInfo struct {
		Ni   int    `json:"ni"`
		Nj   int    `json:"nj"`
		Nk   int    `json:"nk"`
		Name string `json:"name"`
	}

	supported := make([]gridInfo, 0)
	for dims, name := range domain.SupportedGrids() {
		supported = append(supported, gridInfo{dims.Ni, dims.Nj, dims.Nk, name})
	}

	ni, nj := h.source.Shape()
	c.JSON(http.StatusOK, gin.H{
		"supported": supported,
		"loaded": gin.H{
			"name":  h.source.Name(),
			"shape": []int{ni, nj},
		},
	})
}

// GetSubgrid handles GET /v1/subgrids/:subgrid. The default response is
// bundle metadata; ?arrays=true includes the full coordinate, area and mask
// arrays.
func (h *Handler) GetSubgrid(c *gin.Context) {
	sg, err := domain.ParseSubgrid(c.Param("subgrid"))
	if err != nil {
		writeError(c, err)
		return
	}

	bundle, err := usecase.BuildBundle(h.source, sg)
	if err != nil {
		writeError(c, err)
		return
	}

	if c.Query("arrays") == "true" {
		c.JSON(http.StatusOK, bundle)
		return
	}

	land := 0
	for _, v := range bundle.Mask.Elements {
		if v == domain.MaskLand {
			land++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"name":       bundle.Name,
		"subgrid":    bundle.Subgrid,
		"shape":      bundle.Shape,
		"cells":      bundle.Shape[0] * bundle.Shape[1],
		"land_cells": land,
	})
}

// GetCell handles GET /v1/subgrids/:subgrid/cells/:i/:j.
func (h *Handler) GetCell(c *gin.Context) {
	sg, err := domain.ParseSubgrid(c.Param("subgrid"))
	if err != nil {
		writeError(c, err)
		return
	}

	i, err := strconv.Atoi(c.Param("i"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cell index i"})
		return
	}
	j, err := strconv.Atoi(c.Param("j"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cell index j"})
		return
	}

	bundle, err := usecase.BuildBundle(h.source, sg)
	if err != nil {
		writeError(c, err)
		return
	}

	cell, err := bundle.Cell(i, j)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cell)
}

// HealthCheck handles GET /healthz.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// writeError maps the error taxonomy onto HTTP statuses: bad subgrid tags
// are client errors, structurally incompatible datasets are unprocessable,
// everything else is internal.
func writeError(c *gin.Context, err error) {
	var invalid *domain.InvalidSubgridError
	var cfg *domain.ConfigurationError
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &cfg):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
