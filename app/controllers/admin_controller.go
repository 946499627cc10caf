package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/soat-quoter/app/responses"
	"github.com/soat-quoter/app/services"
	"github.com/soat-quoter/internal/search"
	"go.uber.org/zap"
)

// AdminController handles /v1/admin; every route requires the broker code.
type AdminController struct {
	adminService *services.AdminService
	indexName    string
	logger       *zap.Logger
}

func NewAdminController(adminService *services.AdminService, indexName string, logger *zap.Logger) *AdminController {
	return &AdminController{
		adminService: adminService,
		indexName:    indexName,
		logger:       logger,
	}
}

// Reload re-reads the insurer tariff files.
func (ac *AdminController) Reload(c *gin.Context) {
	startTime := time.Now()
	res, err := ac.adminService.Reload()
	if err != nil {
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "RELOAD_ERROR",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, responses.ReloadResponse{
		Insurers:         res.Insurers,
		CatalogSize:      res.CatalogSize,
		ProcessingTimeMs: time.Since(startTime).Milliseconds(),
	})
}

func (ac *AdminController) AuditCampaigns(c *gin.Context) {
	report, err := ac.adminService.AuditCampaigns(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "AUDIT_ERROR",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, responses.CampaignAuditResponse{Report: report})
}

func (ac *AdminController) IndexCatalog(c *gin.Context) {
	n, err := ac.adminService.IndexCatalog(c.Request.Context())
	if errors.Is(err, search.ErrIndexDisabled) {
		c.JSON(http.StatusServiceUnavailable, responses.ErrorResponse{
			Error:   "INDEX_DISABLED",
			Message: "search index is not configured",
		})
		return
	}
	if err != nil {
		ac.logger.Error("index catalog", zap.Error(err))
		c.JSON(http.StatusBadGateway, responses.ErrorResponse{
			Error:   "INDEX_ERROR",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusAccepted, responses.IndexResponse{Documents: n, Index: ac.indexName})
}

func (ac *AdminController) Stats(c *gin.Context) {
	stats, err := ac.adminService.GetSystemStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "STATS_ERROR",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, stats)
}
