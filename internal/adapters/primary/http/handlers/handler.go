package handlers

import (
	"model-promotion-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	packageSvc   *services.ModelPackageService
	promotionSvc *services.PromotionService
	provisionSvc *services.ProvisionService
	metricsSvc   *services.EndpointMetricsService
}

func New(
	packageSvc *services.ModelPackageService,
	promotionSvc *services.PromotionService,
	provisionSvc *services.ProvisionService,
	metricsSvc *services.EndpointMetricsService,
) *Handler {
	return &Handler{
		packageSvc:   packageSvc,
		promotionSvc: promotionSvc,
		provisionSvc: provisionSvc,
		metricsSvc:   metricsSvc,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Model Packages
	r.GET("/model_packages", h.ListModelPackages)
	r.GET("/model_packages/:id", h.GetModelPackage)
	r.GET("/model_package/latest_approved", h.GetLatestApprovedPackage)
	r.POST("/model_packages", h.RegisterModelPackage)
	r.POST("/model_packages/:id/approve", h.ApproveModelPackage)
	r.POST("/model_packages/:id/reject", h.RejectModelPackage)

	// Promotion Events
	r.POST("/events/model-package", h.HandleModelPackageEvent)

	// Pipeline Executions
	r.GET("/executions", h.ListExecutions)
	r.GET("/executions/:id", h.GetExecution)
	r.POST("/executions", h.StartExecution)
	r.POST("/executions/:id/approve", h.ApproveExecution)
	r.POST("/executions/:id/abort", h.AbortExecution)

	// Endpoint Deployments
	r.GET("/deployments", h.ListDeployments)
	r.GET("/deployments/:id", h.GetDeployment)
	r.POST("/deployments", h.ProvisionDeployment)

	// Metrics
	r.GET("/metrics/endpoints/:endpoint_name", h.GetEndpointMetrics)
}
