package handlers

import (
	"net/http"
	"strconv"

	"model-promotion-service/internal/adapters/primary/http/dto"
	"model-promotion-service/internal/core/domain"
	"model-promotion-service/internal/core/ports/output"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// ProvisionDeployment runs a single provisioning pass outside the pipeline,
// for operators repointing a stage at the latest approved package.
func (h *Handler) ProvisionDeployment(c *gin.Context) {
	var req dto.ProvisionDeploymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stage, err := domain.ParseStage(req.Stage)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	dep, err := h.provisionSvc.Provision(c.Request.Context(), req.GroupName, stage)
	if err != nil {
		log.WithError(err).Error("manual provisioning failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToDeploymentResponse(dep))
}

func (h *Handler) GetDeployment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deployment id"})
		return
	}

	dep, err := h.provisionSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDeploymentResponse(dep))
}

func (h *Handler) ListDeployments(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := ports.DeploymentListFilter{
		GroupName: c.Query("group"),
		Stage:     c.Query("stage"),
		State:     c.Query("state"),
		Limit:     limit,
		Offset:    offset,
	}

	deployments, total, err := h.provisionSvc.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list deployments failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.DeploymentResponse, 0, len(deployments))
	for _, d := range deployments {
		items = append(items, dto.ToDeploymentResponse(d))
	}

	c.JSON(http.StatusOK, dto.ListDeploymentsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}
