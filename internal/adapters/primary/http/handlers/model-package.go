package handlers

import (
	"context"
	"net/http"
	"strconv"

	"model-promotion-service/internal/adapters/primary/http/dto"
	"model-promotion-service/internal/core/domain"
	"model-promotion-service/internal/core/ports/output"
	"model-promotion-service/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) ListModelPackages(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := ports.PackageListFilter{
		GroupName:      c.Query("group"),
		ApprovalStatus: c.Query("approval_status"),
		Limit:          limit,
		Offset:         offset,
	}

	packages, total, err := h.packageSvc.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list model packages failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.ModelPackageResponse, 0, len(packages))
	for _, p := range packages {
		items = append(items, dto.ToModelPackageResponse(p))
	}

	c.JSON(http.StatusOK, dto.ListModelPackagesResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) GetModelPackage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model package id"})
		return
	}

	pkg, err := h.packageSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModelPackageResponse(pkg))
}

func (h *Handler) GetLatestApprovedPackage(c *gin.Context) {
	group := c.Query("group")
	if group == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "group query parameter is required"})
		return
	}

	pkg, err := h.packageSvc.GetLatestApproved(c.Request.Context(), group)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModelPackageResponse(pkg))
}

func (h *Handler) RegisterModelPackage(c *gin.Context) {
	var req dto.RegisterModelPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pkg, err := h.packageSvc.Register(c.Request.Context(), services.RegisterPackageRequest{
		GroupName:     req.GroupName,
		ArtifactURI:   req.ArtifactURI,
		ImageURI:      req.ImageURI,
		Description:   req.Description,
		SamplePayload: req.SamplePayload,
	})
	if err != nil {
		log.WithError(err).Error("register model package failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToModelPackageResponse(pkg))
}

func (h *Handler) ApproveModelPackage(c *gin.Context) {
	h.decideModelPackage(c, h.packageSvc.Approve)
}

func (h *Handler) RejectModelPackage(c *gin.Context) {
	h.decideModelPackage(c, h.packageSvc.Reject)
}

func (h *Handler) decideModelPackage(
	c *gin.Context,
	decide func(ctx context.Context, id uuid.UUID, actor string) (*domain.ModelPackage, error),
) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model package id"})
		return
	}

	var req dto.ApprovalDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pkg, err := decide(c.Request.Context(), id, req.Actor)
	if err != nil {
		log.WithError(err).Error("model package decision failed")
		mapDomainError(c, err)
		return
	}

	// Every decision publishes a state change; the pipeline only reacts to
	// approvals for its configured group.
	if _, err := h.promotionSvc.HandleModelPackageEvent(c.Request.Context(), domain.ModelPackageStateChange{
		ModelPackageGroupName: pkg.GroupName,
		ModelApprovalStatus:   string(pkg.ApprovalStatus),
	}); err != nil {
		log.WithError(err).WithField("package_id", pkg.ID).Warn("promotion trigger failed")
	}

	c.JSON(http.StatusOK, dto.ToModelPackageResponse(pkg))
}
