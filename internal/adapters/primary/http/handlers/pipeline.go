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

// HandleModelPackageEvent ingests a registry state-change event. Only a
// transition to Approved for the configured group starts a pipeline run;
// everything else is acknowledged and dropped.
func (h *Handler) HandleModelPackageEvent(c *gin.Context) {
	var req dto.ModelPackageStateChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exec, err := h.promotionSvc.HandleModelPackageEvent(c.Request.Context(), domain.ModelPackageStateChange{
		ModelPackageGroupName: req.ModelPackageGroupName,
		ModelApprovalStatus:   req.ModelApprovalStatus,
	})
	if err != nil {
		log.WithError(err).Error("model package event handling failed")
		mapDomainError(c, err)
		return
	}
	if exec == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	c.JSON(http.StatusAccepted, dto.ToExecutionResponse(exec))
}

func (h *Handler) StartExecution(c *gin.Context) {
	exec, err := h.promotionSvc.StartExecution(c.Request.Context(), domain.TriggerSourceChange)
	if err != nil {
		log.WithError(err).Error("start execution failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, dto.ToExecutionResponse(exec))
}

func (h *Handler) ApproveExecution(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid execution id"})
		return
	}

	var req dto.ApprovalDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exec, err := h.promotionSvc.Approve(c.Request.Context(), id, req.Actor)
	if err != nil {
		log.WithError(err).Error("execution approval failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToExecutionResponse(exec))
}

func (h *Handler) AbortExecution(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid execution id"})
		return
	}

	exec, err := h.promotionSvc.Abort(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).Error("execution abort failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToExecutionResponse(exec))
}

func (h *Handler) GetExecution(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid execution id"})
		return
	}

	exec, err := h.promotionSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToExecutionResponse(exec))
}

func (h *Handler) ListExecutions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := ports.ExecutionListFilter{
		GroupName: c.Query("group"),
		State:     c.Query("state"),
		Limit:     limit,
		Offset:    offset,
	}

	executions, total, err := h.promotionSvc.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list executions failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.ExecutionResponse, 0, len(executions))
	for _, e := range executions {
		items = append(items, dto.ToExecutionResponse(e))
	}

	c.JSON(http.StatusOK, dto.ListExecutionsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}
