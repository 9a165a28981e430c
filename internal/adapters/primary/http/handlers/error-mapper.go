package handlers

import (
	"errors"
	"net/http"

	"model-promotion-service/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrPackageNotFound),
		errors.Is(err, domain.ErrNoApprovedPackage),
		errors.Is(err, domain.ErrDeploymentNotFound),
		errors.Is(err, domain.ErrExecutionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Conflict errors
	case errors.Is(err, domain.ErrPackageVersionConflict),
		errors.Is(err, domain.ErrPackageNotPending),
		errors.Is(err, domain.ErrExecutionNotPending),
		errors.Is(err, domain.ErrExecutionStillActive):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	// Bad request / validation errors
	case errors.Is(err, domain.ErrInvalidGroupName),
		errors.Is(err, domain.ErrInvalidArtifactURI),
		errors.Is(err, domain.ErrInvalidStage),
		errors.Is(err, domain.ErrInvalidActor),
		errors.Is(err, domain.ErrInvalidTimeRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// Security gate findings
	case errors.Is(err, domain.ErrSecurityEvaluation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})

	// Provisioning failures surface with their step and cause
	case errors.Is(err, domain.ErrProvisioningFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})

	// Service unavailable errors
	case errors.Is(err, domain.ErrProvisionerNotAvailable),
		errors.Is(err, domain.ErrMetricsNotAvailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
