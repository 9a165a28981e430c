package dto

import (
	"github.com/google/uuid"

	"model-promotion-service/internal/core/domain"
)

type DeploymentResponse struct {
	ID                 uuid.UUID `json:"id"`
	CreatedAt          string    `json:"created_at"`
	UpdatedAt          string    `json:"updated_at"`
	ModelPackageID     uuid.UUID `json:"model_package_id"`
	GroupName          string    `json:"group_name"`
	Stage              string    `json:"stage"`
	Timestamp          string    `json:"timestamp"`
	ModelName          string    `json:"model_name"`
	EndpointConfigName string    `json:"endpoint_config_name"`
	EndpointName       string    `json:"endpoint_name"`
	State              string    `json:"state"`
	FailureReason      string    `json:"failure_reason,omitempty"`
}

type ProvisionDeploymentRequest struct {
	GroupName string `json:"group_name" binding:"required"`
	Stage     string `json:"stage" binding:"required"`
}

type ListDeploymentsResponse struct {
	Items      []DeploymentResponse `json:"items"`
	Total      int                  `json:"total"`
	PageSize   int                  `json:"page_size"`
	NextOffset int                  `json:"next_offset"`
}

func ToDeploymentResponse(d *domain.EndpointDeployment) DeploymentResponse {
	return DeploymentResponse{
		ID:                 d.ID,
		CreatedAt:          d.CreatedAt.Format(timeFormat),
		UpdatedAt:          d.UpdatedAt.Format(timeFormat),
		ModelPackageID:     d.ModelPackageID,
		GroupName:          d.GroupName,
		Stage:              string(d.Stage),
		Timestamp:          d.Timestamp,
		ModelName:          d.ModelName,
		EndpointConfigName: d.EndpointConfigName,
		EndpointName:       d.EndpointName,
		State:              string(d.State),
		FailureReason:      d.FailureReason,
	}
}
