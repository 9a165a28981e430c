package dto

import (
	"github.com/google/uuid"

	"model-promotion-service/internal/core/domain"
)

// ModelPackageStateChangeRequest mirrors the registry event contract. Field
// names follow the upstream event payload, not this API's casing.
type ModelPackageStateChangeRequest struct {
	ModelPackageGroupName string `json:"ModelPackageGroupName" binding:"required"`
	ModelApprovalStatus   string `json:"ModelApprovalStatus" binding:"required"`
}

type ExecutionResponse struct {
	ID             uuid.UUID `json:"id"`
	CreatedAt      string    `json:"created_at"`
	UpdatedAt      string    `json:"updated_at"`
	GroupName      string    `json:"group_name"`
	ModelPackageID uuid.UUID `json:"model_package_id"`
	Trigger        string    `json:"trigger"`
	State          string    `json:"state"`
	FailureReason  string    `json:"failure_reason,omitempty"`
	ApprovedBy     string    `json:"approved_by,omitempty"`
	ApprovedAt     string    `json:"approved_at,omitempty"`
}

type ListExecutionsResponse struct {
	Items      []ExecutionResponse `json:"items"`
	Total      int                 `json:"total"`
	PageSize   int                 `json:"page_size"`
	NextOffset int                 `json:"next_offset"`
}

func ToExecutionResponse(e *domain.PipelineExecution) ExecutionResponse {
	resp := ExecutionResponse{
		ID:             e.ID,
		CreatedAt:      e.CreatedAt.Format(timeFormat),
		UpdatedAt:      e.UpdatedAt.Format(timeFormat),
		GroupName:      e.GroupName,
		ModelPackageID: e.ModelPackageID,
		Trigger:        string(e.Trigger),
		State:          string(e.State),
		FailureReason:  e.FailureReason,
		ApprovedBy:     e.ApprovedBy,
	}
	if e.ApprovedAt != nil {
		resp.ApprovedAt = e.ApprovedAt.Format(timeFormat)
	}
	return resp
}
