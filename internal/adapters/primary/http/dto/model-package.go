package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"model-promotion-service/internal/core/domain"
)

const timeFormat = time.RFC3339

type RegisterModelPackageRequest struct {
	GroupName     string          `json:"group_name" binding:"required,max=100"`
	ArtifactURI   string          `json:"artifact_uri" binding:"required"`
	ImageURI      string          `json:"image_uri"`
	Description   string          `json:"description"`
	SamplePayload json.RawMessage `json:"sample_payload"`
}

type ApprovalDecisionRequest struct {
	Actor string `json:"actor" binding:"required"`
}

type ModelPackageResponse struct {
	ID               uuid.UUID `json:"id"`
	CreatedAt        string    `json:"created_at"`
	UpdatedAt        string    `json:"updated_at"`
	GroupName        string    `json:"group_name"`
	Version          int       `json:"version"`
	ApprovalStatus   string    `json:"approval_status"`
	ArtifactURI      string    `json:"artifact_uri"`
	ImageURI         string    `json:"image_uri"`
	Description      string    `json:"description"`
	SamplePayloadURI string    `json:"sample_payload_uri,omitempty"`
	ApprovedBy       string    `json:"approved_by,omitempty"`
}

type ListModelPackagesResponse struct {
	Items      []ModelPackageResponse `json:"items"`
	Total      int                    `json:"total"`
	PageSize   int                    `json:"page_size"`
	NextOffset int                    `json:"next_offset"`
}

func ToModelPackageResponse(p *domain.ModelPackage) ModelPackageResponse {
	return ModelPackageResponse{
		ID:               p.ID,
		CreatedAt:        p.CreatedAt.Format(timeFormat),
		UpdatedAt:        p.UpdatedAt.Format(timeFormat),
		GroupName:        p.GroupName,
		Version:          p.Version,
		ApprovalStatus:   string(p.ApprovalStatus),
		ArtifactURI:      p.ArtifactURI,
		ImageURI:         p.ImageURI,
		Description:      p.Description,
		SamplePayloadURI: p.SamplePayloadURI,
		ApprovedBy:       p.ApprovedBy,
	}
}
