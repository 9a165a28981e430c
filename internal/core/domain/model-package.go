package domain

import (
	"time"

	"github.com/google/uuid"
)

type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "PendingManualApproval"
	ApprovalStatusApproved ApprovalStatus = "Approved"
	ApprovalStatusRejected ApprovalStatus = "Rejected"
)

// ModelPackage is a registry entry for one versioned, approvable model
// artifact. Versions are sequential within a group; approval status is
// transitioned exactly once, by a human or an automated governance action.
type ModelPackage struct {
	ID               uuid.UUID      `json:"id"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	GroupName        string         `json:"group_name"`
	Version          int            `json:"version"`
	ApprovalStatus   ApprovalStatus `json:"approval_status"`
	ArtifactURI      string         `json:"artifact_uri"`
	ImageURI         string         `json:"image_uri"`
	Description      string         `json:"description"`
	SamplePayloadURI string         `json:"sample_payload_uri"`
	ApprovedBy       string         `json:"approved_by,omitempty"`
}

func NewModelPackage(groupName, artifactURI, imageURI, description string, version int) (*ModelPackage, error) {
	if groupName == "" {
		return nil, ErrInvalidGroupName
	}
	if artifactURI == "" {
		return nil, ErrInvalidArtifactURI
	}

	now := time.Now().UTC()
	return &ModelPackage{
		ID:             uuid.New(),
		CreatedAt:      now,
		UpdatedAt:      now,
		GroupName:      groupName,
		Version:        version,
		ApprovalStatus: ApprovalStatusPending,
		ArtifactURI:    artifactURI,
		ImageURI:       imageURI,
		Description:    description,
	}, nil
}

// Approve transitions a pending package to Approved. Both Approve and Reject
// are one-way: a decided package cannot be re-decided.
func (p *ModelPackage) Approve(actor string) error {
	if p.ApprovalStatus != ApprovalStatusPending {
		return ErrPackageNotPending
	}
	p.ApprovalStatus = ApprovalStatusApproved
	p.ApprovedBy = actor
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (p *ModelPackage) Reject(actor string) error {
	if p.ApprovalStatus != ApprovalStatusPending {
		return ErrPackageNotPending
	}
	p.ApprovalStatus = ApprovalStatusRejected
	p.ApprovedBy = actor
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// ModelPackageStateChange is the promotion event contract. Only a state
// change to Approved for the configured group triggers the pipeline.
type ModelPackageStateChange struct {
	ModelPackageGroupName string `json:"ModelPackageGroupName"`
	ModelApprovalStatus   string `json:"ModelApprovalStatus"`
}
