package ports

import (
	"context"

	"github.com/google/uuid"

	"model-promotion-service/internal/core/domain"
)

type PackageListFilter struct {
	GroupName      string
	ApprovalStatus string
	Limit          int
	Offset         int
}

type DeploymentListFilter struct {
	GroupName string
	Stage     string
	State     string
	Limit     int
	Offset    int
}

type ExecutionListFilter struct {
	GroupName string
	State     string
	Limit     int
	Offset    int
}

type ModelPackageRepository interface {
	Create(ctx context.Context, pkg *domain.ModelPackage) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ModelPackage, error)
	// GetLatestApproved returns the approved package with the highest version
	// in the group, or domain.ErrNoApprovedPackage.
	GetLatestApproved(ctx context.Context, groupName string) (*domain.ModelPackage, error)
	NextVersion(ctx context.Context, groupName string) (int, error)
	Update(ctx context.Context, pkg *domain.ModelPackage) error
	List(ctx context.Context, filter PackageListFilter) ([]*domain.ModelPackage, int, error)
}

type DeploymentRepository interface {
	Create(ctx context.Context, dep *domain.EndpointDeployment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.EndpointDeployment, error)
	Update(ctx context.Context, dep *domain.EndpointDeployment) error
	List(ctx context.Context, filter DeploymentListFilter) ([]*domain.EndpointDeployment, int, error)
}

type PipelineExecutionRepository interface {
	Create(ctx context.Context, exec *domain.PipelineExecution) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PipelineExecution, error)
	Update(ctx context.Context, exec *domain.PipelineExecution) error
	List(ctx context.Context, filter ExecutionListFilter) ([]*domain.PipelineExecution, int, error)
}
