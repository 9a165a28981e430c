package testutil

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"model-promotion-service/internal/core/domain"
	ports "model-promotion-service/internal/core/ports/output"
)

// MockModelPackageRepo is a mock of ModelPackageRepository.
type MockModelPackageRepo struct {
	mock.Mock
}

func (m *MockModelPackageRepo) Create(ctx context.Context, pkg *domain.ModelPackage) error {
	args := m.Called(ctx, pkg)
	return args.Error(0)
}

func (m *MockModelPackageRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ModelPackage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModelPackage), args.Error(1)
}

func (m *MockModelPackageRepo) GetLatestApproved(ctx context.Context, groupName string) (*domain.ModelPackage, error) {
	args := m.Called(ctx, groupName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModelPackage), args.Error(1)
}

func (m *MockModelPackageRepo) NextVersion(ctx context.Context, groupName string) (int, error) {
	args := m.Called(ctx, groupName)
	return args.Int(0), args.Error(1)
}

func (m *MockModelPackageRepo) Update(ctx context.Context, pkg *domain.ModelPackage) error {
	args := m.Called(ctx, pkg)
	return args.Error(0)
}

func (m *MockModelPackageRepo) List(ctx context.Context, filter ports.PackageListFilter) ([]*domain.ModelPackage, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.ModelPackage), args.Int(1), args.Error(2)
}

// MockDeploymentRepo is a mock of DeploymentRepository.
type MockDeploymentRepo struct {
	mock.Mock
}

func (m *MockDeploymentRepo) Create(ctx context.Context, dep *domain.EndpointDeployment) error {
	args := m.Called(ctx, dep)
	return args.Error(0)
}

func (m *MockDeploymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.EndpointDeployment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EndpointDeployment), args.Error(1)
}

func (m *MockDeploymentRepo) Update(ctx context.Context, dep *domain.EndpointDeployment) error {
	args := m.Called(ctx, dep)
	return args.Error(0)
}

func (m *MockDeploymentRepo) List(ctx context.Context, filter ports.DeploymentListFilter) ([]*domain.EndpointDeployment, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.EndpointDeployment), args.Int(1), args.Error(2)
}

// MockExecutionRepo is a mock of PipelineExecutionRepository.
type MockExecutionRepo struct {
	mock.Mock
}

func (m *MockExecutionRepo) Create(ctx context.Context, exec *domain.PipelineExecution) error {
	args := m.Called(ctx, exec)
	return args.Error(0)
}

func (m *MockExecutionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PipelineExecution, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PipelineExecution), args.Error(1)
}

func (m *MockExecutionRepo) Update(ctx context.Context, exec *domain.PipelineExecution) error {
	args := m.Called(ctx, exec)
	return args.Error(0)
}

func (m *MockExecutionRepo) List(ctx context.Context, filter ports.ExecutionListFilter) ([]*domain.PipelineExecution, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.PipelineExecution), args.Int(1), args.Error(2)
}

// MockProvisioner is a mock of EndpointProvisioner.
type MockProvisioner struct {
	mock.Mock
}

func (m *MockProvisioner) IsAvailable() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockProvisioner) CreateModel(ctx context.Context, spec ports.ModelSpec) error {
	args := m.Called(ctx, spec)
	return args.Error(0)
}

func (m *MockProvisioner) CreateEndpointConfig(ctx context.Context, spec ports.EndpointConfigSpec) error {
	args := m.Called(ctx, spec)
	return args.Error(0)
}

func (m *MockProvisioner) CreateEndpoint(ctx context.Context, spec ports.EndpointSpec) error {
	args := m.Called(ctx, spec)
	return args.Error(0)
}

// MockArtifactStore is a mock of ArtifactStore.
type MockArtifactStore struct {
	mock.Mock
}

func (m *MockArtifactStore) Fetch(ctx context.Context, uri string) ([]byte, error) {
	args := m.Called(ctx, uri)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockArtifactStore) Upload(ctx context.Context, key string, content []byte) (string, error) {
	args := m.Called(ctx, key, content)
	return args.String(0), args.Error(1)
}

// MockMetricsClient is a mock of MetricsClient.
type MockMetricsClient struct {
	mock.Mock
}

func (m *MockMetricsClient) IsAvailable() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockMetricsClient) EndpointMetrics(ctx context.Context, endpointName string, tr ports.TimeRange) (*ports.EndpointMetrics, error) {
	args := m.Called(ctx, endpointName, tr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.EndpointMetrics), args.Error(1)
}

// MockEndpointInvoker is a mock of EndpointInvoker.
type MockEndpointInvoker struct {
	mock.Mock
}

func (m *MockEndpointInvoker) Invoke(ctx context.Context, body []byte) ([]byte, error) {
	args := m.Called(ctx, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
