package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"model-promotion-service/internal/config"
	"model-promotion-service/internal/core/domain"
	ports "model-promotion-service/internal/core/ports/output"
	"model-promotion-service/internal/testutil"
)

// testStageRegistry builds a registry whose dev entry carries full network
// configuration; prod falls back to dev.
func testStageRegistry(t *testing.T) *config.StageRegistry {
	t.Helper()
	dir := t.TempDir()
	devYAML := "subnets:\n  - subnet-111\n  - subnet-222\nsecurity_group: sg-base\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dev.yaml"), []byte(devYAML), 0o644))
	reg, err := config.LoadStageRegistry(dir, []string{"dev", "prod"})
	require.NoError(t, err)
	return reg
}

func approvedPackage(group string) *domain.ModelPackage {
	return &domain.ModelPackage{
		ID:             uuid.New(),
		GroupName:      group,
		Version:        3,
		ApprovalStatus: domain.ApprovalStatusApproved,
		ArtifactURI:    "arn:aws:sagemaker:eu-west-1:123:model-package/demo/3",
	}
}

func TestProvisionService_Provision_OrderedStates(t *testing.T) {
	packageRepo := new(testutil.MockModelPackageRepo)
	deployRepo := new(testutil.MockDeploymentRepo)
	prov := new(testutil.MockProvisioner)
	svc := NewProvisionService(packageRepo, deployRepo, prov, testStageRegistry(t))

	pkg := approvedPackage("demo")
	packageRepo.On("GetLatestApproved", mock.Anything, "demo").Return(pkg, nil)
	deployRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.EndpointDeployment")).Return(nil)
	deployRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.EndpointDeployment")).Return(nil)

	prov.On("IsAvailable").Return(true)

	// Each create must observe the dependency created before it.
	var modelName, configName string
	prov.On("CreateModel", mock.Anything, mock.AnythingOfType("ports.ModelSpec")).Run(func(args mock.Arguments) {
		modelName = args.Get(1).(ports.ModelSpec).Name
	}).Return(nil)
	prov.On("CreateEndpointConfig", mock.Anything, mock.AnythingOfType("ports.EndpointConfigSpec")).Run(func(args mock.Arguments) {
		spec := args.Get(1).(ports.EndpointConfigSpec)
		assert.Equal(t, modelName, spec.ModelName)
		configName = spec.Name
	}).Return(nil)
	prov.On("CreateEndpoint", mock.Anything, mock.AnythingOfType("ports.EndpointSpec")).Run(func(args mock.Arguments) {
		spec := args.Get(1).(ports.EndpointSpec)
		assert.Equal(t, configName, spec.EndpointConfigName)
	}).Return(nil)

	dep, err := svc.Provision(context.Background(), "demo", domain.StageDev)
	require.NoError(t, err)

	assert.Equal(t, domain.DeploymentStateEndpointCreated, dep.State)
	assert.Equal(t, "demo-dev-endpoint", dep.EndpointName)
	assert.Contains(t, dep.ModelName, "demo-dev-")
	assert.Contains(t, dep.EndpointConfigName, "demo-dev-endpointConfig-")
	assert.Contains(t, dep.EndpointConfigName, dep.Timestamp)
	prov.AssertExpectations(t)
}

func TestProvisionService_Provision_NoApprovedPackage(t *testing.T) {
	packageRepo := new(testutil.MockModelPackageRepo)
	prov := new(testutil.MockProvisioner)
	svc := NewProvisionService(packageRepo, new(testutil.MockDeploymentRepo), prov, testStageRegistry(t))

	prov.On("IsAvailable").Return(true)
	packageRepo.On("GetLatestApproved", mock.Anything, "demo").Return(nil, domain.ErrNoApprovedPackage)

	_, err := svc.Provision(context.Background(), "demo", domain.StageDev)
	assert.ErrorIs(t, err, domain.ErrNoApprovedPackage)
}

func TestProvisionService_Provision_ProvisionerUnavailable(t *testing.T) {
	prov := new(testutil.MockProvisioner)
	prov.On("IsAvailable").Return(false)
	svc := NewProvisionService(new(testutil.MockModelPackageRepo), new(testutil.MockDeploymentRepo), prov, testStageRegistry(t))

	_, err := svc.Provision(context.Background(), "demo", domain.StageDev)
	assert.ErrorIs(t, err, domain.ErrProvisionerNotAvailable)
}

func TestProvisionService_Provision_FailureIsFatal(t *testing.T) {
	packageRepo := new(testutil.MockModelPackageRepo)
	deployRepo := new(testutil.MockDeploymentRepo)
	prov := new(testutil.MockProvisioner)
	svc := NewProvisionService(packageRepo, deployRepo, prov, testStageRegistry(t))

	packageRepo.On("GetLatestApproved", mock.Anything, "demo").Return(approvedPackage("demo"), nil)
	deployRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	deployRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	prov.On("IsAvailable").Return(true)
	prov.On("CreateModel", mock.Anything, mock.Anything).Return(nil)
	prov.On("CreateEndpointConfig", mock.Anything, mock.Anything).Return(errors.New("limit exceeded"))

	dep, err := svc.Provision(context.Background(), "demo", domain.StageDev)
	assert.ErrorIs(t, err, domain.ErrProvisioningFailed)
	assert.Equal(t, domain.DeploymentStateFailed, dep.State)
	assert.Contains(t, dep.FailureReason, "create endpoint config")
	// No endpoint create and no cleanup after a mid-run failure.
	prov.AssertNotCalled(t, "CreateEndpoint", mock.Anything, mock.Anything)
}

func TestProvisionService_SequentialRuns_DistinctTimestamps(t *testing.T) {
	group := "demo"
	first := domain.NewEndpointDeployment(uuid.New(), group, domain.StageDev, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	second := domain.NewEndpointDeployment(uuid.New(), group, domain.StageDev, time.Date(2026, 3, 1, 10, 0, 1, 0, time.UTC))

	assert.NotEqual(t, first.Timestamp, second.Timestamp)
	assert.NotEqual(t, first.EndpointConfigName, second.EndpointConfigName)
	// The endpoint name stays stage-stable across runs.
	assert.Equal(t, first.EndpointName, second.EndpointName)
}
