package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"model-promotion-service/internal/config"
	"model-promotion-service/internal/core/domain"
	ports "model-promotion-service/internal/core/ports/output"
	"model-promotion-service/internal/testutil"
)

type promotionFixture struct {
	execRepo    *testutil.MockExecutionRepo
	packageRepo *testutil.MockModelPackageRepo
	deployRepo  *testutil.MockDeploymentRepo
	prov        *testutil.MockProvisioner
	svc         *PromotionService
}

func newPromotionFixture(t *testing.T) *promotionFixture {
	t.Helper()
	execRepo := new(testutil.MockExecutionRepo)
	packageRepo := new(testutil.MockModelPackageRepo)
	deployRepo := new(testutil.MockDeploymentRepo)
	prov := new(testutil.MockProvisioner)

	stages := testStageRegistry(t)
	provision := NewProvisionService(packageRepo, deployRepo, prov, stages)
	security := NewSecurityEvaluationService(stages)

	return &promotionFixture{
		execRepo:    execRepo,
		packageRepo: packageRepo,
		deployRepo:  deployRepo,
		prov:        prov,
		svc:         NewPromotionService(execRepo, packageRepo, provision, security, "demo"),
	}
}

func (f *promotionFixture) expectNoActiveExecution() {
	f.execRepo.On("List", mock.Anything, mock.Anything).Return([]*domain.PipelineExecution{}, 0, nil)
}

func (f *promotionFixture) expectProvisioning() {
	f.prov.On("IsAvailable").Return(true)
	f.prov.On("CreateModel", mock.Anything, mock.Anything).Return(nil)
	f.prov.On("CreateEndpointConfig", mock.Anything, mock.Anything).Return(nil)
	f.prov.On("CreateEndpoint", mock.Anything, mock.Anything).Return(nil)
	f.deployRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.deployRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
}

func TestPromotionService_ApprovedEvent_StartsExecution(t *testing.T) {
	f := newPromotionFixture(t)
	f.packageRepo.On("GetLatestApproved", mock.Anything, "demo").Return(approvedPackage("demo"), nil)
	f.execRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.execRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.expectNoActiveExecution()
	f.expectProvisioning()

	exec, err := f.svc.HandleModelPackageEvent(context.Background(), domain.ModelPackageStateChange{
		ModelPackageGroupName: "demo",
		ModelApprovalStatus:   "Approved",
	})
	require.NoError(t, err)
	require.NotNil(t, exec)
	assert.Equal(t, domain.ExecutionStateAwaitingApproval, exec.State)
	assert.Equal(t, domain.TriggerModelApproved, exec.Trigger)
}

func TestPromotionService_RejectedEvent_Ignored(t *testing.T) {
	f := newPromotionFixture(t)

	exec, err := f.svc.HandleModelPackageEvent(context.Background(), domain.ModelPackageStateChange{
		ModelPackageGroupName: "demo",
		ModelApprovalStatus:   "Rejected",
	})
	assert.NoError(t, err)
	assert.Nil(t, exec)
	f.execRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPromotionService_ForeignGroupEvent_Ignored(t *testing.T) {
	f := newPromotionFixture(t)

	exec, err := f.svc.HandleModelPackageEvent(context.Background(), domain.ModelPackageStateChange{
		ModelPackageGroupName: "someone-else",
		ModelApprovalStatus:   "Approved",
	})
	assert.NoError(t, err)
	assert.Nil(t, exec)
}

func TestPromotionService_ApprovedEvent_ReturnsActiveExecution(t *testing.T) {
	f := newPromotionFixture(t)

	active := domain.NewPipelineExecution("demo", uuid.New(), domain.TriggerModelApproved)
	active.MarkAwaitingApproval()
	f.execRepo.On("List", mock.Anything, ports.ExecutionListFilter{
		GroupName: "demo",
		State:     string(domain.ExecutionStateAwaitingApproval),
		Limit:     1,
	}).Return([]*domain.PipelineExecution{active}, 1, nil)

	exec, err := f.svc.HandleModelPackageEvent(context.Background(), domain.ModelPackageStateChange{
		ModelPackageGroupName: "demo",
		ModelApprovalStatus:   "Approved",
	})
	require.NoError(t, err)
	require.NotNil(t, exec)
	assert.Equal(t, active.ID, exec.ID)
	f.execRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPromotionService_StartExecution_GroupStillActive(t *testing.T) {
	f := newPromotionFixture(t)

	active := domain.NewPipelineExecution("demo", uuid.New(), domain.TriggerSourceChange)
	active.MarkAwaitingApproval()
	f.execRepo.On("List", mock.Anything, ports.ExecutionListFilter{
		GroupName: "demo",
		State:     string(domain.ExecutionStateAwaitingApproval),
		Limit:     1,
	}).Return([]*domain.PipelineExecution{active}, 1, nil)

	exec, err := f.svc.StartExecution(context.Background(), domain.TriggerSourceChange)
	assert.ErrorIs(t, err, domain.ErrExecutionStillActive)
	assert.Equal(t, active.ID, exec.ID)
	f.execRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPromotionService_DevDeploys_ProdWaitsForGate(t *testing.T) {
	f := newPromotionFixture(t)
	f.packageRepo.On("GetLatestApproved", mock.Anything, "demo").Return(approvedPackage("demo"), nil)
	f.execRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.execRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.expectNoActiveExecution()
	f.expectProvisioning()

	exec, err := f.svc.StartExecution(context.Background(), domain.TriggerSourceChange)
	require.NoError(t, err)
	assert.Equal(t, domain.ExecutionStateAwaitingApproval, exec.State)

	// Exactly one provisioning pass ran: dev. Prod waits for the gate.
	f.prov.AssertNumberOfCalls(t, "CreateEndpoint", 1)
}

func TestPromotionService_Approve_RunsProd(t *testing.T) {
	f := newPromotionFixture(t)
	f.packageRepo.On("GetLatestApproved", mock.Anything, "demo").Return(approvedPackage("demo"), nil)
	f.execRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.expectProvisioning()

	exec := domain.NewPipelineExecution("demo", uuid.New(), domain.TriggerModelApproved)
	exec.MarkAwaitingApproval()
	f.execRepo.On("GetByID", mock.Anything, exec.ID).Return(exec, nil)

	updated, err := f.svc.Approve(context.Background(), exec.ID, "ops@company.com")
	require.NoError(t, err)
	assert.Equal(t, domain.ExecutionStateCompleted, updated.State)
	assert.Equal(t, "ops@company.com", updated.ApprovedBy)
	assert.NotNil(t, updated.ApprovedAt)
	f.prov.AssertNumberOfCalls(t, "CreateEndpoint", 1)
}

func TestPromotionService_Approve_NotPending(t *testing.T) {
	f := newPromotionFixture(t)

	exec := domain.NewPipelineExecution("demo", uuid.New(), domain.TriggerModelApproved)
	exec.MarkCompleted()
	f.execRepo.On("GetByID", mock.Anything, exec.ID).Return(exec, nil)

	_, err := f.svc.Approve(context.Background(), exec.ID, "ops@company.com")
	assert.ErrorIs(t, err, domain.ErrExecutionNotPending)
}

func TestPromotionService_Approve_MissingActor(t *testing.T) {
	f := newPromotionFixture(t)

	_, err := f.svc.Approve(context.Background(), uuid.New(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidActor)
}

func TestPromotionService_Abort(t *testing.T) {
	f := newPromotionFixture(t)
	f.execRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	exec := domain.NewPipelineExecution("demo", uuid.New(), domain.TriggerSourceChange)
	exec.MarkAwaitingApproval()
	f.execRepo.On("GetByID", mock.Anything, exec.ID).Return(exec, nil)

	updated, err := f.svc.Abort(context.Background(), exec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ExecutionStateAborted, updated.State)
}

func TestPromotionService_SecurityFindings_HardStop(t *testing.T) {
	execRepo := new(testutil.MockExecutionRepo)
	packageRepo := new(testutil.MockModelPackageRepo)
	prov := new(testutil.MockProvisioner)

	// A prod stage file with no security group trips the policy scan.
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "prod.yaml"), []byte("subnets:\n  - subnet-public-1\n"), 0o644)
	require.NoError(t, err)
	stages, err := config.LoadStageRegistry(dir, []string{"dev", "prod"})
	require.NoError(t, err)

	provision := NewProvisionService(packageRepo, new(testutil.MockDeploymentRepo), prov, stages)
	svc := NewPromotionService(execRepo, packageRepo, provision, NewSecurityEvaluationService(stages), "demo")

	packageRepo.On("GetLatestApproved", mock.Anything, "demo").Return(approvedPackage("demo"), nil)
	execRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	execRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	execRepo.On("List", mock.Anything, mock.Anything).Return([]*domain.PipelineExecution{}, 0, nil)

	exec, err := svc.StartExecution(context.Background(), domain.TriggerSourceChange)
	assert.ErrorIs(t, err, domain.ErrSecurityEvaluation)
	assert.Equal(t, domain.ExecutionStateFailed, exec.State)
	// Nothing is provisioned after a failed security evaluation.
	prov.AssertNotCalled(t, "CreateModel", mock.Anything, mock.Anything)
}
