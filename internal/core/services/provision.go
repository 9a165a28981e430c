package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"model-promotion-service/internal/config"
	"model-promotion-service/internal/core/domain"
	ports "model-promotion-service/internal/core/ports/output"
)

// ProvisionService creates the versioned model/endpoint-config/endpoint
// triple for a stage from the latest approved model package. Creation is a
// strict dependency chain: the endpoint config is never created before its
// model, nor the endpoint before its config. A failure anywhere is fatal to
// the run; there is no cleanup or rollback, and a subsequent run produces a
// fresh triple under a new timestamp.
type ProvisionService struct {
	packageRepo ports.ModelPackageRepository
	deployRepo  ports.DeploymentRepository
	provisioner ports.EndpointProvisioner
	stages      *config.StageRegistry
}

func NewProvisionService(
	packageRepo ports.ModelPackageRepository,
	deployRepo ports.DeploymentRepository,
	provisioner ports.EndpointProvisioner,
	stages *config.StageRegistry,
) *ProvisionService {
	return &ProvisionService{
		packageRepo: packageRepo,
		deployRepo:  deployRepo,
		provisioner: provisioner,
		stages:      stages,
	}
}

// Provision runs one provisioning pass for a stage. The returned deployment
// records the run's state even when provisioning fails.
func (s *ProvisionService) Provision(ctx context.Context, groupName string, stage domain.Stage) (*domain.EndpointDeployment, error) {
	if s.provisioner == nil || !s.provisioner.IsAvailable() {
		return nil, domain.ErrProvisionerNotAvailable
	}

	pkg, err := s.packageRepo.GetLatestApproved(ctx, groupName)
	if err != nil {
		return nil, err
	}

	stageCfg := s.stages.ForStage(string(stage))

	// One build-time timestamp shared by all three resource names of this run.
	dep := domain.NewEndpointDeployment(pkg.ID, groupName, stage, time.Now())
	if err := s.deployRepo.Create(ctx, dep); err != nil {
		return nil, fmt.Errorf("create deployment record: %w", err)
	}

	logger := log.WithFields(log.Fields{
		"group":     groupName,
		"stage":     stage,
		"timestamp": dep.Timestamp,
	})

	network := ports.NetworkConfig{
		Subnets:          stageCfg.Subnets,
		SecurityGroupIDs: []string{stageCfg.SecurityGroup},
	}

	if err := s.provisioner.CreateModel(ctx, ports.ModelSpec{
		Name:            dep.ModelName,
		ModelPackageARN: pkg.ArtifactURI,
		ImageURI:        pkg.ImageURI,
		Network:         network,
	}); err != nil {
		return s.fail(ctx, dep, logger, "create model", err)
	}
	dep.MarkModelCreated()
	if err := s.deployRepo.Update(ctx, dep); err != nil {
		return nil, fmt.Errorf("update deployment record: %w", err)
	}

	if err := s.provisioner.CreateEndpointConfig(ctx, ports.EndpointConfigSpec{
		Name:      dep.EndpointConfigName,
		ModelName: dep.ModelName,
		Variant: ports.VariantConfig{
			VariantName:          stageCfg.Variant.VariantName,
			InstanceType:         stageCfg.Variant.InstanceType,
			InitialInstanceCount: stageCfg.Variant.InitialInstanceCount,
			InitialVariantWeight: stageCfg.Variant.InitialVariantWeight,
		},
	}); err != nil {
		return s.fail(ctx, dep, logger, "create endpoint config", err)
	}
	dep.MarkEndpointConfigCreated()
	if err := s.deployRepo.Update(ctx, dep); err != nil {
		return nil, fmt.Errorf("update deployment record: %w", err)
	}

	if err := s.provisioner.CreateEndpoint(ctx, ports.EndpointSpec{
		Name:               dep.EndpointName,
		EndpointConfigName: dep.EndpointConfigName,
	}); err != nil {
		return s.fail(ctx, dep, logger, "create endpoint", err)
	}
	dep.MarkEndpointCreated()
	if err := s.deployRepo.Update(ctx, dep); err != nil {
		return nil, fmt.Errorf("update deployment record: %w", err)
	}

	logger.WithField("endpoint", dep.EndpointName).Info("endpoint provisioned")
	return dep, nil
}

func (s *ProvisionService) fail(ctx context.Context, dep *domain.EndpointDeployment, logger *log.Entry, step string, cause error) (*domain.EndpointDeployment, error) {
	reason := fmt.Sprintf("%s: %v", step, cause)
	dep.MarkFailed(reason)
	if err := s.deployRepo.Update(ctx, dep); err != nil {
		logger.WithError(err).Error("record provisioning failure")
	}
	logger.WithError(cause).Errorf("provisioning failed at %s", step)
	return dep, fmt.Errorf("%w: %s", domain.ErrProvisioningFailed, reason)
}

func (s *ProvisionService) Get(ctx context.Context, id uuid.UUID) (*domain.EndpointDeployment, error) {
	return s.deployRepo.GetByID(ctx, id)
}

func (s *ProvisionService) List(ctx context.Context, filter ports.DeploymentListFilter) ([]*domain.EndpointDeployment, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.deployRepo.List(ctx, filter)
}
