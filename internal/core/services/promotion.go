package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"model-promotion-service/internal/core/domain"
	ports "model-promotion-service/internal/core/ports/output"
)

// PromotionService drives the two-stage promotion workflow: security
// evaluation, unconditional dev provisioning, then a manual approval gate
// in front of prod. The gate is an indefinite suspension point: an execution
// stays AWAITING_APPROVAL until an operator approves or aborts it.
type PromotionService struct {
	execRepo    ports.PipelineExecutionRepository
	packageRepo ports.ModelPackageRepository
	provision   *ProvisionService
	security    *SecurityEvaluationService
	groupName   string
}

func NewPromotionService(
	execRepo ports.PipelineExecutionRepository,
	packageRepo ports.ModelPackageRepository,
	provision *ProvisionService,
	security *SecurityEvaluationService,
	groupName string,
) *PromotionService {
	return &PromotionService{
		execRepo:    execRepo,
		packageRepo: packageRepo,
		provision:   provision,
		security:    security,
		groupName:   groupName,
	}
}

// HandleModelPackageEvent reacts to a model package state change. Only a
// transition to Approved for the configured group starts an execution; every
// other event is ignored and returns no execution.
func (s *PromotionService) HandleModelPackageEvent(ctx context.Context, evt domain.ModelPackageStateChange) (*domain.PipelineExecution, error) {
	if evt.ModelPackageGroupName != s.groupName {
		log.WithField("group", evt.ModelPackageGroupName).Debug("ignoring event for foreign package group")
		return nil, nil
	}
	if evt.ModelApprovalStatus != string(domain.ApprovalStatusApproved) {
		log.WithFields(log.Fields{
			"group":  evt.ModelPackageGroupName,
			"status": evt.ModelApprovalStatus,
		}).Debug("ignoring non-approval state change")
		return nil, nil
	}
	exec, err := s.StartExecution(ctx, domain.TriggerModelApproved)
	if errors.Is(err, domain.ErrExecutionStillActive) {
		log.WithField("execution", exec.ID).Info("promotion already in flight, returning existing execution")
		return exec, nil
	}
	return exec, err
}

// StartExecution runs the pipeline up to the prod gate: security evaluation,
// then dev provisioning. On success the execution is left awaiting approval.
// At most one execution per group is in flight at a time.
func (s *PromotionService) StartExecution(ctx context.Context, trigger domain.TriggerSource) (*domain.PipelineExecution, error) {
	active, err := s.activeExecution(ctx)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return active, domain.ErrExecutionStillActive
	}

	pkg, err := s.packageRepo.GetLatestApproved(ctx, s.groupName)
	if err != nil {
		return nil, err
	}

	exec := domain.NewPipelineExecution(s.groupName, pkg.ID, trigger)
	if err := s.execRepo.Create(ctx, exec); err != nil {
		return nil, fmt.Errorf("create pipeline execution: %w", err)
	}

	logger := log.WithFields(log.Fields{
		"execution": exec.ID,
		"group":     s.groupName,
		"trigger":   trigger,
	})
	logger.Info("pipeline execution started")

	// Pre-promotion security evaluation: any finding is a hard stop before
	// anything is provisioned.
	if findings := s.security.Evaluate(ctx, domain.Stages); len(findings) > 0 {
		for _, f := range findings {
			logger.WithFields(log.Fields{
				"stage": f.Stage,
				"rule":  f.Rule,
			}).Warn(f.Detail)
		}
		exec.MarkFailed(fmt.Sprintf("security evaluation: %d policy violations", len(findings)))
		if err := s.execRepo.Update(ctx, exec); err != nil {
			return nil, err
		}
		return exec, domain.ErrSecurityEvaluation
	}

	// Dev deploys unconditionally on every qualifying trigger.
	if _, err := s.provision.Provision(ctx, s.groupName, domain.StageDev); err != nil {
		exec.MarkFailed(fmt.Sprintf("dev provisioning: %v", err))
		if uerr := s.execRepo.Update(ctx, exec); uerr != nil {
			return nil, uerr
		}
		return exec, err
	}

	exec.MarkAwaitingApproval()
	if err := s.execRepo.Update(ctx, exec); err != nil {
		return nil, err
	}
	logger.Info("dev stage deployed, awaiting manual approval for prod")
	return exec, nil
}

// Approve opens the prod gate for an execution awaiting approval and runs
// prod provisioning. There is no automatic approval path.
func (s *PromotionService) Approve(ctx context.Context, id uuid.UUID, actor string) (*domain.PipelineExecution, error) {
	if actor == "" {
		return nil, domain.ErrInvalidActor
	}

	exec, err := s.execRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if exec.State != domain.ExecutionStateAwaitingApproval {
		return nil, domain.ErrExecutionNotPending
	}

	exec.MarkApproved(actor)
	if err := s.execRepo.Update(ctx, exec); err != nil {
		return nil, err
	}

	logger := log.WithFields(log.Fields{"execution": exec.ID, "approved_by": actor})
	logger.Info("prod promotion approved")

	if _, err := s.provision.Provision(ctx, s.groupName, domain.StageProd); err != nil {
		exec.MarkFailed(fmt.Sprintf("prod provisioning: %v", err))
		if uerr := s.execRepo.Update(ctx, exec); uerr != nil {
			return nil, uerr
		}
		return exec, err
	}

	exec.MarkCompleted()
	if err := s.execRepo.Update(ctx, exec); err != nil {
		return nil, err
	}
	logger.Info("pipeline execution completed")
	return exec, nil
}

// Abort cancels an execution stuck at the approval gate.
func (s *PromotionService) Abort(ctx context.Context, id uuid.UUID) (*domain.PipelineExecution, error) {
	exec, err := s.execRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if exec.State != domain.ExecutionStateAwaitingApproval {
		return nil, domain.ErrExecutionNotPending
	}

	exec.MarkAborted()
	if err := s.execRepo.Update(ctx, exec); err != nil {
		return nil, err
	}
	log.WithField("execution", exec.ID).Info("pipeline execution aborted")
	return exec, nil
}

// activeExecution returns the group's in-flight execution, either running or
// parked at the approval gate.
func (s *PromotionService) activeExecution(ctx context.Context) (*domain.PipelineExecution, error) {
	for _, state := range []domain.ExecutionState{domain.ExecutionStateAwaitingApproval, domain.ExecutionStateRunning} {
		execs, _, err := s.execRepo.List(ctx, ports.ExecutionListFilter{
			GroupName: s.groupName,
			State:     string(state),
			Limit:     1,
		})
		if err != nil {
			return nil, err
		}
		if len(execs) > 0 {
			return execs[0], nil
		}
	}
	return nil, nil
}

func (s *PromotionService) Get(ctx context.Context, id uuid.UUID) (*domain.PipelineExecution, error) {
	return s.execRepo.GetByID(ctx, id)
}

func (s *PromotionService) List(ctx context.Context, filter ports.ExecutionListFilter) ([]*domain.PipelineExecution, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.execRepo.List(ctx, filter)
}
