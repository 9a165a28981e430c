package domain

import (
	"time"

	"github.com/google/uuid"
)

type ExecutionState string

const (
	ExecutionStateRunning          ExecutionState = "RUNNING"
	ExecutionStateAwaitingApproval ExecutionState = "AWAITING_APPROVAL"
	ExecutionStateCompleted        ExecutionState = "COMPLETED"
	ExecutionStateFailed           ExecutionState = "FAILED"
	ExecutionStateAborted          ExecutionState = "ABORTED"
)

type TriggerSource string

const (
	TriggerSourceChange  TriggerSource = "source-change"
	TriggerModelApproved TriggerSource = "model-approved"
)

// PipelineExecution is one run of the promotion workflow. Dev deploys
// unconditionally; prod waits at a manual approval gate with no timeout.
// An execution left awaiting approval stays pending until approved or
// explicitly aborted by an operator.
type PipelineExecution struct {
	ID             uuid.UUID      `json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	GroupName      string         `json:"group_name"`
	ModelPackageID uuid.UUID      `json:"model_package_id"`
	Trigger        TriggerSource  `json:"trigger"`
	State          ExecutionState `json:"state"`
	FailureReason  string         `json:"failure_reason,omitempty"`
	ApprovedBy     string         `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time     `json:"approved_at,omitempty"`
}

func NewPipelineExecution(groupName string, packageID uuid.UUID, trigger TriggerSource) *PipelineExecution {
	now := time.Now().UTC()
	return &PipelineExecution{
		ID:             uuid.New(),
		CreatedAt:      now,
		UpdatedAt:      now,
		GroupName:      groupName,
		ModelPackageID: packageID,
		Trigger:        trigger,
		State:          ExecutionStateRunning,
	}
}

func (e *PipelineExecution) MarkAwaitingApproval() {
	e.State = ExecutionStateAwaitingApproval
	e.UpdatedAt = time.Now().UTC()
}

// MarkApproved records the gate decision. The caller must have verified the
// execution is awaiting approval.
func (e *PipelineExecution) MarkApproved(actor string) {
	now := time.Now().UTC()
	e.State = ExecutionStateRunning
	e.ApprovedBy = actor
	e.ApprovedAt = &now
	e.UpdatedAt = now
}

func (e *PipelineExecution) MarkCompleted() {
	e.State = ExecutionStateCompleted
	e.UpdatedAt = time.Now().UTC()
}

func (e *PipelineExecution) MarkFailed(reason string) {
	e.State = ExecutionStateFailed
	e.FailureReason = reason
	e.UpdatedAt = time.Now().UTC()
}

func (e *PipelineExecution) MarkAborted() {
	e.State = ExecutionStateAborted
	e.UpdatedAt = time.Now().UTC()
}

// SecurityFinding is a single policy violation reported by the pre-promotion
// security evaluation. Any finding is a hard stop for the run.
type SecurityFinding struct {
	Stage  Stage  `json:"stage"`
	Rule   string `json:"rule"`
	Detail string `json:"detail"`
}
