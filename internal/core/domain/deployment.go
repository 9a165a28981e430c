package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Stage string

const (
	StageDev  Stage = "dev"
	StageProd Stage = "prod"
)

// Stages lists the known deployment stages in promotion order.
var Stages = []Stage{StageDev, StageProd}

func ParseStage(s string) (Stage, error) {
	switch Stage(s) {
	case StageDev:
		return StageDev, nil
	case StageProd:
		return StageProd, nil
	}
	return "", ErrInvalidStage
}

type DeploymentState string

const (
	DeploymentStatePending               DeploymentState = "PENDING"
	DeploymentStateModelCreated          DeploymentState = "MODEL_CREATED"
	DeploymentStateEndpointConfigCreated DeploymentState = "ENDPOINT_CONFIG_CREATED"
	DeploymentStateEndpointCreated       DeploymentState = "ENDPOINT_CREATED"
	DeploymentStateFailed                DeploymentState = "FAILED"
)

// TimestampLayout qualifies every resource of one provisioning run. All three
// resources of a run share a single timestamp taken once at build time.
const TimestampLayout = "2006-01-02-15-04-05"

// EndpointDeployment tracks one versioned model/endpoint-config/endpoint
// triple for a stage. The endpoint name is stage-stable (no timestamp) so
// clients never track versions; old triples are not deleted and may coexist
// across runs.
type EndpointDeployment struct {
	ID                 uuid.UUID       `json:"id"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	ModelPackageID     uuid.UUID       `json:"model_package_id"`
	GroupName          string          `json:"group_name"`
	Stage              Stage           `json:"stage"`
	Timestamp          string          `json:"timestamp"`
	ModelName          string          `json:"model_name"`
	EndpointConfigName string          `json:"endpoint_config_name"`
	EndpointName       string          `json:"endpoint_name"`
	State              DeploymentState `json:"state"`
	FailureReason      string          `json:"failure_reason,omitempty"`
}

func NewEndpointDeployment(packageID uuid.UUID, groupName string, stage Stage, buildTime time.Time) *EndpointDeployment {
	ts := buildTime.UTC().Format(TimestampLayout)
	now := time.Now().UTC()
	return &EndpointDeployment{
		ID:                 uuid.New(),
		CreatedAt:          now,
		UpdatedAt:          now,
		ModelPackageID:     packageID,
		GroupName:          groupName,
		Stage:              stage,
		Timestamp:          ts,
		ModelName:          ModelResourceName(groupName, stage, ts),
		EndpointConfigName: EndpointConfigName(groupName, stage, ts),
		EndpointName:       EndpointName(groupName, stage),
		State:              DeploymentStatePending,
	}
}

func ModelResourceName(group string, stage Stage, timestamp string) string {
	return fmt.Sprintf("%s-%s-%s", group, stage, timestamp)
}

func EndpointConfigName(group string, stage Stage, timestamp string) string {
	return fmt.Sprintf("%s-%s-endpointConfig-%s", group, stage, timestamp)
}

func EndpointName(group string, stage Stage) string {
	return fmt.Sprintf("%s-%s-endpoint", group, stage)
}

func (d *EndpointDeployment) MarkModelCreated() {
	d.State = DeploymentStateModelCreated
	d.UpdatedAt = time.Now().UTC()
}

func (d *EndpointDeployment) MarkEndpointConfigCreated() {
	d.State = DeploymentStateEndpointConfigCreated
	d.UpdatedAt = time.Now().UTC()
}

func (d *EndpointDeployment) MarkEndpointCreated() {
	d.State = DeploymentStateEndpointCreated
	d.UpdatedAt = time.Now().UTC()
}

func (d *EndpointDeployment) MarkFailed(reason string) {
	d.State = DeploymentStateFailed
	d.FailureReason = reason
	d.UpdatedAt = time.Now().UTC()
}
