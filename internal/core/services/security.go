package services

import (
	"context"
	"strings"

	"model-promotion-service/internal/config"
	"model-promotion-service/internal/core/domain"
)

// SecurityEvaluationService is the pre-promotion policy scan. It runs between
// build and deployment over every stage's provisioning plan and fails the
// pipeline on any finding, independent of the approval gate.
type SecurityEvaluationService struct {
	stages *config.StageRegistry
}

func NewSecurityEvaluationService(stages *config.StageRegistry) *SecurityEvaluationService {
	return &SecurityEvaluationService{stages: stages}
}

// Evaluate scans the resolved stage configurations for policy violations.
func (s *SecurityEvaluationService) Evaluate(ctx context.Context, stageNames []domain.Stage) []domain.SecurityFinding {
	var findings []domain.SecurityFinding

	for _, stage := range stageNames {
		cfg := s.stages.ForStage(string(stage))

		if cfg.SecurityGroup == "" {
			findings = append(findings, domain.SecurityFinding{
				Stage:  stage,
				Rule:   "missing-security-group",
				Detail: "endpoint must attach the account base security group",
			})
		}
		if len(cfg.Subnets) == 0 {
			findings = append(findings, domain.SecurityFinding{
				Stage:  stage,
				Rule:   "missing-subnets",
				Detail: "endpoint must run inside VPC subnets",
			})
		}
		for _, subnet := range cfg.Subnets {
			if strings.HasPrefix(subnet, "subnet-public") {
				findings = append(findings, domain.SecurityFinding{
					Stage:  stage,
					Rule:   "public-subnet",
					Detail: "endpoint may not be placed in a public subnet: " + subnet,
				})
			}
		}
		if cfg.Variant.InitialInstanceCount < 1 {
			findings = append(findings, domain.SecurityFinding{
				Stage:  stage,
				Rule:   "invalid-instance-count",
				Detail: "variant instance count must be at least 1",
			})
		}
		if cfg.Variant.InitialVariantWeight <= 0 || cfg.Variant.InitialVariantWeight > 1 {
			findings = append(findings, domain.SecurityFinding{
				Stage:  stage,
				Rule:   "invalid-variant-weight",
				Detail: "variant weight must be in (0, 1]",
			})
		}
	}

	return findings
}
