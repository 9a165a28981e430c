package domain

import "errors"

// ============================================================================
// Model Package Errors
// ============================================================================

var (
	ErrPackageNotFound        = errors.New("model package not found")
	ErrNoApprovedPackage      = errors.New("no approved model package in group")
	ErrPackageVersionConflict = errors.New("model package version already exists for this group")
	ErrInvalidGroupName       = errors.New("model package group name is required")
	ErrInvalidArtifactURI     = errors.New("model artifact URI is required")
	ErrPackageNotPending      = errors.New("model package approval status already decided")
)

// ============================================================================
// Provisioning Errors
// ============================================================================

var (
	ErrDeploymentNotFound      = errors.New("endpoint deployment not found")
	ErrInvalidStage            = errors.New("unknown deployment stage")
	ErrProvisionerNotAvailable = errors.New("endpoint provisioner is not available")
	ErrProvisioningFailed      = errors.New("endpoint provisioning failed")
)

// ============================================================================
// Pipeline Errors
// ============================================================================

var (
	ErrExecutionNotFound    = errors.New("pipeline execution not found")
	ErrExecutionNotPending  = errors.New("pipeline execution is not awaiting approval")
	ErrExecutionStillActive = errors.New("pipeline execution already running for this group")
	ErrSecurityEvaluation   = errors.New("security evaluation found policy violations")
	ErrInvalidActor         = errors.New("approval actor is required")
)

// ============================================================================
// Metrics Errors
// ============================================================================

var (
	ErrMetricsNotAvailable = errors.New("metrics backend is not available")
	ErrInvalidTimeRange    = errors.New("invalid time range")
)
