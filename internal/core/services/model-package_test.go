package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"model-promotion-service/internal/core/domain"
	"model-promotion-service/internal/testutil"
)

func TestModelPackageService_Register(t *testing.T) {
	repo := new(testutil.MockModelPackageRepo)
	store := new(testutil.MockArtifactStore)
	svc := NewModelPackageService(repo, store)

	repo.On("NextVersion", mock.Anything, "demo").Return(4, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ModelPackage")).Return(nil)
	store.On("Upload", mock.Anything, "demo/payloads/v4/payload.json", []byte(`{"features":[1,2,3]}`)).
		Return("s3://bucket/demo/payloads/v4/payload.json", nil)

	pkg, err := svc.Register(context.Background(), RegisterPackageRequest{
		GroupName:     "demo",
		ArtifactURI:   "s3://bucket/demo/model.tar.gz",
		ImageURI:      "123.dkr.ecr.eu-west-1.amazonaws.com/demo:latest",
		SamplePayload: []byte(`{"features":[1,2,3]}`),
	})
	require.NoError(t, err)

	assert.Equal(t, 4, pkg.Version)
	assert.Equal(t, domain.ApprovalStatusPending, pkg.ApprovalStatus)
	assert.Equal(t, "s3://bucket/demo/payloads/v4/payload.json", pkg.SamplePayloadURI)
	repo.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestModelPackageService_Register_MissingGroup(t *testing.T) {
	repo := new(testutil.MockModelPackageRepo)
	svc := NewModelPackageService(repo, nil)
	repo.On("NextVersion", mock.Anything, "").Return(1, nil)

	_, err := svc.Register(context.Background(), RegisterPackageRequest{ArtifactURI: "s3://x"})
	assert.ErrorIs(t, err, domain.ErrInvalidGroupName)
}

func TestModelPackageService_Approve(t *testing.T) {
	repo := new(testutil.MockModelPackageRepo)
	svc := NewModelPackageService(repo, nil)

	pkg, err := domain.NewModelPackage("demo", "s3://bucket/model.tar.gz", "", "", 1)
	require.NoError(t, err)
	repo.On("GetByID", mock.Anything, pkg.ID).Return(pkg, nil)
	repo.On("Update", mock.Anything, pkg).Return(nil)

	updated, err := svc.Approve(context.Background(), pkg.ID, "lead@company.com")
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalStatusApproved, updated.ApprovalStatus)
	assert.Equal(t, "lead@company.com", updated.ApprovedBy)
}

func TestModelPackageService_Approve_AlreadyDecided(t *testing.T) {
	repo := new(testutil.MockModelPackageRepo)
	svc := NewModelPackageService(repo, nil)

	pkg, err := domain.NewModelPackage("demo", "s3://bucket/model.tar.gz", "", "", 1)
	require.NoError(t, err)
	require.NoError(t, pkg.Reject("lead@company.com"))
	repo.On("GetByID", mock.Anything, pkg.ID).Return(pkg, nil)

	_, err = svc.Approve(context.Background(), pkg.ID, "lead@company.com")
	assert.ErrorIs(t, err, domain.ErrPackageNotPending)
}

func TestModelPackageService_Approve_MissingActor(t *testing.T) {
	svc := NewModelPackageService(new(testutil.MockModelPackageRepo), nil)

	_, err := svc.Approve(context.Background(), uuid.New(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidActor)
}
