package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"model-promotion-service/internal/core/domain"
	ports "model-promotion-service/internal/core/ports/output"
)

// ModelPackageService owns the registry side of the system: registration of
// new packages (always pending manual approval) and the one-way approval
// transitions that feed the promotion pipeline.
type ModelPackageService struct {
	repo  ports.ModelPackageRepository
	store ports.ArtifactStore
}

func NewModelPackageService(repo ports.ModelPackageRepository, store ports.ArtifactStore) *ModelPackageService {
	return &ModelPackageService{repo: repo, store: store}
}

type RegisterPackageRequest struct {
	GroupName     string
	ArtifactURI   string
	ImageURI      string
	Description   string
	SamplePayload []byte
}

// Register creates a new package version in PendingManualApproval. When a
// sample payload is supplied it is uploaded next to the artifact for the
// benchmarking flow to pick up.
func (s *ModelPackageService) Register(ctx context.Context, req RegisterPackageRequest) (*domain.ModelPackage, error) {
	version, err := s.repo.NextVersion(ctx, req.GroupName)
	if err != nil {
		return nil, err
	}

	pkg, err := domain.NewModelPackage(req.GroupName, req.ArtifactURI, req.ImageURI, req.Description, version)
	if err != nil {
		return nil, err
	}

	if len(req.SamplePayload) > 0 && s.store != nil {
		key := fmt.Sprintf("%s/payloads/v%d/payload.json", req.GroupName, version)
		uri, err := s.store.Upload(ctx, key, req.SamplePayload)
		if err != nil {
			return nil, fmt.Errorf("upload sample payload: %w", err)
		}
		pkg.SamplePayloadURI = uri
	}

	if err := s.repo.Create(ctx, pkg); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"group":   pkg.GroupName,
		"version": pkg.Version,
	}).Info("model package registered")
	return pkg, nil
}

// Approve transitions a pending package to Approved and returns the updated
// package. The caller is responsible for feeding the resulting state change
// into the promotion pipeline.
func (s *ModelPackageService) Approve(ctx context.Context, id uuid.UUID, actor string) (*domain.ModelPackage, error) {
	return s.decide(ctx, id, actor, (*domain.ModelPackage).Approve)
}

func (s *ModelPackageService) Reject(ctx context.Context, id uuid.UUID, actor string) (*domain.ModelPackage, error) {
	return s.decide(ctx, id, actor, (*domain.ModelPackage).Reject)
}

func (s *ModelPackageService) decide(ctx context.Context, id uuid.UUID, actor string, transition func(*domain.ModelPackage, string) error) (*domain.ModelPackage, error) {
	if actor == "" {
		return nil, domain.ErrInvalidActor
	}

	pkg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := transition(pkg, actor); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, pkg); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"group":   pkg.GroupName,
		"version": pkg.Version,
		"status":  pkg.ApprovalStatus,
		"actor":   actor,
	}).Info("model package approval decided")
	return pkg, nil
}

func (s *ModelPackageService) Get(ctx context.Context, id uuid.UUID) (*domain.ModelPackage, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ModelPackageService) GetLatestApproved(ctx context.Context, groupName string) (*domain.ModelPackage, error) {
	return s.repo.GetLatestApproved(ctx, groupName)
}

func (s *ModelPackageService) List(ctx context.Context, filter ports.PackageListFilter) ([]*domain.ModelPackage, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.repo.List(ctx, filter)
}
