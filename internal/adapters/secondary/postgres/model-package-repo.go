package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"model-promotion-service/internal/core/domain"
	"model-promotion-service/internal/core/ports/output"
)

type modelPackageRepo struct {
	pool *pgxpool.Pool
}

func NewModelPackageRepository(pool *pgxpool.Pool) ports.ModelPackageRepository {
	return &modelPackageRepo{pool: pool}
}

func (r *modelPackageRepo) Create(ctx context.Context, pkg *domain.ModelPackage) error {
	query := `
		INSERT INTO model_package
			(id, created_at, updated_at, group_name, version, approval_status,
			 artifact_uri, image_uri, description, sample_payload_uri, approved_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`
	_, err := r.pool.Exec(ctx, query,
		pkg.ID, pkg.CreatedAt, pkg.UpdatedAt,
		pkg.GroupName, pkg.Version, string(pkg.ApprovalStatus),
		pkg.ArtifactURI, pkg.ImageURI, pkg.Description,
		pkg.SamplePayloadURI, pkg.ApprovedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrPackageVersionConflict
		}
		return fmt.Errorf("create model package: %w", err)
	}
	return nil
}

func (r *modelPackageRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ModelPackage, error) {
	query := `
		SELECT id, created_at, updated_at, group_name, version, approval_status,
			   artifact_uri, image_uri, description, sample_payload_uri,
			   COALESCE(approved_by, '') AS approved_by
		FROM model_package
		WHERE id = $1
	`
	pkg, err := scanPackage(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPackageNotFound
		}
		return nil, fmt.Errorf("get model package by id: %w", err)
	}
	return pkg, nil
}

func (r *modelPackageRepo) GetLatestApproved(ctx context.Context, groupName string) (*domain.ModelPackage, error) {
	query := `
		SELECT id, created_at, updated_at, group_name, version, approval_status,
			   artifact_uri, image_uri, description, sample_payload_uri,
			   COALESCE(approved_by, '') AS approved_by
		FROM model_package
		WHERE group_name = $1 AND approval_status = $2
		ORDER BY version DESC
		LIMIT 1
	`
	pkg, err := scanPackage(r.pool.QueryRow(ctx, query, groupName, string(domain.ApprovalStatusApproved)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoApprovedPackage
		}
		return nil, fmt.Errorf("get latest approved model package: %w", err)
	}
	return pkg, nil
}

func (r *modelPackageRepo) NextVersion(ctx context.Context, groupName string) (int, error) {
	query := `
		SELECT COALESCE(MAX(version), 0) + 1
		FROM model_package
		WHERE group_name = $1
	`
	var next int
	if err := r.pool.QueryRow(ctx, query, groupName).Scan(&next); err != nil {
		return 0, fmt.Errorf("next model package version: %w", err)
	}
	return next, nil
}

func (r *modelPackageRepo) Update(ctx context.Context, pkg *domain.ModelPackage) error {
	query := `
		UPDATE model_package
		SET approval_status=$1, description=$2, sample_payload_uri=$3,
			approved_by=$4, updated_at=$5
		WHERE id=$6
	`
	result, err := r.pool.Exec(ctx, query,
		string(pkg.ApprovalStatus), pkg.Description, pkg.SamplePayloadURI,
		pkg.ApprovedBy, pkg.UpdatedAt, pkg.ID,
	)
	if err != nil {
		return fmt.Errorf("update model package: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrPackageNotFound
	}
	return nil
}

func (r *modelPackageRepo) List(ctx context.Context, filter ports.PackageListFilter) ([]*domain.ModelPackage, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	if filter.GroupName != "" {
		conditions = append(conditions, fmt.Sprintf("group_name = $%d", argPos))
		args = append(args, filter.GroupName)
		argPos++
	}
	if filter.ApprovalStatus != "" {
		conditions = append(conditions, fmt.Sprintf("approval_status = $%d", argPos))
		args = append(args, filter.ApprovalStatus)
		argPos++
	}

	whereClause := "1=1"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM model_package WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count model packages: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, created_at, updated_at, group_name, version, approval_status,
			   artifact_uri, image_uri, description, sample_payload_uri,
			   COALESCE(approved_by, '') AS approved_by
		FROM model_package
		WHERE %s
		ORDER BY version DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list model packages: %w", err)
	}
	defer rows.Close()

	var packages []*domain.ModelPackage
	for rows.Next() {
		pkg, err := scanPackage(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan model package row: %w", err)
		}
		packages = append(packages, pkg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate model package rows: %w", err)
	}

	return packages, total, nil
}

func scanPackage(row pgx.Row) (*domain.ModelPackage, error) {
	pkg := &domain.ModelPackage{}
	var status string

	err := row.Scan(
		&pkg.ID, &pkg.CreatedAt, &pkg.UpdatedAt,
		&pkg.GroupName, &pkg.Version, &status,
		&pkg.ArtifactURI, &pkg.ImageURI, &pkg.Description,
		&pkg.SamplePayloadURI, &pkg.ApprovedBy,
	)
	if err != nil {
		return nil, err
	}
	pkg.ApprovalStatus = domain.ApprovalStatus(status)
	return pkg, nil
}
