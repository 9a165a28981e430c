package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"model-promotion-service/internal/core/domain"
	"model-promotion-service/internal/core/ports/output"
)

type deploymentRepo struct {
	pool *pgxpool.Pool
}

func NewDeploymentRepository(pool *pgxpool.Pool) ports.DeploymentRepository {
	return &deploymentRepo{pool: pool}
}

func (r *deploymentRepo) Create(ctx context.Context, dep *domain.EndpointDeployment) error {
	query := `
		INSERT INTO endpoint_deployment
			(id, created_at, updated_at, model_package_id, group_name, stage,
			 build_timestamp, model_name, endpoint_config_name, endpoint_name,
			 state, failure_reason)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`
	_, err := r.pool.Exec(ctx, query,
		dep.ID, dep.CreatedAt, dep.UpdatedAt,
		dep.ModelPackageID, dep.GroupName, string(dep.Stage),
		dep.Timestamp, dep.ModelName, dep.EndpointConfigName, dep.EndpointName,
		string(dep.State), dep.FailureReason,
	)
	if err != nil {
		return fmt.Errorf("create endpoint deployment: %w", err)
	}
	return nil
}

func (r *deploymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.EndpointDeployment, error) {
	query := `
		SELECT id, created_at, updated_at, model_package_id, group_name, stage,
			   build_timestamp, model_name, endpoint_config_name, endpoint_name,
			   state, COALESCE(failure_reason, '') AS failure_reason
		FROM endpoint_deployment
		WHERE id = $1
	`
	dep, err := scanDeployment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDeploymentNotFound
		}
		return nil, fmt.Errorf("get endpoint deployment by id: %w", err)
	}
	return dep, nil
}

func (r *deploymentRepo) Update(ctx context.Context, dep *domain.EndpointDeployment) error {
	query := `
		UPDATE endpoint_deployment
		SET state=$1, failure_reason=$2, updated_at=$3
		WHERE id=$4
	`
	result, err := r.pool.Exec(ctx, query,
		string(dep.State), dep.FailureReason, dep.UpdatedAt, dep.ID,
	)
	if err != nil {
		return fmt.Errorf("update endpoint deployment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrDeploymentNotFound
	}
	return nil
}

func (r *deploymentRepo) List(ctx context.Context, filter ports.DeploymentListFilter) ([]*domain.EndpointDeployment, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	if filter.GroupName != "" {
		conditions = append(conditions, fmt.Sprintf("group_name = $%d", argPos))
		args = append(args, filter.GroupName)
		argPos++
	}
	if filter.Stage != "" {
		conditions = append(conditions, fmt.Sprintf("stage = $%d", argPos))
		args = append(args, filter.Stage)
		argPos++
	}
	if filter.State != "" {
		conditions = append(conditions, fmt.Sprintf("state = $%d", argPos))
		args = append(args, filter.State)
		argPos++
	}

	whereClause := "1=1"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM endpoint_deployment WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count endpoint deployments: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, created_at, updated_at, model_package_id, group_name, stage,
			   build_timestamp, model_name, endpoint_config_name, endpoint_name,
			   state, COALESCE(failure_reason, '') AS failure_reason
		FROM endpoint_deployment
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list endpoint deployments: %w", err)
	}
	defer rows.Close()

	var deployments []*domain.EndpointDeployment
	for rows.Next() {
		dep, err := scanDeployment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan endpoint deployment row: %w", err)
		}
		deployments = append(deployments, dep)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate endpoint deployment rows: %w", err)
	}

	return deployments, total, nil
}

func scanDeployment(row pgx.Row) (*domain.EndpointDeployment, error) {
	dep := &domain.EndpointDeployment{}
	var stage, state string

	err := row.Scan(
		&dep.ID, &dep.CreatedAt, &dep.UpdatedAt,
		&dep.ModelPackageID, &dep.GroupName, &stage,
		&dep.Timestamp, &dep.ModelName, &dep.EndpointConfigName, &dep.EndpointName,
		&state, &dep.FailureReason,
	)
	if err != nil {
		return nil, err
	}
	dep.Stage = domain.Stage(stage)
	dep.State = domain.DeploymentState(state)
	return dep, nil
}
