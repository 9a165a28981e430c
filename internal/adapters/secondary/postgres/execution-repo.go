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

type executionRepo struct {
	pool *pgxpool.Pool
}

func NewPipelineExecutionRepository(pool *pgxpool.Pool) ports.PipelineExecutionRepository {
	return &executionRepo{pool: pool}
}

func (r *executionRepo) Create(ctx context.Context, exec *domain.PipelineExecution) error {
	query := `
		INSERT INTO pipeline_execution
			(id, created_at, updated_at, group_name, model_package_id, trigger_source,
			 state, failure_reason, approved_by, approved_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`
	_, err := r.pool.Exec(ctx, query,
		exec.ID, exec.CreatedAt, exec.UpdatedAt,
		exec.GroupName, exec.ModelPackageID, string(exec.Trigger),
		string(exec.State), exec.FailureReason, exec.ApprovedBy, exec.ApprovedAt,
	)
	if err != nil {
		return fmt.Errorf("create pipeline execution: %w", err)
	}
	return nil
}

func (r *executionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PipelineExecution, error) {
	query := `
		SELECT id, created_at, updated_at, group_name, model_package_id, trigger_source,
			   state, COALESCE(failure_reason, '') AS failure_reason,
			   COALESCE(approved_by, '') AS approved_by, approved_at
		FROM pipeline_execution
		WHERE id = $1
	`
	exec, err := scanExecution(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExecutionNotFound
		}
		return nil, fmt.Errorf("get pipeline execution by id: %w", err)
	}
	return exec, nil
}

func (r *executionRepo) Update(ctx context.Context, exec *domain.PipelineExecution) error {
	query := `
		UPDATE pipeline_execution
		SET state=$1, failure_reason=$2, approved_by=$3, approved_at=$4, updated_at=$5
		WHERE id=$6
	`
	result, err := r.pool.Exec(ctx, query,
		string(exec.State), exec.FailureReason, exec.ApprovedBy, exec.ApprovedAt,
		exec.UpdatedAt, exec.ID,
	)
	if err != nil {
		return fmt.Errorf("update pipeline execution: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrExecutionNotFound
	}
	return nil
}

func (r *executionRepo) List(ctx context.Context, filter ports.ExecutionListFilter) ([]*domain.PipelineExecution, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	if filter.GroupName != "" {
		conditions = append(conditions, fmt.Sprintf("group_name = $%d", argPos))
		args = append(args, filter.GroupName)
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

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM pipeline_execution WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count pipeline executions: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, created_at, updated_at, group_name, model_package_id, trigger_source,
			   state, COALESCE(failure_reason, '') AS failure_reason,
			   COALESCE(approved_by, '') AS approved_by, approved_at
		FROM pipeline_execution
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list pipeline executions: %w", err)
	}
	defer rows.Close()

	var executions []*domain.PipelineExecution
	for rows.Next() {
		exec, err := scanExecution(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan pipeline execution row: %w", err)
		}
		executions = append(executions, exec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate pipeline execution rows: %w", err)
	}

	return executions, total, nil
}

func scanExecution(row pgx.Row) (*domain.PipelineExecution, error) {
	exec := &domain.PipelineExecution{}
	var trigger, state string

	err := row.Scan(
		&exec.ID, &exec.CreatedAt, &exec.UpdatedAt,
		&exec.GroupName, &exec.ModelPackageID, &trigger,
		&state, &exec.FailureReason, &exec.ApprovedBy, &exec.ApprovedAt,
	)
	if err != nil {
		return nil, err
	}
	exec.Trigger = domain.TriggerSource(trigger)
	exec.State = domain.ExecutionState(state)
	return exec, nil
}
