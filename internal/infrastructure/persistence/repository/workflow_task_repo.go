package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/seconnect/ice-backend/internal/application/port"
	"github.com/seconnect/ice-backend/internal/domain/entity"
)

// WorkflowTaskRepository implements port.WorkflowTaskRepository over sqlite.
type WorkflowTaskRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewWorkflowTaskRepository creates a new workflow task repository.
func NewWorkflowTaskRepository(db *sql.DB, logger *zap.Logger) port.WorkflowTaskRepository {
	return &WorkflowTaskRepository{db: db, logger: logger}
}

// Create persists a new pending task.
func (r *WorkflowTaskRepository) Create(ctx context.Context, task *entity.WorkflowTask) error {
	query := `
		INSERT INTO workflow_tasks (
			object_type_id, object_id, assigned_to_employee_id,
			task_description, due_date, complete_ind, created_at, is_deleted
		) VALUES (?, ?, ?, ?, ?, 0, ?, 0)
	`
	result, err := r.db.ExecContext(ctx, query,
		task.ObjectTypeID,
		task.ObjectID,
		task.AssignedToEmployeeID,
		task.TaskDescription,
		nullableTime(task.DueDate),
		time.Now(),
	)
	if err != nil {
		r.logger.Error("Failed to create workflow task", zap.Error(err))
		return fmt.Errorf("failed to create workflow task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	task.WorkflowTaskID = id
	return nil
}

// GetByID returns the task, or nil when it does not exist.
func (r *WorkflowTaskRepository) GetByID(ctx context.Context, taskID int64) (*entity.WorkflowTask, error) {
	query := `
		SELECT workflow_task_id, object_type_id, object_id, assigned_to_employee_id,
			task_description, due_date, complete_ind, completed_at, created_at, is_deleted
		FROM workflow_tasks
		WHERE workflow_task_id = ? AND is_deleted = 0
	`
	task, err := r.scanTask(r.db.QueryRowContext(ctx, query, taskID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get workflow task", zap.Int64("task_id", taskID), zap.Error(err))
		return nil, fmt.Errorf("failed to get workflow task: %w", err)
	}
	return task, nil
}

// Complete marks a task complete.
func (r *WorkflowTaskRepository) Complete(ctx context.Context, taskID int64, completedAt time.Time) error {
	query := `
		UPDATE workflow_tasks
		SET complete_ind = 1, completed_at = ?
		WHERE workflow_task_id = ? AND is_deleted = 0
	`
	_, err := r.db.ExecContext(ctx, query, completedAt, taskID)
	if err != nil {
		r.logger.Error("Failed to complete workflow task", zap.Int64("task_id", taskID), zap.Error(err))
		return fmt.Errorf("failed to complete workflow task: %w", err)
	}
	return nil
}

// ListPending returns all open tasks, oldest first.
func (r *WorkflowTaskRepository) ListPending(ctx context.Context) ([]*entity.WorkflowTask, error) {
	query := `
		SELECT workflow_task_id, object_type_id, object_id, assigned_to_employee_id,
			task_description, due_date, complete_ind, completed_at, created_at, is_deleted
		FROM workflow_tasks
		WHERE complete_ind = 0 AND is_deleted = 0
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending workflow tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*entity.WorkflowTask
	for rows.Next() {
		task, err := r.scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workflow task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *WorkflowTaskRepository) scanTask(row rowScanner) (*entity.WorkflowTask, error) {
	var t entity.WorkflowTask
	var dueDate, completedAt sql.NullTime
	err := row.Scan(
		&t.WorkflowTaskID,
		&t.ObjectTypeID,
		&t.ObjectID,
		&t.AssignedToEmployeeID,
		&t.TaskDescription,
		&dueDate,
		&t.CompleteInd,
		&completedAt,
		&t.CreatedAt,
		&t.IsDeleted,
	)
	if err != nil {
		return nil, err
	}
	if dueDate.Valid {
		t.DueDate = &dueDate.Time
	}
	if completedAt.Valid {
		t.CompletedAt = &completedAt.Time
	}
	return &t, nil
}
