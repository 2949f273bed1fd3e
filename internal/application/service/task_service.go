package service

import (
	"context"
	"fmt"
	"time"

	"github.com/seconnect/ice-backend/internal/application/port"
	"github.com/seconnect/ice-backend/internal/domain/entity"
)

// TaskService manages the workflow tasks produced by the asynchronous
// notification path.
type TaskService interface {
	CreateTask(ctx context.Context, task *entity.WorkflowTask) error
	CompleteTasks(ctx context.Context, taskIDs []int64) []*entity.ProcessingResult
	ListPendingTasks(ctx context.Context) ([]*entity.WorkflowTask, error)
}

type taskServiceImpl struct {
	taskRepo port.WorkflowTaskRepository
	logger   Logger
	now      func() time.Time
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo port.WorkflowTaskRepository, logger Logger) TaskService {
	return &taskServiceImpl{
		taskRepo: taskRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateTask records a new pending workflow task.
func (s *taskServiceImpl) CreateTask(ctx context.Context, task *entity.WorkflowTask) error {
	if err := s.taskRepo.Create(ctx, task); err != nil {
		s.logger.Error("Failed to create workflow task", "error", err, "object_id", task.ObjectID)
		return fmt.Errorf("create workflow task: %w", err)
	}
	s.logger.Info("Workflow task created",
		"task_id", task.WorkflowTaskID,
		"object_id", task.ObjectID,
		"assigned_to", task.AssignedToEmployeeID)
	return nil
}

// CompleteTasks marks each task complete, collecting a result per task.
// Tasks that cannot be completed fail individually; the rest proceed.
func (s *taskServiceImpl) CompleteTasks(ctx context.Context, taskIDs []int64) []*entity.ProcessingResult {
	results := make([]*entity.ProcessingResult, 0, len(taskIDs))
	completedAt := s.now()
	for _, id := range taskIDs {
		result := entity.NewProcessingResult()
		task, err := s.taskRepo.GetByID(ctx, id)
		if err != nil {
			result.AddError(fmt.Sprintf("Workflow Task %d could not be read: %v", id, err))
			results = append(results, result)
			continue
		}
		if task == nil {
			result.AddError(fmt.Sprintf("Workflow Task %d Not Found", id))
			results = append(results, result)
			continue
		}
		if err := s.taskRepo.Complete(ctx, id, completedAt); err != nil {
			result.AddError(fmt.Sprintf("Workflow Task %d could not be completed: %v", id, err))
		}
		results = append(results, result)
	}
	return results
}

// ListPendingTasks returns all open tasks.
func (s *taskServiceImpl) ListPendingTasks(ctx context.Context) ([]*entity.WorkflowTask, error) {
	tasks, err := s.taskRepo.ListPending(ctx)
	if err != nil {
		s.logger.Error("Failed to list pending workflow tasks", "error", err)
		return nil, fmt.Errorf("list pending workflow tasks: %w", err)
	}
	return tasks, nil
}
