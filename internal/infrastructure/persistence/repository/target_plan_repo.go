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

// TargetPlanRepository implements port.TargetPlanRepository over sqlite.
type TargetPlanRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTargetPlanRepository creates a new target plan repository.
func NewTargetPlanRepository(db *sql.DB, logger *zap.Logger) port.TargetPlanRepository {
	return &TargetPlanRepository{db: db, logger: logger}
}

// GetByID returns the non-deleted plan, or nil when none exists.
func (r *TargetPlanRepository) GetByID(ctx context.Context, targetPlanID int64) (*entity.SalesPersonTargetPlan, error) {
	query := `
		SELECT sales_person_target_plan_id, employee_id, planning_period_id, status_code,
			created_by, created_at, modified_by, modified_at, is_deleted
		FROM sales_person_target_plans
		WHERE sales_person_target_plan_id = ? AND is_deleted = 0
	`
	var p entity.SalesPersonTargetPlan
	err := r.db.QueryRowContext(ctx, query, targetPlanID).Scan(
		&p.SalesPersonTargetPlanID,
		&p.EmployeeID,
		&p.PlanningPeriodID,
		&p.StatusCode,
		&p.CreatedBy,
		&p.CreatedAt,
		&p.ModifiedBy,
		&p.ModifiedAt,
		&p.IsDeleted,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get target plan", zap.Int64("target_plan_id", targetPlanID), zap.Error(err))
		return nil, fmt.Errorf("failed to get target plan: %w", err)
	}
	return &p, nil
}

// UpdateStatus writes a plan's status code.
func (r *TargetPlanRepository) UpdateStatus(ctx context.Context, targetPlanID int64, statusCode int64) error {
	query := `
		UPDATE sales_person_target_plans
		SET status_code = ?, modified_at = ?
		WHERE sales_person_target_plan_id = ?
	`
	_, err := r.db.ExecContext(ctx, query, statusCode, time.Now(), targetPlanID)
	if err != nil {
		r.logger.Error("Failed to update target plan status",
			zap.Int64("target_plan_id", targetPlanID),
			zap.Int64("status_code", statusCode),
			zap.Error(err))
		return fmt.Errorf("failed to update target plan status: %w", err)
	}
	return nil
}
