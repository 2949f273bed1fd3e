package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/seconnect/ice-backend/internal/application/port"
	"github.com/seconnect/ice-backend/internal/domain/entity"
)

// WorkflowSetupRepository implements port.WorkflowSetupRepository over
// sqlite.
type WorkflowSetupRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewWorkflowSetupRepository creates a new workflow setup repository.
func NewWorkflowSetupRepository(db *sql.DB, logger *zap.Logger) port.WorkflowSetupRepository {
	return &WorkflowSetupRepository{db: db, logger: logger}
}

// GetWorkflowItems returns the setup rows configured for the notification's
// object type and current status, including their sales-org scope.
func (r *WorkflowSetupRepository) GetWorkflowItems(ctx context.Context, notification *entity.WorkflowNotification) ([]*entity.WorkflowSetup, error) {
	query := `
		SELECT workflow_setup_id, object_type_id, status_id, email_required_ind,
			email_subject, email_body, cc_email,
			effective_start_date, effective_end_date
		FROM workflow_setups
		WHERE object_type_id = ? AND status_id = ? AND is_deleted = 0
		ORDER BY workflow_setup_id
	`
	rows, err := r.db.QueryContext(ctx, query, notification.ObjectTypeID, notification.CurrentStatusID)
	if err != nil {
		r.logger.Error("Failed to get workflow setups",
			zap.Int64("object_type_id", notification.ObjectTypeID),
			zap.Int64("status_id", notification.CurrentStatusID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get workflow setups: %w", err)
	}
	defer rows.Close()

	var setups []*entity.WorkflowSetup
	for rows.Next() {
		var s entity.WorkflowSetup
		var endDate sql.NullTime
		if err := rows.Scan(
			&s.WorkflowSetupID,
			&s.ObjectTypeID,
			&s.StatusID,
			&s.EmailRequiredInd,
			&s.EmailSubject,
			&s.EmailBody,
			&s.CCEmail,
			&s.EffectiveStartDate,
			&endDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan workflow setup: %w", err)
		}
		if endDate.Valid {
			s.EffectiveEndDate = &endDate.Time
		}
		setups = append(setups, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate workflow setups: %w", err)
	}

	for _, s := range setups {
		orgIDs, err := r.salesOrgIDs(ctx, s.WorkflowSetupID)
		if err != nil {
			return nil, err
		}
		s.SalesOrgIDs = orgIDs
	}
	return setups, nil
}

func (r *WorkflowSetupRepository) salesOrgIDs(ctx context.Context, setupID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT sales_organization_id
		FROM workflow_setup_sales_orgs
		WHERE workflow_setup_id = ?
	`, setupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow setup sales orgs: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan sales org id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
