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

// SalesLetterVersionRepository implements port.SalesLetterVersionRepository
// over sqlite.
type SalesLetterVersionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSalesLetterVersionRepository creates a new sales letter version
// repository.
func NewSalesLetterVersionRepository(db *sql.DB, logger *zap.Logger) port.SalesLetterVersionRepository {
	return &SalesLetterVersionRepository{db: db, logger: logger}
}

const salesLetterVersionColumns = `
	sales_letter_version_id, sales_letter_id, version_number, status_code,
	release_ind, release_timestamp,
	active_manager_employee_id, active_manager_notification_timestamp,
	sales_person_target_plan_id,
	created_by, created_at, modified_by, modified_at, is_deleted
`

// FindVersion returns the non-deleted version for a letter and version
// number, or nil when none exists.
func (r *SalesLetterVersionRepository) FindVersion(ctx context.Context, salesLetterID int64, versionNumber int) (*entity.SalesLetterVersion, error) {
	query := `
		SELECT ` + salesLetterVersionColumns + `
		FROM sales_letter_versions
		WHERE sales_letter_id = ? AND version_number = ? AND is_deleted = 0
	`
	version, err := r.scanVersion(r.db.QueryRowContext(ctx, query, salesLetterID, versionNumber))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to find sales letter version",
			zap.Int64("sales_letter_id", salesLetterID),
			zap.Int("version_number", versionNumber),
			zap.Error(err))
		return nil, fmt.Errorf("failed to find sales letter version: %w", err)
	}
	return version, nil
}

// Update writes the version's status and workflow fields.
func (r *SalesLetterVersionRepository) Update(ctx context.Context, v *entity.SalesLetterVersion) error {
	query := `
		UPDATE sales_letter_versions
		SET status_code = ?,
			release_ind = ?,
			release_timestamp = ?,
			active_manager_employee_id = ?,
			active_manager_notification_timestamp = ?,
			modified_at = ?
		WHERE sales_letter_version_id = ?
	`
	_, err := r.db.ExecContext(ctx, query,
		v.StatusCode,
		v.ReleaseInd,
		nullableTime(v.ReleaseTimestamp),
		nullableInt64(v.ActiveManagerEmployeeID),
		nullableTime(v.ActiveManagerNotificationTimestamp),
		time.Now(),
		v.SalesLetterVersionID,
	)
	if err != nil {
		r.logger.Error("Failed to update sales letter version",
			zap.Int64("sales_letter_version_id", v.SalesLetterVersionID),
			zap.Error(err))
		return fmt.Errorf("failed to update sales letter version: %w", err)
	}
	return nil
}

// ListByLetter returns all non-deleted versions of a letter, newest first.
func (r *SalesLetterVersionRepository) ListByLetter(ctx context.Context, salesLetterID int64) ([]*entity.SalesLetterVersion, error) {
	query := `
		SELECT ` + salesLetterVersionColumns + `
		FROM sales_letter_versions
		WHERE sales_letter_id = ? AND is_deleted = 0
		ORDER BY version_number DESC
	`
	rows, err := r.db.QueryContext(ctx, query, salesLetterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales letter versions: %w", err)
	}
	defer rows.Close()

	var versions []*entity.SalesLetterVersion
	for rows.Next() {
		v, err := r.scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sales letter version: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *SalesLetterVersionRepository) scanVersion(row rowScanner) (*entity.SalesLetterVersion, error) {
	var v entity.SalesLetterVersion
	var releaseTS, managerTS sql.NullTime
	var managerID sql.NullInt64
	err := row.Scan(
		&v.SalesLetterVersionID,
		&v.SalesLetterID,
		&v.VersionNumber,
		&v.StatusCode,
		&v.ReleaseInd,
		&releaseTS,
		&managerID,
		&managerTS,
		&v.SalesPersonTargetPlanID,
		&v.CreatedBy,
		&v.CreatedAt,
		&v.ModifiedBy,
		&v.ModifiedAt,
		&v.IsDeleted,
	)
	if err != nil {
		return nil, err
	}
	if releaseTS.Valid {
		v.ReleaseTimestamp = &releaseTS.Time
	}
	if managerTS.Valid {
		v.ActiveManagerNotificationTimestamp = &managerTS.Time
	}
	if managerID.Valid {
		v.ActiveManagerEmployeeID = &managerID.Int64
	}
	return &v, nil
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func nullableInt64(i *int64) interface{} {
	if i == nil {
		return nil
	}
	return *i
}
