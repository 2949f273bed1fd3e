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

// NotificationEmailRepository implements port.NotificationEmailRepository
// over sqlite.
type NotificationEmailRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewNotificationEmailRepository creates a new notification email
// repository.
func NewNotificationEmailRepository(db *sql.DB, logger *zap.Logger) port.NotificationEmailRepository {
	return &NotificationEmailRepository{db: db, logger: logger}
}

// Add persists one audit record.
func (r *NotificationEmailRepository) Add(ctx context.Context, rec *entity.NotificationEmail) error {
	query := `
		INSERT INTO sales_letter_notification_emails (
			sales_letter_version_id, sales_letter_id, workflow_setup_id,
			notification_timestamp, recipient_list, cc_recipient,
			subject_text, body_text, is_deleted
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)
	`
	result, err := r.db.ExecContext(ctx, query,
		rec.SalesLetterVersionID,
		rec.SalesLetterID,
		rec.WorkflowSetupID,
		rec.NotificationTimestamp,
		rec.RecipientList,
		rec.CCRecipient,
		rec.SubjectText,
		rec.BodyText,
	)
	if err != nil {
		r.logger.Error("Failed to add notification email audit", zap.Error(err))
		return fmt.Errorf("failed to add notification email audit: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	rec.NotificationEmailID = id
	return nil
}

// List returns non-deleted audit records at or after the given time, newest
// first.
func (r *NotificationEmailRepository) List(ctx context.Context, since time.Time) ([]*entity.NotificationEmail, error) {
	query := `
		SELECT notification_email_id, sales_letter_version_id, sales_letter_id,
			workflow_setup_id, notification_timestamp, recipient_list,
			cc_recipient, subject_text, body_text
		FROM sales_letter_notification_emails
		WHERE notification_timestamp >= ? AND is_deleted = 0
		ORDER BY notification_timestamp DESC
	`
	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		r.logger.Error("Failed to list notification emails", zap.Error(err))
		return nil, fmt.Errorf("failed to list notification emails: %w", err)
	}
	defer rows.Close()

	var records []*entity.NotificationEmail
	for rows.Next() {
		var rec entity.NotificationEmail
		if err := rows.Scan(
			&rec.NotificationEmailID,
			&rec.SalesLetterVersionID,
			&rec.SalesLetterID,
			&rec.WorkflowSetupID,
			&rec.NotificationTimestamp,
			&rec.RecipientList,
			&rec.CCRecipient,
			&rec.SubjectText,
			&rec.BodyText,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notification email: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
