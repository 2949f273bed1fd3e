package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/seconnect/ice-backend/internal/application/port"
	"github.com/seconnect/ice-backend/internal/domain/entity"
)

// MessageTemplateRepository implements port.MessageTemplateRepository over
// sqlite.
type MessageTemplateRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMessageTemplateRepository creates a new message template repository.
func NewMessageTemplateRepository(db *sql.DB, logger *zap.Logger) port.MessageTemplateRepository {
	return &MessageTemplateRepository{db: db, logger: logger}
}

// GetTemplate returns the template configured for the message type and
// request status, or nil when none is configured.
func (r *MessageTemplateRepository) GetTemplate(ctx context.Context, messageTypeID, requestStatusID int64) (*entity.EmailTemplate, error) {
	query := `
		SELECT template_id, message_type_id, request_status_id, subject, body
		FROM message_type_templates
		WHERE message_type_id = ? AND request_status_id = ?
	`
	var t entity.EmailTemplate
	err := r.db.QueryRowContext(ctx, query, messageTypeID, requestStatusID).Scan(
		&t.TemplateID,
		&t.MessageTypeID,
		&t.RequestStatusID,
		&t.Subject,
		&t.Body,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get message template",
			zap.Int64("message_type_id", messageTypeID),
			zap.Int64("request_status_id", requestStatusID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get message template: %w", err)
	}
	return &t, nil
}
