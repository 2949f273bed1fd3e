package port

import (
	"context"
	"time"

	"github.com/seconnect/ice-backend/internal/domain/entity"
)

// ReferenceValueRepository resolves reference-value categories with their
// values. Lookups are read-only and idempotent.
type ReferenceValueRepository interface {
	// GetByName returns the category with the given name including its
	// values, or nil when no such category exists.
	GetByName(ctx context.Context, categoryName string) (*entity.ReferenceValueCategory, error)
}

// SalesLetterVersionRepository defines persistence operations for
// SalesLetterVersion.
type SalesLetterVersionRepository interface {
	// FindVersion returns the non-deleted version matching the letter id and
	// version number, or nil when none exists.
	FindVersion(ctx context.Context, salesLetterID int64, versionNumber int) (*entity.SalesLetterVersion, error)
	Update(ctx context.Context, version *entity.SalesLetterVersion) error
	ListByLetter(ctx context.Context, salesLetterID int64) ([]*entity.SalesLetterVersion, error)
}

// TargetPlanRepository defines persistence operations for
// SalesPersonTargetPlan.
type TargetPlanRepository interface {
	// GetByID returns the non-deleted plan, or nil when none exists.
	GetByID(ctx context.Context, targetPlanID int64) (*entity.SalesPersonTargetPlan, error)
	UpdateStatus(ctx context.Context, targetPlanID int64, statusCode int64) error
}

// EmployeeRepository resolves employees for notification addressing.
type EmployeeRepository interface {
	GetByID(ctx context.Context, employeeID int64) (*entity.Employee, error)
	GetByNumber(ctx context.Context, employeeNumber string) (*entity.Employee, error)
}

// WorkflowSetupRepository returns the externally configured routing rows
// applicable to a notification.
type WorkflowSetupRepository interface {
	// GetWorkflowItems returns the setup rows configured for the
	// notification's object type and current status, sales-org scope
	// included, ordered by setup id.
	GetWorkflowItems(ctx context.Context, notification *entity.WorkflowNotification) ([]*entity.WorkflowSetup, error)
}

// NotificationEmailRepository persists and lists workflow email audit
// records.
type NotificationEmailRepository interface {
	Add(ctx context.Context, record *entity.NotificationEmail) error
	List(ctx context.Context, since time.Time) ([]*entity.NotificationEmail, error)
}

// MessageTemplateRepository resolves the email template configured for a
// message type and request status.
type MessageTemplateRepository interface {
	// GetTemplate returns the configured template, or nil when none is
	// configured.
	GetTemplate(ctx context.Context, messageTypeID, requestStatusID int64) (*entity.EmailTemplate, error)
}

// WorkflowTaskRepository defines persistence operations for WorkflowTask.
type WorkflowTaskRepository interface {
	Create(ctx context.Context, task *entity.WorkflowTask) error
	GetByID(ctx context.Context, taskID int64) (*entity.WorkflowTask, error)
	Complete(ctx context.Context, taskID int64, completedAt time.Time) error
	ListPending(ctx context.Context) ([]*entity.WorkflowTask, error)
}
