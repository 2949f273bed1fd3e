package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/seconnect/ice-backend/internal/application/dispatcher"
	"github.com/seconnect/ice-backend/internal/application/port"
	"github.com/seconnect/ice-backend/internal/application/service"
	"github.com/seconnect/ice-backend/internal/domain/entity"
	"github.com/seconnect/ice-backend/internal/domain/event"
	"github.com/seconnect/ice-backend/internal/domain/validation"
)

// NotificationWorker consumes queued workflow notifications and delivers
// them through the configured workflow-setup routing. Notifications with no
// usable routing become workflow tasks so an administrator can follow up.
type NotificationWorker struct {
	conn         *nats.Conn
	subject      string
	setupRepo    port.WorkflowSetupRepository
	taskRepo     port.WorkflowTaskRepository
	emailService service.EmailService
	dispatcher   dispatcher.Dispatcher
	logger       *zap.Logger

	setupValidator validation.Validator[*entity.WorkflowSetup]

	sub *nats.Subscription
}

// NewNotificationWorker creates a worker bound to the given queue subject.
func NewNotificationWorker(
	conn *nats.Conn,
	subject string,
	setupRepo port.WorkflowSetupRepository,
	taskRepo port.WorkflowTaskRepository,
	emailService service.EmailService,
	disp dispatcher.Dispatcher,
	logger *zap.Logger,
) *NotificationWorker {
	return &NotificationWorker{
		conn:         conn,
		subject:      subject,
		setupRepo:    setupRepo,
		taskRepo:     taskRepo,
		emailService: emailService,
		dispatcher:   disp,
		logger:       logger,
		setupValidator: validation.All(
			validation.WorkflowSetupDateRange(),
			validation.WorkflowSetupRecipients(),
		),
	}
}

// Name returns the worker name
func (w *NotificationWorker) Name() string {
	return "notification-worker"
}

// Start subscribes to the queue subject. Messages are processed in the
// subscription's delivery goroutine; the queue group lets multiple instances
// share the load.
func (w *NotificationWorker) Start(ctx context.Context) error {
	sub, err := w.conn.QueueSubscribe(w.subject, "workflow-notifications", func(msg *nats.Msg) {
		w.handleMessage(ctx, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", w.subject, err)
	}
	w.sub = sub
	w.logger.Info("Notification worker subscribed", zap.String("subject", w.subject))
	return nil
}

// Stop drains the subscription so in-flight messages finish.
func (w *NotificationWorker) Stop() error {
	if w.sub == nil {
		return nil
	}
	if err := w.sub.Drain(); err != nil {
		return fmt.Errorf("drain subscription: %w", err)
	}
	return nil
}

func (w *NotificationWorker) handleMessage(ctx context.Context, data []byte) {
	var notification entity.WorkflowNotification
	if err := json.Unmarshal(data, &notification); err != nil {
		w.logger.Error("Discarding malformed notification message", zap.Error(err))
		return
	}

	if err := w.process(ctx, &notification); err != nil {
		w.logger.Error("Failed to process queued notification",
			zap.String("object_type", notification.ObjectTypeName),
			zap.Int64("current_status_id", notification.CurrentStatusID),
			zap.Error(err))
	}
}

// process resolves routing for one notification and sends the email. The
// first applicable setup row with the email indicator set wins.
func (w *NotificationWorker) process(ctx context.Context, notification *entity.WorkflowNotification) error {
	setups, err := w.setupRepo.GetWorkflowItems(ctx, notification)
	if err != nil {
		return fmt.Errorf("get workflow setups: %w", err)
	}

	setup := w.matchSetup(ctx, setups, notification)
	if setup == nil {
		return w.recordUnroutable(ctx, notification)
	}

	result, err := w.emailService.SendTemplated(ctx, &service.EmailRequest{
		To: notification.SubstitutionParams[entity.ParamEmployeeEmailID],
		CC: joinAddresses(notification.SubstitutionParams[entity.ParamManagerEmailID], setup.CCEmail),
		Template: &entity.EmailTemplate{
			Subject: setup.EmailSubject,
			Body:    setup.EmailBody,
		},
		SubstitutionParams: notification.SubstitutionParams,
	})
	if err != nil {
		return fmt.Errorf("send notification email: %w", err)
	}

	eventType := event.TypeNotificationSent
	if !result.Valid {
		eventType = event.TypeNotificationFailed
	}
	w.dispatcher.DispatchAsync(ctx, event.NewEvent(eventType, 0, notification.CurrentStatusID, map[string]interface{}{
		"object_type": notification.ObjectTypeName,
		"messages":    result.ErrorMessages,
	}))
	return nil
}

// matchSetup returns the first applicable row that requires email and passes
// configuration validation. Misconfigured rows are skipped, not fatal.
func (w *NotificationWorker) matchSetup(ctx context.Context, setups []*entity.WorkflowSetup, notification *entity.WorkflowNotification) *entity.WorkflowSetup {
	for _, setup := range setups {
		if !setup.EmailRequiredInd {
			continue
		}
		if res := w.setupValidator.Validate(ctx, setup, validation.ActionUpdate); !res.Valid {
			w.logger.Error("Skipping misconfigured workflow setup",
				zap.Int64("workflow_setup_id", setup.WorkflowSetupID),
				zap.String("reason", res.Message))
			continue
		}
		for _, orgID := range notification.SalesOrgIDs {
			if setup.AppliesTo(orgID) {
				return setup
			}
		}
	}
	return nil
}

// recordUnroutable files a workflow task so the missing setup gets fixed
// instead of the notification silently disappearing.
func (w *NotificationWorker) recordUnroutable(ctx context.Context, notification *entity.WorkflowNotification) error {
	task := &entity.WorkflowTask{
		ObjectTypeID: notification.ObjectTypeID,
		ObjectID:     notification.PlanningPeriodID,
		TaskDescription: fmt.Sprintf(
			"Workflow is not set up for %s status %d; notification could not be delivered",
			notification.ObjectTypeName, notification.CurrentStatusID),
	}
	if err := w.taskRepo.Create(ctx, task); err != nil {
		return fmt.Errorf("record unroutable notification: %w", err)
	}

	w.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeNotificationFailed, 0, notification.CurrentStatusID, map[string]interface{}{
		"object_type":      notification.ObjectTypeName,
		"workflow_task_id": task.WorkflowTaskID,
	}))
	w.logger.Info("Unroutable notification recorded as workflow task",
		zap.String("object_type", notification.ObjectTypeName),
		zap.Int64("workflow_task_id", task.WorkflowTaskID))
	return nil
}

func joinAddresses(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + "," + b
	}
}
