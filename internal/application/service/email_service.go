package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/seconnect/ice-backend/internal/application/port"
	"github.com/seconnect/ice-backend/internal/domain/entity"
	"github.com/seconnect/ice-backend/internal/letter"
)

// EmailService formats and dispatches workflow notification emails. The
// template is resolved from message-type configuration, the body formatted
// with the notification's substitution values, and the send outcome mapped
// onto the processing result.
//
// A partial recipient failure records its message but leaves the result
// valid; only a full transport failure invalidates it. The workflow skips
// the status update when the result is invalid.
type EmailService interface {
	SendWorkflowNotification(ctx context.Context, to, cc string, notification *entity.WorkflowNotification) (*entity.ProcessingResult, error)
	SendTemplated(ctx context.Context, req *EmailRequest) (*entity.ProcessingResult, error)
}

// EmailRequest describes one templated email send.
type EmailRequest struct {
	To                 string
	CC                 string
	MessageTypeID      int64
	RequestStatusID    int64
	Template           *entity.EmailTemplate
	SubstitutionParams map[string]string
}

type emailServiceImpl struct {
	templateRepo port.MessageTemplateRepository
	sender       port.EmailSender
	logger       Logger
}

// NewEmailService creates a new EmailService.
func NewEmailService(templateRepo port.MessageTemplateRepository, sender port.EmailSender, logger Logger) EmailService {
	return &emailServiceImpl{
		templateRepo: templateRepo,
		sender:       sender,
		logger:       logger,
	}
}

// SendWorkflowNotification sends the email for a workflow notification,
// resolving the template from the notification's object type and current
// status.
func (s *emailServiceImpl) SendWorkflowNotification(ctx context.Context, to, cc string, notification *entity.WorkflowNotification) (*entity.ProcessingResult, error) {
	return s.SendTemplated(ctx, &EmailRequest{
		To:                 to,
		CC:                 cc,
		MessageTypeID:      notification.ObjectTypeID,
		RequestStatusID:    notification.CurrentStatusID,
		SubstitutionParams: notification.SubstitutionParams,
	})
}

// SendTemplated resolves the template, formats the body and dispatches the
// message. Expected send failures are reported through the result, not as
// errors.
func (s *emailServiceImpl) SendTemplated(ctx context.Context, req *EmailRequest) (*entity.ProcessingResult, error) {
	if req == nil {
		return nil, errors.New("email request is nil")
	}
	result := entity.NewProcessingResult()

	template := req.Template
	if template == nil {
		var err error
		template, err = s.templateRepo.GetTemplate(ctx, req.MessageTypeID, req.RequestStatusID)
		if err != nil {
			return nil, fmt.Errorf("get email template: %w", err)
		}
		if template == nil {
			msg := fmt.Sprintf("No email template configured for message type %d", req.MessageTypeID)
			s.logger.Error(msg, "message_type_id", req.MessageTypeID, "request_status_id", req.RequestStatusID)
			result.AddError(msg)
			return result, nil
		}
	}

	body := template.Body
	if len(req.SubstitutionParams) > 0 {
		body = letter.FormatBody(body, req.SubstitutionParams)
	}

	err := s.sender.SendMail(ctx, body, req.To, template.Subject, req.CC)
	if err != nil {
		var failed *port.FailedRecipientsError
		if errors.As(err, &failed) {
			// Message was accepted for the remaining recipients; record the
			// failure but keep the result valid.
			result.Record("Mailbox Unavailable for user " + strings.Join(failed.Recipients, ","))
			return result, nil
		}
		result.AddError("Unable to send email to users because " + err.Error())
		return result, nil
	}

	s.logger.Info("Email notification sent",
		"to", req.To,
		"message_type_id", req.MessageTypeID)
	return result, nil
}
