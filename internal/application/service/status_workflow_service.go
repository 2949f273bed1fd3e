package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/seconnect/ice-backend/internal/application/port"
	"github.com/seconnect/ice-backend/internal/domain/entity"
	"github.com/seconnect/ice-backend/internal/domain/workflow"
)

// Logger is the minimal logging dependency services take.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// EmailOptions carries the addressing configuration the workflow branches
// on. The derived-recipient path treats SendToDefault as the production
// switch and falls back to the default addresses when it is unset; the
// workflow-setup path reads it the opposite way. Both readings are kept as
// the deployed system behaves.
type EmailOptions struct {
	SendToDefault    bool
	DefaultToAddress string
	DefaultCCAddress string
}

// StatusWorkflowService validates and applies batches of sales-letter
// status-change requests: it checks each transition against persisted state,
// resolves recipients and sends the notification, persists the new status
// with its per-kind side effects, and cascades the status to the linked
// sales-person target plan.
type StatusWorkflowService interface {
	// ProcessStatusBatch processes one batch sharing a category type and
	// target status kind. Expected per-request conditions (letter not found,
	// stale status, missing routing) are collected into the result;
	// precondition violations return an error before any request is touched.
	ProcessStatusBatch(ctx context.Context, requests []entity.StatusUpdateRequest, categoryType string, kind workflow.TransitionKind) (*entity.ProcessingResult, error)

	// ProcessStatusNotification is the explicit-addressing variant: callers
	// supply the recipient lists and routing comes from workflow-setup rows.
	// Only the first applicable row with EmailRequiredInd set is acted on
	// per request.
	ProcessStatusNotification(ctx context.Context, requests []entity.StatusUpdateRequest, categoryType string, kind workflow.TransitionKind, toRecipients, ccRecipients string) (*entity.ProcessingResult, error)

	// SendNotification hands a fully formed notification to the outbound
	// queue for asynchronous processing by the workflow engine.
	SendNotification(ctx context.Context, notification *entity.WorkflowNotification) error
}

type statusWorkflowServiceImpl struct {
	opts          EmailOptions
	queueSubject  string
	referenceRepo port.ReferenceValueRepository
	setupRepo     port.WorkflowSetupRepository
	employeeRepo  port.EmployeeRepository
	letterRepo    port.SalesLetterVersionRepository
	emailAudit    port.NotificationEmailRepository
	planRepo      port.TargetPlanRepository
	emailSender   port.EmailSender
	emailService  EmailService
	userResolver  port.UserResolver
	publisher     port.QueuePublisher
	logger        Logger
	now           func() time.Time
}

// NewStatusWorkflowService creates a new StatusWorkflowService.
func NewStatusWorkflowService(
	opts EmailOptions,
	queueSubject string,
	referenceRepo port.ReferenceValueRepository,
	setupRepo port.WorkflowSetupRepository,
	employeeRepo port.EmployeeRepository,
	letterRepo port.SalesLetterVersionRepository,
	emailAudit port.NotificationEmailRepository,
	planRepo port.TargetPlanRepository,
	emailSender port.EmailSender,
	emailService EmailService,
	userResolver port.UserResolver,
	publisher port.QueuePublisher,
	logger Logger,
) StatusWorkflowService {
	return &statusWorkflowServiceImpl{
		opts:          opts,
		queueSubject:  queueSubject,
		referenceRepo: referenceRepo,
		setupRepo:     setupRepo,
		employeeRepo:  employeeRepo,
		letterRepo:    letterRepo,
		emailAudit:    emailAudit,
		planRepo:      planRepo,
		emailSender:   emailSender,
		emailService:  emailService,
		userResolver:  userResolver,
		publisher:     publisher,
		logger:        logger,
		now:           time.Now,
	}
}

// ProcessStatusBatch processes one batch of status-change requests.
func (s *statusWorkflowServiceImpl) ProcessStatusBatch(ctx context.Context, requests []entity.StatusUpdateRequest, categoryType string, kind workflow.TransitionKind) (*entity.ProcessingResult, error) {
	if len(requests) == 0 {
		return nil, workflow.ErrEmptyBatch
	}

	result := entity.NewProcessingResult()
	var failed []entity.StatusUpdateRequest

	// All requests in a batch share the category and target status; they are
	// resolved once from the first element.
	moduleType := requests[0].ModuleType
	targetCode := requests[0].TargetStatusCode
	targetStatusID, err := s.resolveStatusID(ctx, categoryType, targetCode, false)
	if err != nil {
		return nil, err
	}

	for i := range requests {
		req := &requests[i]

		version, err := s.letterRepo.FindVersion(ctx, req.SalesLetterID, req.VersionNumber)
		if err != nil {
			return nil, fmt.Errorf("find sales letter version: %w", err)
		}
		if version == nil {
			result.AddError(fmt.Sprintf("Sales %d Letter Not Found", req.SalesLetterID))
			continue
		}
		if version.StatusCode != req.CurrentStatusID {
			result.AddError(fmt.Sprintf("Sales Letter %d Status has changed since it was requested", req.SalesLetterID))
			continue
		}

		transitionTime := s.now()
		sent, err := s.resolveAndSendEmail(ctx, req, result, targetStatusID, version)
		if err != nil {
			return nil, err
		}
		if !sent {
			failed = append(failed, *req)
			continue
		}

		if err := s.updateStatus(ctx, version, targetStatusID, kind, req.EmployeeID, transitionTime); err != nil {
			return nil, err
		}

		// Cascade the outcome to the linked target plan. The SETP module
		// always cascades; other modules cascade unless the transition is an
		// escalation update.
		if moduleType == workflow.ObjectTypeSETP || kind != workflow.KindEscalationUpdate {
			if err := s.cascadeTargetPlan(ctx, version, targetCode, result); err != nil {
				return nil, err
			}
		}
	}

	if len(failed) > 0 && !result.HasErrors() {
		result.AddError(fmt.Sprintf(
			"Workflow is not configured for Sales Orgs: %s, Status not changed for sales letters: %s",
			joinInt64s(salesOrgIDs(failed)),
			joinInt64s(salesLetterIDs(failed))))
	}

	return result, nil
}

// ProcessStatusNotification processes a batch with caller-supplied
// recipients, routed through workflow-setup rows. There is no current-status
// precondition on this path and failures to route produce no aggregate
// message.
func (s *statusWorkflowServiceImpl) ProcessStatusNotification(ctx context.Context, requests []entity.StatusUpdateRequest, categoryType string, kind workflow.TransitionKind, toRecipients, ccRecipients string) (*entity.ProcessingResult, error) {
	if len(requests) == 0 {
		return nil, workflow.ErrEmptyBatch
	}

	result := entity.NewProcessingResult()

	// This flow resolves the target status by reference-value name rather
	// than code, matching the setup screens it is driven from.
	targetStatusID, err := s.resolveStatusID(ctx, categoryType, requests[0].TargetStatusCode, true)
	if err != nil {
		return nil, err
	}

	for i := range requests {
		req := &requests[i]

		version, err := s.letterRepo.FindVersion(ctx, req.SalesLetterID, req.VersionNumber)
		if err != nil {
			return nil, fmt.Errorf("find sales letter version: %w", err)
		}
		if version == nil {
			result.AddError(fmt.Sprintf("Sales %d Letter Not Found", req.SalesLetterID))
			continue
		}

		transitionTime := s.now()
		sent, err := s.sendViaWorkflowSetup(ctx, req, result, transitionTime, toRecipients, ccRecipients, targetStatusID)
		if err != nil {
			return nil, err
		}
		if !sent {
			continue
		}

		if err := s.updateStatus(ctx, version, targetStatusID, kind, req.EmployeeID, transitionTime); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// SendNotification publishes the notification to the workflow-tasks queue.
func (s *statusWorkflowServiceImpl) SendNotification(ctx context.Context, notification *entity.WorkflowNotification) error {
	if err := s.publisher.Publish(ctx, s.queueSubject, notification); err != nil {
		s.logger.Error("Failed to enqueue workflow notification",
			"error", err,
			"object_type", notification.ObjectTypeName)
		return fmt.Errorf("enqueue workflow notification: %w", err)
	}
	s.logger.Info("Workflow notification enqueued",
		"object_type", notification.ObjectTypeName,
		"current_status_id", notification.CurrentStatusID)
	return nil
}

// resolveStatusID resolves the target status reference value for a category.
// An unresolvable category or code fails the whole batch up front.
func (s *statusWorkflowServiceImpl) resolveStatusID(ctx context.Context, categoryName, targetCode string, byName bool) (int64, error) {
	category, err := s.referenceRepo.GetByName(ctx, categoryName)
	if err != nil {
		return 0, fmt.Errorf("get reference category %q: %w", categoryName, err)
	}
	if category == nil {
		return 0, fmt.Errorf("%w: %s", workflow.ErrUnknownCategory, categoryName)
	}
	var value *entity.ReferenceValue
	if byName {
		value = category.ValueByName(targetCode)
	} else {
		value = category.ValueByCode(targetCode)
	}
	if value == nil {
		return 0, fmt.Errorf("%w: %s in %s", workflow.ErrUnknownStatusCode, targetCode, categoryName)
	}
	return value.ReferenceValueID, nil
}

// resolveAndSendEmail derives the recipients for a request from the action
// code and sends the notification synchronously. It reports false when the
// send failed validation, in which case the status update must be skipped.
func (s *statusWorkflowServiceImpl) resolveAndSendEmail(ctx context.Context, req *entity.StatusUpdateRequest, result *entity.ProcessingResult, targetStatusID int64, version *entity.SalesLetterVersion) (bool, error) {
	notification := s.buildNotification(ctx, req, targetStatusID)
	if err := s.resolveObjectTypeID(ctx, notification); err != nil {
		return false, err
	}

	toAddress, err := s.defaultToAddress(ctx, req)
	if err != nil {
		return false, err
	}
	ccAddress := ""

	actionCode := req.TargetStatusCode
	userEmail := s.userResolver.GetLoggedInUserEmail(ctx)
	if s.opts.SendToDefault {
		scoEmail, err := s.emailFromVersionCreator(ctx, version)
		if err != nil {
			return false, err
		}
		switch actionCode {
		case workflow.ActionReleased, workflow.ActionEscalationUpdate:
			toAddress = req.EmployeeEmail
			ccAddress = joinAddresses(req.ManagerEmail, userEmail)
			ccAddress = joinAddresses(ccAddress, scoEmail)
		case workflow.ActionRework:
			toAddress = scoEmail
			if toAddress == "" {
				toAddress = userEmail
			}
			ccAddress = joinAddresses(req.ManagerEmail, userEmail)
		case workflow.ActionReworkRequested, workflow.ActionEscalated:
			toAddress = req.ManagerEmail
			ccAddress = joinAddresses(scoEmail, userEmail)
		case workflow.ActionAccepted:
			toAddress = req.ManagerEmail
			ccAddress = joinAddresses(req.EmployeeEmail, userEmail)
			ccAddress = joinAddresses(ccAddress, scoEmail)
		case workflow.ActionNotified:
			toAddress = req.ManagerEmail
			ccAddress = joinAddresses(userEmail, scoEmail)
		case workflow.ActionAuditPassedChanges:
			toAddress = req.EmployeeEmail
			ccAddress = joinAddresses(req.ManagerEmail, userEmail)
			ccAddress = joinAddresses(ccAddress, scoEmail)
		}
	} else {
		toAddress = s.opts.DefaultToAddress
		ccAddress = joinAddresses(s.opts.DefaultCCAddress, userEmail)
	}

	// Synchronous path: format and send only, no durable workflow task.
	res, err := s.emailService.SendWorkflowNotification(ctx, toAddress, ccAddress, notification)
	if err != nil {
		return false, err
	}
	for _, msg := range res.ErrorMessages {
		result.Record(msg)
	}
	if !res.Valid {
		result.Valid = false
		return false, nil
	}
	return true, nil
}

// sendViaWorkflowSetup routes a notification through configured setup rows.
// The first applicable row with EmailRequiredInd is acted on: the email is
// sent, an audit record is written and the remaining rows are ignored.
func (s *statusWorkflowServiceImpl) sendViaWorkflowSetup(ctx context.Context, req *entity.StatusUpdateRequest, result *entity.ProcessingResult, transitionTime time.Time, toRecipients, ccRecipients string, targetStatusID int64) (bool, error) {
	notification := s.buildNotification(ctx, req, targetStatusID)
	if err := s.resolveObjectTypeID(ctx, notification); err != nil {
		return false, err
	}

	setups, err := s.setupRepo.GetWorkflowItems(ctx, notification)
	if err != nil {
		return false, fmt.Errorf("get workflow items: %w", err)
	}
	if len(setups) == 0 {
		result.AddError("Work flow is not setup for sales letter notified status of selected sales organization")
		return false, nil
	}

	for _, setup := range setups {
		if !setup.AppliesTo(req.SalesOrgID) {
			continue
		}
		if !setup.EmailRequiredInd {
			continue
		}

		if s.opts.SendToDefault {
			err = s.emailSender.SendMail(ctx, setup.EmailBody, s.opts.DefaultToAddress, setup.EmailSubject, s.opts.DefaultCCAddress)
		} else {
			err = s.emailSender.SendMail(ctx, setup.EmailBody, toRecipients, setup.EmailSubject, ccRecipients)
		}
		if err != nil {
			return false, fmt.Errorf("send workflow setup email: %w", err)
		}

		record := &entity.NotificationEmail{
			SalesLetterVersionID:  req.SalesLetterVersionID,
			SalesLetterID:         req.SalesLetterID,
			WorkflowSetupID:       setup.WorkflowSetupID,
			NotificationTimestamp: transitionTime,
			RecipientList:         toRecipients,
			CCRecipient:           setup.CCEmail,
			SubjectText:           setup.EmailSubject,
			BodyText:              setup.EmailBody,
		}
		if err := s.emailAudit.Add(ctx, record); err != nil {
			return false, fmt.Errorf("add notification email audit: %w", err)
		}
		return true, nil
	}

	return false, nil
}

// updateStatus writes the resolved status onto the version together with the
// side effects keyed by transition kind.
func (s *statusWorkflowServiceImpl) updateStatus(ctx context.Context, version *entity.SalesLetterVersion, targetStatusID int64, kind workflow.TransitionKind, employeeID int64, transitionTime time.Time) error {
	version.StatusCode = targetStatusID
	switch kind {
	case workflow.KindNotified:
		t := transitionTime
		version.ActiveManagerNotificationTimestamp = &t
		id := employeeID
		version.ActiveManagerEmployeeID = &id
	case workflow.KindReleased:
		t := transitionTime
		version.ReleaseTimestamp = &t
		version.ReleaseInd = true
	}
	if err := s.letterRepo.Update(ctx, version); err != nil {
		return fmt.Errorf("update sales letter version: %w", err)
	}
	s.logger.Info("Sales letter version status updated",
		"sales_letter_id", version.SalesLetterID,
		"version_number", version.VersionNumber,
		"status_code", targetStatusID,
		"kind", kind.String())
	return nil
}

// cascadeTargetPlan re-resolves the target status under the SETP category and
// writes it onto the linked plan. The primary status write has already been
// committed at this point; a cascade failure leaves the pair inconsistent,
// which callers must treat as a partial failure.
func (s *statusWorkflowServiceImpl) cascadeTargetPlan(ctx context.Context, version *entity.SalesLetterVersion, targetCode string, result *entity.ProcessingResult) error {
	setpStatusID, err := s.resolveStatusID(ctx, entity.CategorySETPStatus, targetCode, false)
	if err != nil {
		return err
	}
	plan, err := s.planRepo.GetByID(ctx, version.SalesPersonTargetPlanID)
	if err != nil {
		return fmt.Errorf("get target plan: %w", err)
	}
	if plan == nil {
		result.AddError(fmt.Sprintf("Target Plan %d Not Found for Sales Letter %d", version.SalesPersonTargetPlanID, version.SalesLetterID))
		return nil
	}
	if err := s.planRepo.UpdateStatus(ctx, plan.SalesPersonTargetPlanID, setpStatusID); err != nil {
		return fmt.Errorf("update target plan status: %w", err)
	}
	return nil
}

// emailFromVersionCreator resolves the SCO email from the version's creator:
// the system user has none, an address is used verbatim, and a numeric value
// is treated as an employee number.
func (s *statusWorkflowServiceImpl) emailFromVersionCreator(ctx context.Context, version *entity.SalesLetterVersion) (string, error) {
	createdBy := strings.ToLower(version.CreatedBy)
	if createdBy == "" || createdBy == entity.SystemUser {
		return "", nil
	}
	if strings.Contains(createdBy, "@") {
		return createdBy, nil
	}
	if isDigits(createdBy) {
		emp, err := s.employeeRepo.GetByNumber(ctx, createdBy)
		if err != nil {
			return "", fmt.Errorf("resolve employee number %q: %w", createdBy, err)
		}
		if emp == nil {
			return "", nil
		}
		return emp.Email, nil
	}
	return "", nil
}

// defaultToAddress is the employee's directory email, used when no action
// branch overrides it.
func (s *statusWorkflowServiceImpl) defaultToAddress(ctx context.Context, req *entity.StatusUpdateRequest) (string, error) {
	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return "", fmt.Errorf("get employee %d: %w", req.EmployeeID, err)
	}
	if emp == nil {
		return "", nil
	}
	return emp.Email, nil
}

// buildNotification assembles the notification for a request. SETP-module
// requests are redirected to the sales-letter-management object type.
func (s *statusWorkflowServiceImpl) buildNotification(ctx context.Context, req *entity.StatusUpdateRequest, targetStatusID int64) *entity.WorkflowNotification {
	objectTypeName := req.ModuleType
	if objectTypeName == workflow.ObjectTypeSETP {
		objectTypeName = workflow.ObjectTypeSalesLetterManagement
	}
	return &entity.WorkflowNotification{
		PlanningPeriodID:   req.PlanningPeriodID,
		SalesOrgIDs:        []int64{req.SalesOrgID},
		EffectiveDate:      s.now(),
		PreviousStatusID:   req.CurrentStatusID,
		CurrentStatusID:    targetStatusID,
		ObjectTypeName:     objectTypeName,
		SubstitutionParams: s.substitutionParams(ctx, req),
	}
}

// resolveObjectTypeID attaches the reference-value id for the notification's
// object-type name. A missing entry is tolerated here; routing decides later
// whether anything can be sent.
func (s *statusWorkflowServiceImpl) resolveObjectTypeID(ctx context.Context, notification *entity.WorkflowNotification) error {
	category, err := s.referenceRepo.GetByName(ctx, entity.CategoryObjectType)
	if err != nil {
		return fmt.Errorf("get object type category: %w", err)
	}
	if category == nil {
		return nil
	}
	if value := category.ValueByCode(notification.ObjectTypeName); value != nil {
		notification.ObjectTypeID = value.ReferenceValueID
	}
	return nil
}

func (s *statusWorkflowServiceImpl) substitutionParams(ctx context.Context, req *entity.StatusUpdateRequest) map[string]string {
	return map[string]string{
		entity.ParamDeploymentPeriod:  req.DeploymentPeriod,
		entity.ParamFiscalYear:        req.FiscalYear,
		entity.ParamManagerName:       req.ManagerName,
		entity.ParamSalesOrg:          fmt.Sprintf("%d", req.SalesOrgID),
		entity.ParamSalesRepID:        req.SalesRepID,
		entity.ParamSalesRepName:      req.SalesRepName,
		entity.ParamSalesRepNames:     req.SalesRepName,
		entity.ParamEmployeeEmailID:   req.EmployeeEmail,
		entity.ParamManagerEmailID:    req.ManagerEmail,
		entity.ParamDeploymentManager: req.DeploymentManager,
		entity.ParamSCOAdminName:      s.userResolver.GetSimulatedUserEmail(ctx),
		entity.ParamCommentText:       req.CommentText,
		entity.ParamMgrUpdateText:     req.ManagerUpdateText,
	}
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

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func salesOrgIDs(requests []entity.StatusUpdateRequest) []int64 {
	ids := make([]int64, len(requests))
	for i, r := range requests {
		ids[i] = r.SalesOrgID
	}
	return ids
}

func salesLetterIDs(requests []entity.StatusUpdateRequest) []int64 {
	ids := make([]int64, len(requests))
	for i, r := range requests {
		ids[i] = r.SalesLetterID
	}
	return ids
}

func joinInt64s(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ",")
}
