package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seconnect/ice-backend/internal/domain/entity"
	"github.com/seconnect/ice-backend/internal/domain/workflow"
)

// Mock implementations

type mockReferenceRepo struct {
	categories map[string]*entity.ReferenceValueCategory
	err        error
}

func (m *mockReferenceRepo) GetByName(ctx context.Context, name string) (*entity.ReferenceValueCategory, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.categories[name], nil
}

type mockLetterRepo struct {
	versions map[int64]*entity.SalesLetterVersion
	updated  []*entity.SalesLetterVersion
}

func (m *mockLetterRepo) FindVersion(ctx context.Context, salesLetterID int64, versionNumber int) (*entity.SalesLetterVersion, error) {
	v, ok := m.versions[salesLetterID]
	if !ok || v.VersionNumber != versionNumber {
		return nil, nil
	}
	return v, nil
}

func (m *mockLetterRepo) Update(ctx context.Context, version *entity.SalesLetterVersion) error {
	m.updated = append(m.updated, version)
	return nil
}

func (m *mockLetterRepo) ListByLetter(ctx context.Context, salesLetterID int64) ([]*entity.SalesLetterVersion, error) {
	return nil, nil
}

type planUpdate struct {
	planID   int64
	statusID int64
}

type mockPlanRepo struct {
	plans   map[int64]*entity.SalesPersonTargetPlan
	updates []planUpdate
}

func (m *mockPlanRepo) GetByID(ctx context.Context, id int64) (*entity.SalesPersonTargetPlan, error) {
	return m.plans[id], nil
}

func (m *mockPlanRepo) UpdateStatus(ctx context.Context, id, statusCode int64) error {
	m.updates = append(m.updates, planUpdate{planID: id, statusID: statusCode})
	return nil
}

type mockEmployeeRepo struct {
	byID     map[int64]*entity.Employee
	byNumber map[string]*entity.Employee
}

func (m *mockEmployeeRepo) GetByID(ctx context.Context, id int64) (*entity.Employee, error) {
	return m.byID[id], nil
}

func (m *mockEmployeeRepo) GetByNumber(ctx context.Context, number string) (*entity.Employee, error) {
	return m.byNumber[number], nil
}

type mockSetupRepo struct {
	setups []*entity.WorkflowSetup
	err    error
}

func (m *mockSetupRepo) GetWorkflowItems(ctx context.Context, n *entity.WorkflowNotification) ([]*entity.WorkflowSetup, error) {
	return m.setups, m.err
}

type mockAuditRepo struct {
	records []*entity.NotificationEmail
}

func (m *mockAuditRepo) Add(ctx context.Context, rec *entity.NotificationEmail) error {
	m.records = append(m.records, rec)
	return nil
}

func (m *mockAuditRepo) List(ctx context.Context, since time.Time) ([]*entity.NotificationEmail, error) {
	return m.records, nil
}

type sendCall struct {
	body    string
	to      string
	subject string
	cc      string
}

type mockSender struct {
	calls []sendCall
	err   error
}

func (m *mockSender) SendMail(ctx context.Context, body, to, subject, cc string) error {
	m.calls = append(m.calls, sendCall{body: body, to: to, subject: subject, cc: cc})
	return m.err
}

type notifyCall struct {
	to string
	cc string
}

type mockEmailService struct {
	calls  []notifyCall
	sendFn func(to, cc string) (*entity.ProcessingResult, error)
}

func (m *mockEmailService) SendWorkflowNotification(ctx context.Context, to, cc string, n *entity.WorkflowNotification) (*entity.ProcessingResult, error) {
	m.calls = append(m.calls, notifyCall{to: to, cc: cc})
	if m.sendFn != nil {
		return m.sendFn(to, cc)
	}
	return entity.NewProcessingResult(), nil
}

func (m *mockEmailService) SendTemplated(ctx context.Context, req *EmailRequest) (*entity.ProcessingResult, error) {
	return entity.NewProcessingResult(), nil
}

type mockResolver struct {
	user      string
	simulated string
}

func (m *mockResolver) GetLoggedInUserEmail(ctx context.Context) string { return m.user }

func (m *mockResolver) GetSimulatedUserEmail(ctx context.Context) string {
	if m.simulated != "" {
		return m.simulated
	}
	return m.user
}

type publishedMsg struct {
	subject string
	payload interface{}
}

type mockPublisher struct {
	published []publishedMsg
	err       error
}

func (m *mockPublisher) Publish(ctx context.Context, subject string, payload interface{}) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, publishedMsg{subject: subject, payload: payload})
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

// Fixture

var fixedNow = time.Date(2026, 5, 14, 10, 30, 0, 0, time.UTC)

func statusCategory(name string, base int64) *entity.ReferenceValueCategory {
	codes := []string{
		workflow.ActionNotified,
		workflow.ActionReleased,
		workflow.ActionEscalationUpdate,
		workflow.ActionRework,
		workflow.ActionReworkRequested,
		workflow.ActionEscalated,
		workflow.ActionAccepted,
		workflow.ActionAuditPassedChanges,
	}
	cat := &entity.ReferenceValueCategory{CategoryName: name}
	for i, code := range codes {
		cat.Values = append(cat.Values, entity.ReferenceValue{
			ReferenceValueID: base + int64(i),
			Code:             code,
			Name:             code,
		})
	}
	return cat
}

func objectTypeCategory() *entity.ReferenceValueCategory {
	return &entity.ReferenceValueCategory{
		CategoryName: entity.CategoryObjectType,
		Values: []entity.ReferenceValue{
			{ReferenceValueID: 301, Code: workflow.ObjectTypeSETP},
			{ReferenceValueID: 302, Code: workflow.ObjectTypeSalesLetterManagement},
		},
	}
}

type fixture struct {
	refs      *mockReferenceRepo
	letters   *mockLetterRepo
	plans     *mockPlanRepo
	employees *mockEmployeeRepo
	setups    *mockSetupRepo
	audit     *mockAuditRepo
	sender    *mockSender
	email     *mockEmailService
	resolver  *mockResolver
	publisher *mockPublisher
	svc       *statusWorkflowServiceImpl
}

func newFixture(opts EmailOptions) *fixture {
	f := &fixture{
		refs: &mockReferenceRepo{categories: map[string]*entity.ReferenceValueCategory{
			entity.CategorySalesLetterStatus: statusCategory(entity.CategorySalesLetterStatus, 100),
			entity.CategorySETPStatus:        statusCategory(entity.CategorySETPStatus, 200),
			entity.CategoryObjectType:        objectTypeCategory(),
		}},
		letters:   &mockLetterRepo{versions: make(map[int64]*entity.SalesLetterVersion)},
		plans:     &mockPlanRepo{plans: make(map[int64]*entity.SalesPersonTargetPlan)},
		employees: &mockEmployeeRepo{byID: make(map[int64]*entity.Employee), byNumber: make(map[string]*entity.Employee)},
		setups:    &mockSetupRepo{},
		audit:     &mockAuditRepo{},
		sender:    &mockSender{},
		email:     &mockEmailService{},
		resolver:  &mockResolver{user: "analyst@example.com"},
		publisher: &mockPublisher{},
	}
	f.svc = &statusWorkflowServiceImpl{
		opts:          opts,
		queueSubject:  "workflow.tasks.notification",
		referenceRepo: f.refs,
		setupRepo:     f.setups,
		employeeRepo:  f.employees,
		letterRepo:    f.letters,
		emailAudit:    f.audit,
		planRepo:      f.plans,
		emailSender:   f.sender,
		emailService:  f.email,
		userResolver:  f.resolver,
		publisher:     f.publisher,
		logger:        nopLogger{},
		now:           func() time.Time { return fixedNow },
	}
	return f
}

func (f *fixture) addVersion(letterID int64, versionNumber int, statusID int64, planID int64) *entity.SalesLetterVersion {
	v := &entity.SalesLetterVersion{
		SalesLetterVersionID:    letterID * 10,
		SalesLetterID:           letterID,
		VersionNumber:           versionNumber,
		StatusCode:              statusID,
		SalesPersonTargetPlanID: planID,
		CreatedBy:               "sco.admin@example.com",
	}
	f.letters.versions[letterID] = v
	return v
}

func (f *fixture) addPlan(planID int64) {
	f.plans.plans[planID] = &entity.SalesPersonTargetPlan{SalesPersonTargetPlanID: planID}
}

func baseRequest(letterID int64, currentStatusID int64, targetCode string) entity.StatusUpdateRequest {
	return entity.StatusUpdateRequest{
		SalesLetterID:    letterID,
		VersionNumber:    1,
		EmployeeID:       42,
		CurrentStatusID:  currentStatusID,
		TargetStatusCode: targetCode,
		ModuleType:       workflow.ObjectTypeSalesLetterManagement,
		SalesOrgID:       7,
		EmployeeEmail:    "rep@example.com",
		ManagerEmail:     "manager@example.com",
	}
}

// Tests

func TestProcessStatusBatch_EmptyBatch(t *testing.T) {
	f := newFixture(EmailOptions{SendToDefault: true})
	_, err := f.svc.ProcessStatusBatch(context.Background(), nil, entity.CategorySalesLetterStatus, workflow.KindAccepted)
	assert.ErrorIs(t, err, workflow.ErrEmptyBatch)
}

func TestProcessStatusBatch_UnknownCategory(t *testing.T) {
	f := newFixture(EmailOptions{SendToDefault: true})
	reqs := []entity.StatusUpdateRequest{baseRequest(501, 100, workflow.ActionAccepted)}

	_, err := f.svc.ProcessStatusBatch(context.Background(), reqs, "NoSuchCategory", workflow.KindAccepted)
	assert.ErrorIs(t, err, workflow.ErrUnknownCategory)
	assert.Empty(t, f.letters.updated, "no request should have been processed")
}

func TestProcessStatusBatch_UnknownStatusCode(t *testing.T) {
	f := newFixture(EmailOptions{SendToDefault: true})
	reqs := []entity.StatusUpdateRequest{baseRequest(501, 100, "NoSuchStatus")}

	_, err := f.svc.ProcessStatusBatch(context.Background(), reqs, entity.CategorySalesLetterStatus, workflow.KindAccepted)
	assert.ErrorIs(t, err, workflow.ErrUnknownStatusCode)
}

func TestProcessStatusBatch_LetterNotFound(t *testing.T) {
	f := newFixture(EmailOptions{SendToDefault: true})
	reqs := []entity.StatusUpdateRequest{baseRequest(501, 100, workflow.ActionAccepted)}

	result, err := f.svc.ProcessStatusBatch(context.Background(), reqs, entity.CategorySalesLetterStatus, workflow.KindAccepted)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Contains(t, result.ErrorMessages, "Sales 501 Letter Not Found")
	assert.Empty(t, f.letters.updated)
}

func TestProcessStatusBatch_StaleStatus(t *testing.T) {
	f := newFixture(EmailOptions{SendToDefault: true})
	f.addVersion(501, 1, 999, 61)
	reqs := []entity.StatusUpdateRequest{baseRequest(501, 100, workflow.ActionAccepted)}

	result, err := f.svc.ProcessStatusBatch(context.Background(), reqs, entity.CategorySalesLetterStatus, workflow.KindAccepted)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Contains(t, result.ErrorMessages, "Sales Letter 501 Status has changed since it was requested")
	assert.Empty(t, f.email.calls, "no email should be attempted for a stale letter")
}

func TestProcessStatusBatch_NotifiedSideEffects(t *testing.T) {
	f := newFixture(EmailOptions{SendToDefault: true})
	v := f.addVersion(501, 1, 100, 61)
	f.addPlan(61)
	reqs := []entity.StatusUpdateRequest{baseRequest(501, 100, workflow.ActionNotified)}

	result, err := f.svc.ProcessStatusBatch(context.Background(), reqs, entity.CategorySalesLetterStatus, workflow.KindNotified)
	require.NoError(t, err)
	assert.True(t, result.Valid)

	require.Len(t, f.letters.updated, 1)
	assert.Equal(t, int64(100), v.StatusCode, "resolved Notified id")
	require.NotNil(t, v.ActiveManagerEmployeeID)
	assert.Equal(t, int64(42), *v.ActiveManagerEmployeeID)
	require.NotNil(t, v.ActiveManagerNotificationTimestamp)
	assert.Equal(t, fixedNow, *v.ActiveManagerNotificationTimestamp)
	assert.False(t, v.ReleaseInd)
}

func TestProcessStatusBatch_ReleasedSideEffects(t *testing.T) {
	f := newFixture(EmailOptions{SendToDefault: true})
	v := f.addVersion(501, 1, 100, 61)
	f.addPlan(61)
	reqs := []entity.StatusUpdateRequest{baseRequest(501, 100, workflow.ActionReleased)}

	result, err := f.svc.ProcessStatusBatch(context.Background(), reqs, entity.CategorySalesLetterStatus, workflow.KindReleased)
	require.NoError(t, err)
	assert.True(t, result.Valid)

	assert.True(t, v.ReleaseInd)
	require.NotNil(t, v.ReleaseTimestamp)
	assert.Equal(t, fixedNow, *v.ReleaseTimestamp)
	assert.Nil(t, v.ActiveManagerEmployeeID)
}

func TestProcessStatusBatch_ProductionRecipients(t *testing.T) {
	tests := []struct {
		name       string
		targetCode string
		kind       workflow.TransitionKind
		wantTo     string
		wantCC     string
	}{
		{
			name:       "accepted goes to manager",
			targetCode: workflow.ActionAccepted,
			kind:       workflow.KindAccepted,
			wantTo:     "manager@example.com",
			wantCC:     "rep@example.com,analyst@example.com,sco.admin@example.com",
		},
		{
			name:       "released goes to employee",
			targetCode: workflow.ActionReleased,
			kind:       workflow.KindReleased,
			wantTo:     "rep@example.com",
			wantCC:     "manager@example.com,analyst@example.com,sco.admin@example.com",
		},
		{
			name:       "rework requested goes to manager",
			targetCode: workflow.ActionReworkRequested,
			kind:       workflow.KindReworkRequested,
			wantTo:     "manager@example.com",
			wantCC:     "sco.admin@example.com,analyst@example.com",
		},
		{
			name:       "rework goes to version creator",
			targetCode: workflow.ActionRework,
			kind:       workflow.KindRework,
			wantTo:     "sco.admin@example.com",
			wantCC:     "manager@example.com,analyst@example.com",
		},
		{
			name:       "notified goes to manager",
			targetCode: workflow.ActionNotified,
			kind:       workflow.KindNotified,
			wantTo:     "manager@example.com",
			wantCC:     "analyst@example.com,sco.admin@example.com",
		},
		{
			name:       "audit passed with changes goes to employee",
			targetCode: workflow.ActionAuditPassedChanges,
			kind:       workflow.KindUpdate,
			wantTo:     "rep@example.com",
			wantCC:     "manager@example.com,analyst@example.com,sco.admin@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(EmailOptions{SendToDefault: true})
			f.addVersion(501, 1, 100, 61)
			f.addPlan(61)
			reqs := []entity.StatusUpdateRequest{baseRequest(501, 100, tt.targetCode)}

			result, err := f.svc.ProcessStatusBatch(context.Background(), reqs, entity.CategorySalesLetterStatus, tt.kind)
			require.NoError(t, err)
			assert.True(t, result.Valid)

			require.Len(t, f.email.calls, 1)
			assert.Equal(t, tt.wantTo, f.email.calls[0].to)
			assert.Equal(t, tt.wantCC, f.email.calls[0].cc)
		})
	}
}

func TestProcessStatusBatch_DefaultAddressing(t *testing.T) {
	f := newFixture(EmailOptions{
		SendToDefault:    false,
		DefaultToAddress: "test-inbox@example.com",
		DefaultCCAddress: "test-cc@example.com",
	})
	f.addVersion(501, 1, 100, 61)
	f.addPlan(61)
	reqs := []entity.StatusUpdateRequest{baseRequest(501, 100, workflow.ActionAccepted)}

	result, err := f.svc.ProcessStatusBatch(context.Background(), reqs, entity.CategorySalesLetterStatus, workflow.KindAccepted)
	require.NoError(t, err)
	assert.True(t, result.Valid)

	require.Len(t, f.email.calls, 1)
	assert.Equal(t, "test-inbox@example.com", f.email.calls[0].to)
	assert.Equal(t, "test-cc@example.com,analyst@example.com", f.email.calls[0].cc)
}

func TestProcessStatusBatch_CreatorByEmployeeNumber(t *testing.T) {
	f := newFixture(EmailOptions{SendToDefault: true})
	v := f.addVersion(501, 1, 100, 61)
	v.CreatedBy = "90217"
	f.employees.byNumber["90217"] = &entity.Employee{EmployeeID: 9, Email: "creator@example.com"}
	f.addPlan(61)
	reqs := []entity.StatusUpdateRequest{baseRequest(501, 100, workflow.ActionRework)}

	_, err := f.svc.ProcessStatusBatch(context.Background(), reqs, entity.CategorySalesLetterStatus, workflow.KindRework)
	require.NoError(t, err)

	require.Len(t, f.email.calls, 1)
	assert.Equal(t, "creator@example.com", f.email.calls[0].to)
}

func TestProcessStatusBatch_SystemCreatorFallsBackToUser(t *testing.T) {
	f := newFixture(EmailOptions{SendToDefault: true})
	v := f.addVersion(501, 1, 100, 61)
	v.CreatedBy = entity.SystemUser
	f.addPlan(61)
	reqs := []entity.StatusUpdateRequest{baseRequest(501, 100, workflow.ActionRework)}

	_, err := f.svc.ProcessStatusBatch(context.Background(), reqs, entity.CategorySalesLetterStatus, workflow.KindRework)
	require.NoError(t, err)

	require.Len(t, f.email.calls, 1)
	assert.Equal(t, "analyst@example.com", f.email.calls[0].to)
}

func TestProcessStatusBatch_CascadeTargetPlan(t *testing.T) {
	f := newFixture(EmailOptions{SendToDefault: true})
	f.addVersion(501, 1, 100, 61)
	f.addPlan(61)
	reqs := []entity.StatusUpdateRequest{baseRequest(501, 100, workflow.ActionAccepted)}

	result, err := f.svc.ProcessStatusBatch(context.Background(), reqs, entity.CategorySalesLetterStatus, workflow.KindAccepted)
	require.NoError(t, err)
	assert.True(t, result.Valid)

	// Accepted resolves to 206 under the SETP category (base 200, index 6).
	require.Len(t, f.plans.updates, 1)
	assert.Equal(t, planUpdate{planID: 61, statusID: 206}, f.plans.updates[0])
}

func TestProcessStatusBatch_EscalationUpdateSkipsCascade(t *testing.T) {
	f := newFixture(EmailOptions{SendToDefault: true})
	f.addVersion(501, 1, 100, 61)
	f.addPlan(61)
	reqs := []entity.StatusUpdateRequest{baseRequest(501, 100, workflow.ActionEscalationUpdate)}

	_, err := f.svc.ProcessStatusBatch(context.Background(), reqs, entity.CategorySalesLetterStatus, workflow.KindEscalationUpdate)
	require.NoError(t, err)
	assert.Empty(t, f.plans.updates)
}

func TestProcessStatusBatch_SETPAlwaysCascades(t *testing.T) {
	f := newFixture(EmailOptions{SendToDefault: true})
	f.addVersion(501, 1, 100, 61)
	f.addPlan(61)
	req := baseRequest(501, 100, workflow.ActionEscalationUpdate)
	req.ModuleType = workflow.ObjectTypeSETP

	_, err := f.svc.ProcessStatusBatch(context.Background(), []entity.StatusUpdateRequest{req}, entity.CategorySETPStatus, workflow.KindEscalationUpdate)
	require.NoError(t, err)
	require.Len(t, f.plans.updates, 1)
}

func TestProcessStatusBatch_MissingPlanContinues(t *testing.T) {
	f := newFixture(EmailOptions{SendToDefault: true})
	f.addVersion(501, 1, 100, 61)
	// No plan 61 registered.
	reqs := []entity.StatusUpdateRequest{baseRequest(501, 100, workflow.ActionAccepted)}

	result, err := f.svc.ProcessStatusBatch(context.Background(), reqs, entity.CategorySalesLetterStatus, workflow.KindAccepted)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Contains(t, result.ErrorMessages, "Target Plan 61 Not Found for Sales Letter 501")
	require.Len(t, f.letters.updated, 1, "letter status update still happens")
}

func TestProcessStatusBatch_SendFailureSkipsUpdateAndAggregates(t *testing.T) {
	f := newFixture(EmailOptions{SendToDefault: true})
	f.addVersion(501, 1, 100, 61)
	f.addPlan(61)
	f.email.sendFn = func(to, cc string) (*entity.ProcessingResult, error) {
		r := entity.NewProcessingResult()
		r.AddError("No email template configured for message type 302")
		return r, nil
	}
	reqs := []entity.StatusUpdateRequest{baseRequest(501, 100, workflow.ActionAccepted)}

	result, err := f.svc.ProcessStatusBatch(context.Background(), reqs, entity.CategorySalesLetterStatus, workflow.KindAccepted)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Empty(t, f.letters.updated, "status must not change when the send fails")
	// The per-request message is already present, so no aggregate line is
	// appended.
	assert.NotContains(t, result.ErrorMessages,
		"Workflow is not configured for Sales Orgs: 7, Status not changed for sales letters: 501")
}

func TestProcessStatusBatch_SilentSendFailureAggregates(t *testing.T) {
	f := newFixture(EmailOptions{SendToDefault: true})
	f.addVersion(501, 1, 100, 61)
	f.addPlan(61)
	f.email.sendFn = func(to, cc string) (*entity.ProcessingResult, error) {
		return &entity.ProcessingResult{Valid: false}, nil
	}
	reqs := []entity.StatusUpdateRequest{baseRequest(501, 100, workflow.ActionAccepted)}

	result, err := f.svc.ProcessStatusBatch(context.Background(), reqs, entity.CategorySalesLetterStatus, workflow.KindAccepted)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Contains(t, result.ErrorMessages,
		"Workflow is not configured for Sales Orgs: 7, Status not changed for sales letters: 501")
}

func TestProcessStatusBatch_PartialRecipientFailureStaysValid(t *testing.T) {
	f := newFixture(EmailOptions{SendToDefault: true})
	f.addVersion(501, 1, 100, 61)
	f.addPlan(61)
	f.email.sendFn = func(to, cc string) (*entity.ProcessingResult, error) {
		r := entity.NewProcessingResult()
		r.Record("Mailbox Unavailable for user gone@example.com")
		return r, nil
	}
	reqs := []entity.StatusUpdateRequest{baseRequest(501, 100, workflow.ActionAccepted)}

	result, err := f.svc.ProcessStatusBatch(context.Background(), reqs, entity.CategorySalesLetterStatus, workflow.KindAccepted)
	require.NoError(t, err)
	assert.True(t, result.Valid, "partial recipient failure must not invalidate the batch")
	assert.Contains(t, result.ErrorMessages, "Mailbox Unavailable for user gone@example.com")
	require.Len(t, f.letters.updated, 1, "status update proceeds")
}

func TestProcessStatusBatch_MixedBatch(t *testing.T) {
	f := newFixture(EmailOptions{SendToDefault: true})
	f.addVersion(502, 1, 100, 62)
	f.addPlan(62)
	reqs := []entity.StatusUpdateRequest{
		baseRequest(501, 100, workflow.ActionAccepted),
		baseRequest(502, 100, workflow.ActionAccepted),
	}

	result, err := f.svc.ProcessStatusBatch(context.Background(), reqs, entity.CategorySalesLetterStatus, workflow.KindAccepted)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Contains(t, result.ErrorMessages, "Sales 501 Letter Not Found")
	require.Len(t, f.letters.updated, 1, "the existing letter is still processed")
	assert.Equal(t, int64(502), f.letters.updated[0].SalesLetterID)
}

func TestProcessStatusNotification_ResolvesByName(t *testing.T) {
	f := newFixture(EmailOptions{SendToDefault: false, DefaultToAddress: "x@example.com"})
	// Distinct name and code so the path is observable.
	cat := f.refs.categories[entity.CategorySalesLetterStatus]
	cat.Values = append(cat.Values, entity.ReferenceValue{ReferenceValueID: 190, Code: "XNotified", Name: "Notified Display"})

	f.addVersion(501, 1, 100, 61)
	f.setups.setups = []*entity.WorkflowSetup{{
		WorkflowSetupID:  11,
		EmailRequiredInd: true,
		EmailSubject:     "Letter notified",
		EmailBody:        "Body",
		SalesOrgIDs:      []int64{7},
	}}
	req := baseRequest(501, 100, "Notified Display")

	result, err := f.svc.ProcessStatusNotification(context.Background(), []entity.StatusUpdateRequest{req}, entity.CategorySalesLetterStatus, workflow.KindNotified, "to@example.com", "cc@example.com")
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, int64(190), f.letters.versions[501].StatusCode)
}

func TestProcessStatusNotification_NoStaleCheck(t *testing.T) {
	f := newFixture(EmailOptions{SendToDefault: false, DefaultToAddress: "x@example.com"})
	f.addVersion(501, 1, 999, 61) // current status differs from request
	f.setups.setups = []*entity.WorkflowSetup{{
		WorkflowSetupID:  11,
		EmailRequiredInd: true,
		EmailSubject:     "Subject",
		EmailBody:        "Body",
		SalesOrgIDs:      []int64{7},
	}}
	req := baseRequest(501, 100, workflow.ActionNotified)

	result, err := f.svc.ProcessStatusNotification(context.Background(), []entity.StatusUpdateRequest{req}, entity.CategorySalesLetterStatus, workflow.KindNotified, "to@example.com", "")
	require.NoError(t, err)
	assert.True(t, result.Valid)
	require.Len(t, f.letters.updated, 1)
}

func TestProcessStatusNotification_NoSetupRows(t *testing.T) {
	f := newFixture(EmailOptions{SendToDefault: false, DefaultToAddress: "x@example.com"})
	f.addVersion(501, 1, 100, 61)
	req := baseRequest(501, 100, workflow.ActionNotified)

	result, err := f.svc.ProcessStatusNotification(context.Background(), []entity.StatusUpdateRequest{req}, entity.CategorySalesLetterStatus, workflow.KindNotified, "to@example.com", "")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Contains(t, result.ErrorMessages, "Work flow is not setup for sales letter notified status of selected sales organization")
	assert.Empty(t, f.letters.updated)
}

func TestProcessStatusNotification_FirstMatchingSetupWins(t *testing.T) {
	f := newFixture(EmailOptions{SendToDefault: false, DefaultToAddress: "x@example.com"})
	f.addVersion(501, 1, 100, 61)
	f.setups.setups = []*entity.WorkflowSetup{
		{WorkflowSetupID: 10, EmailRequiredInd: false, SalesOrgIDs: []int64{7}},
		{WorkflowSetupID: 11, EmailRequiredInd: true, EmailSubject: "First", EmailBody: "Body", CCEmail: "setup-cc@example.com", SalesOrgIDs: []int64{7}},
		{WorkflowSetupID: 12, EmailRequiredInd: true, EmailSubject: "Second", SalesOrgIDs: []int64{7}},
	}
	req := baseRequest(501, 100, workflow.ActionNotified)

	result, err := f.svc.ProcessStatusNotification(context.Background(), []entity.StatusUpdateRequest{req}, entity.CategorySalesLetterStatus, workflow.KindNotified, "to@example.com", "cc@example.com")
	require.NoError(t, err)
	assert.True(t, result.Valid)

	require.Len(t, f.sender.calls, 1)
	assert.Equal(t, "First", f.sender.calls[0].subject)
	assert.Equal(t, "to@example.com", f.sender.calls[0].to)
	assert.Equal(t, "cc@example.com", f.sender.calls[0].cc)

	require.Len(t, f.audit.records, 1)
	rec := f.audit.records[0]
	assert.Equal(t, int64(11), rec.WorkflowSetupID)
	assert.Equal(t, "to@example.com", rec.RecipientList)
	assert.Equal(t, "setup-cc@example.com", rec.CCRecipient)
	assert.Equal(t, fixedNow, rec.NotificationTimestamp)
}

func TestProcessStatusNotification_DefaultModeUsesConfiguredAddresses(t *testing.T) {
	f := newFixture(EmailOptions{
		SendToDefault:    true,
		DefaultToAddress: "default-to@example.com",
		DefaultCCAddress: "default-cc@example.com",
	})
	f.addVersion(501, 1, 100, 61)
	f.setups.setups = []*entity.WorkflowSetup{{
		WorkflowSetupID:  11,
		EmailRequiredInd: true,
		EmailSubject:     "Subject",
		EmailBody:        "Body",
		SalesOrgIDs:      []int64{7},
	}}
	req := baseRequest(501, 100, workflow.ActionNotified)

	_, err := f.svc.ProcessStatusNotification(context.Background(), []entity.StatusUpdateRequest{req}, entity.CategorySalesLetterStatus, workflow.KindNotified, "to@example.com", "cc@example.com")
	require.NoError(t, err)

	require.Len(t, f.sender.calls, 1)
	assert.Equal(t, "default-to@example.com", f.sender.calls[0].to)
	assert.Equal(t, "default-cc@example.com", f.sender.calls[0].cc)
}

func TestSendNotification_Publishes(t *testing.T) {
	f := newFixture(EmailOptions{})
	n := &entity.WorkflowNotification{ObjectTypeName: workflow.ObjectTypeSalesLetterManagement, CurrentStatusID: 102}

	err := f.svc.SendNotification(context.Background(), n)
	require.NoError(t, err)
	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, "workflow.tasks.notification", f.publisher.published[0].subject)
	assert.Equal(t, n, f.publisher.published[0].payload)
}

func TestSendNotification_PublishError(t *testing.T) {
	f := newFixture(EmailOptions{})
	f.publisher.err = errors.New("connection refused")

	err := f.svc.SendNotification(context.Background(), &entity.WorkflowNotification{})
	assert.Error(t, err)
}
