package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seconnect/ice-backend/internal/domain/entity"
	"github.com/seconnect/ice-backend/internal/domain/workflow"
)

type mockStatusService struct {
	result     *entity.ProcessingResult
	err        error
	lastKind   workflow.TransitionKind
	lastTo     string
	lastCC     string
	enqueued   []*entity.WorkflowNotification
	enqueueErr error
}

func (m *mockStatusService) ProcessStatusBatch(ctx context.Context, requests []entity.StatusUpdateRequest, categoryType string, kind workflow.TransitionKind) (*entity.ProcessingResult, error) {
	m.lastKind = kind
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockStatusService) ProcessStatusNotification(ctx context.Context, requests []entity.StatusUpdateRequest, categoryType string, kind workflow.TransitionKind, toRecipients, ccRecipients string) (*entity.ProcessingResult, error) {
	m.lastKind = kind
	m.lastTo = toRecipients
	m.lastCC = ccRecipients
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockStatusService) SendNotification(ctx context.Context, notification *entity.WorkflowNotification) error {
	if m.enqueueErr != nil {
		return m.enqueueErr
	}
	m.enqueued = append(m.enqueued, notification)
	return nil
}

type mockTaskService struct {
	tasks   []*entity.WorkflowTask
	results []*entity.ProcessingResult
	err     error
}

func (m *mockTaskService) CreateTask(ctx context.Context, task *entity.WorkflowTask) error {
	if m.err != nil {
		return m.err
	}
	m.tasks = append(m.tasks, task)
	return nil
}

func (m *mockTaskService) CompleteTasks(ctx context.Context, taskIDs []int64) []*entity.ProcessingResult {
	return m.results
}

func (m *mockTaskService) ListPendingTasks(ctx context.Context) ([]*entity.WorkflowTask, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.tasks, nil
}

type mockReportService struct {
	report []byte
	err    error
}

func (m *mockReportService) NotificationReport(ctx context.Context, since time.Time) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

type mockLetterRepo struct {
	versions []*entity.SalesLetterVersion
	err      error
}

func (m *mockLetterRepo) FindVersion(ctx context.Context, salesLetterID int64, versionNumber int) (*entity.SalesLetterVersion, error) {
	return nil, nil
}

func (m *mockLetterRepo) Update(ctx context.Context, version *entity.SalesLetterVersion) error {
	return nil
}

func (m *mockLetterRepo) ListByLetter(ctx context.Context, salesLetterID int64) ([]*entity.SalesLetterVersion, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.versions, nil
}

type mockHealth struct {
	err error
}

func (m *mockHealth) HealthCheck(ctx context.Context) error { return m.err }

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

type serverFixture struct {
	status *mockStatusService
	tasks  *mockTaskService
	report *mockReportService
	repo   *mockLetterRepo
	health *mockHealth
	server *Server
}

func newServerFixture() *serverFixture {
	f := &serverFixture{
		status: &mockStatusService{result: entity.NewProcessingResult()},
		tasks:  &mockTaskService{},
		report: &mockReportService{report: []byte("xlsx")},
		repo:   &mockLetterRepo{},
		health: &mockHealth{},
	}
	f.server = NewServer(ServerConfig{Host: "127.0.0.1", Port: 0}, f.status, f.tasks, f.report, f.repo, f.health, nopLogger{})
	return f
}

func (f *serverFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.server.Router().ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func validBatchBody() StatusBatchRequest {
	return StatusBatchRequest{
		CategoryType:   entity.CategorySalesLetterStatus,
		TransitionKind: string(workflow.KindAccepted),
		Requests: []entity.StatusUpdateRequest{{
			SalesLetterID:    501,
			VersionNumber:    1,
			EmployeeID:       42,
			CurrentStatusID:  100,
			TargetStatusCode: workflow.ActionAccepted,
			ModuleType:       workflow.ObjectTypeSalesLetterManagement,
			SalesOrgID:       7,
		}},
	}
}

func TestHealthCheck(t *testing.T) {
	f := newServerFixture()

	w := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeResponse(t, w).Success)

	f.health.err = errors.New("database closed")
	w = f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, decodeResponse(t, w).Success)
}

func TestUpdateStatus(t *testing.T) {
	f := newServerFixture()

	w := f.do(t, http.MethodPost, "/api/v1/sales-letters/status", validBatchBody())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
	assert.Equal(t, workflow.KindAccepted, f.status.lastKind)
}

func TestUpdateStatus_InvalidBody(t *testing.T) {
	f := newServerFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales-letters/status", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.server.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStatus_UnknownKind(t *testing.T) {
	f := newServerFixture()

	body := validBatchBody()
	body.TransitionKind = "TELEPORTED"
	w := f.do(t, http.MethodPost, "/api/v1/sales-letters/status", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStatus_PreconditionErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"empty batch", workflow.ErrEmptyBatch, http.StatusBadRequest},
		{"unknown category", workflow.ErrUnknownCategory, http.StatusBadRequest},
		{"unknown status code", workflow.ErrUnknownStatusCode, http.StatusBadRequest},
		{"internal failure", errors.New("database closed"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServerFixture()
			f.status.err = tt.err
			w := f.do(t, http.MethodPost, "/api/v1/sales-letters/status", validBatchBody())
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestNotify(t *testing.T) {
	f := newServerFixture()

	body := NotifyRequest{
		StatusBatchRequest: validBatchBody(),
		ToRecipients:       "to@example.com",
		CCRecipients:       "cc@example.com",
	}
	body.TransitionKind = string(workflow.KindNotified)

	w := f.do(t, http.MethodPost, "/api/v1/sales-letters/notify", body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, workflow.KindNotified, f.status.lastKind)
	assert.Equal(t, "to@example.com", f.status.lastTo)
	assert.Equal(t, "cc@example.com", f.status.lastCC)
}

func TestEnqueueNotification(t *testing.T) {
	f := newServerFixture()

	notification := entity.WorkflowNotification{
		ObjectTypeName:  workflow.ObjectTypeSalesLetterManagement,
		CurrentStatusID: 102,
		SalesOrgIDs:     []int64{7},
	}
	w := f.do(t, http.MethodPost, "/api/v1/notifications", notification)
	assert.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, f.status.enqueued, 1)
	assert.Equal(t, int64(102), f.status.enqueued[0].CurrentStatusID)
}

func TestListVersions(t *testing.T) {
	f := newServerFixture()
	now := time.Date(2026, 5, 14, 10, 30, 0, 0, time.UTC)
	f.repo.versions = []*entity.SalesLetterVersion{{
		SalesLetterVersionID: 5010,
		SalesLetterID:        501,
		VersionNumber:        2,
		StatusCode:           108,
		ReleaseInd:           true,
		ReleaseTimestamp:     &now,
		CreatedBy:            "sco.admin@example.com",
		CreatedAt:            now,
	}}

	w := f.do(t, http.MethodGet, "/api/v1/sales-letters/501/versions", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool              `json:"success"`
		Data    []VersionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, int64(108), resp.Data[0].StatusCode)
	require.NotNil(t, resp.Data[0].ReleaseTimestamp)
	assert.Equal(t, "2026-05-14T10:30:00Z", *resp.Data[0].ReleaseTimestamp)
}

func TestListVersions_BadID(t *testing.T) {
	f := newServerFixture()
	w := f.do(t, http.MethodGet, "/api/v1/sales-letters/abc/versions", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTask(t *testing.T) {
	f := newServerFixture()

	w := f.do(t, http.MethodPost, "/api/v1/tasks", CreateTaskRequest{
		ObjectTypeID:         302,
		ObjectID:             501,
		AssignedToEmployeeID: 42,
		TaskDescription:      "Review sales letter",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, f.tasks.tasks, 1)
	assert.Equal(t, "Review sales letter", f.tasks.tasks[0].TaskDescription)
}

func TestCompleteTasks(t *testing.T) {
	f := newServerFixture()
	ok := entity.NewProcessingResult()
	f.tasks.results = []*entity.ProcessingResult{ok}

	w := f.do(t, http.MethodPost, "/api/v1/tasks/complete", CompleteTasksRequest{TaskIDs: []int64{1}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
}

func TestNotificationReport(t *testing.T) {
	f := newServerFixture()

	w := f.do(t, http.MethodGet, "/api/v1/reports/notifications.xlsx", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Equal(t, "xlsx", w.Body.String())

	w = f.do(t, http.MethodGet, "/api/v1/reports/notifications.xlsx?since=not-a-date", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
