package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/seconnect/ice-backend/internal/application/port"
	"github.com/seconnect/ice-backend/internal/application/service"
	"github.com/seconnect/ice-backend/internal/domain/entity"
	"github.com/seconnect/ice-backend/internal/domain/workflow"
	"github.com/seconnect/ice-backend/pkg/utils"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	statusService service.StatusWorkflowService
	taskService   service.TaskService
	reportService service.ReportService
	letterRepo    port.SalesLetterVersionRepository
	health        HealthChecker
	logger        Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	statusService service.StatusWorkflowService,
	taskService service.TaskService,
	reportService service.ReportService,
	letterRepo port.SalesLetterVersionRepository,
	health HealthChecker,
	logger Logger,
) *Handlers {
	return &Handlers{
		statusService: statusService,
		taskService:   taskService,
		reportService: reportService,
		letterRepo:    letterRepo,
		health:        health,
		logger:        logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// StatusBatchRequest is the body for batch status updates. All requests in
// the batch share the category type and transition kind.
type StatusBatchRequest struct {
	CategoryType   string                       `json:"category_type" binding:"required"`
	TransitionKind string                       `json:"transition_kind" binding:"required"`
	Requests       []entity.StatusUpdateRequest `json:"requests" binding:"required"`
}

// NotifyRequest is the body for the explicit-addressing notification flow.
type NotifyRequest struct {
	StatusBatchRequest
	ToRecipients string `json:"to_recipients"`
	CCRecipients string `json:"cc_recipients"`
}

// CompleteTasksRequest is the body for bulk task completion.
type CompleteTasksRequest struct {
	TaskIDs []int64 `json:"task_ids" binding:"required"`
}

// CreateTaskRequest is the body for creating a workflow task.
type CreateTaskRequest struct {
	ObjectTypeID         int64      `json:"object_type_id" binding:"required"`
	ObjectID             int64      `json:"object_id" binding:"required"`
	AssignedToEmployeeID int64      `json:"assigned_to_employee_id" binding:"required"`
	TaskDescription      string     `json:"task_description" binding:"required"`
	DueDate              *time.Time `json:"due_date"`
}

// VersionResponse represents a sales letter version in API responses
type VersionResponse struct {
	SalesLetterVersionID int64   `json:"sales_letter_version_id"`
	SalesLetterID        int64   `json:"sales_letter_id"`
	VersionNumber        int     `json:"version_number"`
	StatusCode           int64   `json:"status_code"`
	ReleaseInd           bool    `json:"release_ind"`
	ReleaseTimestamp     *string `json:"release_timestamp,omitempty"`
	CreatedBy            string  `json:"created_by"`
	CreatedAt            string  `json:"created_at"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	if err := h.health.HealthCheck(c.Request.Context()); err != nil {
		h.logger.Error("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, Response{
			Success: false,
			Error:   "unhealthy",
		})
		return
	}
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// UpdateStatus handles POST /api/v1/sales-letters/status
func (h *Handlers) UpdateStatus(c *gin.Context) {
	var req StatusBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	kind := workflow.TransitionKind(req.TransitionKind)
	if !kind.IsValid() {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "unknown transition kind: " + req.TransitionKind})
		return
	}
	sanitizeRequests(req.Requests)

	result, err := h.statusService.ProcessStatusBatch(c.Request.Context(), req.Requests, req.CategoryType, kind)
	if err != nil {
		h.logger.Error("Status batch failed", "category", req.CategoryType, "kind", req.TransitionKind, "error", err)
		c.JSON(statusForError(err), Response{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// Notify handles POST /api/v1/sales-letters/notify
func (h *Handlers) Notify(c *gin.Context) {
	var req NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	kind := workflow.TransitionKind(req.TransitionKind)
	if !kind.IsValid() {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "unknown transition kind: " + req.TransitionKind})
		return
	}
	sanitizeRequests(req.Requests)

	result, err := h.statusService.ProcessStatusNotification(c.Request.Context(), req.Requests, req.CategoryType, kind, req.ToRecipients, req.CCRecipients)
	if err != nil {
		h.logger.Error("Status notification failed", "category", req.CategoryType, "kind", req.TransitionKind, "error", err)
		c.JSON(statusForError(err), Response{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// EnqueueNotification handles POST /api/v1/notifications
func (h *Handlers) EnqueueNotification(c *gin.Context) {
	var notification entity.WorkflowNotification
	if err := c.ShouldBindJSON(&notification); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	if err := h.statusService.SendNotification(c.Request.Context(), &notification); err != nil {
		h.logger.Error("Failed to enqueue notification", "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to enqueue notification"})
		return
	}

	c.JSON(http.StatusAccepted, Response{Success: true})
}

// ListVersions handles GET /api/v1/sales-letters/:id/versions
func (h *Handlers) ListVersions(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid sales letter ID"})
		return
	}

	versions, err := h.letterRepo.ListByLetter(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to list versions", "sales_letter_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to retrieve versions"})
		return
	}

	responses := make([]VersionResponse, 0, len(versions))
	for _, v := range versions {
		responses = append(responses, toVersionResponse(v))
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: responses})
}

// ListPendingTasks handles GET /api/v1/tasks
func (h *Handlers) ListPendingTasks(c *gin.Context) {
	tasks, err := h.taskService.ListPendingTasks(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list pending tasks", "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to retrieve tasks"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: tasks})
}

// CreateTask handles POST /api/v1/tasks
func (h *Handlers) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	task := &entity.WorkflowTask{
		ObjectTypeID:         req.ObjectTypeID,
		ObjectID:             req.ObjectID,
		AssignedToEmployeeID: req.AssignedToEmployeeID,
		TaskDescription:      utils.SanitizeString(req.TaskDescription),
		DueDate:              req.DueDate,
	}
	if err := h.taskService.CreateTask(c.Request.Context(), task); err != nil {
		h.logger.Error("Failed to create task", "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: task})
}

// CompleteTasks handles POST /api/v1/tasks/complete
func (h *Handlers) CompleteTasks(c *gin.Context) {
	var req CompleteTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	results := h.taskService.CompleteTasks(c.Request.Context(), req.TaskIDs)
	c.JSON(http.StatusOK, Response{Success: true, Data: results})
}

// NotificationReport handles GET /api/v1/reports/notifications.xlsx
func (h *Handlers) NotificationReport(c *gin.Context) {
	since := time.Now().AddDate(0, 0, -30)
	if sinceStr := c.Query("since"); sinceStr != "" {
		parsed, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid since parameter, expected RFC3339"})
			return
		}
		since = parsed
	}

	report, err := h.reportService.NotificationReport(c.Request.Context(), since)
	if err != nil {
		h.logger.Error("Failed to build notification report", "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to build report"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="notifications.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", report)
}

// sanitizeRequests strips control characters from free-text fields before
// they reach the notification formatter.
func sanitizeRequests(requests []entity.StatusUpdateRequest) {
	for i := range requests {
		requests[i].CommentText = utils.SanitizeString(requests[i].CommentText)
		requests[i].ManagerUpdateText = utils.SanitizeString(requests[i].ManagerUpdateText)
	}
}

// statusForError maps workflow precondition errors to 400 and everything
// else to 500.
func statusForError(err error) int {
	if errors.Is(err, workflow.ErrEmptyBatch) ||
		errors.Is(err, workflow.ErrUnknownCategory) ||
		errors.Is(err, workflow.ErrUnknownStatusCode) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func toVersionResponse(v *entity.SalesLetterVersion) VersionResponse {
	resp := VersionResponse{
		SalesLetterVersionID: v.SalesLetterVersionID,
		SalesLetterID:        v.SalesLetterID,
		VersionNumber:        v.VersionNumber,
		StatusCode:           v.StatusCode,
		ReleaseInd:           v.ReleaseInd,
		CreatedBy:            v.CreatedBy,
		CreatedAt:            v.CreatedAt.Format(time.RFC3339),
	}
	if v.ReleaseTimestamp != nil {
		ts := v.ReleaseTimestamp.Format(time.RFC3339)
		resp.ReleaseTimestamp = &ts
	}
	return resp
}
