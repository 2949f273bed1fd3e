package entity

import "time"

// WorkflowNotification describes one status change: what object moved, from
// which status to which, and the substitution values used to format the
// outgoing message. It is transient; only the email audit record persists.
type WorkflowNotification struct {
	PlanningPeriodID   int64             `json:"planning_period_id"`
	SalesOrgIDs        []int64           `json:"sales_org_ids"`
	EffectiveDate      time.Time         `json:"effective_date"`
	PreviousStatusID   int64             `json:"previous_status_id"`
	CurrentStatusID    int64             `json:"current_status_id"`
	ObjectTypeName     string            `json:"object_type_name"`
	ObjectTypeID       int64             `json:"object_type_id"`
	SubstitutionParams map[string]string `json:"substitution_params"`
}

// NotificationEmail is the persisted audit record of one workflow email sent
// through the explicit-addressing flow.
type NotificationEmail struct {
	NotificationEmailID   int64
	SalesLetterVersionID  int64
	SalesLetterID         int64
	WorkflowSetupID       int64
	NotificationTimestamp time.Time
	RecipientList         string
	CCRecipient           string
	SubjectText           string
	BodyText              string
	IsDeleted             bool
}

// EmailTemplate is the subject/body pair configured for one message type and
// request status.
type EmailTemplate struct {
	TemplateID      int64
	MessageTypeID   int64
	RequestStatusID int64
	Subject         string
	Body            string
}
