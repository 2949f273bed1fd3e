package workflow

// Workflow object type names. These are the values carried in a request's
// ModuleType field and resolved against the ObjectType reference-value
// category.
const (
	// ObjectTypeSETP is the sales-person-target-plan workflow. Requests for
	// this module cascade unconditionally and have their notification object
	// type redirected to the sales-letter-management workflow.
	ObjectTypeSETP = "SETPWorkflow"

	// ObjectTypeSalesLetterManagement is the sales-letter workflow proper.
	ObjectTypeSalesLetterManagement = "SalesLetterManagementWorkflow"
)

// Action codes carried as a request's target status code. In production mode
// the recipient-resolution policy branches on these.
const (
	ActionNotified           = "Notified"
	ActionReleased           = "Released"
	ActionEscalationUpdate   = "EscalationUpdate"
	ActionRework             = "Rework"
	ActionReworkRequested    = "ReworkRequested"
	ActionEscalated          = "Escalated"
	ActionAccepted           = "Accepted"
	ActionAuditPassedChanges = "UpdateSelectedToAuditPassedAssChanges"
)
