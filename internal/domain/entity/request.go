package entity

// StatusUpdateRequest is one requested sales-letter status transition plus
// the substitution values used to format the notification text. Every
// request in a batch shares the same category type and target status code.
type StatusUpdateRequest struct {
	SalesLetterID        int64  `json:"sales_letter_id"`
	SalesLetterVersionID int64  `json:"sales_letter_version_id"`
	VersionNumber        int    `json:"version_number"`
	EmployeeID           int64  `json:"employee_id"`
	CurrentStatusID      int64  `json:"current_status_id"`
	TargetStatusCode     string `json:"target_status_code"`
	ModuleType           string `json:"module_type"`
	SalesOrgID           int64  `json:"sales_org_id"`
	PlanningPeriodID     int64  `json:"planning_period_id"`

	SalesRepID        string `json:"sales_rep_id"`
	SalesRepName      string `json:"sales_rep_name"`
	ManagerName       string `json:"manager_name"`
	EmployeeEmail     string `json:"employee_email"`
	ManagerEmail      string `json:"manager_email"`
	DeploymentPeriod  string `json:"deployment_period"`
	DeploymentManager string `json:"deployment_manager"`
	FiscalYear        string `json:"fiscal_year"`
	CommentText       string `json:"comment_text"`
	ManagerUpdateText string `json:"manager_update_text"`
}
