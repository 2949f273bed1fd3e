package entity

// Reference-value category names the workflow resolves against.
const (
	CategorySalesLetterStatus = "SalesLetterStatusType"
	CategorySETPStatus        = "SETPStatusType"
	CategoryObjectType        = "ObjectType"
)

// Substitution parameter keys recognized by the notification body formatter.
const (
	ParamDeploymentPeriod  = "DEPLOYMENTPERIOD"
	ParamFiscalYear        = "FISCALYEAR"
	ParamManagerName       = "MANAGERNAME"
	ParamSalesOrg          = "SALESORG"
	ParamSalesRepID        = "SALESREPID"
	ParamSalesRepName      = "SALESREPNAME"
	ParamSalesRepNames     = "SALESREPNAMES"
	ParamEmployeeEmailID   = "EMPLOYEEEMAILID"
	ParamManagerEmailID    = "MANAGEREMAILID"
	ParamDeploymentManager = "DEPLOYMENTMANAGER"
	ParamSCOAdminName      = "SCOADMINNAME"
	ParamCommentText       = "COMMENTTEXT"
	ParamMgrUpdateText     = "MGRUPDATETEXT"
)

// SystemUser is the audit identity recorded by automated processes. Letter
// versions created by it have no resolvable SCO email.
const SystemUser = "system"
