package entity

import "time"

// SalesLetterVersion is one revision of a sales letter for an employee and
// plan period. The status code points into the reference-value table for the
// governing category; the workflow is the only writer of the status fields.
type SalesLetterVersion struct {
	SalesLetterVersionID int64
	SalesLetterID        int64
	VersionNumber        int
	StatusCode           int64

	ReleaseInd       bool
	ReleaseTimestamp *time.Time

	ActiveManagerEmployeeID            *int64
	ActiveManagerNotificationTimestamp *time.Time

	SalesPersonTargetPlanID int64

	CreatedBy  string
	CreatedAt  time.Time
	ModifiedBy string
	ModifiedAt time.Time
	IsDeleted  bool
}

// SalesPersonTargetPlan is the compensation plan record linked to a sales
// letter version. Its status is cascaded from the letter's transition outcome.
type SalesPersonTargetPlan struct {
	SalesPersonTargetPlanID int64
	EmployeeID              int64
	PlanningPeriodID        int64
	StatusCode              int64
	CreatedBy               string
	CreatedAt               time.Time
	ModifiedBy              string
	ModifiedAt              time.Time
	IsDeleted               bool
}
