package entity

import "time"

// WorkflowSetup is an externally configured routing row describing whether
// and how to email when a workflow object of a given type reaches a given
// status. Each row is scoped to one or more sales organizations.
type WorkflowSetup struct {
	WorkflowSetupID  int64
	ObjectTypeID     int64
	StatusID         int64
	EmailRequiredInd bool
	EmailSubject     string
	EmailBody        string
	CCEmail          string
	SalesOrgIDs      []int64

	EffectiveStartDate time.Time
	EffectiveEndDate   *time.Time
	IsDeleted          bool
}

// AppliesTo reports whether the setup row is scoped to the given sales
// organization.
func (w *WorkflowSetup) AppliesTo(salesOrgID int64) bool {
	for _, id := range w.SalesOrgIDs {
		if id == salesOrgID {
			return true
		}
	}
	return false
}
