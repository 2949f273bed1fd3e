package entity

import "time"

// WorkflowTask is a pending work item produced by the asynchronous
// notification path and surfaced to reviewers until completed.
type WorkflowTask struct {
	WorkflowTaskID       int64
	ObjectTypeID         int64
	ObjectID             int64
	AssignedToEmployeeID int64
	TaskDescription      string
	DueDate              *time.Time
	CompleteInd          bool
	CompletedAt          *time.Time
	CreatedAt            time.Time
	IsDeleted            bool
}
