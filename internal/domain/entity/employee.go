package entity

// Employee is the directory record the workflow resolves notification
// addresses from.
type Employee struct {
	EmployeeID     int64
	EmployeeNumber string
	FirstName      string
	LastName       string
	Email          string
	ManagerID      *int64
	IsDeleted      bool
}
