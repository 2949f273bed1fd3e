package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/seconnect/ice-backend/internal/application/port"
	"github.com/seconnect/ice-backend/internal/domain/entity"
)

// EmployeeRepository implements port.EmployeeRepository over sqlite.
type EmployeeRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewEmployeeRepository creates a new employee repository.
func NewEmployeeRepository(db *sql.DB, logger *zap.Logger) port.EmployeeRepository {
	return &EmployeeRepository{db: db, logger: logger}
}

const employeeColumns = `
	employee_id, employee_number, first_name, last_name, email, manager_id, is_deleted
`

// GetByID returns the employee with the given id, or nil.
func (r *EmployeeRepository) GetByID(ctx context.Context, employeeID int64) (*entity.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE employee_id = ?`
	return r.scanEmployee(r.db.QueryRowContext(ctx, query, employeeID))
}

// GetByNumber returns the employee with the given employee number, or nil.
func (r *EmployeeRepository) GetByNumber(ctx context.Context, employeeNumber string) (*entity.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE employee_number = ?`
	return r.scanEmployee(r.db.QueryRowContext(ctx, query, employeeNumber))
}

func (r *EmployeeRepository) scanEmployee(row *sql.Row) (*entity.Employee, error) {
	var e entity.Employee
	var managerID sql.NullInt64
	err := row.Scan(
		&e.EmployeeID,
		&e.EmployeeNumber,
		&e.FirstName,
		&e.LastName,
		&e.Email,
		&managerID,
		&e.IsDeleted,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get employee", zap.Error(err))
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	if managerID.Valid {
		e.ManagerID = &managerID.Int64
	}
	return &e, nil
}
