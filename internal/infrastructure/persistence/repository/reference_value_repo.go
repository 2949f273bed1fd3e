package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/seconnect/ice-backend/internal/application/port"
	"github.com/seconnect/ice-backend/internal/domain/entity"
)

// ReferenceValueRepository implements port.ReferenceValueRepository over
// sqlite.
type ReferenceValueRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReferenceValueRepository creates a new reference value repository.
func NewReferenceValueRepository(db *sql.DB, logger *zap.Logger) port.ReferenceValueRepository {
	return &ReferenceValueRepository{db: db, logger: logger}
}

// GetByName retrieves a category with its values, or nil when it does not
// exist.
func (r *ReferenceValueRepository) GetByName(ctx context.Context, categoryName string) (*entity.ReferenceValueCategory, error) {
	var category entity.ReferenceValueCategory
	err := r.db.QueryRowContext(ctx, `
		SELECT category_id, category_name
		FROM reference_value_categories
		WHERE category_name = ?
	`, categoryName).Scan(&category.CategoryID, &category.CategoryName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get reference value category", zap.String("category", categoryName), zap.Error(err))
		return nil, fmt.Errorf("failed to get reference value category: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT reference_value_id, category_id, code, name, sort_order
		FROM reference_values
		WHERE category_id = ?
		ORDER BY sort_order, reference_value_id
	`, category.CategoryID)
	if err != nil {
		r.logger.Error("Failed to list reference values", zap.String("category", categoryName), zap.Error(err))
		return nil, fmt.Errorf("failed to list reference values: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v entity.ReferenceValue
		if err := rows.Scan(&v.ReferenceValueID, &v.CategoryID, &v.Code, &v.Name, &v.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan reference value: %w", err)
		}
		category.Values = append(category.Values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reference values: %w", err)
	}

	return &category, nil
}
