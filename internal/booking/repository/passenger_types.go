package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmheroku/railway-station/internal/booking/model"
	"github.com/charmheroku/railway-station/internal/common/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PassengerTypeRepository struct {
	DB *pgxpool.Pool
}

func NewPassengerTypeRepository(database *pgxpool.Pool) *PassengerTypeRepository {
	return &PassengerTypeRepository{DB: database}
}

// ListActive returns the passenger types offered to clients, in display
// order. Inactive types stay out of listings but remain valid targets
// for historical tickets.
func (r *PassengerTypeRepository) ListActive(ctx context.Context) ([]model.PassengerType, error) {
	query := `
		SELECT id, code, name, discount_percent, requires_document, is_active, display_order
		FROM passenger_types
		WHERE is_active
		ORDER BY display_order, name
	`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list passenger types: %w", err)
	}
	defer rows.Close()

	var types []model.PassengerType
	for rows.Next() {
		var pt model.PassengerType
		err := rows.Scan(&pt.ID, &pt.Code, &pt.Name, &pt.DiscountPercent,
			&pt.RequiresDocument, &pt.IsActive, &pt.DisplayOrder)
		if err != nil {
			return nil, fmt.Errorf("failed to scan passenger type: %w", err)
		}
		types = append(types, pt)
	}
	return types, rows.Err()
}

func (r *PassengerTypeRepository) GetPassengerType(ctx context.Context, id int64) (*model.PassengerType, error) {
	query := `
		SELECT id, code, name, discount_percent, requires_document, is_active, display_order
		FROM passenger_types
		WHERE id = $1
	`

	var pt model.PassengerType
	err := r.DB.QueryRow(ctx, query, id).Scan(&pt.ID, &pt.Code, &pt.Name,
		&pt.DiscountPercent, &pt.RequiresDocument, &pt.IsActive, &pt.DisplayOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Newf(apperr.KindValidation, "passenger type with ID %d does not exist", id)
		}
		return nil, fmt.Errorf("failed to get passenger type: %w", err)
	}
	return &pt, nil
}
