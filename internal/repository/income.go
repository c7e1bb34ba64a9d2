package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/budget-tracker/backend/internal/models"
)

type IncomeRepository struct {
	db *pgxpool.Pool
}

// NewIncomeRepository создает репозиторий статей дохода.
func NewIncomeRepository(db *pgxpool.Pool) *IncomeRepository {
	return &IncomeRepository{db: db}
}

// Create добавляет статью дохода в период.
func (r *IncomeRepository) Create(ctx context.Context, userID, periodID uuid.UUID, name string, plannedCents int64, kind models.IncomeKind) (models.IncomeBudgetItem, error) {
	var item models.IncomeBudgetItem

	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM budget_periods WHERE id = $1 AND user_id = $2
		 )`,
		periodID, userID,
	).Scan(&exists)
	if err != nil {
		return item, err
	}
	if !exists {
		return item, ErrNotFound
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO income_budget_items (user_id, budget_period_id, name, planned_cents, kind)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, user_id, budget_period_id, name, planned_cents, kind, created_at, updated_at`,
		userID, periodID, name, plannedCents, kind,
	).Scan(&item.ID, &item.UserID, &item.PeriodID, &item.Name, &item.PlannedCents, &item.Kind, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return item, ErrConflict
		}
		return item, err
	}

	return item, nil
}

// Update обновляет статью дохода.
func (r *IncomeRepository) Update(ctx context.Context, userID, itemID uuid.UUID, name string, plannedCents int64, kind models.IncomeKind) (models.IncomeBudgetItem, error) {
	var item models.IncomeBudgetItem

	err := r.db.QueryRow(ctx,
		`UPDATE income_budget_items
		 SET name = $3,
		     planned_cents = $4,
		     kind = $5,
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, budget_period_id, name, planned_cents, kind, created_at, updated_at`,
		itemID, userID, name, plannedCents, kind,
	).Scan(&item.ID, &item.UserID, &item.PeriodID, &item.Name, &item.PlannedCents, &item.Kind, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return item, ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return item, ErrConflict
		}
		return item, err
	}

	return item, nil
}

// Delete удаляет статью дохода вместе с операциями.
func (r *IncomeRepository) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM income_budget_items
		 WHERE id = $1 AND user_id = $2`,
		itemID, userID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID возвращает статью дохода по идентификатору.
func (r *IncomeRepository) GetByID(ctx context.Context, userID, itemID uuid.UUID) (models.IncomeBudgetItem, error) {
	var item models.IncomeBudgetItem

	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, budget_period_id, name, planned_cents, kind, created_at, updated_at
		 FROM income_budget_items
		 WHERE id = $1 AND user_id = $2`,
		itemID, userID,
	).Scan(&item.ID, &item.UserID, &item.PeriodID, &item.Name, &item.PlannedCents, &item.Kind, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return item, ErrNotFound
		}
		return item, err
	}

	return item, nil
}
