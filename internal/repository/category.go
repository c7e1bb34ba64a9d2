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

type CategoryRepository struct {
	db *pgxpool.Pool
}

// NewCategoryRepository создает репозиторий категорий расходов.
func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create добавляет категорию расходов в период. Зарезервированное имя
// категории нового долга пользователю недоступно.
func (r *CategoryRepository) Create(ctx context.Context, userID, periodID uuid.UUID, name string) (models.ExpenseCategory, error) {
	var category models.ExpenseCategory

	if name == models.NewDebtCategoryName {
		return category, ErrReservedName
	}

	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM budget_periods WHERE id = $1 AND user_id = $2
		 )`,
		periodID, userID,
	).Scan(&exists)
	if err != nil {
		return category, err
	}
	if !exists {
		return category, ErrNotFound
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO expense_categories (user_id, budget_period_id, name)
		 VALUES ($1, $2, $3)
		 RETURNING id, user_id, budget_period_id, name, created_at`,
		userID, periodID, name,
	).Scan(&category.ID, &category.UserID, &category.PeriodID, &category.Name, &category.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return category, ErrConflict
		}
		return category, err
	}

	return category, nil
}

// Rename переименовывает категорию. Категорию нового долга трогать нельзя
// ни как источник, ни как целевое имя.
func (r *CategoryRepository) Rename(ctx context.Context, userID, categoryID uuid.UUID, name string) (models.ExpenseCategory, error) {
	var category models.ExpenseCategory

	if name == models.NewDebtCategoryName {
		return category, ErrReservedName
	}

	current, err := r.GetByID(ctx, userID, categoryID)
	if err != nil {
		return category, err
	}
	if current.IsNewDebt() {
		return category, ErrReservedName
	}

	err = r.db.QueryRow(ctx,
		`UPDATE expense_categories
		 SET name = $3
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, budget_period_id, name, created_at`,
		categoryID, userID, name,
	).Scan(&category.ID, &category.UserID, &category.PeriodID, &category.Name, &category.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return category, ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return category, ErrConflict
		}
		return category, err
	}

	return category, nil
}

// Delete удаляет категорию вместе со статьями и операциями. Категория
// нового долга удаляется только синхронизацией.
func (r *CategoryRepository) Delete(ctx context.Context, userID, categoryID uuid.UUID) error {
	category, err := r.GetByID(ctx, userID, categoryID)
	if err != nil {
		return err
	}
	if category.IsNewDebt() {
		return ErrReservedName
	}

	cmd, err := r.db.Exec(ctx,
		`DELETE FROM expense_categories
		 WHERE id = $1 AND user_id = $2`,
		categoryID, userID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID возвращает категорию пользователя по идентификатору.
func (r *CategoryRepository) GetByID(ctx context.Context, userID, categoryID uuid.UUID) (models.ExpenseCategory, error) {
	var category models.ExpenseCategory

	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, budget_period_id, name, created_at
		 FROM expense_categories
		 WHERE id = $1 AND user_id = $2`,
		categoryID, userID,
	).Scan(&category.ID, &category.UserID, &category.PeriodID, &category.Name, &category.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return category, ErrNotFound
		}
		return category, err
	}

	return category, nil
}

// CreateItem добавляет статью расходов в категорию.
func (r *CategoryRepository) CreateItem(ctx context.Context, userID, categoryID uuid.UUID, name string, plannedCents int64, kind models.ExpenseKind) (models.ExpenseBudgetItem, error) {
	var item models.ExpenseBudgetItem

	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM expense_categories WHERE id = $1 AND user_id = $2
		 )`,
		categoryID, userID,
	).Scan(&exists)
	if err != nil {
		return item, err
	}
	if !exists {
		return item, ErrNotFound
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO expense_budget_items (user_id, category_id, name, planned_cents, kind)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, user_id, category_id, name, planned_cents, kind, created_at, updated_at`,
		userID, categoryID, name, plannedCents, kind,
	).Scan(&item.ID, &item.UserID, &item.CategoryID, &item.Name, &item.PlannedCents, &item.Kind, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return item, ErrConflict
		}
		return item, err
	}

	return item, nil
}

// UpdateItem обновляет статью расходов.
func (r *CategoryRepository) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, name string, plannedCents int64, kind models.ExpenseKind) (models.ExpenseBudgetItem, error) {
	var item models.ExpenseBudgetItem

	err := r.db.QueryRow(ctx,
		`UPDATE expense_budget_items
		 SET name = $3,
		     planned_cents = $4,
		     kind = $5,
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, category_id, name, planned_cents, kind, created_at, updated_at`,
		itemID, userID, name, plannedCents, kind,
	).Scan(&item.ID, &item.UserID, &item.CategoryID, &item.Name, &item.PlannedCents, &item.Kind, &item.CreatedAt, &item.UpdatedAt)
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

// DeleteItem удаляет статью расходов вместе с операциями.
func (r *CategoryRepository) DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM expense_budget_items
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
