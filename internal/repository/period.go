package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/budget-tracker/backend/internal/budget"
	"example.com/budget-tracker/backend/internal/models"
)

type PeriodRepository struct {
	db *pgxpool.Pool
}

// NewPeriodRepository создает репозиторий бюджетных периодов.
func NewPeriodRepository(db *pgxpool.Pool) *PeriodRepository {
	return &PeriodRepository{db: db}
}

const periodColumns = `id, user_id, month, year, starting_bank_cents, starting_cash_cents, created_at, updated_at`

func scanPeriod(row pgx.Row) (models.BudgetPeriod, error) {
	var p models.BudgetPeriod
	err := row.Scan(&p.ID, &p.UserID, &p.Month, &p.Year, &p.StartingBankCents, &p.StartingCashCents, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// GetByMonthYear возвращает период пользователя за месяц и год.
func (r *PeriodRepository) GetByMonthYear(ctx context.Context, userID uuid.UUID, month, year int) (models.BudgetPeriod, error) {
	period, err := scanPeriod(r.db.QueryRow(ctx,
		`SELECT `+periodColumns+`
		 FROM budget_periods
		 WHERE user_id = $1 AND month = $2 AND year = $3`,
		userID, month, year,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return period, ErrNotFound
		}
		return period, err
	}

	return period, nil
}

// GetByID возвращает период пользователя по идентификатору.
func (r *PeriodRepository) GetByID(ctx context.Context, userID, periodID uuid.UUID) (models.BudgetPeriod, error) {
	period, err := scanPeriod(r.db.QueryRow(ctx,
		`SELECT `+periodColumns+`
		 FROM budget_periods
		 WHERE id = $1 AND user_id = $2`,
		periodID, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return period, ErrNotFound
		}
		return period, err
	}

	return period, nil
}

// ListByOwner возвращает периоды пользователя от новых к старым.
func (r *PeriodRepository) ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.BudgetPeriod, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+periodColumns+`
		 FROM budget_periods
		 WHERE user_id = $1
		 ORDER BY year DESC, month DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	periods := make([]models.BudgetPeriod, 0)
	for rows.Next() {
		period, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, period)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return periods, nil
}

// Update обновляет стартовые остатки периода.
func (r *PeriodRepository) Update(ctx context.Context, userID, periodID uuid.UUID, startingBankCents, startingCashCents int64) (models.BudgetPeriod, error) {
	period, err := scanPeriod(r.db.QueryRow(ctx,
		`UPDATE budget_periods
		 SET starting_bank_cents = $3,
		     starting_cash_cents = $4,
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+periodColumns,
		periodID, userID, startingBankCents, startingCashCents,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return period, ErrNotFound
		}
		return period, err
	}

	return period, nil
}

// Delete удаляет период вместе со всем его содержимым.
func (r *PeriodRepository) Delete(ctx context.Context, userID, periodID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM budget_periods
		 WHERE id = $1 AND user_id = $2`,
		periodID, userID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// LoadData загружает полный граф периода: статьи дохода с операциями и
// категории расходов со статьями и операциями.
func (r *PeriodRepository) LoadData(ctx context.Context, userID, periodID uuid.UUID) (budget.PeriodData, error) {
	var data budget.PeriodData

	incomeRows, err := r.db.Query(ctx,
		`SELECT id, user_id, budget_period_id, name, planned_cents, kind, created_at, updated_at
		 FROM income_budget_items
		 WHERE user_id = $1 AND budget_period_id = $2
		 ORDER BY created_at, name`,
		userID, periodID,
	)
	if err != nil {
		return data, err
	}
	defer incomeRows.Close()

	incomeIndex := make(map[uuid.UUID]int)
	for incomeRows.Next() {
		var item models.IncomeBudgetItem
		err := incomeRows.Scan(&item.ID, &item.UserID, &item.PeriodID, &item.Name, &item.PlannedCents, &item.Kind, &item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			return data, err
		}
		incomeIndex[item.ID] = len(data.Income)
		data.Income = append(data.Income, budget.IncomeGroup{Item: item})
	}
	if err := incomeRows.Err(); err != nil {
		return data, err
	}

	incomeTxRows, err := r.db.Query(ctx,
		`SELECT t.id, t.user_id, t.budget_item_id, t.name, t.amount_cents, t.cash, t.date, t.created_at
		 FROM income_transactions t
		 JOIN income_budget_items i ON i.id = t.budget_item_id
		 WHERE i.user_id = $1 AND i.budget_period_id = $2
		 ORDER BY t.date DESC, t.created_at DESC`,
		userID, periodID,
	)
	if err != nil {
		return data, err
	}
	defer incomeTxRows.Close()

	for incomeTxRows.Next() {
		var t models.IncomeTransaction
		err := incomeTxRows.Scan(&t.ID, &t.UserID, &t.ItemID, &t.Name, &t.AmountCents, &t.Cash, &t.Date, &t.CreatedAt)
		if err != nil {
			return data, err
		}
		if idx, ok := incomeIndex[t.ItemID]; ok {
			data.Income[idx].Transactions = append(data.Income[idx].Transactions, t)
		}
	}
	if err := incomeTxRows.Err(); err != nil {
		return data, err
	}

	categoryRows, err := r.db.Query(ctx,
		`SELECT id, user_id, budget_period_id, name, created_at
		 FROM expense_categories
		 WHERE user_id = $1 AND budget_period_id = $2
		 ORDER BY created_at, name`,
		userID, periodID,
	)
	if err != nil {
		return data, err
	}
	defer categoryRows.Close()

	categoryIndex := make(map[uuid.UUID]int)
	for categoryRows.Next() {
		var category models.ExpenseCategory
		err := categoryRows.Scan(&category.ID, &category.UserID, &category.PeriodID, &category.Name, &category.CreatedAt)
		if err != nil {
			return data, err
		}
		categoryIndex[category.ID] = len(data.Categories)
		data.Categories = append(data.Categories, budget.CategoryGroup{Category: category})
	}
	if err := categoryRows.Err(); err != nil {
		return data, err
	}

	itemRows, err := r.db.Query(ctx,
		`SELECT e.id, e.user_id, e.category_id, e.name, e.planned_cents, e.kind, e.created_at, e.updated_at
		 FROM expense_budget_items e
		 JOIN expense_categories c ON c.id = e.category_id
		 WHERE c.user_id = $1 AND c.budget_period_id = $2
		 ORDER BY e.created_at, e.name`,
		userID, periodID,
	)
	if err != nil {
		return data, err
	}
	defer itemRows.Close()

	expenseIndex := make(map[uuid.UUID][2]int)
	for itemRows.Next() {
		var item models.ExpenseBudgetItem
		err := itemRows.Scan(&item.ID, &item.UserID, &item.CategoryID, &item.Name, &item.PlannedCents, &item.Kind, &item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			return data, err
		}
		ci, ok := categoryIndex[item.CategoryID]
		if !ok {
			continue
		}
		expenseIndex[item.ID] = [2]int{ci, len(data.Categories[ci].Items)}
		data.Categories[ci].Items = append(data.Categories[ci].Items, budget.ExpenseGroup{Item: item})
	}
	if err := itemRows.Err(); err != nil {
		return data, err
	}

	expenseTxRows, err := r.db.Query(ctx,
		`SELECT t.id, t.user_id, t.budget_item_id, t.name, t.amount_cents, t.credit_purchase, t.credit_payoff, t.cash, t.date, t.created_at
		 FROM expense_transactions t
		 JOIN expense_budget_items e ON e.id = t.budget_item_id
		 JOIN expense_categories c ON c.id = e.category_id
		 WHERE c.user_id = $1 AND c.budget_period_id = $2
		 ORDER BY t.date DESC, t.created_at DESC`,
		userID, periodID,
	)
	if err != nil {
		return data, err
	}
	defer expenseTxRows.Close()

	for expenseTxRows.Next() {
		var t models.ExpenseTransaction
		err := expenseTxRows.Scan(&t.ID, &t.UserID, &t.ItemID, &t.Name, &t.AmountCents, &t.CreditPurchase, &t.CreditPayoff, &t.Cash, &t.Date, &t.CreatedAt)
		if err != nil {
			return data, err
		}
		if pos, ok := expenseIndex[t.ItemID]; ok {
			group := &data.Categories[pos[0]].Items[pos[1]]
			group.Transactions = append(group.Transactions, t)
		}
	}
	if err := expenseTxRows.Err(); err != nil {
		return data, err
	}

	return data, nil
}

// Create создает период одной транзакцией: сам период, клон шаблона,
// резервные статьи и импорт графика платежей. Конфликт по (месяц, год)
// откатывает все целиком.
func (r *PeriodRepository) Create(ctx context.Context, params budget.CreateParams) (models.BudgetPeriod, error) {
	var period models.BudgetPeriod

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return period, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	period, err = scanPeriod(tx.QueryRow(ctx,
		`INSERT INTO budget_periods (user_id, month, year, starting_bank_cents, starting_cash_cents)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+periodColumns,
		params.OwnerID, params.Month, params.Year, params.StartingBankCents, params.StartingCashCents,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return period, ErrConflict
		}
		return period, err
	}

	if params.TemplateID != nil {
		if err := r.cloneTemplate(ctx, tx, params.OwnerID, *params.TemplateID, period.ID); err != nil {
			return period, err
		}
	}

	for _, reserve := range params.Reserves {
		_, err = tx.Exec(ctx,
			`INSERT INTO income_budget_items (id, user_id, budget_period_id, name, planned_cents, kind)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (user_id, budget_period_id, name) DO UPDATE SET planned_cents = EXCLUDED.planned_cents`,
			uuid.New(), params.OwnerID, period.ID, reserve.Name, reserve.AmountCents, models.IncomeKindReserve,
		)
		if err != nil {
			return period, err
		}
	}

	if err := r.applyImports(ctx, tx, params.OwnerID, period.ID, params.Imports); err != nil {
		return period, err
	}

	if err := tx.Commit(ctx); err != nil {
		return period, err
	}

	return period, nil
}

// cloneTemplate копирует в новый период все статьи дохода и категории
// расходов шаблонного периода со свежими идентификаторами. Не копируется
// только категория нового долга: она принадлежит своему месяцу.
func (r *PeriodRepository) cloneTemplate(ctx context.Context, tx pgx.Tx, userID, templateID, periodID uuid.UUID) error {
	var exists bool
	err := tx.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM budget_periods WHERE id = $1 AND user_id = $2
		 )`,
		templateID, userID,
	).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO income_budget_items (id, user_id, budget_period_id, name, planned_cents, kind)
		 SELECT gen_random_uuid(), user_id, $3, name, planned_cents, kind
		 FROM income_budget_items
		 WHERE user_id = $1 AND budget_period_id = $2`,
		userID, templateID, periodID,
	)
	if err != nil {
		return err
	}

	categoryRows, err := tx.Query(ctx,
		`SELECT id, name
		 FROM expense_categories
		 WHERE user_id = $1 AND budget_period_id = $2 AND name <> $3
		 ORDER BY created_at, name`,
		userID, templateID, models.NewDebtCategoryName,
	)
	if err != nil {
		return err
	}
	defer categoryRows.Close()

	categoryMap := make(map[uuid.UUID]uuid.UUID)
	oldCategoryIDs := make([]uuid.UUID, 0)

	for categoryRows.Next() {
		var oldID uuid.UUID
		var name string

		if err := categoryRows.Scan(&oldID, &name); err != nil {
			return err
		}

		newID := uuid.New()
		categoryMap[oldID] = newID
		oldCategoryIDs = append(oldCategoryIDs, oldID)

		_, err = tx.Exec(ctx,
			`INSERT INTO expense_categories (id, user_id, budget_period_id, name)
			 VALUES ($1, $2, $3, $4)`,
			newID, userID, periodID, name,
		)
		if err != nil {
			return err
		}
	}
	if err := categoryRows.Err(); err != nil {
		return err
	}

	if len(oldCategoryIDs) == 0 {
		return nil
	}

	itemRows, err := tx.Query(ctx,
		`SELECT category_id, name, planned_cents, kind
		 FROM expense_budget_items
		 WHERE category_id = ANY($1)
		 ORDER BY created_at, name`,
		oldCategoryIDs,
	)
	if err != nil {
		return err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var oldCategoryID uuid.UUID
		var name string
		var plannedCents int64
		var kind models.ExpenseKind

		if err := itemRows.Scan(&oldCategoryID, &name, &plannedCents, &kind); err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO expense_budget_items (id, user_id, category_id, name, planned_cents, kind)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New(), userID, categoryMap[oldCategoryID], name, plannedCents, kind,
		)
		if err != nil {
			return err
		}
	}

	return itemRows.Err()
}

// applyImports материализует строки графика платежей в бюджете периода.
// Повторный импорт тех же строк ничего не дублирует.
func (r *PeriodRepository) applyImports(ctx context.Context, tx pgx.Tx, userID, periodID uuid.UUID, imports []budget.ImportLine) error {
	for _, line := range imports {
		if line.Category == models.NewDebtCategoryName {
			return ErrReservedName
		}

		_, err := tx.Exec(ctx,
			`INSERT INTO expense_categories (id, user_id, budget_period_id, name)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (user_id, budget_period_id, name) DO NOTHING`,
			uuid.New(), userID, periodID, line.Category,
		)
		if err != nil {
			return err
		}

		var categoryID uuid.UUID
		err = tx.QueryRow(ctx,
			`SELECT id FROM expense_categories
			 WHERE user_id = $1 AND budget_period_id = $2 AND name = $3`,
			userID, periodID, line.Category,
		).Scan(&categoryID)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO expense_budget_items (id, user_id, category_id, name, planned_cents, kind)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (user_id, category_id, name) DO NOTHING`,
			uuid.New(), userID, categoryID, line.Name, line.AmountCents, models.ExpenseKindExpense,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// SyncNewDebt приводит категорию нового долга в соответствие сумме
// кредитных покупок периода. Возвращает признак того, что данные менялись.
func (r *PeriodRepository) SyncNewDebt(ctx context.Context, userID uuid.UUID, period models.BudgetPeriod, ccTotal int64) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var categoryID uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT id FROM expense_categories
		 WHERE user_id = $1 AND budget_period_id = $2 AND name = $3`,
		userID, period.ID, models.NewDebtCategoryName,
	).Scan(&categoryID)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		if ccTotal <= 0 {
			return false, nil
		}

		categoryID = uuid.New()
		_, err = tx.Exec(ctx,
			`INSERT INTO expense_categories (id, user_id, budget_period_id, name)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (user_id, budget_period_id, name) DO NOTHING`,
			categoryID, userID, period.ID, models.NewDebtCategoryName,
		)
		if err != nil {
			return false, err
		}

		err = tx.QueryRow(ctx,
			`SELECT id FROM expense_categories
			 WHERE user_id = $1 AND budget_period_id = $2 AND name = $3`,
			userID, period.ID, models.NewDebtCategoryName,
		).Scan(&categoryID)
		if err != nil {
			return false, err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO expense_budget_items (id, user_id, category_id, name, planned_cents, kind)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (user_id, category_id, name) DO UPDATE SET planned_cents = EXCLUDED.planned_cents`,
			uuid.New(), userID, categoryID, models.NewDebtCategoryName, ccTotal, models.ExpenseKindExpense,
		)
		if err != nil {
			return false, err
		}

		return true, tx.Commit(ctx)

	case err != nil:
		return false, err
	}

	if ccTotal == 0 {
		_, err = tx.Exec(ctx,
			`DELETE FROM expense_categories
			 WHERE id = $1 AND user_id = $2`,
			categoryID, userID,
		)
		if err != nil {
			return false, err
		}

		return true, tx.Commit(ctx)
	}

	cmd, err := tx.Exec(ctx,
		`UPDATE expense_budget_items
		 SET planned_cents = $3, updated_at = NOW()
		 WHERE category_id = $1 AND name = $2 AND planned_cents <> $3`,
		categoryID, models.NewDebtCategoryName, ccTotal,
	)
	if err != nil {
		return false, err
	}

	if cmd.RowsAffected() > 0 {
		return true, tx.Commit(ctx)
	}

	return false, tx.Commit(ctx)
}
