package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/budget-tracker/backend/internal/models"
)

type TransactionRepository struct {
	db *pgxpool.Pool
}

// NewTransactionRepository создает репозиторий операций.
func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// CreateIncome записывает фактическое поступление по статье дохода.
func (r *TransactionRepository) CreateIncome(ctx context.Context, userID, itemID uuid.UUID, name string, amountCents int64, cash bool, date time.Time) (models.IncomeTransaction, error) {
	var t models.IncomeTransaction

	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM income_budget_items WHERE id = $1 AND user_id = $2
		 )`,
		itemID, userID,
	).Scan(&exists)
	if err != nil {
		return t, err
	}
	if !exists {
		return t, ErrNotFound
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO income_transactions (user_id, budget_item_id, name, amount_cents, cash, date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, user_id, budget_item_id, name, amount_cents, cash, date, created_at`,
		userID, itemID, name, amountCents, cash, date,
	).Scan(&t.ID, &t.UserID, &t.ItemID, &t.Name, &t.AmountCents, &t.Cash, &t.Date, &t.CreatedAt)
	if err != nil {
		return t, err
	}

	return t, nil
}

// DeleteIncome удаляет поступление.
func (r *TransactionRepository) DeleteIncome(ctx context.Context, userID, transactionID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM income_transactions
		 WHERE id = $1 AND user_id = $2`,
		transactionID, userID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// CreateExpense записывает фактический расход по статье. Возврат средств
// передается отрицательной суммой.
func (r *TransactionRepository) CreateExpense(ctx context.Context, userID, itemID uuid.UUID, name string, amountCents int64, creditPurchase, creditPayoff, cash bool, date time.Time) (models.ExpenseTransaction, error) {
	var t models.ExpenseTransaction

	if creditPurchase && creditPayoff {
		return t, ErrInvalid
	}

	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM expense_budget_items WHERE id = $1 AND user_id = $2
		 )`,
		itemID, userID,
	).Scan(&exists)
	if err != nil {
		return t, err
	}
	if !exists {
		return t, ErrNotFound
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO expense_transactions (user_id, budget_item_id, name, amount_cents, credit_purchase, credit_payoff, cash, date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, user_id, budget_item_id, name, amount_cents, credit_purchase, credit_payoff, cash, date, created_at`,
		userID, itemID, name, amountCents, creditPurchase, creditPayoff, cash, date,
	).Scan(&t.ID, &t.UserID, &t.ItemID, &t.Name, &t.AmountCents, &t.CreditPurchase, &t.CreditPayoff, &t.Cash, &t.Date, &t.CreatedAt)
	if err != nil {
		return t, err
	}

	return t, nil
}

// DeleteExpense удаляет расход.
func (r *TransactionRepository) DeleteExpense(ctx context.Context, userID, transactionID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM expense_transactions
		 WHERE id = $1 AND user_id = $2`,
		transactionID, userID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// CreateDebtPayment записывает выплату долга: расход с признаком credit_payoff
// на статье категории нового долга периода.
func (r *TransactionRepository) CreateDebtPayment(ctx context.Context, userID, periodID uuid.UUID, name string, amountCents int64, cash bool, date time.Time) (models.ExpenseTransaction, error) {
	var t models.ExpenseTransaction

	var itemID uuid.UUID
	err := r.db.QueryRow(ctx,
		`SELECT e.id
		 FROM expense_budget_items e
		 JOIN expense_categories c ON c.id = e.category_id
		 WHERE c.user_id = $1 AND c.budget_period_id = $2 AND c.name = $3
		 ORDER BY e.created_at
		 LIMIT 1`,
		userID, periodID, models.NewDebtCategoryName,
	).Scan(&itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return t, ErrNotFound
		}
		return t, err
	}

	return r.CreateExpense(ctx, userID, itemID, name, amountCents, false, true, cash, date)
}

// IncomeTransactionPeriodID возвращает период, которому принадлежит
// поступление с данным идентификатором.
func (r *TransactionRepository) IncomeTransactionPeriodID(ctx context.Context, userID, transactionID uuid.UUID) (uuid.UUID, error) {
	var periodID uuid.UUID

	err := r.db.QueryRow(ctx,
		`SELECT i.budget_period_id
		 FROM income_transactions t
		 JOIN income_budget_items i ON i.id = t.budget_item_id
		 WHERE t.id = $1 AND t.user_id = $2`,
		transactionID, userID,
	).Scan(&periodID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return periodID, ErrNotFound
		}
		return periodID, err
	}

	return periodID, nil
}

// ExpenseTransactionPeriodID возвращает период, которому принадлежит расход
// с данным идентификатором.
func (r *TransactionRepository) ExpenseTransactionPeriodID(ctx context.Context, userID, transactionID uuid.UUID) (uuid.UUID, error) {
	var periodID uuid.UUID

	err := r.db.QueryRow(ctx,
		`SELECT c.budget_period_id
		 FROM expense_transactions t
		 JOIN expense_budget_items e ON e.id = t.budget_item_id
		 JOIN expense_categories c ON c.id = e.category_id
		 WHERE t.id = $1 AND t.user_id = $2`,
		transactionID, userID,
	).Scan(&periodID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return periodID, ErrNotFound
		}
		return periodID, err
	}

	return periodID, nil
}

// IncomePeriodID возвращает период, которому принадлежит поступление.
func (r *TransactionRepository) IncomePeriodID(ctx context.Context, userID, itemID uuid.UUID) (uuid.UUID, error) {
	var periodID uuid.UUID

	err := r.db.QueryRow(ctx,
		`SELECT budget_period_id
		 FROM income_budget_items
		 WHERE id = $1 AND user_id = $2`,
		itemID, userID,
	).Scan(&periodID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return periodID, ErrNotFound
		}
		return periodID, err
	}

	return periodID, nil
}

// ExpensePeriodID возвращает период, которому принадлежит статья расходов.
func (r *TransactionRepository) ExpensePeriodID(ctx context.Context, userID, itemID uuid.UUID) (uuid.UUID, error) {
	var periodID uuid.UUID

	err := r.db.QueryRow(ctx,
		`SELECT c.budget_period_id
		 FROM expense_budget_items e
		 JOIN expense_categories c ON c.id = e.category_id
		 WHERE e.id = $1 AND e.user_id = $2`,
		itemID, userID,
	).Scan(&periodID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return periodID, ErrNotFound
		}
		return periodID, err
	}

	return periodID, nil
}
