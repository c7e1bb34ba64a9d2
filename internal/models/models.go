package models

import (
	"time"

	"github.com/google/uuid"
)

type Frequency string

type FlowKind string

type IncomeKind string

type ExpenseKind string

const (
	FrequencyWeekly     Frequency = "weekly"
	FrequencyBiweekly   Frequency = "biweekly"
	FrequencyMonthly    Frequency = "monthly"
	FrequencyBimonthly  Frequency = "bimonthly"
	FrequencyQuarterly  Frequency = "quarterly"
	FrequencySemiannual Frequency = "semiannual"
	FrequencyYearly     Frequency = "yearly"
	FrequencyOnce       Frequency = "once"

	FlowKindIncome   FlowKind = "income"
	FlowKindExpense  FlowKind = "expense"
	FlowKindTransfer FlowKind = "transfer"
	FlowKindReserve  FlowKind = "reserve"

	IncomeKindIncome   IncomeKind = "income"
	IncomeKindTransfer IncomeKind = "transfer"
	IncomeKindReserve  IncomeKind = "reserve"

	ExpenseKindExpense  ExpenseKind = "expense"
	ExpenseKindTransfer ExpenseKind = "transfer"
	ExpenseKindReserve  ExpenseKind = "reserve"
)

// NewDebtCategoryName — зарезервированное имя категории, которой управляет
// только реконсиляция бюджета, не пользователь.
const NewDebtCategoryName = "New Debt"

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         *string   `json:"name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ScheduleItem struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Kind         FlowKind  `json:"kind"`
	AmountCents  int64     `json:"amount_cents"`
	FirstDueDate time.Time `json:"first_due_date"`
	Frequency    Frequency `json:"frequency"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type BudgetPeriod struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	Month             int       `json:"month"`
	Year              int       `json:"year"`
	StartingBankCents int64     `json:"starting_bank_cents"`
	StartingCashCents int64     `json:"starting_cash_cents"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type IncomeBudgetItem struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	PeriodID     uuid.UUID  `json:"budget_period_id"`
	Name         string     `json:"name"`
	PlannedCents int64      `json:"planned_cents"`
	Kind         IncomeKind `json:"kind"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type ExpenseCategory struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	PeriodID  uuid.UUID `json:"budget_period_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// IsNewDebt сообщает, является ли категория системной категорией нового долга.
func (c ExpenseCategory) IsNewDebt() bool {
	return c.Name == NewDebtCategoryName
}

type ExpenseBudgetItem struct {
	ID           uuid.UUID   `json:"id"`
	UserID       uuid.UUID   `json:"user_id"`
	CategoryID   uuid.UUID   `json:"category_id"`
	Name         string      `json:"name"`
	PlannedCents int64       `json:"planned_cents"`
	Kind         ExpenseKind `json:"kind"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type IncomeTransaction struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	ItemID      uuid.UUID `json:"budget_item_id"`
	Name        string    `json:"name"`
	AmountCents int64     `json:"amount_cents"`
	Cash        bool      `json:"cash"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

type ExpenseTransaction struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	ItemID         uuid.UUID `json:"budget_item_id"`
	Name           string    `json:"name"`
	AmountCents    int64     `json:"amount_cents"`
	CreditPurchase bool      `json:"credit_purchase"`
	CreditPayoff   bool      `json:"credit_payoff"`
	Cash           bool      `json:"cash"`
	Date           time.Time `json:"date"`
	CreatedAt      time.Time `json:"created_at"`
}

// IsRefund сообщает, является ли расходная операция возвратом средств.
func (t ExpenseTransaction) IsRefund() bool {
	return t.AmountCents < 0
}

type RefreshToken struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	TokenHash  string     `json:"-"`
	ExpiresAt  time.Time  `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	ReplacedBy *uuid.UUID `json:"replaced_by,omitempty"`
}
