package budget

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"example.com/budget-tracker/backend/internal/models"
)

// PeriodData — полный граф бюджетного периода, загруженный из хранилища:
// статьи дохода с операциями и категории расходов со статьями и операциями.
type PeriodData struct {
	Income     []IncomeGroup
	Categories []CategoryGroup
}

type IncomeGroup struct {
	Item         models.IncomeBudgetItem
	Transactions []models.IncomeTransaction
}

type CategoryGroup struct {
	Category models.ExpenseCategory
	Items    []ExpenseGroup
}

type ExpenseGroup struct {
	Item         models.ExpenseBudgetItem
	Transactions []models.ExpenseTransaction
}

type PoolSummary struct {
	StartingCents int64 `json:"starting_cents"`
	IncomeCents   int64 `json:"income_cents"`
	ExpenseCents  int64 `json:"expense_cents"`
	ChangeCents   int64 `json:"change_cents"`
	EndingCents   int64 `json:"ending_cents"`
}

// Transaction — строка объединенной ленты операций периода.
type Transaction struct {
	ID             uuid.UUID
	Name           string
	AmountCents    int64
	Date           time.Time
	Cash           bool
	Income         bool
	CreditPurchase bool
	CreditPayoff   bool
}

// Summary — сверенное представление одного бюджетного периода.
type Summary struct {
	PlannedIncomeCents   int64
	PlannedExpensesCents int64
	ActualIncomeCents    int64
	ActualExpensesCents  int64
	ReservedFundsCents   int64
	NewDebtCents         int64
	PaidDebtCents        int64
	RemainingDebtCents   int64
	LeftToPlanCents      int64
	LeftToSpendCents     int64
	Bank                 PoolSummary
	Cash                 PoolSummary
	Income               []IncomeGroup
	Categories           []CategoryGroup
	Transactions         []Transaction
}

// CreditPurchaseTotal суммирует все кредитные покупки периода.
func CreditPurchaseTotal(data PeriodData) int64 {
	var total int64
	for _, group := range data.Categories {
		for _, expense := range group.Items {
			for _, t := range expense.Transactions {
				if t.CreditPurchase {
					total += t.AmountCents
				}
			}
		}
	}

	return total
}

// Summarize сводит период в согласованное представление. Функция чистая:
// повторный вызов на тех же данных дает тот же результат.
func Summarize(period models.BudgetPeriod, data PeriodData) Summary {
	s := Summary{
		Income: data.Income,
		Bank:   PoolSummary{StartingCents: period.StartingBankCents},
		Cash:   PoolSummary{StartingCents: period.StartingCashCents},
	}

	for _, group := range data.Income {
		s.PlannedIncomeCents += group.Item.PlannedCents

		// Резервные статьи считаются уже полученными.
		if group.Item.Kind == models.IncomeKindReserve {
			s.ActualIncomeCents += group.Item.PlannedCents
			s.ReservedFundsCents += group.Item.PlannedCents
		}

		for _, t := range group.Transactions {
			s.ActualIncomeCents += t.AmountCents
			if t.Cash {
				s.Cash.IncomeCents += t.AmountCents
			} else {
				s.Bank.IncomeCents += t.AmountCents
			}
			s.Transactions = append(s.Transactions, Transaction{
				ID:          t.ID,
				Name:        t.Name,
				AmountCents: t.AmountCents,
				Date:        t.Date,
				Cash:        t.Cash,
				Income:      true,
			})
		}
	}

	for _, group := range data.Categories {
		newDebt := group.Category.IsNewDebt()

		for _, expense := range group.Items {
			// Производная статья нового долга не входит в план расходов,
			// иначе кредитные покупки посчитались бы дважды.
			if !newDebt {
				s.PlannedExpensesCents += expense.Item.PlannedCents
			}

			if expense.Item.Kind == models.ExpenseKindReserve {
				s.ActualExpensesCents += expense.Item.PlannedCents
				s.ReservedFundsCents -= expense.Item.PlannedCents
			}

			for _, t := range expense.Transactions {
				if t.CreditPurchase {
					// Кредитная покупка создает долг, деньги из пулов не уходят.
					s.NewDebtCents += t.AmountCents
				} else {
					s.ActualExpensesCents += t.AmountCents
					if t.Cash {
						s.Cash.ExpenseCents += t.AmountCents
					} else {
						s.Bank.ExpenseCents += t.AmountCents
					}
				}

				if t.CreditPayoff {
					s.PaidDebtCents += t.AmountCents
				}

				s.Transactions = append(s.Transactions, Transaction{
					ID:             t.ID,
					Name:           t.Name,
					AmountCents:    t.AmountCents,
					Date:           t.Date,
					Cash:           t.Cash,
					CreditPurchase: t.CreditPurchase,
					CreditPayoff:   t.CreditPayoff,
				})
			}
		}
	}

	s.RemainingDebtCents = s.NewDebtCents - s.PaidDebtCents
	s.LeftToPlanCents = s.PlannedIncomeCents - s.PlannedExpensesCents
	s.LeftToSpendCents = s.ActualIncomeCents - s.ActualExpensesCents

	s.Bank.ChangeCents = s.Bank.IncomeCents - s.Bank.ExpenseCents
	s.Bank.EndingCents = s.Bank.StartingCents + s.Bank.ChangeCents
	s.Cash.ChangeCents = s.Cash.IncomeCents - s.Cash.ExpenseCents
	s.Cash.EndingCents = s.Cash.StartingCents + s.Cash.ChangeCents

	s.Categories = orderCategories(data.Categories)

	sort.SliceStable(s.Transactions, func(i, j int) bool {
		return s.Transactions[i].Date.After(s.Transactions[j].Date)
	})

	return s
}

// orderCategories возвращает категории в исходном порядке, но системная
// категория нового долга всегда последняя.
func orderCategories(categories []CategoryGroup) []CategoryGroup {
	ordered := make([]CategoryGroup, 0, len(categories))
	var debt []CategoryGroup

	for _, group := range categories {
		if group.Category.IsNewDebt() {
			debt = append(debt, group)
			continue
		}
		ordered = append(ordered, group)
	}

	return append(ordered, debt...)
}

type DebtAction int

const (
	DebtActionNone DebtAction = iota
	DebtActionCreate
	DebtActionUpdate
	DebtActionDelete
)

// PlanNewDebt решает, что сделать с категорией нового долга, чтобы ее
// плановая сумма совпадала с фактическими кредитными покупками.
func PlanNewDebt(data PeriodData, ccTotal int64) DebtAction {
	for _, group := range data.Categories {
		if !group.Category.IsNewDebt() {
			continue
		}

		if ccTotal == 0 {
			return DebtActionDelete
		}

		for _, expense := range group.Items {
			if expense.Item.PlannedCents == ccTotal {
				return DebtActionNone
			}
		}

		return DebtActionUpdate
	}

	if ccTotal > 0 {
		return DebtActionCreate
	}

	return DebtActionNone
}
