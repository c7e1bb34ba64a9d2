package budget

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"example.com/budget-tracker/backend/internal/models"
)

func day(d int) time.Time {
	return time.Date(2024, time.June, d, 0, 0, 0, 0, time.UTC)
}

func incomeGroup(planned int64, kind models.IncomeKind, txs ...models.IncomeTransaction) IncomeGroup {
	return IncomeGroup{
		Item:         models.IncomeBudgetItem{ID: uuid.New(), Name: "income", PlannedCents: planned, Kind: kind},
		Transactions: txs,
	}
}

func categoryGroup(name string, items ...ExpenseGroup) CategoryGroup {
	return CategoryGroup{
		Category: models.ExpenseCategory{ID: uuid.New(), Name: name},
		Items:    items,
	}
}

func expenseGroup(name string, planned int64, txs ...models.ExpenseTransaction) ExpenseGroup {
	return ExpenseGroup{
		Item:         models.ExpenseBudgetItem{ID: uuid.New(), Name: name, PlannedCents: planned, Kind: models.ExpenseKindExpense},
		Transactions: txs,
	}
}

// TestSummarizeScenario проверяет базовый сценарий сверки: доход 1000.00,
// категория Groceries с планом 300.00 и кредитной покупкой 120.00.
func TestSummarizeScenario(t *testing.T) {
	period := models.BudgetPeriod{Month: 6, Year: 2024}
	data := PeriodData{
		Income: []IncomeGroup{incomeGroup(100000, models.IncomeKindIncome)},
		Categories: []CategoryGroup{
			categoryGroup("Groceries", expenseGroup("Food", 30000, models.ExpenseTransaction{
				ID: uuid.New(), Name: "tv", AmountCents: 12000, CreditPurchase: true, Date: day(5),
			})),
			categoryGroup(models.NewDebtCategoryName, expenseGroup("June Debt", 12000)),
		},
	}

	s := Summarize(period, data)

	if s.PlannedIncomeCents != 100000 {
		t.Fatalf("planned income: expected 100000, got %d", s.PlannedIncomeCents)
	}
	if s.PlannedExpensesCents != 30000 {
		t.Fatalf("planned expenses must exclude new debt: expected 30000, got %d", s.PlannedExpensesCents)
	}
	if s.NewDebtCents != 12000 {
		t.Fatalf("new debt: expected 12000, got %d", s.NewDebtCents)
	}
	if s.ActualExpensesCents != 0 {
		t.Fatalf("credit purchase must not count as an actual expense, got %d", s.ActualExpensesCents)
	}
	if s.LeftToPlanCents != 70000 {
		t.Fatalf("left to plan: expected 70000, got %d", s.LeftToPlanCents)
	}
	if s.Bank.ChangeCents != 0 || s.Cash.ChangeCents != 0 {
		t.Fatalf("credit purchase must not touch the pools: bank=%d cash=%d", s.Bank.ChangeCents, s.Cash.ChangeCents)
	}
}

// TestSummarizeIdempotent проверяет, что повторная сводка на тех же данных
// дает тот же результат.
func TestSummarizeIdempotent(t *testing.T) {
	period := models.BudgetPeriod{Month: 6, Year: 2024, StartingBankCents: 50000}
	data := PeriodData{
		Income: []IncomeGroup{incomeGroup(100000, models.IncomeKindIncome, models.IncomeTransaction{
			ID: uuid.New(), Name: "salary", AmountCents: 100000, Date: day(1),
		})},
		Categories: []CategoryGroup{
			categoryGroup("Rent", expenseGroup("Rent", 40000, models.ExpenseTransaction{
				ID: uuid.New(), Name: "rent", AmountCents: 40000, Date: day(3),
			})),
		},
	}

	first := Summarize(period, data)
	second := Summarize(period, data)

	if first.LeftToSpendCents != second.LeftToSpendCents ||
		first.Bank.EndingCents != second.Bank.EndingCents ||
		len(first.Transactions) != len(second.Transactions) {
		t.Fatalf("summary must be deterministic")
	}
}

// TestSummarizePools проверяет независимость банковского и наличного пулов.
func TestSummarizePools(t *testing.T) {
	period := models.BudgetPeriod{Month: 6, Year: 2024, StartingBankCents: 10000, StartingCashCents: 5000}
	data := PeriodData{
		Income: []IncomeGroup{incomeGroup(0, models.IncomeKindIncome,
			models.IncomeTransaction{ID: uuid.New(), AmountCents: 20000, Date: day(1)},
			models.IncomeTransaction{ID: uuid.New(), AmountCents: 3000, Cash: true, Date: day(2)},
		)},
		Categories: []CategoryGroup{
			categoryGroup("Misc",
				expenseGroup("Bank", 0, models.ExpenseTransaction{ID: uuid.New(), AmountCents: 7000, Date: day(3)}),
				expenseGroup("Cash", 0, models.ExpenseTransaction{ID: uuid.New(), AmountCents: 1000, Cash: true, Date: day(4)}),
			),
		},
	}

	s := Summarize(period, data)

	if s.Bank.EndingCents != 10000+20000-7000 {
		t.Fatalf("bank: expected 23000, got %d", s.Bank.EndingCents)
	}
	if s.Cash.EndingCents != 5000+3000-1000 {
		t.Fatalf("cash: expected 7000, got %d", s.Cash.EndingCents)
	}
}

// TestSummarizeReserves проверяет резервные статьи: план резерва сразу
// считается полученным и входит в зарезервированные средства.
func TestSummarizeReserves(t *testing.T) {
	period := models.BudgetPeriod{Month: 6, Year: 2024}
	data := PeriodData{
		Income: []IncomeGroup{
			incomeGroup(15000, models.IncomeKindReserve),
		},
		Categories: []CategoryGroup{
			categoryGroup("Savings", ExpenseGroup{
				Item: models.ExpenseBudgetItem{ID: uuid.New(), Name: "Vacation fund", PlannedCents: 6000, Kind: models.ExpenseKindReserve},
			}),
		},
	}

	s := Summarize(period, data)

	if s.ActualIncomeCents != 15000 {
		t.Fatalf("reserve income counts as received: expected 15000, got %d", s.ActualIncomeCents)
	}
	if s.ActualExpensesCents != 6000 {
		t.Fatalf("reserve expense counts as spent: expected 6000, got %d", s.ActualExpensesCents)
	}
	if s.ReservedFundsCents != 9000 {
		t.Fatalf("reserved funds: expected 9000, got %d", s.ReservedFundsCents)
	}
}

// TestSummarizeDebtPayoff проверяет тождество остатка долга и учет выплат.
func TestSummarizeDebtPayoff(t *testing.T) {
	period := models.BudgetPeriod{Month: 6, Year: 2024}
	data := PeriodData{
		Categories: []CategoryGroup{
			categoryGroup("Shopping", expenseGroup("Stuff", 0,
				models.ExpenseTransaction{ID: uuid.New(), AmountCents: 12000, CreditPurchase: true, Date: day(2)},
			)),
			categoryGroup(models.NewDebtCategoryName, expenseGroup("June Debt", 12000,
				models.ExpenseTransaction{ID: uuid.New(), AmountCents: 5000, CreditPayoff: true, Date: day(20)},
			)),
		},
	}

	s := Summarize(period, data)

	if s.PaidDebtCents != 5000 {
		t.Fatalf("paid debt: expected 5000, got %d", s.PaidDebtCents)
	}
	if s.RemainingDebtCents != s.NewDebtCents-s.PaidDebtCents {
		t.Fatalf("remaining debt must equal new debt minus payments")
	}
	if s.ActualExpensesCents != 5000 {
		t.Fatalf("debt payment leaves the pool: expected 5000, got %d", s.ActualExpensesCents)
	}
}

// TestSummarizeOrdering проверяет порядок категорий и сортировку ленты
// операций.
func TestSummarizeOrdering(t *testing.T) {
	period := models.BudgetPeriod{Month: 6, Year: 2024}
	data := PeriodData{
		Income: []IncomeGroup{incomeGroup(0, models.IncomeKindIncome,
			models.IncomeTransaction{ID: uuid.New(), Name: "old", AmountCents: 100, Date: day(1)},
		)},
		Categories: []CategoryGroup{
			categoryGroup(models.NewDebtCategoryName, expenseGroup("June Debt", 500)),
			categoryGroup("Rent", expenseGroup("Rent", 0,
				models.ExpenseTransaction{ID: uuid.New(), Name: "new", AmountCents: 200, Date: day(15)},
			)),
		},
	}

	s := Summarize(period, data)

	if got := s.Categories[len(s.Categories)-1].Category.Name; got != models.NewDebtCategoryName {
		t.Fatalf("new debt must be the last category, got %q", got)
	}
	if s.Transactions[0].Name != "new" || s.Transactions[1].Name != "old" {
		t.Fatalf("transactions must run newest first: %q, %q", s.Transactions[0].Name, s.Transactions[1].Name)
	}
}

// TestPlanNewDebt проверяет решения синхронизации категории нового долга.
func TestPlanNewDebt(t *testing.T) {
	withDebt := func(planned int64) PeriodData {
		return PeriodData{Categories: []CategoryGroup{
			categoryGroup(models.NewDebtCategoryName, expenseGroup("June Debt", planned)),
		}}
	}
	empty := PeriodData{Categories: []CategoryGroup{categoryGroup("Rent")}}

	cases := []struct {
		name    string
		data    PeriodData
		ccTotal int64
		want    DebtAction
	}{
		{"no purchases and no category", empty, 0, DebtActionNone},
		{"purchases appeared", empty, 12000, DebtActionCreate},
		{"amount matches", withDebt(12000), 12000, DebtActionNone},
		{"amount diverged", withDebt(12000), 15000, DebtActionUpdate},
		{"purchases dropped to zero", withDebt(12000), 0, DebtActionDelete},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PlanNewDebt(tc.data, tc.ccTotal); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

// TestCreditPurchaseTotal проверяет подсчет кредитных покупок по всем
// категориям.
func TestCreditPurchaseTotal(t *testing.T) {
	data := PeriodData{
		Categories: []CategoryGroup{
			categoryGroup("A", expenseGroup("a", 0,
				models.ExpenseTransaction{ID: uuid.New(), AmountCents: 1000, CreditPurchase: true, Date: day(1)},
				models.ExpenseTransaction{ID: uuid.New(), AmountCents: 500, Date: day(2)},
			)),
			categoryGroup("B", expenseGroup("b", 0,
				models.ExpenseTransaction{ID: uuid.New(), AmountCents: 2500, CreditPurchase: true, Date: day(3)},
			)),
		},
	}

	if got := CreditPurchaseTotal(data); got != 3500 {
		t.Fatalf("expected 3500, got %d", got)
	}
}
