package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/budget-tracker/backend/internal/auth"
	"example.com/budget-tracker/backend/internal/budget"
	"example.com/budget-tracker/backend/internal/models"
	"example.com/budget-tracker/backend/internal/notifications"
	"example.com/budget-tracker/backend/internal/repository"
)

type BudgetHandler struct {
	Periods  *repository.PeriodRepository
	Service  *budget.Service
	Factory  *budget.Factory
	Notifier *notifications.Hub
}

// NewBudgetHandler создает обработчик бюджетных периодов.
func NewBudgetHandler(periods *repository.PeriodRepository, service *budget.Service, factory *budget.Factory, notifier *notifications.Hub) *BudgetHandler {
	return &BudgetHandler{Periods: periods, Service: service, Factory: factory, Notifier: notifier}
}

type PeriodCreateRequest struct {
	Month             int     `json:"month" validate:"min=1,max=12"`
	Year              int     `json:"year" validate:"min=2000,max=2200"`
	StartingBankCents int64   `json:"starting_bank_cents"`
	StartingCashCents int64   `json:"starting_cash_cents"`
	UsableBankCents   int64   `json:"usable_bank_cents" validate:"min=0"`
	UsableCashCents   int64   `json:"usable_cash_cents" validate:"min=0"`
	TemplateID        *string `json:"template_id"`
	ImportSchedule    bool    `json:"import_schedule"`
}

type PeriodUpdateRequest struct {
	StartingBankCents int64 `json:"starting_bank_cents"`
	StartingCashCents int64 `json:"starting_cash_cents"`
}

type PeriodResponse struct {
	ID                uuid.UUID `json:"id"`
	Month             int       `json:"month"`
	Year              int       `json:"year"`
	StartingBankCents int64     `json:"starting_bank_cents"`
	StartingCashCents int64     `json:"starting_cash_cents"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type TotalsResponse struct {
	PlannedIncomeCents   int64 `json:"planned_income_cents"`
	PlannedExpensesCents int64 `json:"planned_expenses_cents"`
	ActualIncomeCents    int64 `json:"actual_income_cents"`
	ActualExpensesCents  int64 `json:"actual_expenses_cents"`
	ReservedFundsCents   int64 `json:"reserved_funds_cents"`
	NewDebtCents         int64 `json:"new_debt_cents"`
	PaidDebtCents        int64 `json:"paid_debt_cents"`
	RemainingDebtCents   int64 `json:"remaining_debt_cents"`
	LeftToPlanCents      int64 `json:"left_to_plan_cents"`
	LeftToSpendCents     int64 `json:"left_to_spend_cents"`
}

type IncomeItemResponse struct {
	ID           uuid.UUID             `json:"id"`
	Name         string                `json:"name"`
	PlannedCents int64                 `json:"planned_cents"`
	ActualCents  int64                 `json:"actual_cents"`
	Kind         models.IncomeKind     `json:"kind"`
	Transactions []TransactionResponse `json:"transactions"`
}

type ExpenseItemResponse struct {
	ID           uuid.UUID             `json:"id"`
	Name         string                `json:"name"`
	PlannedCents int64                 `json:"planned_cents"`
	ActualCents  int64                 `json:"actual_cents"`
	Kind         models.ExpenseKind    `json:"kind"`
	Transactions []TransactionResponse `json:"transactions"`
}

type CategoryResponse struct {
	ID      uuid.UUID             `json:"id"`
	Name    string                `json:"name"`
	NewDebt bool                  `json:"new_debt"`
	Items   []ExpenseItemResponse `json:"items"`
}

type TransactionResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	AmountCents    int64     `json:"amount_cents"`
	Date           string    `json:"date"`
	Cash           bool      `json:"cash"`
	Income         bool      `json:"income"`
	CreditPurchase bool      `json:"credit_purchase"`
	CreditPayoff   bool      `json:"credit_payoff"`
}

type BudgetViewResponse struct {
	Period       PeriodResponse        `json:"period"`
	Totals       TotalsResponse        `json:"totals"`
	Bank         budget.PoolSummary    `json:"bank"`
	Cash         budget.PoolSummary    `json:"cash"`
	Income       []IncomeItemResponse  `json:"income"`
	Categories   []CategoryResponse    `json:"categories"`
	Transactions []TransactionResponse `json:"transactions"`
}

// View возвращает сверенное представление периода за месяц и год из URL.
func (h *BudgetHandler) View(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return notFound(c, "budget period not found")
	}

	month, ok := parseMonthToken(c.Param("month"))
	if !ok {
		return notFound(c, "budget period not found")
	}

	period, summary, err := h.Service.View(c.Request().Context(), userID, month, year)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "budget period not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, toBudgetViewResponse(period, summary))
}

// Create создает новый бюджетный период.
func (h *BudgetHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req PeriodCreateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	input := budget.CreateInput{
		OwnerID:           userID,
		Month:             req.Month,
		Year:              req.Year,
		StartingBankCents: req.StartingBankCents,
		StartingCashCents: req.StartingCashCents,
		UsableBankCents:   req.UsableBankCents,
		UsableCashCents:   req.UsableCashCents,
		ImportSchedule:    req.ImportSchedule,
	}

	if req.TemplateID != nil {
		templateID, err := uuid.Parse(strings.TrimSpace(*req.TemplateID))
		if err != nil {
			return badRequest(c, "invalid template id")
		}
		input.TemplateID = &templateID
	}

	period, err := h.Factory.Create(c.Request().Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, budget.ErrInvalidPeriod):
			return badRequest(c, "invalid month or year")
		case errors.Is(err, repository.ErrConflict):
			return conflict(c, "budget period already exists")
		case errors.Is(err, repository.ErrNotFound):
			return notFound(c, "template period not found")
		}
		return serverError(c)
	}

	publishPeriodUpdate(h.Notifier, userID, period.ID)
	return c.JSON(http.StatusCreated, toPeriodResponse(period))
}

// List возвращает периоды пользователя.
func (h *BudgetHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	periods, err := h.Periods.ListByOwner(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	response := make([]PeriodResponse, 0, len(periods))
	for _, period := range periods {
		response = append(response, toPeriodResponse(period))
	}

	return c.JSON(http.StatusOK, map[string][]PeriodResponse{"periods": response})
}

// Update обновляет стартовые остатки периода.
func (h *BudgetHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	periodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid period id")
	}

	var req PeriodUpdateRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}

	period, err := h.Periods.Update(c.Request().Context(), userID, periodID, req.StartingBankCents, req.StartingCashCents)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "budget period not found")
		}
		return serverError(c)
	}

	publishPeriodUpdate(h.Notifier, userID, period.ID)
	return c.JSON(http.StatusOK, toPeriodResponse(period))
}

// Delete удаляет период вместе со всем содержимым.
func (h *BudgetHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	periodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid period id")
	}

	if err := h.Periods.Delete(c.Request().Context(), userID, periodID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "budget period not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

// parseMonthToken принимает номер месяца или его английское название в любом
// регистре.
func parseMonthToken(token string) (int, bool) {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return 0, false
	}

	if n, err := strconv.Atoi(token); err == nil {
		if n >= 1 && n <= 12 {
			return n, true
		}
		return 0, false
	}

	for m := time.January; m <= time.December; m++ {
		if strings.ToLower(m.String()) == token {
			return int(m), true
		}
	}

	return 0, false
}

func toPeriodResponse(period models.BudgetPeriod) PeriodResponse {
	return PeriodResponse{
		ID:                period.ID,
		Month:             period.Month,
		Year:              period.Year,
		StartingBankCents: period.StartingBankCents,
		StartingCashCents: period.StartingCashCents,
		CreatedAt:         period.CreatedAt,
		UpdatedAt:         period.UpdatedAt,
	}
}

func toBudgetViewResponse(period models.BudgetPeriod, summary budget.Summary) BudgetViewResponse {
	response := BudgetViewResponse{
		Period: toPeriodResponse(period),
		Totals: TotalsResponse{
			PlannedIncomeCents:   summary.PlannedIncomeCents,
			PlannedExpensesCents: summary.PlannedExpensesCents,
			ActualIncomeCents:    summary.ActualIncomeCents,
			ActualExpensesCents:  summary.ActualExpensesCents,
			ReservedFundsCents:   summary.ReservedFundsCents,
			NewDebtCents:         summary.NewDebtCents,
			PaidDebtCents:        summary.PaidDebtCents,
			RemainingDebtCents:   summary.RemainingDebtCents,
			LeftToPlanCents:      summary.LeftToPlanCents,
			LeftToSpendCents:     summary.LeftToSpendCents,
		},
		Bank:         summary.Bank,
		Cash:         summary.Cash,
		Income:       make([]IncomeItemResponse, 0, len(summary.Income)),
		Categories:   make([]CategoryResponse, 0, len(summary.Categories)),
		Transactions: make([]TransactionResponse, 0, len(summary.Transactions)),
	}

	for _, group := range summary.Income {
		item := IncomeItemResponse{
			ID:           group.Item.ID,
			Name:         group.Item.Name,
			PlannedCents: group.Item.PlannedCents,
			Kind:         group.Item.Kind,
			Transactions: make([]TransactionResponse, 0, len(group.Transactions)),
		}
		if group.Item.Kind == models.IncomeKindReserve {
			item.ActualCents = group.Item.PlannedCents
		}
		for _, t := range group.Transactions {
			item.ActualCents += t.AmountCents
			item.Transactions = append(item.Transactions, TransactionResponse{
				ID:          t.ID,
				Name:        t.Name,
				AmountCents: t.AmountCents,
				Date:        t.Date.Format(dateLayout),
				Cash:        t.Cash,
				Income:      true,
			})
		}
		response.Income = append(response.Income, item)
	}

	for _, group := range summary.Categories {
		category := CategoryResponse{
			ID:      group.Category.ID,
			Name:    group.Category.Name,
			NewDebt: group.Category.IsNewDebt(),
			Items:   make([]ExpenseItemResponse, 0, len(group.Items)),
		}
		for _, expense := range group.Items {
			item := ExpenseItemResponse{
				ID:           expense.Item.ID,
				Name:         expense.Item.Name,
				PlannedCents: expense.Item.PlannedCents,
				Kind:         expense.Item.Kind,
				Transactions: make([]TransactionResponse, 0, len(expense.Transactions)),
			}
			if expense.Item.Kind == models.ExpenseKindReserve {
				item.ActualCents = expense.Item.PlannedCents
			}
			for _, t := range expense.Transactions {
				if !t.CreditPurchase {
					item.ActualCents += t.AmountCents
				}
				item.Transactions = append(item.Transactions, TransactionResponse{
					ID:             t.ID,
					Name:           t.Name,
					AmountCents:    t.AmountCents,
					Date:           t.Date.Format(dateLayout),
					Cash:           t.Cash,
					CreditPurchase: t.CreditPurchase,
					CreditPayoff:   t.CreditPayoff,
				})
			}
			category.Items = append(category.Items, item)
		}
		response.Categories = append(response.Categories, category)
	}

	for _, t := range summary.Transactions {
		response.Transactions = append(response.Transactions, TransactionResponse{
			ID:             t.ID,
			Name:           t.Name,
			AmountCents:    t.AmountCents,
			Date:           t.Date.Format(dateLayout),
			Cash:           t.Cash,
			Income:         t.Income,
			CreditPurchase: t.CreditPurchase,
			CreditPayoff:   t.CreditPayoff,
		})
	}

	return response
}
