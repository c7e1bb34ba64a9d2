package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/budget-tracker/backend/internal/auth"
	"example.com/budget-tracker/backend/internal/notifications"
	"example.com/budget-tracker/backend/internal/repository"
)

type TransactionHandler struct {
	Transactions *repository.TransactionRepository
	Notifier     *notifications.Hub
}

// NewTransactionHandler создает обработчик операций.
func NewTransactionHandler(transactions *repository.TransactionRepository, notifier *notifications.Hub) *TransactionHandler {
	return &TransactionHandler{Transactions: transactions, Notifier: notifier}
}

type IncomeTransactionRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	AmountCents int64  `json:"amount_cents" validate:"gt=0"`
	Cash        bool   `json:"cash"`
	Date        string `json:"date" validate:"required"`
}

type ExpenseTransactionRequest struct {
	Name           string `json:"name" validate:"required,max=200"`
	AmountCents    int64  `json:"amount_cents" validate:"ne=0"`
	CreditPurchase bool   `json:"credit_purchase"`
	CreditPayoff   bool   `json:"credit_payoff"`
	Cash           bool   `json:"cash"`
	Date           string `json:"date" validate:"required"`
}

type DebtPaymentRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	AmountCents int64  `json:"amount_cents" validate:"gt=0"`
	Cash        bool   `json:"cash"`
	Date        string `json:"date" validate:"required"`
}

// CreateIncome записывает фактическое поступление по статье дохода.
func (h *TransactionHandler) CreateIncome(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid item id")
	}

	var req IncomeTransactionRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err = c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	date, err := time.Parse(dateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		return badRequest(c, "invalid date")
	}

	transaction, err := h.Transactions.CreateIncome(c.Request().Context(), userID, itemID, strings.TrimSpace(req.Name), req.AmountCents, req.Cash, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "income item not found")
		}
		return serverError(c)
	}

	if periodID, err := h.Transactions.IncomePeriodID(c.Request().Context(), userID, itemID); err == nil {
		publishPeriodUpdate(h.Notifier, userID, periodID)
	}

	return c.JSON(http.StatusCreated, transaction)
}

// DeleteIncome удаляет поступление.
func (h *TransactionHandler) DeleteIncome(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid transaction id")
	}

	periodID, err := h.Transactions.IncomeTransactionPeriodID(c.Request().Context(), userID, transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "transaction not found")
		}
		return serverError(c)
	}

	if err := h.Transactions.DeleteIncome(c.Request().Context(), userID, transactionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "transaction not found")
		}
		return serverError(c)
	}

	publishPeriodUpdate(h.Notifier, userID, periodID)
	return c.NoContent(http.StatusNoContent)
}

// CreateExpense записывает фактический расход по статье. Отрицательная сумма
// означает возврат средств.
func (h *TransactionHandler) CreateExpense(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid item id")
	}

	var req ExpenseTransactionRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err = c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	date, err := time.Parse(dateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		return badRequest(c, "invalid date")
	}

	transaction, err := h.Transactions.CreateExpense(c.Request().Context(), userID, itemID, strings.TrimSpace(req.Name), req.AmountCents, req.CreditPurchase, req.CreditPayoff, req.Cash, date)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return notFound(c, "expense item not found")
		case errors.Is(err, repository.ErrInvalid):
			return badRequest(c, "credit purchase and credit payoff are mutually exclusive")
		}
		return serverError(c)
	}

	if periodID, err := h.Transactions.ExpensePeriodID(c.Request().Context(), userID, itemID); err == nil {
		publishPeriodUpdate(h.Notifier, userID, periodID)
	}

	return c.JSON(http.StatusCreated, transaction)
}

// DeleteExpense удаляет расход.
func (h *TransactionHandler) DeleteExpense(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid transaction id")
	}

	periodID, err := h.Transactions.ExpenseTransactionPeriodID(c.Request().Context(), userID, transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "transaction not found")
		}
		return serverError(c)
	}

	if err := h.Transactions.DeleteExpense(c.Request().Context(), userID, transactionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "transaction not found")
		}
		return serverError(c)
	}

	publishPeriodUpdate(h.Notifier, userID, periodID)
	return c.NoContent(http.StatusNoContent)
}

// CreateDebtPayment записывает выплату долга по категории нового долга
// периода.
func (h *TransactionHandler) CreateDebtPayment(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	periodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid period id")
	}

	var req DebtPaymentRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err = c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	date, err := time.Parse(dateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		return badRequest(c, "invalid date")
	}

	transaction, err := h.Transactions.CreateDebtPayment(c.Request().Context(), userID, periodID, strings.TrimSpace(req.Name), req.AmountCents, req.Cash, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "no outstanding debt for this period")
		}
		return serverError(c)
	}

	publishPeriodUpdate(h.Notifier, userID, periodID)
	return c.JSON(http.StatusCreated, transaction)
}
