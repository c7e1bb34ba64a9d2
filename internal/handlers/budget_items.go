package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/budget-tracker/backend/internal/auth"
	"example.com/budget-tracker/backend/internal/models"
	"example.com/budget-tracker/backend/internal/notifications"
	"example.com/budget-tracker/backend/internal/repository"
)

type BudgetItemHandler struct {
	Income     *repository.IncomeRepository
	Categories *repository.CategoryRepository
	Notifier   *notifications.Hub
}

// NewBudgetItemHandler создает обработчик статей и категорий бюджета.
func NewBudgetItemHandler(income *repository.IncomeRepository, categories *repository.CategoryRepository, notifier *notifications.Hub) *BudgetItemHandler {
	return &BudgetItemHandler{Income: income, Categories: categories, Notifier: notifier}
}

type IncomeItemRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	PlannedCents int64  `json:"planned_cents" validate:"min=0"`
	Kind         string `json:"kind" validate:"omitempty,oneof=income transfer reserve"`
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type ExpenseItemRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	PlannedCents int64  `json:"planned_cents" validate:"min=0"`
	Kind         string `json:"kind" validate:"omitempty,oneof=expense transfer reserve"`
}

// CreateIncomeItem добавляет статью дохода в период.
func (h *BudgetItemHandler) CreateIncomeItem(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	periodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid period id")
	}

	var req IncomeItemRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err = c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	kind := models.IncomeKindIncome
	if req.Kind != "" {
		kind = models.IncomeKind(req.Kind)
	}

	item, err := h.Income.Create(c.Request().Context(), userID, periodID, strings.TrimSpace(req.Name), req.PlannedCents, kind)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return notFound(c, "budget period not found")
		case errors.Is(err, repository.ErrConflict):
			return conflict(c, "income item already exists")
		}
		return serverError(c)
	}

	publishPeriodUpdate(h.Notifier, userID, periodID)
	return c.JSON(http.StatusCreated, item)
}

// UpdateIncomeItem обновляет статью дохода.
func (h *BudgetItemHandler) UpdateIncomeItem(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid item id")
	}

	var req IncomeItemRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err = c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	kind := models.IncomeKindIncome
	if req.Kind != "" {
		kind = models.IncomeKind(req.Kind)
	}

	item, err := h.Income.Update(c.Request().Context(), userID, itemID, strings.TrimSpace(req.Name), req.PlannedCents, kind)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return notFound(c, "income item not found")
		case errors.Is(err, repository.ErrConflict):
			return conflict(c, "income item already exists")
		}
		return serverError(c)
	}

	publishPeriodUpdate(h.Notifier, userID, item.PeriodID)
	return c.JSON(http.StatusOK, item)
}

// DeleteIncomeItem удаляет статью дохода вместе с операциями.
func (h *BudgetItemHandler) DeleteIncomeItem(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid item id")
	}

	item, err := h.Income.GetByID(c.Request().Context(), userID, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "income item not found")
		}
		return serverError(c)
	}

	if err := h.Income.Delete(c.Request().Context(), userID, itemID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "income item not found")
		}
		return serverError(c)
	}

	publishPeriodUpdate(h.Notifier, userID, item.PeriodID)
	return c.NoContent(http.StatusNoContent)
}

// CreateCategory добавляет категорию расходов в период.
func (h *BudgetItemHandler) CreateCategory(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	periodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid period id")
	}

	var req CategoryRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err = c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	category, err := h.Categories.Create(c.Request().Context(), userID, periodID, strings.TrimSpace(req.Name))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReservedName):
			return badRequest(c, "category name is reserved")
		case errors.Is(err, repository.ErrNotFound):
			return notFound(c, "budget period not found")
		case errors.Is(err, repository.ErrConflict):
			return conflict(c, "category already exists")
		}
		return serverError(c)
	}

	publishPeriodUpdate(h.Notifier, userID, periodID)
	return c.JSON(http.StatusCreated, category)
}

// RenameCategory переименовывает категорию расходов.
func (h *BudgetItemHandler) RenameCategory(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid category id")
	}

	var req CategoryRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err = c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	category, err := h.Categories.Rename(c.Request().Context(), userID, categoryID, strings.TrimSpace(req.Name))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReservedName):
			return badRequest(c, "category name is reserved")
		case errors.Is(err, repository.ErrNotFound):
			return notFound(c, "category not found")
		case errors.Is(err, repository.ErrConflict):
			return conflict(c, "category already exists")
		}
		return serverError(c)
	}

	publishPeriodUpdate(h.Notifier, userID, category.PeriodID)
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory удаляет категорию вместе со статьями и операциями.
func (h *BudgetItemHandler) DeleteCategory(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid category id")
	}

	category, err := h.Categories.GetByID(c.Request().Context(), userID, categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "category not found")
		}
		return serverError(c)
	}

	if err := h.Categories.Delete(c.Request().Context(), userID, categoryID); err != nil {
		switch {
		case errors.Is(err, repository.ErrReservedName):
			return badRequest(c, "category name is reserved")
		case errors.Is(err, repository.ErrNotFound):
			return notFound(c, "category not found")
		}
		return serverError(c)
	}

	publishPeriodUpdate(h.Notifier, userID, category.PeriodID)
	return c.NoContent(http.StatusNoContent)
}

// CreateExpenseItem добавляет статью расходов в категорию.
func (h *BudgetItemHandler) CreateExpenseItem(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid category id")
	}

	var req ExpenseItemRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err = c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	kind := models.ExpenseKindExpense
	if req.Kind != "" {
		kind = models.ExpenseKind(req.Kind)
	}

	item, err := h.Categories.CreateItem(c.Request().Context(), userID, categoryID, strings.TrimSpace(req.Name), req.PlannedCents, kind)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return notFound(c, "category not found")
		case errors.Is(err, repository.ErrConflict):
			return conflict(c, "expense item already exists")
		}
		return serverError(c)
	}

	category, err := h.Categories.GetByID(c.Request().Context(), userID, categoryID)
	if err == nil {
		publishPeriodUpdate(h.Notifier, userID, category.PeriodID)
	}

	return c.JSON(http.StatusCreated, item)
}

// UpdateExpenseItem обновляет статью расходов.
func (h *BudgetItemHandler) UpdateExpenseItem(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid item id")
	}

	var req ExpenseItemRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err = c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	kind := models.ExpenseKindExpense
	if req.Kind != "" {
		kind = models.ExpenseKind(req.Kind)
	}

	item, err := h.Categories.UpdateItem(c.Request().Context(), userID, itemID, strings.TrimSpace(req.Name), req.PlannedCents, kind)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return notFound(c, "expense item not found")
		case errors.Is(err, repository.ErrConflict):
			return conflict(c, "expense item already exists")
		}
		return serverError(c)
	}

	category, err := h.Categories.GetByID(c.Request().Context(), userID, item.CategoryID)
	if err == nil {
		publishPeriodUpdate(h.Notifier, userID, category.PeriodID)
	}

	return c.JSON(http.StatusOK, item)
}

// DeleteExpenseItem удаляет статью расходов вместе с операциями.
func (h *BudgetItemHandler) DeleteExpenseItem(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid item id")
	}

	if err := h.Categories.DeleteItem(c.Request().Context(), userID, itemID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "expense item not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}
