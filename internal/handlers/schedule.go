package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/budget-tracker/backend/internal/auth"
	"example.com/budget-tracker/backend/internal/models"
	"example.com/budget-tracker/backend/internal/repository"
	"example.com/budget-tracker/backend/internal/schedule"
)

const dateLayout = "2006-01-02"

// Порядок групп в ответе: от частых платежей к редким.
var frequencyOrder = []models.Frequency{
	models.FrequencyWeekly,
	models.FrequencyBiweekly,
	models.FrequencyMonthly,
	models.FrequencyBimonthly,
	models.FrequencyQuarterly,
	models.FrequencySemiannual,
	models.FrequencyYearly,
	models.FrequencyOnce,
}

type ScheduleHandler struct {
	Schedules *repository.ScheduleRepository
}

// NewScheduleHandler создает обработчик графика платежей.
func NewScheduleHandler(schedules *repository.ScheduleRepository) *ScheduleHandler {
	return &ScheduleHandler{Schedules: schedules}
}

type ScheduleItemRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Category     string `json:"category" validate:"required,max=200"`
	Kind         string `json:"kind" validate:"required,oneof=income expense transfer reserve"`
	AmountCents  int64  `json:"amount_cents" validate:"gt=0"`
	FirstDueDate string `json:"first_due_date" validate:"required"`
	Frequency    string `json:"frequency" validate:"required,oneof=weekly biweekly monthly bimonthly quarterly semiannual yearly once"`
}

type ScheduleItemResponse struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Category     string           `json:"category"`
	Kind         models.FlowKind  `json:"kind"`
	AmountCents  int64            `json:"amount_cents"`
	FirstDueDate string           `json:"first_due_date"`
	Frequency    models.Frequency `json:"frequency"`
	NextDueDate  *string          `json:"next_due_date"`
	Active       bool             `json:"active"`
}

type ScheduleGroupResponse struct {
	Frequency models.Frequency       `json:"frequency"`
	Items     []ScheduleItemResponse `json:"items"`
}

// List возвращает элементы графика, сгруппированные по частоте.
func (h *ScheduleHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	items, err := h.Schedules.ListByOwner(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	today := time.Now()
	grouped := make(map[models.Frequency][]ScheduleItemResponse)
	for _, item := range items {
		grouped[item.Frequency] = append(grouped[item.Frequency], toScheduleItemResponse(item, today))
	}

	response := make([]ScheduleGroupResponse, 0, len(frequencyOrder))
	for _, frequency := range frequencyOrder {
		if group, ok := grouped[frequency]; ok {
			response = append(response, ScheduleGroupResponse{Frequency: frequency, Items: group})
		}
	}

	return c.JSON(http.StatusOK, map[string][]ScheduleGroupResponse{"groups": response})
}

// Create добавляет элемент графика платежей.
func (h *ScheduleHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req ScheduleItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return badRequest(c, "name is required")
	}

	firstDueDate, err := time.Parse(dateLayout, strings.TrimSpace(req.FirstDueDate))
	if err != nil {
		return badRequest(c, "invalid first due date")
	}

	item, err := h.Schedules.Create(c.Request().Context(), userID, name, strings.TrimSpace(req.Category), models.FlowKind(req.Kind), req.AmountCents, firstDueDate, models.Frequency(req.Frequency))
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return conflict(c, "schedule item already exists")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, toScheduleItemResponse(item, time.Now()))
}

// Update обновляет элемент графика платежей.
func (h *ScheduleHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid item id")
	}

	var req ScheduleItemRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err = c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	firstDueDate, err := time.Parse(dateLayout, strings.TrimSpace(req.FirstDueDate))
	if err != nil {
		return badRequest(c, "invalid first due date")
	}

	item, err := h.Schedules.Update(c.Request().Context(), userID, itemID, strings.TrimSpace(req.Name), strings.TrimSpace(req.Category), models.FlowKind(req.Kind), req.AmountCents, firstDueDate, models.Frequency(req.Frequency))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "schedule item not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, toScheduleItemResponse(item, time.Now()))
}

// Delete удаляет элемент графика платежей.
func (h *ScheduleHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid item id")
	}

	if err := h.Schedules.Delete(c.Request().Context(), userID, itemID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "schedule item not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

type ScheduleSummaryResponse struct {
	Summary    schedule.Summary         `json:"summary"`
	Projection []schedule.ProjectionRow `json:"projection"`
}

// Summary возвращает годовую сводку графика и прогноз резервного фонда.
func (h *ScheduleHandler) Summary(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	items, err := h.Schedules.ListByOwner(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	today := time.Now()
	return c.JSON(http.StatusOK, ScheduleSummaryResponse{
		Summary:    schedule.Summarize(items, today),
		Projection: schedule.Project(items, today),
	})
}

func toScheduleItemResponse(item models.ScheduleItem, today time.Time) ScheduleItemResponse {
	response := ScheduleItemResponse{
		ID:           item.ID,
		Name:         item.Name,
		Category:     item.Category,
		Kind:         item.Kind,
		AmountCents:  item.AmountCents,
		FirstDueDate: item.FirstDueDate.Format(dateLayout),
		Frequency:    item.Frequency,
		Active:       schedule.IsActive(item, today),
	}

	if next, ok := schedule.NextOccurrence(item, today); ok {
		formatted := next.Format(dateLayout)
		response.NextDueDate = &formatted
	}

	return response
}
