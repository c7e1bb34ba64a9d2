package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"example.com/budget-tracker/backend/internal/models"
	"example.com/budget-tracker/backend/internal/schedule"
)

// Имена резервных статей дохода, которые заводятся при создании периода.
const (
	BankReserveName = "Bank Reserve"
	CashReserveName = "Cash Reserve"
)

var ErrInvalidPeriod = errors.New("invalid budget period")

// ImportLine — строка бюджета, материализованная из графика платежей.
type ImportLine struct {
	Category    string
	Name        string
	AmountCents int64
}

// Reserve — резервная статья дохода нового периода.
type Reserve struct {
	Name        string
	AmountCents int64
}

// CreateParams — собранный набор данных для транзакционного создания периода.
type CreateParams struct {
	OwnerID           uuid.UUID
	Month             int
	Year              int
	StartingBankCents int64
	StartingCashCents int64
	TemplateID        *uuid.UUID
	Reserves          []Reserve
	Imports           []ImportLine
}

// PeriodFactoryStore создает период вместе с клонированием шаблона,
// резервами и импортом графика в одной транзакции.
type PeriodFactoryStore interface {
	Create(ctx context.Context, params CreateParams) (models.BudgetPeriod, error)
}

// ScheduleSource отдает элементы графика платежей владельца.
type ScheduleSource interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.ScheduleItem, error)
}

// CreateInput — запрос на создание нового бюджетного периода.
type CreateInput struct {
	OwnerID           uuid.UUID
	Month             int
	Year              int
	StartingBankCents int64
	StartingCashCents int64
	UsableBankCents   int64
	UsableCashCents   int64
	TemplateID        *uuid.UUID
	ImportSchedule    bool
}

type Factory struct {
	store     PeriodFactoryStore
	schedules ScheduleSource
	now       func() time.Time
}

func NewFactory(store PeriodFactoryStore, schedules ScheduleSource) *Factory {
	return &Factory{store: store, schedules: schedules, now: time.Now}
}

// Create собирает параметры нового периода и передает их хранилищу одной
// транзакцией: клон шаблона, резервные статьи, импорт графика платежей.
func (f *Factory) Create(ctx context.Context, input CreateInput) (models.BudgetPeriod, error) {
	if input.Month < 1 || input.Month > 12 || input.Year < 1 {
		return models.BudgetPeriod{}, ErrInvalidPeriod
	}

	params := CreateParams{
		OwnerID:           input.OwnerID,
		Month:             input.Month,
		Year:              input.Year,
		StartingBankCents: input.StartingBankCents,
		StartingCashCents: input.StartingCashCents,
		TemplateID:        input.TemplateID,
	}

	if input.UsableBankCents > 0 {
		params.Reserves = append(params.Reserves, Reserve{Name: BankReserveName, AmountCents: input.UsableBankCents})
	}
	if input.UsableCashCents > 0 {
		params.Reserves = append(params.Reserves, Reserve{Name: CashReserveName, AmountCents: input.UsableCashCents})
	}

	if input.ImportSchedule {
		items, err := f.schedules.ListByOwner(ctx, input.OwnerID)
		if err != nil {
			return models.BudgetPeriod{}, fmt.Errorf("list schedule items: %w", err)
		}
		params.Imports = BuildImportLines(items, input.Year, input.Month, f.now())
	}

	return f.store.Create(ctx, params)
}

// BuildImportLines превращает активные элементы графика в строки бюджета
// месяца независимо от их вида. Сумма строки равна месячной сумме элемента,
// а не разовому платежу.
func BuildImportLines(items []models.ScheduleItem, year, month int, today time.Time) []ImportLine {
	lines := make([]ImportLine, 0, len(items))

	for _, item := range items {
		if !schedule.IsActive(item, today) {
			continue
		}

		total, due := schedule.MonthlyOccurrences(item, year, month)
		if !due {
			continue
		}

		lines = append(lines, ImportLine{
			Category:    item.Category,
			Name:        item.Name,
			AmountCents: total,
		})
	}

	return lines
}
