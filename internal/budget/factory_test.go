package budget

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"example.com/budget-tracker/backend/internal/models"
)

type fakeFactoryStore struct {
	params CreateParams
}

func (f *fakeFactoryStore) Create(_ context.Context, params CreateParams) (models.BudgetPeriod, error) {
	f.params = params
	return models.BudgetPeriod{ID: uuid.New(), Month: params.Month, Year: params.Year}, nil
}

type fakeScheduleSource struct {
	items []models.ScheduleItem
}

func (f *fakeScheduleSource) ListByOwner(context.Context, uuid.UUID) ([]models.ScheduleItem, error) {
	return f.items, nil
}

func scheduleItem(name, category string, freq models.Frequency, first time.Time, cents int64) models.ScheduleItem {
	return models.ScheduleItem{
		Name:         name,
		Category:     category,
		Kind:         models.FlowKindExpense,
		AmountCents:  cents,
		FirstDueDate: first,
		Frequency:    freq,
	}
}

// TestBuildImportLines проверяет построение строк импорта: попадают активные
// элементы с платежом в целевом месяце, сумма равна месячной.
func TestBuildImportLines(t *testing.T) {
	today := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	items := []models.ScheduleItem{
		scheduleItem("Netflix", "Subscriptions", models.FrequencyMonthly, time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC), 1500),
		scheduleItem("Insurance", "Car", models.FrequencyQuarterly, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), 30000),
		scheduleItem("Old fee", "Misc", models.FrequencyOnce, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), 5000),
		scheduleItem("Groceries", "Food", models.FrequencyWeekly, time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC), 2500),
	}

	lines := BuildImportLines(items, 2024, 6, today)

	// Квартальный от 1 февраля попадает в июнь, разовый от марта просрочен,
	// еженедельный от 3 июня дает четыре понедельника.
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}

	byName := make(map[string]ImportLine, len(lines))
	for _, line := range lines {
		byName[line.Name] = line
	}

	if line := byName["Netflix"]; line.Category != "Subscriptions" || line.AmountCents != 1500 {
		t.Fatalf("Netflix: unexpected line %+v", line)
	}
	if line := byName["Insurance"]; line.AmountCents != 30000 {
		t.Fatalf("Insurance: unexpected line %+v", line)
	}
	if line := byName["Groceries"]; line.AmountCents != 4*2500 {
		t.Fatalf("Groceries: expected 10000, got %d", line.AmountCents)
	}
	if _, ok := byName["Old fee"]; ok {
		t.Fatalf("expired one-time item must not be imported")
	}
}

// TestBuildImportLinesAllKinds проверяет, что вид потока не влияет на импорт:
// активный доходный элемент с платежом в целевом месяце дает строку.
func TestBuildImportLinesAllKinds(t *testing.T) {
	today := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	salary := scheduleItem("Salary", "Work", models.FrequencyMonthly, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), 100000)
	salary.Kind = models.FlowKindIncome

	lines := BuildImportLines([]models.ScheduleItem{salary}, 2024, 6, today)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Name != "Salary" || lines[0].AmountCents != 100000 {
		t.Fatalf("Salary: unexpected line %+v", lines[0])
	}
}

// TestFactoryCreate проверяет сборку параметров создания периода: резервы
// заводятся только для положительных остатков, импорт включается по флагу.
func TestFactoryCreate(t *testing.T) {
	store := &fakeFactoryStore{}
	schedules := &fakeScheduleSource{items: []models.ScheduleItem{
		scheduleItem("Netflix", "Subscriptions", models.FrequencyMonthly, time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC), 1500),
	}}

	factory := NewFactory(store, schedules)
	factory.now = func() time.Time { return time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC) }

	owner := uuid.New()
	_, err := factory.Create(context.Background(), CreateInput{
		OwnerID:         owner,
		Month:           6,
		Year:            2024,
		UsableBankCents: 50000,
		UsableCashCents: 0,
		ImportSchedule:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.params.Reserves) != 1 || store.params.Reserves[0].Name != BankReserveName {
		t.Fatalf("expected a single bank reserve, got %+v", store.params.Reserves)
	}
	if len(store.params.Imports) != 1 || store.params.Imports[0].Name != "Netflix" {
		t.Fatalf("expected a single import line, got %+v", store.params.Imports)
	}
	if store.params.OwnerID != owner {
		t.Fatalf("owner must be passed through to the store")
	}
}

// TestFactoryCreateInvalidMonth проверяет отказ по некорректному месяцу.
func TestFactoryCreateInvalidMonth(t *testing.T) {
	factory := NewFactory(&fakeFactoryStore{}, &fakeScheduleSource{})

	if _, err := factory.Create(context.Background(), CreateInput{Month: 13, Year: 2024}); err != ErrInvalidPeriod {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}
