package budget

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"example.com/budget-tracker/backend/internal/models"
)

type fakePeriodStore struct {
	period    models.BudgetPeriod
	getErr    error
	before    PeriodData
	after     PeriodData
	changed   bool
	loads     int
	syncTotal int64
}

func (f *fakePeriodStore) GetByMonthYear(context.Context, uuid.UUID, int, int) (models.BudgetPeriod, error) {
	if f.getErr != nil {
		return models.BudgetPeriod{}, f.getErr
	}
	return f.period, nil
}

func (f *fakePeriodStore) LoadData(context.Context, uuid.UUID, uuid.UUID) (PeriodData, error) {
	f.loads++
	if f.loads > 1 {
		return f.after, nil
	}
	return f.before, nil
}

func (f *fakePeriodStore) SyncNewDebt(_ context.Context, _ uuid.UUID, _ models.BudgetPeriod, ccTotal int64) (bool, error) {
	f.syncTotal = ccTotal
	return f.changed, nil
}

// TestServiceViewReloadsAfterSync проверяет, что после изменения категории
// долга граф перечитывается и сводка строится по свежим данным.
func TestServiceViewReloadsAfterSync(t *testing.T) {
	purchase := models.ExpenseTransaction{ID: uuid.New(), AmountCents: 12000, CreditPurchase: true}
	before := PeriodData{Categories: []CategoryGroup{
		categoryGroup("Shopping", expenseGroup("Stuff", 0, purchase)),
	}}
	after := PeriodData{Categories: []CategoryGroup{
		categoryGroup("Shopping", expenseGroup("Stuff", 0, purchase)),
		categoryGroup(models.NewDebtCategoryName, expenseGroup("June Debt", 12000)),
	}}

	store := &fakePeriodStore{
		period:  models.BudgetPeriod{ID: uuid.New(), Month: 6, Year: 2024},
		before:  before,
		after:   after,
		changed: true,
	}

	_, summary, err := NewService(store).View(context.Background(), uuid.New(), 6, 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.syncTotal != 12000 {
		t.Fatalf("sync must receive the purchase total 12000, got %d", store.syncTotal)
	}
	if store.loads != 2 {
		t.Fatalf("data must be reloaded after a change, loads %d", store.loads)
	}
	if len(summary.Categories) != 2 {
		t.Fatalf("summary must use the fresh data, categories %d", len(summary.Categories))
	}
}

// TestServiceViewNoReload проверяет, что без изменений повторной загрузки
// нет.
func TestServiceViewNoReload(t *testing.T) {
	store := &fakePeriodStore{period: models.BudgetPeriod{ID: uuid.New(), Month: 6, Year: 2024}}

	if _, _, err := NewService(store).View(context.Background(), uuid.New(), 6, 2024); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.loads != 1 {
		t.Fatalf("a single load is enough without changes, got %d", store.loads)
	}
}

// TestServiceViewNotFound проверяет проброс ошибки отсутствующего периода.
func TestServiceViewNotFound(t *testing.T) {
	sentinel := errors.New("not found")
	store := &fakePeriodStore{getErr: sentinel}

	if _, _, err := NewService(store).View(context.Background(), uuid.New(), 6, 2024); !errors.Is(err, sentinel) {
		t.Fatalf("period lookup error must be passed through, got %v", err)
	}
}
