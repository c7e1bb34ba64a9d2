package schedule

import (
	"testing"
	"time"

	"example.com/budget-tracker/backend/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func item(freq models.Frequency, first time.Time, cents int64) models.ScheduleItem {
	return models.ScheduleItem{
		Name:         "test",
		Kind:         models.FlowKindExpense,
		AmountCents:  cents,
		FirstDueDate: first,
		Frequency:    freq,
	}
}

// TestNextOccurrence проверяет поиск ближайшей даты платежа для
// повторяющихся элементов.
func TestNextOccurrence(t *testing.T) {
	cases := []struct {
		name  string
		item  models.ScheduleItem
		today time.Time
		want  time.Time
	}{
		{
			name:  "future first date returned as is",
			item:  item(models.FrequencyMonthly, date(2024, time.March, 15), 1000),
			today: date(2024, time.January, 1),
			want:  date(2024, time.March, 15),
		},
		{
			name:  "today counts as upcoming",
			item:  item(models.FrequencyWeekly, date(2024, time.January, 8), 1000),
			today: date(2024, time.January, 8),
			want:  date(2024, time.January, 8),
		},
		{
			name:  "quarterly steps four months",
			item:  item(models.FrequencyQuarterly, date(2024, time.January, 10), 1000),
			today: date(2024, time.February, 1),
			want:  date(2024, time.May, 10),
		},
		{
			name:  "monthly step clamps to end of february",
			item:  item(models.FrequencyMonthly, date(2024, time.January, 31), 1000),
			today: date(2024, time.February, 1),
			want:  date(2024, time.February, 29),
		},
		{
			name:  "walk continues from the clamped day",
			item:  item(models.FrequencyMonthly, date(2024, time.January, 31), 1000),
			today: date(2024, time.March, 1),
			want:  date(2024, time.March, 29),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NextOccurrence(tc.item, tc.today)
			if !ok {
				t.Fatalf("expected a date, got ok=false")
			}
			if !got.Equal(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

// TestNextOccurrenceWeeklyOverdue проверяет, что еженедельный платеж,
// просроченный на десять недель и день, сдвигается ровно на одиннадцать
// недель вперед.
func TestNextOccurrenceWeeklyOverdue(t *testing.T) {
	first := date(2024, time.January, 1)
	it := item(models.FrequencyWeekly, first, 1000)
	today := first.AddDate(0, 0, 70+1)

	got, ok := NextOccurrence(it, today)
	if !ok {
		t.Fatalf("expected a date, got ok=false")
	}
	want := first.AddDate(0, 0, 77)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

// TestNextOccurrenceOnce проверяет разовые элементы: будущая дата
// возвращается, прошедшая нет.
func TestNextOccurrenceOnce(t *testing.T) {
	it := item(models.FrequencyOnce, date(2024, time.June, 1), 1000)

	got, ok := NextOccurrence(it, date(2024, time.May, 1))
	if !ok || !got.Equal(date(2024, time.June, 1)) {
		t.Fatalf("expected 2024-06-01, got %v, ok=%v", got, ok)
	}

	if _, ok := NextOccurrence(it, date(2024, time.June, 2)); ok {
		t.Fatalf("past one-time item must have no next date")
	}
}

// TestMonthlyTotal проверяет месячные суммы: пять понедельников января 2024
// года дают пять платежей, смежные месяцы не затрагиваются.
func TestMonthlyTotal(t *testing.T) {
	weekly := item(models.FrequencyWeekly, date(2024, time.January, 1), 2500)

	if got := MonthlyTotal(weekly, 2024, 1); got != 5*2500 {
		t.Fatalf("expected 12500, got %d", got)
	}
	if got := MonthlyTotal(weekly, 2024, 2); got != 4*2500 {
		t.Fatalf("expected 10000, got %d", got)
	}
	if got := MonthlyTotal(weekly, 2023, 12); got != 0 {
		t.Fatalf("expected 0 before the first due date, got %d", got)
	}
}

// TestMonthlyTotalQuarterly проверяет, что квартальный элемент попадает
// только в месяцы с шагом четыре и пропускает остальные.
func TestMonthlyTotalQuarterly(t *testing.T) {
	quarterly := item(models.FrequencyQuarterly, date(2024, time.January, 15), 30000)

	hits := map[int]int64{1: 30000, 5: 30000, 9: 30000}
	for month := 1; month <= 12; month++ {
		want := hits[month]
		if got := MonthlyTotal(quarterly, 2024, month); got != want {
			t.Fatalf("month %d: expected %d, got %d", month, want, got)
		}
	}
}

// TestMonthlyTotalOnce проверяет разовый элемент: сумма есть только в его
// собственном месяце.
func TestMonthlyTotalOnce(t *testing.T) {
	once := item(models.FrequencyOnce, date(2024, time.June, 15), 9900)

	if got := MonthlyTotal(once, 2024, 6); got != 9900 {
		t.Fatalf("expected 9900, got %d", got)
	}
	if got := MonthlyTotal(once, 2024, 7); got != 0 {
		t.Fatalf("expected 0 outside the due month, got %d", got)
	}
}

// TestMonthlyOccurrences проверяет признак материализации строки бюджета.
func TestMonthlyOccurrences(t *testing.T) {
	yearly := item(models.FrequencyYearly, date(2024, time.March, 1), 120000)

	total, due := MonthlyOccurrences(yearly, 2024, 3)
	if !due || total != 120000 {
		t.Fatalf("expected (120000, true), got (%d, %v)", total, due)
	}

	total, due = MonthlyOccurrences(yearly, 2024, 4)
	if due || total != 0 {
		t.Fatalf("expected (0, false), got (%d, %v)", total, due)
	}
}

// TestIsActive проверяет активность: повторяющиеся элементы активны всегда,
// разовые только до своей даты включительно.
func TestIsActive(t *testing.T) {
	today := date(2024, time.June, 15)

	if !IsActive(item(models.FrequencyMonthly, date(2020, time.January, 1), 1000), today) {
		t.Fatalf("recurring item must be active")
	}
	if !IsActive(item(models.FrequencyOnce, today, 1000), today) {
		t.Fatalf("one-time item is active on its due day")
	}
	if IsActive(item(models.FrequencyOnce, date(2024, time.June, 14), 1000), today) {
		t.Fatalf("past one-time item must not be active")
	}
}
