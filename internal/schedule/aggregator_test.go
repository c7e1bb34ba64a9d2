package schedule

import (
	"testing"
	"time"

	"example.com/budget-tracker/backend/internal/models"
)

// TestSummarizeBuckets проверяет раскладку по частотам и годовые множители.
func TestSummarizeBuckets(t *testing.T) {
	today := date(2024, time.January, 1)
	items := []models.ScheduleItem{
		item(models.FrequencyWeekly, date(2024, time.January, 1), 1000),
		item(models.FrequencyMonthly, date(2024, time.January, 5), 20000),
		item(models.FrequencyYearly, date(2024, time.July, 1), 50000),
		item(models.FrequencyOnce, date(2023, time.December, 1), 99999),
	}

	s := Summarize(items, today)

	if got := s.Buckets[models.FrequencyWeekly]; got != 52000 {
		t.Fatalf("weekly: expected 52000, got %d", got)
	}
	if got := s.Buckets[models.FrequencyMonthly]; got != 240000 {
		t.Fatalf("monthly: expected 240000, got %d", got)
	}
	if got := s.Buckets[models.FrequencyYearly]; got != 50000 {
		t.Fatalf("yearly: expected 50000, got %d", got)
	}
	if _, ok := s.Buckets[models.FrequencyOnce]; ok {
		t.Fatalf("expired one-time item must not land in a bucket")
	}

	if s.EntireTotalCents != 342000 {
		t.Fatalf("entire total: expected 342000, got %d", s.EntireTotalCents)
	}
	if s.NonMonthlyTotalCents != 102000 {
		t.Fatalf("non-monthly total: expected 102000, got %d", s.NonMonthlyTotalCents)
	}
}

// TestSummarizeAllKinds проверяет, что вид потока не влияет на сводку:
// доходные и резервные элементы графика учитываются наравне с расходными.
func TestSummarizeAllKinds(t *testing.T) {
	today := date(2024, time.January, 1)

	income := item(models.FrequencyWeekly, date(2024, time.January, 1), 1000)
	income.Kind = models.FlowKindIncome
	reserve := item(models.FrequencyYearly, date(2024, time.July, 1), 50000)
	reserve.Kind = models.FlowKindReserve

	s := Summarize([]models.ScheduleItem{income, reserve}, today)

	if got := s.Buckets[models.FrequencyWeekly]; got != 52000 {
		t.Fatalf("weekly: expected 52000, got %d", got)
	}
	if got := s.Buckets[models.FrequencyYearly]; got != 50000 {
		t.Fatalf("yearly: expected 50000, got %d", got)
	}
	if s.EntireTotalCents != 102000 {
		t.Fatalf("entire total: expected 102000, got %d", s.EntireTotalCents)
	}

	rows := Project([]models.ScheduleItem{reserve}, today)
	if got := rows[6].OutflowCents; got != 50000 {
		t.Fatalf("july outflow: expected 50000, got %d", got)
	}
}

// TestSuggestedContribution проверяет округление рекомендуемого взноса вверх
// до десяти единиц: двухнедельные 50.00 дают 1300.00 в год и взнос 110.00
// в месяц.
func TestSuggestedContribution(t *testing.T) {
	today := date(2024, time.January, 1)
	items := []models.ScheduleItem{
		item(models.FrequencyBiweekly, date(2024, time.January, 5), 5000),
	}

	s := Summarize(items, today)
	if s.NonMonthlyTotalCents != 130000 {
		t.Fatalf("annual total: expected 130000, got %d", s.NonMonthlyTotalCents)
	}
	if s.SuggestedContributionCents != 11000 {
		t.Fatalf("contribution: expected 11000, got %d", s.SuggestedContributionCents)
	}
}

// TestSuggestedContributionRounding проверяет частные случаи округления
// взноса.
func TestSuggestedContributionRounding(t *testing.T) {
	cases := []struct {
		annual int64
		want   int64
	}{
		{0, 0},
		{12000, 1000},
		{12001, 2000},
		{120000, 10000},
		{130000, 11000},
	}

	for _, tc := range cases {
		if got := suggestedContribution(tc.annual); got != tc.want {
			t.Fatalf("annual=%d: expected %d, got %d", tc.annual, tc.want, got)
		}
	}
}

// TestProject проверяет прогноз: двенадцать строк, баланс накапливается от
// нуля, и взнос каждого месяца равен рекомендуемому.
func TestProject(t *testing.T) {
	today := date(2024, time.January, 10)
	items := []models.ScheduleItem{
		item(models.FrequencyYearly, date(2024, time.June, 1), 120000),
	}

	rows := Project(items, today)
	if len(rows) != 12 {
		t.Fatalf("expected 12 rows, got %d", len(rows))
	}
	if rows[0].Label != "Jan 2024" {
		t.Fatalf("expected the current month first, got %q", rows[0].Label)
	}

	// Взнос 10000 в месяц, единственный платеж 120000 в июне.
	var balance int64
	for i, row := range rows {
		if row.InflowCents != 10000 {
			t.Fatalf("row %d: expected inflow 10000, got %d", i, row.InflowCents)
		}
		want := int64(0)
		if row.Label == "Jun 2024" {
			want = 120000
		}
		if row.OutflowCents != want {
			t.Fatalf("row %d: expected outflow %d, got %d", i, want, row.OutflowCents)
		}
		balance += row.InflowCents - row.OutflowCents
		if row.BalanceCents != balance {
			t.Fatalf("row %d: expected balance %d, got %d", i, balance, row.BalanceCents)
		}
	}

	if rows[11].BalanceCents != 0 {
		t.Fatalf("contributions must cover the yearly payment, final balance %d", rows[11].BalanceCents)
	}
}

// TestProjectSkipsMonthly проверяет, что месячные элементы не попадают в
// расход прогноза.
func TestProjectSkipsMonthly(t *testing.T) {
	today := date(2024, time.January, 1)
	items := []models.ScheduleItem{
		item(models.FrequencyMonthly, date(2024, time.January, 5), 20000),
	}

	for i, row := range Project(items, today) {
		if row.OutflowCents != 0 {
			t.Fatalf("row %d: monthly item must not add outflow, got %d", i, row.OutflowCents)
		}
	}
}
