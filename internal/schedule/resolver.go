package schedule

import (
	"time"

	"example.com/budget-tracker/backend/internal/models"
)

type interval struct {
	days   int
	months int
	years  int
}

// Интервалы повторения по частоте. Quarterly шагает на четыре месяца, а не
// на три: существующие графики платежей рассчитаны именно на этот шаг.
var intervals = map[models.Frequency]interval{
	models.FrequencyWeekly:     {days: 7},
	models.FrequencyBiweekly:   {days: 14},
	models.FrequencyMonthly:    {months: 1},
	models.FrequencyBimonthly:  {months: 2},
	models.FrequencyQuarterly:  {months: 4},
	models.FrequencySemiannual: {months: 6},
	models.FrequencyYearly:     {years: 1},
}

// NextOccurrence возвращает ближайшую дату платежа начиная с today.
// Для разового элемента с прошедшей датой второго значения не будет.
func NextOccurrence(item models.ScheduleItem, today time.Time) (time.Time, bool) {
	first := dateOnly(item.FirstDueDate)
	today = dateOnly(today)

	if !first.Before(today) {
		return first, true
	}

	if item.Frequency == models.FrequencyOnce {
		return time.Time{}, false
	}

	step, ok := intervals[item.Frequency]
	if !ok {
		return time.Time{}, false
	}

	due := first
	for due.Before(today) {
		due = advance(due, step)
	}

	return due, true
}

// MonthlyTotal возвращает сумму всех платежей элемента за месяц в центах.
func MonthlyTotal(item models.ScheduleItem, year, month int) int64 {
	first := dateOnly(item.FirstDueDate)

	if item.Frequency == models.FrequencyOnce {
		if first.Year() == year && int(first.Month()) == month {
			return item.AmountCents
		}
		return 0
	}

	step, ok := intervals[item.Frequency]
	if !ok {
		return 0
	}

	cutoff := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)

	var total int64
	for due := first; due.Before(cutoff); due = advance(due, step) {
		if due.Year() == year && int(due.Month()) == month {
			total += item.AmountCents
		}
	}

	return total
}

// MonthlyOccurrences возвращает месячную сумму элемента и признак того,
// что в этом месяце для него нужно заводить строку бюджета.
func MonthlyOccurrences(item models.ScheduleItem, year, month int) (int64, bool) {
	total := MonthlyTotal(item, year, month)
	return total, total != 0
}

// IsActive сообщает, ожидаются ли еще платежи по элементу. Ложь только для
// разовых элементов с прошедшей датой.
func IsActive(item models.ScheduleItem, today time.Time) bool {
	if item.Frequency != models.FrequencyOnce {
		return true
	}

	return !dateOnly(item.FirstDueDate).Before(dateOnly(today))
}

// advance сдвигает дату на один интервал. Шаг в месяцах прижимается к
// последнему дню короткого месяца, и дальнейший обход идет уже от него.
func advance(d time.Time, step interval) time.Time {
	if step.months > 0 {
		return addMonthsClamped(d, step.months)
	}

	return d.AddDate(step.years, 0, step.days)
}

func addMonthsClamped(d time.Time, months int) time.Time {
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location()).AddDate(0, months, 0)
	day := d.Day()
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}

	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, d.Location())
}

func dateOnly(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
