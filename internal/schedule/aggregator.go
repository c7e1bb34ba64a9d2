package schedule

import (
	"time"

	"example.com/budget-tracker/backend/internal/models"
)

// Годовые множители по частоте для приведения сумм к годовому объему.
var annualMultipliers = map[models.Frequency]int64{
	models.FrequencyWeekly:     52,
	models.FrequencyBiweekly:   26,
	models.FrequencyMonthly:    12,
	models.FrequencyBimonthly:  6,
	models.FrequencyQuarterly:  4,
	models.FrequencySemiannual: 2,
	models.FrequencyYearly:     1,
	models.FrequencyOnce:       1,
}

const projectionMonths = 12

type Summary struct {
	Buckets                    map[models.Frequency]int64 `json:"buckets"`
	EntireTotalCents           int64                      `json:"entire_total_cents"`
	NonMonthlyTotalCents       int64                      `json:"non_monthly_total_cents"`
	SuggestedContributionCents int64                      `json:"suggested_contribution_cents"`
}

type ProjectionRow struct {
	Label        string `json:"label"`
	InflowCents  int64  `json:"inflow_cents"`
	OutflowCents int64  `json:"outflow_cents"`
	BalanceCents int64  `json:"balance_cents"`
}

// Summarize раскладывает активные элементы графика по частотам и считает
// годовые суммы, а также рекомендуемый ежемесячный взнос в резервный фонд.
func Summarize(items []models.ScheduleItem, today time.Time) Summary {
	buckets := make(map[models.Frequency]int64, len(annualMultipliers))

	for _, item := range items {
		if !IsActive(item, today) {
			continue
		}
		buckets[item.Frequency] += item.AmountCents * annualMultipliers[item.Frequency]
	}

	var entire, nonMonthly int64
	for frequency, total := range buckets {
		entire += total
		if frequency != models.FrequencyMonthly {
			nonMonthly += total
		}
	}

	return Summary{
		Buckets:                    buckets,
		EntireTotalCents:           entire,
		NonMonthlyTotalCents:       nonMonthly,
		SuggestedContributionCents: suggestedContribution(nonMonthly),
	}
}

// Project строит прогноз резервного фонда на двенадцать месяцев вперед:
// ежемесячный взнос против фактических немесячных платежей каждого месяца.
func Project(items []models.ScheduleItem, today time.Time) []ProjectionRow {
	summary := Summarize(items, today)
	inflow := summary.SuggestedContributionCents

	start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	rows := make([]ProjectionRow, 0, projectionMonths)

	var balance int64
	for i := 0; i < projectionMonths; i++ {
		current := start.AddDate(0, i, 0)

		var outflow int64
		for _, item := range items {
			if item.Frequency == models.FrequencyMonthly || !IsActive(item, today) {
				continue
			}
			outflow += MonthlyTotal(item, current.Year(), int(current.Month()))
		}

		balance += inflow - outflow
		rows = append(rows, ProjectionRow{
			Label:        current.Format("Jan 2006"),
			InflowCents:  inflow,
			OutflowCents: outflow,
			BalanceCents: balance,
		})
	}

	return rows
}

// suggestedContribution делит годовую немесячную сумму на двенадцать и
// округляет вверх до десяти денежных единиц (1000 центов).
func suggestedContribution(nonMonthlyCents int64) int64 {
	return ceilDiv(nonMonthlyCents, 12*1000) * 1000
}

func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a > 0) == (b > 0) {
		q++
	}

	return q
}
