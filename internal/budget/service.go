package budget

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"example.com/budget-tracker/backend/internal/models"
)

// PeriodStore — операции хранилища, нужные сервису сверки периодов.
type PeriodStore interface {
	GetByMonthYear(ctx context.Context, ownerID uuid.UUID, month, year int) (models.BudgetPeriod, error)
	LoadData(ctx context.Context, ownerID, periodID uuid.UUID) (PeriodData, error)
	SyncNewDebt(ctx context.Context, ownerID uuid.UUID, period models.BudgetPeriod, ccTotal int64) (bool, error)
}

type Service struct {
	store PeriodStore
}

func NewService(store PeriodStore) *Service {
	return &Service{store: store}
}

// View возвращает сверенное представление периода за месяц. Перед сводкой
// категория нового долга приводится в соответствие кредитным покупкам, и
// при изменении граф перечитывается.
func (s *Service) View(ctx context.Context, ownerID uuid.UUID, month, year int) (models.BudgetPeriod, Summary, error) {
	period, err := s.store.GetByMonthYear(ctx, ownerID, month, year)
	if err != nil {
		return models.BudgetPeriod{}, Summary{}, err
	}

	data, err := s.store.LoadData(ctx, ownerID, period.ID)
	if err != nil {
		return models.BudgetPeriod{}, Summary{}, fmt.Errorf("load period data: %w", err)
	}

	changed, err := s.store.SyncNewDebt(ctx, ownerID, period, CreditPurchaseTotal(data))
	if err != nil {
		return models.BudgetPeriod{}, Summary{}, fmt.Errorf("sync new debt: %w", err)
	}

	if changed {
		data, err = s.store.LoadData(ctx, ownerID, period.ID)
		if err != nil {
			return models.BudgetPeriod{}, Summary{}, fmt.Errorf("reload period data: %w", err)
		}
	}

	return period, Summarize(period, data), nil
}

// Summarize строит сводку по уже загруженному периоду без синхронизации долга.
func (s *Service) Summarize(ctx context.Context, ownerID uuid.UUID, period models.BudgetPeriod) (Summary, error) {
	data, err := s.store.LoadData(ctx, ownerID, period.ID)
	if err != nil {
		return Summary{}, fmt.Errorf("load period data: %w", err)
	}

	return Summarize(period, data), nil
}
