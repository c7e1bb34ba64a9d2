package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/budget-tracker/backend/internal/models"
)

type ScheduleRepository struct {
	db *pgxpool.Pool
}

// NewScheduleRepository создает репозиторий графика платежей.
func NewScheduleRepository(db *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create добавляет элемент графика платежей.
func (r *ScheduleRepository) Create(ctx context.Context, userID uuid.UUID, name, category string, kind models.FlowKind, amountCents int64, firstDueDate time.Time, frequency models.Frequency) (models.ScheduleItem, error) {
	var item models.ScheduleItem

	err := r.db.QueryRow(ctx,
		`INSERT INTO schedule_items (user_id, name, category, kind, amount_cents, first_due_date, frequency)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, user_id, name, category, kind, amount_cents, first_due_date, frequency, created_at, updated_at`,
		userID, name, category, kind, amountCents, firstDueDate, frequency,
	).Scan(&item.ID, &item.UserID, &item.Name, &item.Category, &item.Kind, &item.AmountCents, &item.FirstDueDate, &item.Frequency, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return item, ErrConflict
		}
		return item, err
	}

	return item, nil
}

// Update обновляет элемент графика платежей.
func (r *ScheduleRepository) Update(ctx context.Context, userID, itemID uuid.UUID, name, category string, kind models.FlowKind, amountCents int64, firstDueDate time.Time, frequency models.Frequency) (models.ScheduleItem, error) {
	var item models.ScheduleItem

	err := r.db.QueryRow(ctx,
		`UPDATE schedule_items
		 SET name = $3,
		     category = $4,
		     kind = $5,
		     amount_cents = $6,
		     first_due_date = $7,
		     frequency = $8,
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, name, category, kind, amount_cents, first_due_date, frequency, created_at, updated_at`,
		itemID, userID, name, category, kind, amountCents, firstDueDate, frequency,
	).Scan(&item.ID, &item.UserID, &item.Name, &item.Category, &item.Kind, &item.AmountCents, &item.FirstDueDate, &item.Frequency, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return item, ErrNotFound
		}
		return item, err
	}

	return item, nil
}

// Delete удаляет элемент графика платежей.
func (r *ScheduleRepository) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM schedule_items
		 WHERE id = $1 AND user_id = $2`,
		itemID, userID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID возвращает элемент графика по идентификатору.
func (r *ScheduleRepository) GetByID(ctx context.Context, userID, itemID uuid.UUID) (models.ScheduleItem, error) {
	var item models.ScheduleItem

	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, name, category, kind, amount_cents, first_due_date, frequency, created_at, updated_at
		 FROM schedule_items
		 WHERE id = $1 AND user_id = $2`,
		itemID, userID,
	).Scan(&item.ID, &item.UserID, &item.Name, &item.Category, &item.Kind, &item.AmountCents, &item.FirstDueDate, &item.Frequency, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return item, ErrNotFound
		}
		return item, err
	}

	return item, nil
}

// ListByOwner возвращает все элементы графика пользователя.
func (r *ScheduleRepository) ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.ScheduleItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, name, category, kind, amount_cents, first_due_date, frequency, created_at, updated_at
		 FROM schedule_items
		 WHERE user_id = $1
		 ORDER BY first_due_date, name`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.ScheduleItem, 0)
	for rows.Next() {
		var item models.ScheduleItem

		err := rows.Scan(&item.ID, &item.UserID, &item.Name, &item.Category, &item.Kind, &item.AmountCents, &item.FirstDueDate, &item.Frequency, &item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
