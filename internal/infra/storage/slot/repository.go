package slot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

var slotColumns = []string{
	"id",
	"tenant_id",
	"service_id",
	"employee_id",
	"slot_date",
	"start_time",
	"end_time",
	"original_capacity",
	"booked_count",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со слотами
// Строки слотов создаются внешней генерацией расписания, репозиторий
// только читает их и изменяет booked_count
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate получает слот по ID с блокировкой строки (FOR UPDATE)
// Должен вызываться внутри транзакции - сериализует конкурирующие
// захваты блокировок и коммиты бронирований на одном слоте
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Slot, error) {
	return r.getByID(ctx, id, true)
}

func (r *Repository) getByID(ctx context.Context, id int64, forUpdate bool) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"id": id})

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getByID - build select query: %w", ErrBuildQuery, err)
	}

	var s domain.Slot
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.TenantID,
		&s.ServiceID,
		&s.EmployeeID,
		&s.SlotDate,
		&s.StartTime,
		&s.EndTime,
		&s.OriginalCapacity,
		&s.BookedCount,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getByID - scan slot: %w", ErrScanRow, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// GetByServiceAndDate получает все слоты услуги на указанную дату
// Возвращает слоты всех сотрудников, отсортированные по времени начала
func (r *Repository) GetByServiceAndDate(ctx context.Context, tenantID, serviceID int64, date time.Time) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{
			"tenant_id":  tenantID,
			"service_id": serviceID,
			"slot_date":  date,
		}).
		OrderBy("start_time ASC, employee_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByServiceAndDate - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByServiceAndDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanSlots(rows)
}

// IncrementBooked увеличивает booked_count слота на delta
// UPDATE защищён предикатом booked_count + delta <= original_capacity:
// при нарушении вместимости возвращает ErrCapacityExceeded, ничего не меняя
func (r *Repository) IncrementBooked(ctx context.Context, id int64, delta int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("booked_count", squirrel.Expr("booked_count + ?", delta)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Expr("booked_count + ? <= original_capacity", delta)).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: IncrementBooked - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: IncrementBooked - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: IncrementBooked - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrCapacityExceeded
	}

	return nil
}

// DecrementBooked уменьшает booked_count слота на delta (отмена бронирования)
// Защищён предикатом booked_count - delta >= 0
func (r *Repository) DecrementBooked(ctx context.Context, id int64, delta int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("booked_count", squirrel.Expr("booked_count - ?", delta)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Expr("booked_count - ? >= 0", delta)).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DecrementBooked - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DecrementBooked - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DecrementBooked - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrCapacityExceeded
	}

	return nil
}

// scanSlots сканирует результаты запроса в слайс слотов
func (r *Repository) scanSlots(rows *sql.Rows) ([]*domain.Slot, error) {
	slots := make([]*domain.Slot, 0)

	for rows.Next() {
		var s domain.Slot
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&s.ID,
			&s.TenantID,
			&s.ServiceID,
			&s.EmployeeID,
			&s.SlotDate,
			&s.StartTime,
			&s.EndTime,
			&s.OriginalCapacity,
			&s.BookedCount,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %w", ErrScanRow, err)
		}

		s.CreatedAt = createdAt.Time
		s.UpdatedAt = updatedAt.Time

		slots = append(slots, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %w", ErrScanRow, err)
	}

	return slots, nil
}
