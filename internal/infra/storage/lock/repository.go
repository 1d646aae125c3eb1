package lock

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

var lockColumns = []string{
	"id",
	"session_id",
	"slot_id",
	"reserved_capacity",
	"lock_expires_at",
	"released_at",
	"created_at",
}

// Repository репозиторий для работы с блокировками вместимости
// Истечение блокировок ленивое: фоновой очистки нет, все выборки
// активных блокировок фильтруют по lock_expires_at и released_at
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория блокировок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую блокировку
func (r *Repository) Create(ctx context.Context, l *domain.BookingLock) (*domain.BookingLock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_locks").
		Columns(
			"id",
			"session_id",
			"slot_id",
			"reserved_capacity",
			"lock_expires_at",
		).
		Values(
			l.ID,
			l.SessionID,
			l.SlotID,
			l.ReservedCapacity,
			l.ExpiresAt,
		).
		Suffix("RETURNING created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	l.CreatedAt = createdAt.Time
	return l, nil
}

// GetByIDAndSession получает блокировку по паре (lockId, sessionId)
// Возвращает строку независимо от её состояния - интерпретация
// истечения и освобождения лежит на вызывающем слое
func (r *Repository) GetByIDAndSession(ctx context.Context, lockID, sessionID string) (*domain.BookingLock, error) {
	return r.getByIDAndSession(ctx, lockID, sessionID, false)
}

// GetByIDAndSessionForUpdate то же, но с блокировкой строки (FOR UPDATE)
// Используется при коммите бронирования, чтобы конкурирующий release
// или повторный коммит не прошли по той же блокировке
func (r *Repository) GetByIDAndSessionForUpdate(ctx context.Context, lockID, sessionID string) (*domain.BookingLock, error) {
	return r.getByIDAndSession(ctx, lockID, sessionID, true)
}

func (r *Repository) getByIDAndSession(ctx context.Context, lockID, sessionID string, forUpdate bool) (*domain.BookingLock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(lockColumns...).
		From("booking_locks").
		Where(squirrel.Eq{
			"id":         lockID,
			"session_id": sessionID,
		})

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getByIDAndSession - build select query: %w", ErrBuildQuery, err)
	}

	var l domain.BookingLock
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&l.ID,
		&l.SessionID,
		&l.SlotID,
		&l.ReservedCapacity,
		&l.ExpiresAt,
		&l.ReleasedAt,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrLockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getByIDAndSession - scan lock: %w", ErrScanRow, err)
	}

	l.CreatedAt = createdAt.Time
	return &l, nil
}

// SumActiveBySlot возвращает сумму reserved_capacity активных блокировок слота
// Активная блокировка: не освобождена и не истекла на момент now
func (r *Repository) SumActiveBySlot(ctx context.Context, slotID int64, now time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COALESCE(SUM(reserved_capacity), 0)").
		From("booking_locks").
		Where(squirrel.Eq{"slot_id": slotID}).
		Where(squirrel.Eq{"released_at": nil}).
		Where(squirrel.Gt{"lock_expires_at": now}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: SumActiveBySlot - build select query: %w", ErrBuildQuery, err)
	}

	var sum int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("%w: SumActiveBySlot - scan sum: %w", ErrScanRow, err)
	}

	return sum, nil
}

// SumActiveBySlots возвращает суммы активных блокировок сразу для нескольких слотов
// Слоты без активных блокировок в результате отсутствуют
func (r *Repository) SumActiveBySlots(ctx context.Context, slotIDs []int64, now time.Time) (map[int64]int, error) {
	sums := make(map[int64]int, len(slotIDs))
	if len(slotIDs) == 0 {
		return sums, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("slot_id", "COALESCE(SUM(reserved_capacity), 0)").
		From("booking_locks").
		Where(squirrel.Eq{"slot_id": slotIDs}).
		Where(squirrel.Eq{"released_at": nil}).
		Where(squirrel.Gt{"lock_expires_at": now}).
		GroupBy("slot_id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: SumActiveBySlots - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: SumActiveBySlots - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var slotID int64
		var sum int
		if err := rows.Scan(&slotID, &sum); err != nil {
			return nil, fmt.Errorf("%w: SumActiveBySlots - scan row: %w", ErrScanRow, err)
		}
		sums[slotID] = sum
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: SumActiveBySlots - rows error: %w", ErrScanRow, err)
	}

	return sums, nil
}

// Release помечает блокировку освобождённой
// Идемпотентна: повторный вызов, вызов по истёкшей или несуществующей
// блокировке не являются ошибкой - возвращается количество затронутых строк
func (r *Repository) Release(ctx context.Context, lockID, sessionID string, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("booking_locks").
		Set("released_at", now).
		Where(squirrel.Eq{
			"id":          lockID,
			"session_id":  sessionID,
			"released_at": nil,
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: Release - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: Release - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: Release - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// DeleteExpiredBySlot удаляет истёкшие блокировки слота, включая уже
// освобождённые и использованные. Вызывается при захвате новой блокировки
// на том же слоте - таблица не растёт без ограничения, при этом фоновой
// очистки не требуется
func (r *Repository) DeleteExpiredBySlot(ctx context.Context, slotID int64, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("booking_locks").
		Where(squirrel.Eq{"slot_id": slotID}).
		Where(squirrel.LtOrEq{"lock_expires_at": now}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpiredBySlot - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpiredBySlot - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpiredBySlot - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected, nil
}
