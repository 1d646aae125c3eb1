package subscription

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

// Repository репозиторий для работы с пакетными подписками и их остатками
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория подписок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает подписку по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.PackageSubscription, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"customer_id",
		"tenant_id",
		"package_id",
		"status",
		"expires_at",
		"created_at",
		"updated_at",
	).
		From("package_subscriptions").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	var s domain.PackageSubscription
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.CustomerID,
		&s.TenantID,
		&s.PackageID,
		&s.Status,
		&s.ExpiresAt,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan subscription: %w", ErrScanRow, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// GetUsageForUpdate получает строку использования подписки для услуги
// с блокировкой строки (FOR UPDATE). Вызывается внутри транзакции коммита
// бронирования перед списанием покрытых единиц
func (r *Repository) GetUsageForUpdate(ctx context.Context, subscriptionID, serviceID int64) (*domain.PackageSubscriptionUsage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"subscription_id",
		"service_id",
		"original_quantity",
		"used_quantity",
		"remaining_quantity",
		"updated_at",
	).
		From("package_subscription_usage").
		Where(squirrel.Eq{
			"subscription_id": subscriptionID,
			"service_id":      serviceID,
		}).
		Suffix("FOR UPDATE").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetUsageForUpdate - build select query: %w", ErrBuildQuery, err)
	}

	var u domain.PackageSubscriptionUsage
	var updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&u.ID,
		&u.SubscriptionID,
		&u.ServiceID,
		&u.OriginalQuantity,
		&u.UsedQuantity,
		&u.RemainingQuantity,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrUsageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetUsageForUpdate - scan usage: %w", ErrScanRow, err)
	}

	u.UpdatedAt = updatedAt.Time

	return &u, nil
}

// ApplyCoverage списывает covered единиц с остатка подписки по услуге
// UPDATE защищён предикатом remaining_quantity >= covered: два конкурирующих
// коммита не смогут увести остаток в минус - проигравший получает
// ErrInsufficientBalance
func (r *Repository) ApplyCoverage(ctx context.Context, subscriptionID, serviceID int64, covered int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("package_subscription_usage").
		Set("remaining_quantity", squirrel.Expr("remaining_quantity - ?", covered)).
		Set("used_quantity", squirrel.Expr("used_quantity + ?", covered)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"subscription_id": subscriptionID,
			"service_id":      serviceID,
		}).
		Where(squirrel.Expr("remaining_quantity >= ?", covered)).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ApplyCoverage - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ApplyCoverage - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: ApplyCoverage - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrInsufficientBalance
	}

	return nil
}

// RefundCoverage возвращает qty единиц на остаток подписки (отмена бронирования)
// Защищён предикатом used_quantity >= qty
func (r *Repository) RefundCoverage(ctx context.Context, subscriptionID, serviceID int64, qty int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("package_subscription_usage").
		Set("remaining_quantity", squirrel.Expr("remaining_quantity + ?", qty)).
		Set("used_quantity", squirrel.Expr("used_quantity - ?", qty)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"subscription_id": subscriptionID,
			"service_id":      serviceID,
		}).
		Where(squirrel.Expr("used_quantity >= ?", qty)).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: RefundCoverage - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: RefundCoverage - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: RefundCoverage - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrUsageNotFound
	}

	return nil
}

// ListBalances возвращает остатки по всем активным неистёкшим подпискам
// клиента, покрывающим указанную услугу. Только для отображения:
// коммит бронирования всё равно требует выбора одной конкретной подписки
func (r *Repository) ListBalances(ctx context.Context, customerID, serviceID int64, now time.Time) ([]*domain.SubscriptionBalance, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"s.id",
		"s.package_id",
		"s.expires_at",
		"u.original_quantity",
		"u.remaining_quantity",
	).
		From("package_subscriptions s").
		Join("package_subscription_usage u ON u.subscription_id = s.id").
		Where(squirrel.Eq{
			"s.customer_id": customerID,
			"u.service_id":  serviceID,
			"s.status":      domain.SubscriptionActive,
		}).
		Where(squirrel.Or{
			squirrel.Eq{"s.expires_at": nil},
			squirrel.Gt{"s.expires_at": now},
		}).
		Where(squirrel.Gt{"u.remaining_quantity": 0}).
		OrderBy("s.created_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListBalances - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBalances - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	balances := make([]*domain.SubscriptionBalance, 0)
	for rows.Next() {
		var b domain.SubscriptionBalance
		if err := rows.Scan(
			&b.SubscriptionID,
			&b.PackageID,
			&b.ExpiresAt,
			&b.OriginalQuantity,
			&b.Remaining,
		); err != nil {
			return nil, fmt.Errorf("%w: ListBalances - scan row: %w", ErrScanRow, err)
		}
		balances = append(balances, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBalances - rows error: %w", ErrScanRow, err)
	}

	return balances, nil
}
