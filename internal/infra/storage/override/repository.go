package override

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

const tableName = "business_hours_overrides"

var overrideColumns = []string{
	"id",
	"business_id",
	"override_date",
	"is_open",
	"open_time",
	"close_time",
	"breaks",
	"reason",
	"expires_at",
	"created_by",
	"created_at",
	"updated_at",
}

// Repository репозиторий исключений из расписания (праздники, сокращённые дни)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория исключений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListByBusiness получает исключения бизнеса за период (границы включительно, опционально).
// Истёкшие исключения тоже возвращаются, отбрасывает их движок.
func (r *Repository) ListByBusiness(ctx context.Context, businessID string, from, to *time.Time) ([]domain.BusinessHoursOverride, error) {
	query, args, err := buildListQuery(businessID, from, to)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBusiness - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	overrides := make([]domain.BusinessHoursOverride, 0)
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByBusiness - scan row: %v", ErrScanRow, err)
		}
		overrides = append(overrides, *o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByBusiness - rows error: %v", ErrScanRow, err)
	}

	return overrides, nil
}

// Upsert создает исключение на дату или заменяет существующее
func (r *Repository) Upsert(ctx context.Context, o *domain.BusinessHoursOverride) (*domain.BusinessHoursOverride, error) {
	query, args, err := buildUpsertQuery(o)
	if err != nil {
		return nil, err
	}

	var createdAt, updatedAt sql.NullTime
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&o.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time

	return o, nil
}

// DeleteByDate удаляет исключение бизнеса на дату
func (r *Repository) DeleteByDate(ctx context.Context, businessID string, date time.Time) error {
	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"business_id": businessID, "override_date": date.Format(domain.DateFormat)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteByDate - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteByDate - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteByDate - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrOverrideNotFound
	}

	return nil
}

func buildListQuery(businessID string, from, to *time.Time) (string, []interface{}, error) {
	selectBuilder := psqlbuilder.Select(overrideColumns...).
		From(tableName).
		Where(squirrel.Eq{"business_id": businessID})

	if from != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"override_date": from.Format(domain.DateFormat)})
	}
	if to != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"override_date": to.Format(domain.DateFormat)})
	}

	query, args, err := selectBuilder.OrderBy("override_date ASC", "updated_at DESC").ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: ListByBusiness - build select query: %v", ErrBuildQuery, err)
	}
	return query, args, nil
}

func buildUpsertQuery(o *domain.BusinessHoursOverride) (string, []interface{}, error) {
	breaks, err := encodeBreaks(o.Breaks)
	if err != nil {
		return "", nil, err
	}

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"business_id",
			"override_date",
			"is_open",
			"open_time",
			"close_time",
			"breaks",
			"reason",
			"expires_at",
			"created_by",
		).
		Values(
			o.BusinessID,
			o.Date.Format(domain.DateFormat),
			o.IsOpen,
			nullTime(o.OpenTime),
			nullTime(o.CloseTime),
			string(breaks),
			o.Reason,
			o.ExpiresAt,
			o.CreatedBy,
		).
		Suffix(`ON CONFLICT (business_id, override_date) DO UPDATE SET
			is_open = EXCLUDED.is_open,
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			breaks = EXCLUDED.breaks,
			reason = EXCLUDED.reason,
			expires_at = EXCLUDED.expires_at,
			created_by = EXCLUDED.created_by,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}
	return query, args, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOverride(row rowScanner) (*domain.BusinessHoursOverride, error) {
	var (
		o                    domain.BusinessHoursOverride
		openTime, closeTime  sql.NullString
		breaks               []byte
		reason               sql.NullString
		expiresAt            sql.NullTime
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&o.ID,
		&o.BusinessID,
		&o.Date,
		&o.IsOpen,
		&openTime,
		&closeTime,
		&breaks,
		&reason,
		&expiresAt,
		&o.CreatedBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if o.OpenTime, err = parseNullTime(openTime); err != nil {
		return nil, err
	}
	if o.CloseTime, err = parseNullTime(closeTime); err != nil {
		return nil, err
	}
	if o.Breaks, err = decodeBreaks(breaks); err != nil {
		return nil, err
	}
	o.Reason = reason.String
	if expiresAt.Valid {
		o.ExpiresAt = &expiresAt.Time
	}
	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time

	return &o, nil
}

func nullTime(t *types.TimeString) interface{} {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.String()
}

// parseNullTime колонка TIME приходит как "HH:MM:SS"
func parseNullTime(s sql.NullString) (*types.TimeString, error) {
	if !s.Valid {
		return nil, nil
	}
	ts, err := types.NewTimeStringFromString(s.String)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}
