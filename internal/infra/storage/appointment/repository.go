package appointment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/psqlbuilder"
)

// Repository читает записи из таблицы appointments хранилища записей.
// Таблица принадлежит хранилищу, сервис только читает её.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var appointmentColumns = []string{
	"id",
	"business_id",
	"service_id",
	"staff_id",
	"customer_id",
	"appointment_date",
	"start_time",
	"end_time",
	"duration_minutes",
	"status",
	"customer_notes",
	"created_at",
	"updated_at",
}

// GetByBusinessWithFilter получает записи бизнеса за период.
// По умолчанию возвращаются все статусы кроме CANCELED, с IncludeCanceled все.
// Время начала возвращается как есть (HH:MM или RFC 3339), разбор выполняет движок.
func (r *Repository) GetByBusinessWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]domain.Appointment, error) {
	query, args, err := buildFilterQuery(filter)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

func buildFilterQuery(filter domain.AppointmentsFilter) (string, []interface{}, error) {
	if filter.BusinessID == "" {
		return "", nil, fmt.Errorf("%w: business id is required", ErrInvalidFilter)
	}

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"business_id": filter.BusinessID})

	// Даты передаём строкой, чтобы драйвер не сдвигал их по часовому поясу
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"appointment_date": filter.StartDate.Format(domain.DateFormat)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"appointment_date": filter.EndDate.Format(domain.DateFormat)})
	}

	if filter.StaffID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Or{
			squirrel.Eq{"staff_id": *filter.StaffID},
			squirrel.Eq{"staff_id": nil},
		})
	}

	if !filter.IncludeCanceled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": string(domain.AppointmentCanceled)})
	}

	query, args, err := selectBuilder.OrderBy("appointment_date ASC", "start_time ASC").ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: GetByBusinessWithFilter - build select query: %v", ErrBuildQuery, err)
	}
	return query, args, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]domain.Appointment, error) {
	appointments := make([]domain.Appointment, 0)

	for rows.Next() {
		var (
			a                    domain.Appointment
			staffID, endTime     sql.NullString
			notes                sql.NullString
			duration             sql.NullInt64
			createdAt, updatedAt sql.NullTime
			status               string
		)

		err := rows.Scan(
			&a.ID,
			&a.BusinessID,
			&a.ServiceID,
			&staffID,
			&a.CustomerID,
			&a.Date,
			&a.StartTime,
			&endTime,
			&duration,
			&status,
			&notes,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}

		a.StaffID = staffID.String
		a.EndTime = endTime.String
		a.DurationMinutes = int(duration.Int64)
		a.Status = domain.AppointmentStatus(status)
		if notes.Valid {
			a.CustomerNotes = &notes.String
		}
		a.CreatedAt = createdAt.Time
		a.UpdatedAt = updatedAt.Time

		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}
