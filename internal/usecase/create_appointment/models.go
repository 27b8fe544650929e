package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	CustomerID     string           // ID клиента (из заголовка авторизации)
	BusinessID     string           // ID или slug бизнеса
	ServiceID      string           // ID услуги
	StaffID        *string          // Сотрудник (опционально)
	Date           time.Time        // Дата записи (без времени)
	StartTime      types.TimeString // Время начала (например, "10:00")
	CustomerNotes  *string          // Комментарий клиента (опционально)
	IdempotencyKey string           // Пустой ключ генерируется
}

// Response модель ответа с созданной записью
type Response struct {
	ID              string
	BusinessID      string
	ServiceID       string
	StaffID         string
	CustomerID      string
	Date            time.Time
	StartTime       string
	DurationMinutes int
	Status          domain.AppointmentStatus
	CustomerNotes   *string
	IdempotencyKey  string
	Degraded        bool // Предварительная проверка пропущена: расчёт был деградирован
}
