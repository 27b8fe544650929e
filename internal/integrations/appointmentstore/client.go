package appointmentstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Client клиент API записи хранилища. Хранилище само сериализует
// конкурирующие записи и окончательно решает, занят ли слот.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента хранилища записей
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// UseTransport подменяет транспорт HTTP клиента (например, otelhttp)
func (c *Client) UseTransport(rt http.RoundTripper) {
	c.httpClient.Transport = rt
}

// CreateAppointment создаёт запись. Повтор с тем же IdempotencyKey не создаёт дубликат.
func (c *Client) CreateAppointment(ctx context.Context, a *domain.NewAppointment) (*domain.Appointment, error) {
	url := fmt.Sprintf("%s/internal/appointments", c.baseURL)

	body, err := json.Marshal(newCreateRequest(a))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if a.IdempotencyKey != "" {
		req.Header.Set("Idempotency-Key", a.IdempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Продолжаем обработку
	case http.StatusConflict:
		c.log.Warn("Appointment store rejected slot business=%s date=%s time=%s: %s",
			a.BusinessID, a.Date.Format(domain.DateFormat), a.StartTime, readMessage(resp.Body))
		return nil, ErrSlotTaken
	case http.StatusUnprocessableEntity:
		return nil, fmt.Errorf("%w: %s", ErrPolicyRejected, readMessage(resp.Body))
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, readMessage(resp.Body))
	default:
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, readMessage(resp.Body))
	}

	var created Appointment
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	appointment, err := created.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid appointment date %q: %v", ErrInvalidResponse, created.Date, err)
	}

	c.log.Info("Appointment created id=%s business=%s date=%s time=%s",
		appointment.ID, appointment.BusinessID, created.Date, appointment.StartTime)
	return appointment, nil
}

// readMessage достаёт message из ErrorResponse, иначе возвращает тело как есть
func readMessage(r io.Reader) string {
	body, _ := io.ReadAll(io.LimitReader(r, 4096))
	var e ErrorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return string(body)
}
