package businessservice

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("businessservice client: business not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("businessservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("businessservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation.
	// Указывает, что BusinessService недоступен и расчёт идёт по запасной сетке
	ErrServiceDegraded = errors.New("businessservice unavailable: graceful degradation applied")
)
