package appointmentstore

import "errors"

var (
	// ErrSlotTaken возвращается, когда хранилище отклонило запись из-за пересечения (409)
	ErrSlotTaken = errors.New("appointmentstore client: slot already taken")

	// ErrPolicyRejected возвращается, когда запись нарушает политику бизнеса (422)
	ErrPolicyRejected = errors.New("appointmentstore client: rejected by reservation policy")

	// ErrInvalidRequest возвращается, когда хранилище не приняло тело запроса (400)
	ErrInvalidRequest = errors.New("appointmentstore client: invalid request")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("appointmentstore client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("appointmentstore client: invalid response")
)
