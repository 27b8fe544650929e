package domain

import "errors"

var (
	// ErrUnknownWeekday возвращается при разборе неизвестного названия дня недели
	ErrUnknownWeekday = errors.New("domain: unknown weekday")

	// ErrInvalidSchedule возвращается для некорректного расписания или перерыва
	ErrInvalidSchedule = errors.New("domain: invalid schedule")
)
