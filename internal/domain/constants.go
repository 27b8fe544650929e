package domain

// Default configuration values
const (
	DefaultTimezone               = "Europe/Istanbul"
	DefaultSlotGranularityMinutes = 15
	DefaultServiceDurationMinutes = 30
	DefaultFallbackOpenTime       = "09:00"
	DefaultFallbackCloseTime      = "18:00"
	DefaultCloseTime              = "18:00"
)

// Business validation constants
const (
	MaxServiceDurationMinutes = 720 // 12 hours
	MaxOverrideReasonLength   = 255
	MaxCustomerNotesLength    = 500
	MaxOverrideRangeDays      = 366
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
