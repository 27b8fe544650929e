package businessservice

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics счётчики обращений к кэшу
type Metrics interface {
	IncBusinessCache(result string)
}
