package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var embedded embed.FS

const dir = "sql"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Migrator обёртка над goose для таблиц, которыми владеет сервис
type Migrator struct {
	db  *sql.DB
	log Logger
}

// NewMigrator создаёт новый мигратор
func NewMigrator(db *sql.DB, log Logger) (*Migrator, error) {
	goose.SetBaseFS(embedded)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	goose.SetLogger(gooseLogger{log: log})

	return &Migrator{db: db, log: log}, nil
}

// Run применяет все pending миграции
func (m *Migrator) Run(ctx context.Context) error {
	m.log.Info("Applying database migrations...")

	if err := goose.UpContext(ctx, m.db, dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := m.Version(ctx)
	if err != nil {
		return err
	}
	m.log.Info("Migrations applied, version=%d", version)
	return nil
}

// Version показывает текущую версию миграций
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	version, err := goose.GetDBVersionContext(ctx, m.db)
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	return version, nil
}

// gooseLogger направляет вывод goose в логгер сервиса.
// Fatalf не завершает процесс: ошибка и так вернётся из UpContext.
type gooseLogger struct {
	log Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Info("goose: "+format, v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Error("goose: "+format, v...)
}
