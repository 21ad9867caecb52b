package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// conn общий набор методов sqlx.DB и sqlx.Tx
type conn interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

// Database обертка над sqlx.DB. Внутри WithTx все запросы идут через транзакцию.
type Database struct {
	db     *sqlx.DB
	conn   conn
	logger *zap.Logger
	inTx   bool
}

// NewDatabase создает новое подключение к БД
func NewDatabase(dsn string, logger *zap.Logger) (*Database, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Настройка пула соединений
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Проверка соединения
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("Database connection established")

	return NewDatabaseFromDB(db, logger), nil
}

// NewDatabaseFromDB оборачивает готовое подключение
func NewDatabaseFromDB(db *sqlx.DB, logger *zap.Logger) *Database {
	return &Database{
		db:     db,
		conn:   db,
		logger: logger,
	}
}

// Close закрывает подключение к БД
func (d *Database) Close() error {
	return d.db.Close()
}

// DB исходное подключение, нужно для миграций
func (d *Database) DB() *sql.DB {
	return d.db.DB
}

// WithTx выполняет fn в одной транзакции: либо все записи, либо ни одной.
// Вложенный вызов переиспользует текущую транзакцию.
func (d *Database) WithTx(ctx context.Context, fn func(tx Store) error) (err error) {
	if d.inTx {
		return fn(d)
	}

	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				d.logger.Error("Transaction rollback failed", zap.Error(rbErr))
			}
			return
		}
		if err = tx.Commit(); err != nil {
			err = fmt.Errorf("failed to commit transaction: %w", err)
		}
	}()

	return fn(&Database{
		db:     d.db,
		conn:   tx,
		logger: d.logger,
		inTx:   true,
	})
}

// HealthCheck проверка здоровья БД
func (d *Database) HealthCheck(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// getOne выполняет GetContext и возвращает false, если строки нет
func (d *Database) getOne(ctx context.Context, dest interface{}, query string, args ...interface{}) (bool, error) {
	err := d.conn.GetContext(ctx, dest, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// whereBuilder собирает условия WHERE с позиционными параметрами
type whereBuilder struct {
	clauses []string
	args    []interface{}
}

func (w *whereBuilder) add(column string, value interface{}) {
	w.args = append(w.args, value)
	w.clauses = append(w.clauses, fmt.Sprintf("%s = $%d", column, len(w.args)))
}

func (w *whereBuilder) sql() string {
	out := ""
	for i, clause := range w.clauses {
		if i == 0 {
			out += " WHERE " + clause
		} else {
			out += " AND " + clause
		}
	}
	return out
}
