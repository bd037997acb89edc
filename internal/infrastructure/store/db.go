// Package store implementa los repositorios sobre bun. El motor por defecto es el archivo
// SQLite local (modernc.org/sqlite); PostgreSQL y MySQL se usan con db.driver.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"

	"github.com/jhoicas/cafecraft/pkg/config"
)

// DB conexión bun junto con el driver usado.
type DB struct {
	*bun.DB
	driver string
	path   string
}

// Driver devuelve sqlite, postgres o mysql.
func (d *DB) Driver() string { return d.driver }

// Path ruta del archivo SQLite (vacío en otros motores).
func (d *DB) Path() string { return d.path }

// Open abre la base según cfg y verifica la conexión.
func Open(ctx context.Context, cfg config.DBConfig) (*DB, error) {
	var (
		sqlDB *sql.DB
		err   error
	)
	switch cfg.Driver {
	case config.DriverPostgres:
		sqlDB, err = openPostgres(cfg)
	case config.DriverMySQL:
		sqlDB, err = openMySQL(cfg)
	case config.DriverSQLite, "":
		sqlDB, err = openSQLite(cfg)
	default:
		return nil, fmt.Errorf("store: driver no soportado %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("store: ping %s: %w", driverName(cfg.Driver), err)
	}

	return &DB{DB: newBunDB(sqlDB, cfg.Driver), driver: driverName(cfg.Driver), path: sqlitePath(cfg)}, nil
}

func newBunDB(sqlDB *sql.DB, driver string) *bun.DB {
	switch driver {
	case config.DriverPostgres:
		return bun.NewDB(sqlDB, pgdialect.New())
	case config.DriverMySQL:
		return bun.NewDB(sqlDB, mysqldialect.New())
	default:
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
}

func driverName(d string) string {
	if d == "" {
		return config.DriverSQLite
	}
	return d
}

func sqlitePath(cfg config.DBConfig) string {
	if !cfg.IsSQLite() {
		return ""
	}
	return cfg.Path
}

// openSQLite abre el archivo local en modo WAL. Las transacciones toman el bloqueo de escritura
// al empezar (_txlock=immediate) para que dos escritores esperen el busy_timeout en vez de fallar.
func openSQLite(cfg config.DBConfig) (*sql.DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("store: DB_PATH vacío")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: crear directorio de datos: %w", err)
		}
	}
	dsn := cfg.ConnectionString() + "&_txlock=immediate"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: abrir sqlite %s: %w", cfg.Path, err)
	}
	return db, nil
}

// openPostgres usa pgx vía database/sql y registra el codec NUMERIC -> shopspring/decimal en cada conexión.
func openPostgres(cfg config.DBConfig) (*sql.DB, error) {
	connCfg, err := pgx.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("store: parse DSN postgres: %w", err)
	}
	db := stdlib.OpenDB(*connCfg, stdlib.OptionAfterConnect(func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}))
	return db, nil
}

// openMySQL fuerza parseTime y UTC para que las fechas se escaneen como time.Time, y
// ClientFoundRows para que un UPDATE sin cambios reporte la fila encontrada.
func openMySQL(cfg config.DBConfig) (*sql.DB, error) {
	mc, err := mysql.ParseDSN(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("store: parse DSN mysql: %w", err)
	}
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.ClientFoundRows = true
	connector, err := mysql.NewConnector(mc)
	if err != nil {
		return nil, fmt.Errorf("store: conector mysql: %w", err)
	}
	return sql.OpenDB(connector), nil
}

// IsMySQL indica si la conexión usa el dialecto MySQL.
func IsMySQL(db bun.IDB) bool {
	return db.Dialect().Name() == dialect.MySQL
}

// IsSQLite indica si la conexión usa el dialecto SQLite.
func IsSQLite(db bun.IDB) bool {
	return db.Dialect().Name() == dialect.SQLite
}
