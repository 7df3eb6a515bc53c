package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/vibast-solutions/ms-go-sbp-checkout/config"
)

// ErrStatusConflict is returned by UpdateStatusFrom when the stored status no
// longer matches the expected one.
var ErrStatusConflict = errors.New("payment status changed concurrently")

type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// OpenMySQL opens a pooled connection with parseTime enabled.
func OpenMySQL(cfg config.MySQLConfig) (*sql.DB, error) {
	dsnCfg, err := mysqlDriver.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, err
	}
	dsnCfg.ParseTime = true
	dsnCfg.Loc = time.UTC

	db, err := sql.Open("mysql", dsnCfg.FormatDSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

func nullableStringValue(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func stringPtrFromNull(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
