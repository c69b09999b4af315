// Package mysql implements the store driver for MariaDB's native vector
// type (VECTOR columns, VEC_FromText, VEC_DISTANCE_*).
package mysql

import (
	"context"
	"database/sql"
	"time"

	// Import the MySQL driver.
	_ "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"

	"github.com/NarmalaSk/diem/internal/profile"
	"github.com/NarmalaSk/diem/internal/vecsql"
	"github.com/NarmalaSk/diem/store"
)

type DB struct {
	db      *sql.DB
	dialect vecsql.Dialect
}

func NewDB(p *profile.Profile) (store.Driver, error) {
	if p == nil {
		return nil, errors.New("profile is nil")
	}

	db, err := sql.Open("mysql", p.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	// Small pool: this is a client CLI, not a server.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &DB{db: db, dialect: vecsql.MariaDB()}, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return errors.Wrap(err, "failed to ping database")
	}
	return nil
}
