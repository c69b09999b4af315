// Package db selects the concrete database driver for a profile.
package db

import (
	"github.com/pkg/errors"

	"github.com/NarmalaSk/diem/internal/profile"
	"github.com/NarmalaSk/diem/store"
	"github.com/NarmalaSk/diem/store/db/mysql"
	"github.com/NarmalaSk/diem/store/db/postgres"
)

// NewDriver creates a driver based on the profile. Supported engines are
// MariaDB (native vector type) and PostgreSQL (pgvector extension).
func NewDriver(p *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch p.Driver {
	case "mysql":
		driver, err = mysql.NewDB(p)
	case "postgres":
		driver, err = postgres.NewDB(p)
	default:
		return nil, errors.Errorf("unknown db driver %q: only 'mysql' and 'postgres' are supported", p.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
