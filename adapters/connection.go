package adapters

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"net/url"
	"strings"

	"github.com/pressly/goose/v3"
	"github.com/soffa-projects/loctool/errors"
	"github.com/soffa-projects/loctool/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/driver/sqliteshim"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const changeLogTable = "loctool_changelog"

// Connection is a migrated database handle for postgres:// or sqlite:// URLs.
type Connection struct {
	Url     string
	dialect string
	schema  string
	db      *bun.DB
}

func NewConnection(databaseUrl string) (*Connection, error) {
	cnx := &Connection{Url: databaseUrl}
	if err := cnx.configure(); err != nil {
		return nil, err
	}
	return cnx, nil
}

func (t *Connection) configure() error {
	switch {
	case strings.HasPrefix(t.Url, "postgres://") || strings.HasPrefix(t.Url, "postgresql://"):
		u, err := url.Parse(t.Url)
		if err != nil {
			return err
		}
		query := u.Query()
		t.schema = query.Get("schema")
		query.Del("schema")
		u.RawQuery = query.Encode()

		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(u.String())))
		t.db = bun.NewDB(sqldb, pgdialect.New())
		t.dialect = "postgres"

	case strings.HasPrefix(t.Url, "sqlite://"):
		sqldb, err := sql.Open(sqliteshim.ShimName, strings.Replace(t.Url, "sqlite://", "", 1))
		if err != nil {
			return fmt.Errorf("failed to open SQLite database: %v", err)
		}
		// a single connection keeps in-memory databases alive across queries
		sqldb.SetMaxOpenConns(1)
		t.db = bun.NewDB(sqldb, sqlitedialect.New())
		t.dialect = "sqlite3"

	default:
		return errors.Technical(fmt.Sprintf("unsupported database url %q", t.Url))
	}
	return t.migrate(context.Background())
}

func (t *Connection) migrate(ctx context.Context) error {
	if t.schema != "" {
		if _, err := t.db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS ?", bun.Ident(t.schema)); err != nil {
			return fmt.Errorf("failed to create schema %s: %v", t.schema, err)
		}
		if _, err := t.db.ExecContext(ctx, "SET search_path TO ?", bun.Ident(t.schema)); err != nil {
			return fmt.Errorf("failed to set search path %s: %v", t.schema, err)
		}
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect(t.dialect); err != nil {
		return fmt.Errorf("failed to set dialect: %v", err)
	}
	goose.SetTableName(changeLogTable)
	goose.SetLogger(goose.NopLogger())
	if err := goose.UpContext(ctx, t.db.DB, "migrations", goose.WithAllowMissing()); err != nil {
		return fmt.Errorf("failed to run migrations: %v", err)
	}
	log.Debug("migrations completed for %s", t.dialect)
	return nil
}

func (t *Connection) Ping(ctx context.Context) error {
	_, err := t.db.NewRaw("SELECT 1").Exec(ctx)
	return err
}

func (t *Connection) DB() *bun.DB {
	return t.db
}

func (t *Connection) Close() error {
	return t.db.Close()
}
