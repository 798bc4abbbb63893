package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/pe-odake/Portifolio-Web/internal/middleware"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// EnsureDatabase connects to the postgres maintenance database and
// creates the target database when it does not exist yet. A non-postgres
// URL (the sqlite fallback) is a no-op.
func EnsureDatabase(ctx context.Context, databaseURL string) error {
	if databaseURL == "" || !strings.HasPrefix(databaseURL, "postgres") {
		return nil
	}

	u, err := url.Parse(databaseURL)
	if err != nil {
		return fmt.Errorf("parse database url: %w", err)
	}
	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return nil
	}
	u.Path = "/postgres"

	adminDB, err := sql.Open("pgx", u.String())
	if err != nil {
		return fmt.Errorf("open maintenance database: %w", err)
	}
	defer adminDB.Close()

	var one int
	err = adminDB.QueryRowContext(ctx, `SELECT 1 FROM pg_database WHERE datname = $1`, dbName).Scan(&one)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("check database existence: %w", err)
	}

	if _, err := adminDB.ExecContext(ctx, `CREATE DATABASE `+quoteIdent(dbName)); err != nil {
		return fmt.Errorf("create database %s: %w", dbName, err)
	}
	middleware.Logger.Info("Created database " + dbName)
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
