// internal/database/database_test.go
//
// Migrate runs every embedded statement in order and stops at the first
// failure.

package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func TestStatementsCoverEveryTable(t *testing.T) {
	stmts := Statements()
	tables := []string{"categories", "posts", "caravan_routes", "hero_sections",
		"feature_cards", "team_members", "site_settings", "media"}
	if len(stmts) != len(tables) {
		t.Fatalf("got %d statements, want %d", len(stmts), len(tables))
	}
	for i, tbl := range tables {
		if !strings.HasPrefix(stmts[i], "CREATE TABLE IF NOT EXISTS "+tbl+" ") {
			t.Errorf("statement %d does not create %s", i, tbl)
		}
	}
}

func TestMigrate(t *testing.T) {
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer raw.Close()
	db := sqlx.NewDb(raw, "mysql")

	for range Statements() {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestMigrateStopsOnError(t *testing.T) {
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer raw.Close()
	db := sqlx.NewDb(raw, "mysql")

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS categories").WillReturnError(errors.New("denied"))
	if err := Migrate(context.Background(), db); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestWithParseTime(t *testing.T) {
	cases := map[string]string{
		"u:p@tcp(db)/viya":                "u:p@tcp(db)/viya?parseTime=true&charset=utf8mb4",
		"u:p@tcp(db)/viya?tls=true":       "u:p@tcp(db)/viya?tls=true&parseTime=true&charset=utf8mb4",
		"u:p@tcp(db)/viya?parseTime=true": "u:p@tcp(db)/viya?parseTime=true",
	}
	for in, want := range cases {
		if got := withParseTime(in); got != want {
			t.Errorf("withParseTime(%q) = %q", in, got)
		}
	}
}
