// internal/store/store.go
//
// MySQL repositories behind the data API.
//
/*
Context
--------
One repository per entity, all sharing the generic `table[T]` helper for
the parts that are identical everywhere (list, fetch by id or slug, delete,
and driver-error mapping).  Inserts and updates stay hand-written per entity
because their column lists differ.

Error mapping
-------------
  • MySQL 1062 (duplicate key)          → errs.ErrConflict
  • sql.ErrNoRows on a follow-up fetch  → errs.ErrNotFound
  • 0 rows affected on DELETE           → errs.ErrNotFound
  • struct-tag validation               → errs.ErrValidation

MySQL reports *changed* rows for UPDATE, so an update that writes identical
values affects 0 rows.  Updates therefore re-read the row by id and let the
read decide between "saved" and "not found".
*/
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/viyakaptan/internal/content"
	"github.com/yanizio/viyakaptan/internal/errs"
)

const mysqlDuplicateKey = 1062

// Store groups every repository over one pool.
type Store struct {
	DB *sqlx.DB

	Categories *Categories
	Posts      *Posts
	Routes     *Routes
	Hero       *Hero
	Features   *Features
	Team       *Team
	Settings   *Settings
	Media      *Media
}

// New wires all repositories to db.
func New(db *sqlx.DB) *Store {
	return &Store{
		DB:         db,
		Categories: &Categories{t: newTable[content.Category](db, "categories", "Kategori", categoryCols, "sort_order, id")},
		Posts:      newPosts(db),
		Routes:     &Routes{t: newTable[content.CaravanRoute](db, "caravan_routes", "Rota", routeCols, "id DESC")},
		Hero:       &Hero{t: newTable[content.HeroSection](db, "hero_sections", "Hero bölümü", heroCols, "sort_order, id")},
		Features:   &Features{t: newTable[content.FeatureCard](db, "feature_cards", "Özellik kartı", featureCols, "sort_order, id")},
		Team:       &Team{t: newTable[content.TeamMember](db, "team_members", "Ekip üyesi", teamCols, "sort_order, id")},
		Settings:   &Settings{db: db},
		Media:      &Media{t: newTable[content.Media](db, "media", "Dosya", mediaCols, "created_at DESC, id DESC")},
	}
}

/*──────────────────────────── generic table ───────────────────────────────*/

type table[T any] struct {
	db    *sqlx.DB
	name  string
	noun  string
	cols  string
	order string
}

func newTable[T any](db *sqlx.DB, name, noun, cols, order string) table[T] {
	return table[T]{db: db, name: name, noun: noun, cols: cols, order: order}
}

// list selects rows matching every clause in where, in table order.
func (t table[T]) list(ctx context.Context, where []string) ([]T, error) {
	q := "SELECT " + t.cols + " FROM " + t.name
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY " + t.order

	out := []T{}
	if err := t.db.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	return out, nil
}

func (t table[T]) byID(ctx context.Context, id int64) (T, error) {
	var row T
	err := t.db.GetContext(ctx, &row, "SELECT "+t.cols+" FROM "+t.name+" WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return row, errs.NotFound(t.noun, id)
	}
	if err != nil {
		return row, fmt.Errorf("get %s %d: %w", t.name, id, err)
	}
	return row, nil
}

// bySlug returns nil, nil when no row matches.
func (t table[T]) bySlug(ctx context.Context, slug string, where ...string) (*T, error) {
	q := "SELECT " + t.cols + " FROM " + t.name + " WHERE slug = ?"
	for _, w := range where {
		q += " AND " + w
	}
	var row T
	err := t.db.GetContext(ctx, &row, q, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s by slug: %w", t.name, err)
	}
	return &row, nil
}

// insert runs q and returns the stored row.
func (t table[T]) insert(ctx context.Context, q string, args ...any) (T, error) {
	var zero T
	res, err := t.db.ExecContext(ctx, q, args...)
	if err != nil {
		return zero, t.mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return zero, err
	}
	return t.byID(ctx, id)
}

// update runs q (whose last placeholder is the id) and re-reads the row.
func (t table[T]) update(ctx context.Context, id int64, q string, args ...any) (T, error) {
	var zero T
	if _, err := t.db.ExecContext(ctx, q, append(args, id)...); err != nil {
		return zero, t.mapErr(err)
	}
	return t.byID(ctx, id)
}

func (t table[T]) delete(ctx context.Context, id int64) error {
	res, err := t.db.ExecContext(ctx, "DELETE FROM "+t.name+" WHERE id = ?", id)
	if err != nil {
		return t.mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.NotFound(t.noun, id)
	}
	return nil
}

func (t table[T]) mapErr(err error) error {
	return mapDriverErr(t.noun, err)
}

func mapDriverErr(noun string, err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDuplicateKey {
		return errs.Conflict(fmt.Sprintf("Bu %s zaten mevcut: benzersiz alan (slug/anahtar) kullanılıyor", strings.ToLower(noun)))
	}
	return err
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// clock is swapped in tests.
var clock = func() time.Time { return time.Now().UTC().Truncate(time.Second) }

func activeWhere(activeOnly bool) []string {
	if activeOnly {
		return []string{"is_active = TRUE"}
	}
	return nil
}

func publishedWhere(publishedOnly bool) []string {
	if publishedOnly {
		return []string{"is_published = TRUE"}
	}
	return nil
}
