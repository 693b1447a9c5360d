// internal/store/settings.go
//
// Key/value site settings.  BulkUpsert is all-or-nothing: keys are checked
// against the known set before the transaction opens, and any failing row
// rolls back the rows before it.

package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/viyakaptan/internal/content"
)

const settingCols = "`key`, value, type, `group`, label"

type Settings struct {
	db *sqlx.DB
}

func (r *Settings) List(ctx context.Context) ([]content.SiteSetting, error) {
	out := []content.SiteSetting{}
	if err := r.db.SelectContext(ctx, &out, "SELECT "+settingCols+" FROM site_settings ORDER BY `group`, `key`"); err != nil {
		return nil, fmt.Errorf("list site_settings: %w", err)
	}
	return out, nil
}

// Map returns key → value for every non-empty setting.
func (r *Settings) Map(ctx context.Context) (map[string]string, error) {
	rows, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return content.SettingsMap(rows), nil
}

// BulkUpsert writes entries in one transaction.  Missing group, label, or
// type are derived from the key.
func (r *Settings) BulkUpsert(ctx context.Context, entries []content.SiteSetting) (err error) {
	if err := content.ValidateSettings(entries); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				zap.S().Warnw("settings rollback failed", "err", rbErr)
			}
		}
	}()

	const q = "INSERT INTO site_settings (`key`, value, type, `group`, label) VALUES (?, ?, ?, ?, ?) " +
		"ON DUPLICATE KEY UPDATE value = VALUES(value), type = VALUES(type), " +
		"`group` = VALUES(`group`), label = VALUES(label)"

	for _, e := range entries {
		d := content.NewSetting(e.Key, e.Value)
		if e.Type != "" {
			d.Type = e.Type
		}
		if e.Group != "" {
			d.Group = e.Group
		}
		if e.Label != "" {
			d.Label = e.Label
		}
		if _, err = tx.ExecContext(ctx, q, d.Key, d.Value, d.Type, d.Group, d.Label); err != nil {
			return fmt.Errorf("upsert setting %s: %w", d.Key, err)
		}
	}
	return tx.Commit()
}
