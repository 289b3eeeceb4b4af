package services

import (
	"context"
	"errors"

	"daily-menu/db"

	"github.com/jackc/pgx/v5"
)

// SaveMenuDraft stores the admin's current editing snapshot (JSON produced by
// the menu tree), replacing any earlier draft.
func SaveMenuDraft(ctx context.Context, adminID int64, snapshot []byte) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO menu_drafts (admin_id, snapshot, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (admin_id) DO UPDATE SET
			snapshot = $2,
			updated_at = now()`,
		adminID, snapshot,
	)
	return err
}

// LoadMenuDraft returns the stored snapshot; ok is false if the admin has none.
func LoadMenuDraft(ctx context.Context, adminID int64) (snapshot []byte, ok bool, err error) {
	err = db.Pool.QueryRow(ctx, `SELECT snapshot FROM menu_drafts WHERE admin_id = $1`, adminID).Scan(&snapshot)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return snapshot, true, nil
}

func DeleteMenuDraft(ctx context.Context, adminID int64) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM menu_drafts WHERE admin_id = $1`, adminID)
	return err
}
