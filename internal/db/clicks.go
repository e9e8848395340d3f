package db

import (
	"context"
	"fmt"
	"time"
)

// ClickEvent is one local click, journaled for later analysis.
type ClickEvent struct {
	InstallID  string
	SessionKey string
	Seq        uint64
	Disco      bool
	ClickedAt  time.Time
}

const insertClick = `
		INSERT INTO click_events (install_id, session_key, seq, disco, clicked_at)
		VALUES ($1, $2, $3, $4, $5)
	`

func (d *DB) RecordClick(ctx context.Context, ev ClickEvent) error {
	_, err := d.conn.ExecContext(ctx, insertClick, ev.InstallID, ev.SessionKey, ev.Seq, ev.Disco, ev.ClickedAt)
	if err != nil {
		return fmt.Errorf("recording click: %w", err)
	}
	return nil
}

func (d *DB) BatchRecordClicks(ctx context.Context, events []ClickEvent) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertClick)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.ExecContext(ctx, ev.InstallID, ev.SessionKey, ev.Seq, ev.Disco, ev.ClickedAt); err != nil {
			return fmt.Errorf("recording click in batch: %w", err)
		}
	}

	return tx.Commit()
}

// CountClicks returns how many clicks are journaled for an install.
func (d *DB) CountClicks(ctx context.Context, installID string) (int, error) {
	var n int
	err := d.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM click_events WHERE install_id = $1`, installID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting clicks: %w", err)
	}
	return n, nil
}
