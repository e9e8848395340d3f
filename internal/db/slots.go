package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrNoSlot = errors.New("slot not found")

type SlotRecord struct {
	Slot        string
	DisplayName string
	InstallID   string
	UpdatedAt   time.Time
}

func (d *DB) PutSlot(ctx context.Context, rec SlotRecord) error {
	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO identity_slots (slot, display_name, install_id, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (slot) DO UPDATE SET display_name = $2, install_id = $3, updated_at = $4
	`, rec.Slot, rec.DisplayName, rec.InstallID, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting slot: %w", err)
	}
	return nil
}

func (d *DB) GetSlot(ctx context.Context, slot string) (*SlotRecord, error) {
	var r SlotRecord
	err := d.conn.QueryRowContext(ctx, `
		SELECT slot, display_name, install_id, updated_at FROM identity_slots WHERE slot = $1
	`, slot).Scan(&r.Slot, &r.DisplayName, &r.InstallID, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSlot
	}
	if err != nil {
		return nil, fmt.Errorf("getting slot: %w", err)
	}
	return &r, nil
}
