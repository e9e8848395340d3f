package identity

import (
	"context"
	"errors"

	"beatmeat/internal/db"
)

// SQLStore keeps the identity in the identity_slots table, under Slot when
// set and the default slot otherwise.
type SQLStore struct {
	DB   *db.DB
	Slot string
}

func (s *SQLStore) slot() string {
	if s.Slot == "" {
		return Slot
	}
	return s.Slot
}

func (s *SQLStore) Load(ctx context.Context) (Record, error) {
	row, err := s.DB.GetSlot(ctx, s.slot())
	if errors.Is(err, db.ErrNoSlot) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return Record{DisplayName: row.DisplayName, InstallID: row.InstallID, UpdatedAt: row.UpdatedAt}, nil
}

func (s *SQLStore) Save(ctx context.Context, rec Record) error {
	return s.DB.PutSlot(ctx, db.SlotRecord{
		Slot:        s.slot(),
		DisplayName: rec.DisplayName,
		InstallID:   rec.InstallID,
		UpdatedAt:   rec.UpdatedAt,
	})
}
