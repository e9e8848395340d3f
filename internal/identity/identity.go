package identity

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Slot is the key the identity is stored under.
const Slot = "beatmeat.identity"

// MaxNameLen is the longest display name accepted, in characters.
const MaxNameLen = 20

var (
	ErrNotFound  = errors.New("identity not found")
	ErrEmptyName = errors.New("display name is empty")
)

type Record struct {
	DisplayName string    `json:"display_name"`
	InstallID   string    `json:"install_id"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Store interface {
	Load(ctx context.Context) (Record, error)
	Save(ctx context.Context, rec Record) error
}

// CleanName trims a name and cuts it to MaxNameLen characters.
func CleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		name = strings.TrimSpace(string([]rune(name)[:MaxNameLen]))
	}
	return name, nil
}

// Resolve returns the stored identity, replacing its name when name is
// given. A new install id is minted the first time. ErrNotFound means
// nothing is stored and no name was given.
func Resolve(ctx context.Context, s Store, name string, now time.Time) (Record, error) {
	rec, err := s.Load(ctx)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Record{}, err
	}
	found := err == nil

	if name != "" {
		clean, err := CleanName(name)
		if err != nil {
			return Record{}, err
		}
		if found && clean == rec.DisplayName {
			return rec, nil
		}
		rec.DisplayName = clean
	} else if !found {
		return Record{}, ErrNotFound
	}

	if rec.InstallID == "" {
		rec.InstallID = uuid.NewString()
	}
	rec.UpdatedAt = now.UTC()
	if err := s.Save(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}
