package identity

import (
	"beatmeat/internal/db"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

type memStore struct {
	rec   *Record
	saves int
}

func (m *memStore) Load(ctx context.Context) (Record, error) {
	if m.rec == nil {
		return Record{}, ErrNotFound
	}
	return *m.rec, nil
}

func (m *memStore) Save(ctx context.Context, rec Record) error {
	m.saves++
	m.rec = &rec
	return nil
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr error
	}{
		{"  Ada  ", "Ada", nil},
		{"", "", ErrEmptyName},
		{"   ", "", ErrEmptyName},
		{strings.Repeat("x", 25), strings.Repeat("x", 20), nil},
		{"héllo wörld ünicode ñame", "héllo wörld ünicode", nil},
	}
	for _, tc := range tests {
		got, err := CleanName(tc.in)
		if !errors.Is(err, tc.wantErr) {
			t.Errorf("CleanName(%q) error = %v, want %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("CleanName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolve_NothingStored(t *testing.T) {
	_, err := Resolve(context.Background(), &memStore{}, "", time.Now())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve() error = %v, want ErrNotFound", err)
	}
}

func TestResolve_NewNameMintsInstallID(t *testing.T) {
	s := &memStore{}
	rec, err := Resolve(context.Background(), s, "Ada", time.Unix(100, 0))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if rec.DisplayName != "Ada" {
		t.Errorf("DisplayName = %q, want Ada", rec.DisplayName)
	}
	if _, err := uuid.Parse(rec.InstallID); err != nil {
		t.Errorf("InstallID %q is not a uuid: %v", rec.InstallID, err)
	}
	if s.saves != 1 {
		t.Errorf("saves = %d, want 1", s.saves)
	}
}

func TestResolve_KeepsInstallID(t *testing.T) {
	s := &memStore{rec: &Record{DisplayName: "Ada", InstallID: "abc"}}

	rec, err := Resolve(context.Background(), s, "", time.Now())
	if err != nil || rec.DisplayName != "Ada" {
		t.Fatalf("Resolve() = %+v, %v", rec, err)
	}

	rec, err = Resolve(context.Background(), s, "Grace", time.Now())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if rec.InstallID != "abc" || rec.DisplayName != "Grace" {
		t.Errorf("rec = %+v", rec)
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "identity.json")
	s := NewFileStore(path)
	ctx := context.Background()

	if _, err := s.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load() on missing file error = %v, want ErrNotFound", err)
	}

	want := Record{DisplayName: "Ada", InstallID: uuid.NewString(), UpdatedAt: time.Unix(1700000000, 0).UTC()}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.DisplayName != want.DisplayName || got.InstallID != want.InstallID || !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), Slot) {
		t.Errorf("file does not key by slot: %s", data)
	}
}

func TestFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")
	os.WriteFile(path, []byte("{not json"), 0o600)

	if _, err := NewFileStore(path).Load(context.Background()); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Load() error = %v, want decode error", err)
	}
}

func TestSQLStore_RoundTrip(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}
	database, err := db.Connect(dsn)
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	if err := database.Migrate(); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}

	ctx := context.Background()
	s := &SQLStore{DB: database, Slot: "test." + uuid.NewString()}

	if _, err := s.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load() on empty slot error = %v, want ErrNotFound", err)
	}
	if _, err := Resolve(ctx, s, "", time.Now()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve() with no name error = %v, want ErrNotFound", err)
	}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	saved, err := Resolve(ctx, s, "  Ada  ", now)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.DisplayName != "Ada" || got.InstallID != saved.InstallID || !got.UpdatedAt.Equal(now) {
		t.Errorf("Load() = %+v, want %+v", got, saved)
	}

	renamed, err := Resolve(ctx, s, "Grace", now.Add(time.Hour))
	if err != nil {
		t.Fatalf("Resolve() rename error: %v", err)
	}
	if renamed.InstallID != saved.InstallID {
		t.Errorf("InstallID = %q after rename, want %q", renamed.InstallID, saved.InstallID)
	}
	got, _ = s.Load(ctx)
	if got.DisplayName != "Grace" {
		t.Errorf("DisplayName = %q, want Grace", got.DisplayName)
	}
}
