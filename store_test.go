package mechshop

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)

	rec := SessionRecord{Token: "tok", Role: RoleMechanic, IsAdmin: true}
	store.Save(rec)

	loaded, ok := store.Load()
	require.True(t, ok)
	require.Equal(t, rec, loaded)

	// A second store over the same path sees the persisted record.
	fresh := NewFileStore(path)
	loaded, ok = fresh.Load()
	require.True(t, ok)
	require.Equal(t, rec, loaded)

	store.Clear()
	_, ok = store.Load()
	require.False(t, ok)
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestFileStoreDegradesToMemoryOnDiskFailure(t *testing.T) {
	// A path nested under a regular file cannot be created.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	store := NewFileStore(filepath.Join(blocker, "nested", "session.json"))

	rec := SessionRecord{Token: "tok", Role: RoleCustomer}
	store.Save(rec) // must not panic or error

	loaded, ok := store.Load()
	require.True(t, ok, "mirror should answer when disk is unavailable")
	require.Equal(t, rec, loaded)

	store.Clear()
	_, ok = store.Load()
	require.False(t, ok)
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := NewFileStore(path)
	_, ok := store.Load()
	require.False(t, ok)
}

func TestStoreBroadcastsAfterWrite(t *testing.T) {
	store := NewMemoryStore()
	ch, cancel := store.Subscribe()
	defer cancel()

	store.Save(SessionRecord{Token: "tok", Role: RoleCustomer})
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a broadcast after Save")
	}

	// The broadcast fires after the write: a listener reacting to the
	// tick always observes the persisted state.
	store.Clear()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a broadcast after Clear")
	}
	_, ok := store.Load()
	require.False(t, ok)
}

func TestMemoryStoreEmptyRecordReadsAbsent(t *testing.T) {
	store := NewMemoryStore()
	store.Save(SessionRecord{})
	_, ok := store.Load()
	require.False(t, ok)
}
