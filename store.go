package mechshop

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	gocache "github.com/patrickmn/go-cache"
)

const (
	sessionDirName  = "mechshop"
	sessionFileName = "session.json"
	mirrorKey       = "session"
)

// SessionRecord is the canonical persisted session state: exactly the
// three logical keys the whole application agrees on.
type SessionRecord struct {
	Token   string `json:"token"`
	Role    Role   `json:"userType"`
	IsAdmin bool   `json:"isAdmin"`
}

// Empty reports whether the record carries no token.
func (r SessionRecord) Empty() bool { return r.Token == "" }

// SessionStore is durable persistence for the session record. All
// operations are defensive: storage-layer failures are swallowed and the
// store degrades to in-memory operation rather than surfacing errors.
// Save and Clear broadcast a session-changed notification after the
// write completes.
type SessionStore interface {
	Load() (SessionRecord, bool)
	Save(rec SessionRecord)
	Clear()
	// Subscribe registers a listener for session-changed notifications.
	Subscribe() (<-chan struct{}, func())
}

// DefaultSessionPath returns the per-user session file location,
// ~/.config/mechshop/session.json. An empty path means the file store
// will run memory-only.
func DefaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", sessionDirName, sessionFileName)
}

// FileStore persists the session record as a JSON file, mirroring every
// write into an in-process cache. When the disk is unavailable (missing
// home dir, read-only filesystem, permission trouble) reads fall back to
// the mirror, so a login still works for the life of the process.
type FileStore struct {
	mu     sync.Mutex
	path   string
	mirror *gocache.Cache
	bc     *Broadcaster
}

// NewFileStore returns a store writing to path. An empty path disables
// the disk layer entirely.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path:   path,
		mirror: gocache.New(gocache.NoExpiration, 0),
		bc:     NewBroadcaster(),
	}
}

// Load returns the stored record. Disk wins when readable; otherwise the
// in-process mirror answers.
func (s *FileStore) Load() (SessionRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path != "" {
		if data, err := os.ReadFile(s.path); err == nil {
			var rec SessionRecord
			if err := json.Unmarshal(data, &rec); err == nil && !rec.Empty() && rec.Role.Valid() {
				return rec, true
			}
		}
	}
	return s.fromMirror()
}

func (s *FileStore) fromMirror() (SessionRecord, bool) {
	cached, ok := s.mirror.Get(mirrorKey)
	if !ok {
		return SessionRecord{}, false
	}
	rec, ok := cached.(SessionRecord)
	if !ok || rec.Empty() {
		return SessionRecord{}, false
	}
	return rec, true
}

// Save persists the record and broadcasts. Disk failures are swallowed;
// the mirror always takes the write.
func (s *FileStore) Save(rec SessionRecord) {
	s.mu.Lock()
	s.mirror.Set(mirrorKey, rec, gocache.NoExpiration)
	if s.path != "" {
		if data, err := json.MarshalIndent(rec, "", "  "); err == nil {
			if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err == nil {
				_ = os.WriteFile(s.path, data, 0o600)
			}
		}
	}
	s.mu.Unlock()
	s.bc.Notify()
}

// Clear removes the record everywhere and broadcasts.
func (s *FileStore) Clear() {
	s.mu.Lock()
	s.mirror.Delete(mirrorKey)
	if s.path != "" {
		_ = os.Remove(s.path)
	}
	s.mu.Unlock()
	s.bc.Notify()
}

// Subscribe implements SessionStore.
func (s *FileStore) Subscribe() (<-chan struct{}, func()) {
	return s.bc.Subscribe()
}

// MemoryStore is a SessionStore with no durable layer. Used in tests and
// by applications that opt out of persistence.
type MemoryStore struct {
	mu  sync.Mutex
	rec SessionRecord
	set bool
	bc  *Broadcaster
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{bc: NewBroadcaster()}
}

// Load implements SessionStore.
func (s *MemoryStore) Load() (SessionRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set || s.rec.Empty() {
		return SessionRecord{}, false
	}
	return s.rec, true
}

// Save implements SessionStore.
func (s *MemoryStore) Save(rec SessionRecord) {
	s.mu.Lock()
	s.rec = rec
	s.set = true
	s.mu.Unlock()
	s.bc.Notify()
}

// Clear implements SessionStore.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	s.rec = SessionRecord{}
	s.set = false
	s.mu.Unlock()
	s.bc.Notify()
}

// Subscribe implements SessionStore.
func (s *MemoryStore) Subscribe() (<-chan struct{}, func()) {
	return s.bc.Subscribe()
}
