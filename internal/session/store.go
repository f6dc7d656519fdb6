// Package session owns the console's single client session: who is logged in,
// with which token. State is written through to durable storage on every
// mutation so a restarted console picks up where it left off.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Faiz-1107/AMK-Project-Management/internal/models"
	"github.com/Faiz-1107/AMK-Project-Management/internal/storage"
)

const (
	TokenKey = "token"
	UserKey  = "user"
)

var (
	ErrCorruptSession  = errors.New("stored session is corrupt")
	ErrNoActiveSession = errors.New("no active session")
	ErrInvalidLogin    = errors.New("invalid login payload")
)

// Store is safe for concurrent use. Each mutation holds the write lock across
// the storage write and the in-memory swap; observers run after it is released.
type Store struct {
	mu      sync.RWMutex
	current models.Session
	storage storage.Storage
	log     zerolog.Logger

	obsMu     sync.Mutex
	observers map[int]func(models.Session)
	nextObs   int
}

func NewStore(s storage.Storage, log zerolog.Logger) *Store {
	return &Store{
		storage:   s,
		log:       log,
		observers: make(map[int]func(models.Session)),
	}
}

// Restore loads the session persisted by a previous run. It never fails: a
// missing, unreadable or corrupt entry leaves the store logged out.
func (s *Store) Restore(ctx context.Context) models.Session {
	s.mu.Lock()
	restored, err := s.load(ctx)
	if err != nil {
		if errors.Is(err, ErrCorruptSession) {
			s.log.Warn().Err(err).Msg("discarding stored session")
			s.clearStorage(ctx)
		} else {
			s.log.Error().Err(err).Msg("session restore failed")
		}
		restored = models.Session{}
	}
	s.current = restored
	snapshot := clone(s.current)
	s.mu.Unlock()

	if snapshot.IsAuthenticated {
		s.log.Info().Str("user_id", snapshot.User.ID).Msg("session restored")
	}
	s.notify(snapshot)
	return snapshot
}

func (s *Store) load(ctx context.Context) (models.Session, error) {
	token, hasToken, err := s.storage.Get(ctx, TokenKey)
	if err != nil {
		return models.Session{}, fmt.Errorf("read token: %w", err)
	}
	raw, hasUser, err := s.storage.Get(ctx, UserKey)
	if err != nil {
		return models.Session{}, fmt.Errorf("read user: %w", err)
	}
	if !hasToken && !hasUser {
		return models.Session{}, nil
	}
	if token == "" || raw == "" {
		return models.Session{}, fmt.Errorf("%w: incomplete session", ErrCorruptSession)
	}

	user, err := DecodeUser(raw)
	if err != nil {
		return models.Session{}, err
	}
	return models.Session{IsAuthenticated: true, Token: token, User: &user}, nil
}

// DecodeUser parses a stored user value. Anything Login would refuse yields
// ErrCorruptSession.
func DecodeUser(raw string) (models.UserRecord, error) {
	var user models.UserRecord
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return models.UserRecord{}, fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}
	if !wellFormed(user) {
		return models.UserRecord{}, fmt.Errorf("%w: malformed user", ErrCorruptSession)
	}
	return user, nil
}

func wellFormed(u models.UserRecord) bool {
	return u.ID != "" && u.Email != "" && u.Role.Valid()
}

// Login replaces whatever session is held with token and user. A failed
// storage write leaves the store logged out with storage cleared.
func (s *Store) Login(ctx context.Context, token string, user models.UserRecord) error {
	if token == "" {
		return fmt.Errorf("%w: empty token", ErrInvalidLogin)
	}
	if !wellFormed(user) {
		return fmt.Errorf("%w: malformed user", ErrInvalidLogin)
	}

	encoded, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	err = s.write(ctx, token, string(encoded))
	if err != nil {
		s.clearStorage(ctx)
		s.current = models.Session{}
	} else {
		s.current = models.Session{IsAuthenticated: true, Token: token, User: &user}
	}
	snapshot := clone(s.current)
	s.mu.Unlock()

	s.notify(snapshot)
	if err != nil {
		return err
	}
	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("logged in")
	return nil
}

func (s *Store) write(ctx context.Context, token, user string) error {
	if err := s.storage.Set(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	if err := s.storage.Set(ctx, UserKey, user); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	return nil
}

// Logout drops the session and its storage entries. Calling it while logged
// out only clears storage again.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	wasAuthenticated := s.current.IsAuthenticated
	s.current = models.Session{}
	err := s.removeStorage(ctx)
	s.mu.Unlock()

	if err != nil {
		s.log.Error().Err(err).Msg("clear stored session")
	}
	if wasAuthenticated {
		s.log.Info().Msg("logged out")
		s.notify(models.Session{})
	}
	return err
}

// UpdateUser merges patch into the session user and persists the result.
func (s *Store) UpdateUser(ctx context.Context, patch models.UserPatch) (models.UserRecord, error) {
	s.mu.Lock()
	if !s.current.IsAuthenticated {
		s.mu.Unlock()
		return models.UserRecord{}, ErrNoActiveSession
	}

	merged := patch.Apply(*s.current.User)
	encoded, err := json.Marshal(merged)
	if err != nil {
		s.mu.Unlock()
		return models.UserRecord{}, fmt.Errorf("encode user: %w", err)
	}
	if err := s.storage.Set(ctx, UserKey, string(encoded)); err != nil {
		s.mu.Unlock()
		return models.UserRecord{}, fmt.Errorf("persist user: %w", err)
	}
	s.current.User = &merged
	snapshot := clone(s.current)
	s.mu.Unlock()

	s.notify(snapshot)
	return merged, nil
}

func (s *Store) removeStorage(ctx context.Context) error {
	return errors.Join(
		s.storage.Remove(ctx, TokenKey),
		s.storage.Remove(ctx, UserKey),
	)
}

func (s *Store) clearStorage(ctx context.Context) {
	if err := s.removeStorage(ctx); err != nil {
		s.log.Error().Err(err).Msg("clear stored session")
	}
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.current)
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.IsAuthenticated
}

// Token is read by the API client at dispatch time.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

func (s *Store) User() (models.UserRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current.User == nil {
		return models.UserRecord{}, false
	}
	return *s.current.User, true
}

func (s *Store) Role() models.UserRole {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Role()
}

func (s *Store) IsAdmin() bool {
	return s.Role() == models.UserRoleAdmin
}

// Subscribe registers fn to receive the session after every change. The
// returned func unregisters it.
func (s *Store) Subscribe(fn func(models.Session)) (cancel func()) {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.obsMu.Lock()
			delete(s.observers, id)
			s.obsMu.Unlock()
		})
	}
}

func (s *Store) notify(snapshot models.Session) {
	s.obsMu.Lock()
	fns := make([]func(models.Session), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn(clone(snapshot))
	}
}

func clone(in models.Session) models.Session {
	out := in
	if in.User != nil {
		u := *in.User
		out.User = &u
	}
	return out
}
