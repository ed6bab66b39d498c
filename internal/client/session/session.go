// Package session owns the single live Session for the process: the source
// of truth every navigation decision reads. It is the only writer of the
// persisted credentials; the auth flow commits into it exactly once per
// successful verification.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/productrhq/productr/internal/client/domain"
	"github.com/productrhq/productr/internal/client/store"
	"github.com/productrhq/productr/pkg/productr"
)

// Store holds the in-memory Session and writes through to durable storage.
// All methods are safe for concurrent use; reads return snapshots.
type Store struct {
	DB     store.Store
	Logger *slog.Logger

	mu      sync.RWMutex
	current domain.Session
	nextSub int
	subs    map[int]func(domain.Session)
}

func NewStore(db store.Store, logger *slog.Logger) *Store {
	return &Store{
		DB:     db,
		Logger: logger,
		current: domain.Session{
			Loading: true, // until Restore has run
		},
		subs: make(map[int]func(domain.Session)),
	}
}

// Restore loads a previously persisted session, once, at process start.
// Missing or corrupt entries mean logged-out; restore never fails loudly.
// Loading is cleared unconditionally before returning.
func (s *Store) Restore(ctx context.Context) {
	user, token, ok := s.loadPersisted(ctx)

	s.mu.Lock()
	if ok {
		s.current = domain.Session{User: user, Token: token}
	} else {
		s.current = domain.Session{}
	}
	snapshot := s.current
	s.mu.Unlock()

	s.notify(snapshot)
}

// CommitSession installs the authenticated identity and persists it.
// Idempotent: committing the same values twice leaves state unchanged.
// The durable write completes before the call returns, so an immediate
// GetSession (or a route decision) sees the committed state.
func (s *Store) CommitSession(ctx context.Context, user *productr.User, token string) error {
	if user == nil || token == "" {
		return errors.New("session: commit requires a user and a token")
	}

	serialized, err := json.Marshal(user)
	if err != nil {
		return err
	}

	if err := s.DB.Put(ctx, store.KeyAuthUser, string(serialized)); err != nil {
		return err
	}
	if err := s.DB.Put(ctx, store.KeyAuthToken, token); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = domain.Session{User: user, Token: token}
	snapshot := s.current
	s.mu.Unlock()

	s.Logger.Info("session committed", "user", user.Email)
	s.notify(snapshot)
	return nil
}

// ClearSession logs out: removes the persisted entries and resets the
// in-memory session. Safe to call when already logged out.
func (s *Store) ClearSession(ctx context.Context) error {
	if err := s.DB.Delete(ctx, store.KeyAuthUser); err != nil {
		return err
	}
	if err := s.DB.Delete(ctx, store.KeyAuthToken); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = domain.Session{}
	snapshot := s.current
	s.mu.Unlock()

	s.Logger.Info("session cleared")
	s.notify(snapshot)
	return nil
}

// GetSession returns a snapshot of the current session. The snapshot always
// reflects the latest committed state.
func (s *Store) GetSession() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe registers fn to run after every session change, and returns an
// unsubscribe func. Callbacks receive the post-change snapshot and must not
// call back into the store.
func (s *Store) Subscribe(fn func(domain.Session)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// loadPersisted reads the two persisted entries. Either one missing, or an
// undecodable user record, reads as "no session".
func (s *Store) loadPersisted(ctx context.Context) (*productr.User, string, bool) {
	rawUser, err := s.DB.Get(ctx, store.KeyAuthUser)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.Logger.Warn("session restore failed, treating as logged out", "error", err)
		}
		return nil, "", false
	}

	token, err := s.DB.Get(ctx, store.KeyAuthToken)
	if err != nil || token == "" {
		return nil, "", false
	}

	var user productr.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		s.Logger.Warn("persisted user record corrupt, treating as logged out", "error", err)
		return nil, "", false
	}

	return &user, token, true
}

func (s *Store) notify(snapshot domain.Session) {
	s.mu.RLock()
	fns := make([]func(domain.Session), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}
