package session

import "sync"

type entry struct {
	mu      sync.Mutex
	session *Session
}

// Store keeps sessions in memory for the lifetime of the process. Lookup is
// atomic get-or-create; WithSession serialises work on a single user while
// leaving other users independent.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

func (st *Store) lookup(userID string) *entry {
	st.mu.Lock()
	defer st.mu.Unlock()

	e, ok := st.entries[userID]
	if !ok {
		e = &entry{session: New(userID)}
		st.entries[userID] = e
	}
	return e
}

// Get returns a snapshot of the user's session, creating it if absent.
func (st *Store) Get(userID string) *Session {
	e := st.lookup(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Clone()
}

// Peek returns a snapshot of an existing session without creating one.
func (st *Store) Peek(userID string) (*Session, bool) {
	st.mu.Lock()
	e, ok := st.entries[userID]
	st.mu.Unlock()
	if !ok {
		return nil, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Clone(), true
}

// Reset overwrites the user's session with cleared defaults.
func (st *Store) Reset(userID string) *Session {
	e := st.lookup(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.Reset()
	return e.session.Clone()
}

// WithSession runs fn with exclusive access to the user's live session.
// Mutations made by fn are kept.
func (st *Store) WithSession(userID string, fn func(*Session)) {
	e := st.lookup(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.session)
}

// Len returns the number of known sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.entries)
}
