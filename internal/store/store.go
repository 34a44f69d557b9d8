package store

import (
	"fmt"
	"sync"

	"token_pulse/internal/domain"
	"token_pulse/pkg/listeners"
)

// ChangeKind tells watchers whether the set of tokens changed or only their values.
type ChangeKind int

const (
	// ChangeMembership covers SetColumn, Move and Reset.
	ChangeMembership ChangeKind = iota + 1
	// ChangeRecords covers ApplyUpdate and ApplyPriceUpdate.
	ChangeRecords
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeMembership:
		return "MEMBERSHIP"
	case ChangeRecords:
		return "RECORDS"
	default:
		return "UNKNOWN"
	}
}

// Change describes one committed mutation.
type Change struct {
	Kind     ChangeKind
	Statuses []domain.TokenStatus
	Version  uint64
}

// Store is the column-partitioned token collection and the single source of truth.
// It is safe for concurrent use; watchers are notified after the lock is released.
type Store struct {
	mu      sync.RWMutex
	columns map[domain.TokenStatus][]domain.Token
	owner   map[string]domain.TokenStatus
	index   map[string]int // position within the owning column
	version uint64

	watchers listeners.Set[func(Change)]
}

// New creates an empty store with all columns present.
func New() *Store {
	s := &Store{
		columns: make(map[domain.TokenStatus][]domain.Token, len(domain.Statuses)),
		owner:   make(map[string]domain.TokenStatus),
		index:   make(map[string]int),
	}
	for _, status := range domain.Statuses {
		s.columns[status] = nil
	}
	return s
}

// OnChange registers fn for every committed mutation and returns its remover.
func (s *Store) OnChange(fn func(Change)) (unsubscribe func()) {
	return s.watchers.Add(fn)
}

// SetColumn replaces a column's full sequence. It is meant for (re)initialization only.
func (s *Store) SetColumn(status domain.TokenStatus, tokens []domain.Token) error {
	if !status.Valid() {
		return fmt.Errorf("set column %q: %w", status, domain.ErrInvalidStatus)
	}

	s.mu.Lock()
	if err := s.validateLocked(status, tokens); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("set column %q: %w", status, err)
	}
	s.replaceLocked(status, tokens)
	s.version++
	change := Change{Kind: ChangeMembership, Statuses: []domain.TokenStatus{status}, Version: s.version}
	s.mu.Unlock()

	s.notify(change)
	return nil
}

// ApplyUpdate replaces the record with token.ID in the named column, keeping its position.
// It returns false, leaving the store untouched, when the ID is not in that column.
func (s *Store) ApplyUpdate(status domain.TokenStatus, token domain.Token) bool {
	s.mu.Lock()
	owner, ok := s.owner[token.ID]
	if !ok || owner != status {
		s.mu.Unlock()
		return false
	}

	// An update never moves a token; the column decides the status.
	token.Status = status
	s.columns[status][s.index[token.ID]] = token
	s.version++
	change := Change{Kind: ChangeRecords, Statuses: []domain.TokenStatus{status}, Version: s.version}
	s.mu.Unlock()

	s.notify(change)
	return true
}

// ApplyPriceUpdate resolves u.TokenID against the current token set and merges the update
// into that record in place. Resolution and write happen under one lock, so a concurrent
// SetColumn or Reset is either fully before or fully after it. Unknown IDs return false.
func (s *Store) ApplyPriceUpdate(u domain.PriceUpdate) (domain.TokenStatus, bool) {
	s.mu.Lock()
	status, ok := s.owner[u.TokenID]
	if !ok {
		s.mu.Unlock()
		return "", false
	}

	pos := s.index[u.TokenID]
	s.columns[status][pos] = u.ApplyTo(s.columns[status][pos])
	s.version++
	change := Change{Kind: ChangeRecords, Statuses: []domain.TokenStatus{status}, Version: s.version}
	s.mu.Unlock()

	s.notify(change)
	return status, true
}

// Move is the only way a token changes column. It is appended to the end of the target column.
func (s *Store) Move(id string, to domain.TokenStatus) error {
	if !to.Valid() {
		return fmt.Errorf("move %s: %w", id, domain.ErrInvalidStatus)
	}

	s.mu.Lock()
	from, ok := s.owner[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("move %s: %w", id, domain.ErrTokenNotFound)
	}
	if from == to {
		s.mu.Unlock()
		return nil
	}

	src := s.columns[from]
	pos := s.index[id]
	token := src[pos]
	token.Status = to

	remaining := make([]domain.Token, 0, len(src)-1)
	remaining = append(remaining, src[:pos]...)
	remaining = append(remaining, src[pos+1:]...)
	target := make([]domain.Token, 0, len(s.columns[to])+1)
	target = append(target, s.columns[to]...)
	target = append(target, token)

	s.replaceLocked(from, remaining)
	s.replaceLocked(to, target)
	s.version++
	change := Change{Kind: ChangeMembership, Statuses: []domain.TokenStatus{from, to}, Version: s.version}
	s.mu.Unlock()

	s.notify(change)
	return nil
}

// Reset replaces every column at once. Columns missing from seed become empty.
func (s *Store) Reset(seed domain.Seed) error {
	seen := make(map[string]struct{}, seed.Len())
	for status, tokens := range seed {
		if !status.Valid() {
			return fmt.Errorf("reset: %w: %q", domain.ErrInvalidStatus, status)
		}
		for _, t := range tokens {
			if t.ID == "" {
				return fmt.Errorf("reset %q: %w", status, domain.ErrEmptyTokenID)
			}
			if _, dup := seen[t.ID]; dup {
				return fmt.Errorf("reset %q: %w: %s", status, domain.ErrDuplicateToken, t.ID)
			}
			seen[t.ID] = struct{}{}
		}
	}

	s.mu.Lock()
	for _, status := range domain.Statuses {
		s.replaceLocked(status, seed[status])
	}
	s.version++
	change := Change{Kind: ChangeMembership, Statuses: domain.Statuses, Version: s.version}
	s.mu.Unlock()

	s.notify(change)
	return nil
}

// Column returns a copy of the column in store order. Unknown statuses yield nil.
func (s *Store) Column(status domain.TokenStatus) []domain.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src, ok := s.columns[status]
	if !ok || src == nil {
		return nil
	}
	out := make([]domain.Token, len(src))
	copy(out, src)
	return out
}

// Snapshot returns a copy of the column together with the version it was read at.
func (s *Store) Snapshot(status domain.TokenStatus) ([]domain.Token, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.columns[status]
	if src == nil {
		return nil, s.version
	}
	out := make([]domain.Token, len(src))
	copy(out, src)
	return out, s.version
}

// All returns every token, column by column in domain.Statuses order.
func (s *Store) All() []domain.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Token, 0, len(s.owner))
	for _, status := range domain.Statuses {
		out = append(out, s.columns[status]...)
	}
	return out
}

// Lookup resolves an ID against the current token set.
func (s *Store) Lookup(id string) (domain.Token, domain.TokenStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status, ok := s.owner[id]
	if !ok {
		return domain.Token{}, "", false
	}
	return s.columns[status][s.index[id]], status, true
}

// Len returns the number of tokens in a column.
func (s *Store) Len(status domain.TokenStatus) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.columns[status])
}

// Version increases on every committed mutation.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// validateLocked checks identity rules for a SetColumn. Must be called with lock held.
func (s *Store) validateLocked(status domain.TokenStatus, tokens []domain.Token) error {
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if t.ID == "" {
			return domain.ErrEmptyTokenID
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateToken, t.ID)
		}
		seen[t.ID] = struct{}{}
		if owner, ok := s.owner[t.ID]; ok && owner != status {
			return fmt.Errorf("%w: %s already in %q", domain.ErrDuplicateToken, t.ID, owner)
		}
	}
	return nil
}

// replaceLocked installs tokens as the column content and rebuilds its indexes.
// Must be called with lock held.
func (s *Store) replaceLocked(status domain.TokenStatus, tokens []domain.Token) {
	for _, old := range s.columns[status] {
		if s.owner[old.ID] == status {
			delete(s.owner, old.ID)
			delete(s.index, old.ID)
		}
	}

	col := make([]domain.Token, len(tokens))
	for i, t := range tokens {
		t.Status = status
		col[i] = t
		s.owner[t.ID] = status
		s.index[t.ID] = i
	}
	s.columns[status] = col
}

func (s *Store) notify(change Change) {
	for _, fn := range s.watchers.Snapshot() {
		fn(change)
	}
}
