package cart

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// defaultSessionTTL bounds how long an untouched cart survives.
const defaultSessionTTL = 24 * time.Hour

// Line is one (product, quantity) pair in a session's cart. ProductName and
// UnitPrice are snapshots taken when the line was added; later catalog edits
// do not rewrite them. StoreID records which storefront the product belongs
// to, so a session cannot carry a cart across stores.
type Line struct {
	ProductID   uuid.UUID
	StoreID     uuid.UUID
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
}

type session struct {
	lines     []Line
	touchedAt time.Time
}

// Store holds every in-progress cart keyed by session ID. Carts are private
// per browser session; the mutex only guards the map itself against
// concurrent requests from unrelated sessions.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore builds an empty cart store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*session),
		ttl:      defaultSessionTTL,
		now:      time.Now,
	}
}

// Lines returns a copy of the session's current cart lines.
func (s *Store) Lines(sessionID string) []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	sess.touchedAt = s.now()
	return append([]Line{}, sess.lines...)
}

// Add inserts the product at quantity 1, or bumps the existing line by 1.
func (s *Store) Add(sessionID string, line Line) []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	sess := s.sessionLocked(sessionID)
	for i := range sess.lines {
		if sess.lines[i].ProductID == line.ProductID {
			sess.lines[i].Quantity++
			return append([]Line{}, sess.lines...)
		}
	}

	line.Quantity = 1
	sess.lines = append(sess.lines, line)
	return append([]Line{}, sess.lines...)
}

// UpdateQuantity adds delta to the matching line's quantity, floored at 0.
// A line reaching 0 is removed.
func (s *Store) UpdateQuantity(sessionID string, productID uuid.UUID, delta int) []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	sess.touchedAt = s.now()

	for i := range sess.lines {
		if sess.lines[i].ProductID != productID {
			continue
		}
		qty := sess.lines[i].Quantity + delta
		if qty <= 0 {
			sess.lines = append(sess.lines[:i], sess.lines[i+1:]...)
		} else {
			sess.lines[i].Quantity = qty
		}
		break
	}
	return append([]Line{}, sess.lines...)
}

// Clear empties the session's cart.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Totals recomputes the derived aggregates from the given lines.
func Totals(lines []Line) (totalItems int, totalPrice decimal.Decimal) {
	totalPrice = decimal.Zero
	for _, line := range lines {
		totalItems += line.Quantity
		totalPrice = totalPrice.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return totalItems, totalPrice
}

func (s *Store) sessionLocked(sessionID string) *session {
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{}
		s.sessions[sessionID] = sess
	}
	sess.touchedAt = s.now()
	return sess
}

// sweepLocked prunes sessions that have not been touched within the TTL.
func (s *Store) sweepLocked() {
	cutoff := s.now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.touchedAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
