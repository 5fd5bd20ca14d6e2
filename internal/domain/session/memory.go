package session

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryRepository is the reference Repository implementation. A single
// mutex makes every operation linearizable, which is exactly the guarantee
// the rotation protocol needs from Revoke. It backs the unit tests and is
// usable as an ephemeral store in development.
type memoryRepository struct {
	mu       sync.Mutex
	sessions []*Session
}

// NewMemoryRepository creates an in-memory session repository
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Create(sess *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if sess.ID == uuid.Nil {
		sess.ID = uuid.New()
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = now
	}
	sess.UpdatedAt = now

	stored := *sess
	r.sessions = append(r.sessions, &stored)
	return nil
}

func (r *memoryRepository) FindUsableByToken(token string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sess := range r.sessions {
		if sess.Token == token && !sess.Revoked {
			found := *sess
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryRepository) Revoke(id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sess := range r.sessions {
		if sess.ID == id && !sess.Revoked {
			sess.Revoked = true
			sess.UpdatedAt = time.Now().UTC()
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepository) RevokeByIDAndUser(id uuid.UUID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sess := range r.sessions {
		if sess.ID == id && sess.UserID == userID && !sess.Revoked {
			sess.Revoked = true
			sess.UpdatedAt = time.Now().UTC()
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepository) RevokeByTokenAndUser(token, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sess := range r.sessions {
		if sess.Token == token && sess.UserID == userID && !sess.Revoked {
			sess.Revoked = true
			sess.UpdatedAt = time.Now().UTC()
		}
	}
	return nil
}

func (r *memoryRepository) RevokeAllForUser(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sess := range r.sessions {
		if sess.UserID == userID && !sess.Revoked {
			sess.Revoked = true
			sess.UpdatedAt = time.Now().UTC()
		}
	}
	return nil
}

func (r *memoryRepository) ListUsableForUser(userID string) ([]Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []Session
	for i := len(r.sessions) - 1; i >= 0; i-- {
		sess := r.sessions[i]
		if sess.UserID == userID && !sess.Revoked {
			result = append(result, *sess)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (r *memoryRepository) DeleteAllForUser(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.sessions[:0]
	for _, sess := range r.sessions {
		if sess.UserID != userID {
			kept = append(kept, sess)
		}
	}
	r.sessions = kept
	return nil
}
