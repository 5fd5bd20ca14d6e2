package user

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryRepository is the reference Repository implementation, used by the
// unit tests and as an ephemeral store in development.
type memoryRepository struct {
	mu    sync.Mutex
	users []*User
}

// NewMemoryRepository creates an in-memory user repository
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Create(user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	stored := *user
	r.users = append(r.users, &stored)
	return nil
}

func (r *memoryRepository) FindByID(id string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID.String() == id {
			found := *u
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryRepository) FindByEmail(email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	folded := strings.ToLower(email)
	for _, u := range r.users {
		if u.Email == folded {
			found := *u
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryRepository) FindPage(offset, limit int) ([]User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ordered := make([]*User, len(r.users))
	copy(ordered, r.users)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
	})

	if offset >= len(ordered) {
		return nil, nil
	}
	end := offset + limit
	if end > len(ordered) {
		end = len(ordered)
	}

	page := make([]User, 0, end-offset)
	for _, u := range ordered[offset:end] {
		page = append(page, *u)
	}
	return page, nil
}

func (r *memoryRepository) Count() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *memoryRepository) Update(user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, u := range r.users {
		if u.ID == user.ID {
			user.UpdatedAt = time.Now().UTC()
			stored := *user
			stored.CreatedAt = u.CreatedAt
			r.users[i] = &stored
			return nil
		}
	}
	return ErrNotFound
}

func (r *memoryRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.users[:0]
	for _, u := range r.users {
		if u.ID.String() != id {
			kept = append(kept, u)
		}
	}
	r.users = kept
	return nil
}
