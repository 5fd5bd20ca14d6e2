package session

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when no session matches the lookup
var ErrNotFound = errors.New("session not found")

// Repository is the storage contract the auth service depends on.
//
// The split of responsibilities is deliberate: lookups filter out revoked
// sessions at the store, while expiry is left for the caller to check so it
// can revoke an expired session as a side effect of the failed attempt.
type Repository interface {
	Create(sess *Session) error

	// FindUsableByToken returns the unrevoked session carrying the token,
	// or ErrNotFound. Expiry is not filtered here.
	FindUsableByToken(token string) (*Session, error)

	// Revoke flips revoked from false to true as one conditional update and
	// reports whether this call was the one that flipped it. Two concurrent
	// refreshes racing on the same session see exactly one true.
	Revoke(id uuid.UUID) (bool, error)

	// RevokeByIDAndUser revokes a session only when it belongs to the user,
	// reporting whether a row changed.
	RevokeByIDAndUser(id uuid.UUID, userID string) (bool, error)

	// RevokeByTokenAndUser revokes the session matching both token and
	// owner. A miss is a no-op, which makes logout idempotent.
	RevokeByTokenAndUser(token, userID string) error

	// RevokeAllForUser revokes every unrevoked session owned by the user
	RevokeAllForUser(userID string) error

	// ListUsableForUser returns all unrevoked sessions for the user, newest
	// first. Callers still filter expiry.
	ListUsableForUser(userID string) ([]Session, error)

	// DeleteAllForUser removes the user's sessions entirely. Used only as
	// the cascade of account deletion.
	DeleteAllForUser(userID string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a PostgreSQL-backed session repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(sess *Session) error {
	return r.db.Create(sess).Error
}

func (r *repository) FindUsableByToken(token string) (*Session, error) {
	var sess Session
	err := r.db.Where("token = ? AND revoked = false", token).First(&sess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sess, nil
}

func (r *repository) Revoke(id uuid.UUID) (bool, error) {
	res := r.db.Model(&Session{}).
		Where("id = ? AND revoked = false", id).
		Update("revoked", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) RevokeByIDAndUser(id uuid.UUID, userID string) (bool, error) {
	res := r.db.Model(&Session{}).
		Where("id = ? AND user_id = ? AND revoked = false", id, userID).
		Update("revoked", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) RevokeByTokenAndUser(token, userID string) error {
	return r.db.Model(&Session{}).
		Where("token = ? AND user_id = ? AND revoked = false", token, userID).
		Update("revoked", true).Error
}

func (r *repository) RevokeAllForUser(userID string) error {
	return r.db.Model(&Session{}).
		Where("user_id = ? AND revoked = false", userID).
		Update("revoked", true).Error
}

func (r *repository) ListUsableForUser(userID string) ([]Session, error) {
	var sessions []Session
	err := r.db.Where("user_id = ? AND revoked = false", userID).
		Order("created_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *repository) DeleteAllForUser(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&Session{}).Error
}
