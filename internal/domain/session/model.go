package session

import (
	"time"

	"github.com/lwalter/authgate/internal/database"
)

// Session is the persisted record backing one outstanding refresh token.
// The token column holds credential material: it is stored and compared but
// never logged or exposed after issuance.
type Session struct {
	database.BaseModel

	Token     string    `gorm:"column:token;uniqueIndex;not null" json:"-"`
	UserID    string    `gorm:"column:user_id;type:uuid;not null;index"`
	UserAgent string    `gorm:"column:user_agent;type:text"`
	IPAddress string    `gorm:"column:ip_address;type:text"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	Revoked   bool      `gorm:"column:revoked;default:false;not null"`
}

func (Session) TableName() string {
	return "sessions"
}

// Usable reports whether the session can still redeem a refresh. Revocation
// is terminal; expiry is checked against the supplied instant.
func (s *Session) Usable(now time.Time) bool {
	return !s.Revoked && now.Before(s.ExpiresAt)
}
