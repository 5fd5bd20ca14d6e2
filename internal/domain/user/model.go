package user

import (
	"time"

	"github.com/google/uuid"
	"github.com/lwalter/authgate/internal/database"
)

// Role controls what a user is allowed to do
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// IsValid checks if the role is a known value
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

type User struct {
	database.BaseModel
	Name     string `gorm:"column:name;not null"`
	Email    string `gorm:"column:email;unique;not null"`
	Password string `gorm:"column:password;not null" json:"-"`
	Role     Role   `gorm:"column:role;type:varchar(16);default:USER;not null"`
}

func (User) TableName() string {
	return "users"
}

// Profile is the public view of a user. The password hash never leaves the
// package through this type.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToProfile converts a user into its public representation
func (u *User) ToProfile() *Profile {
	return &Profile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
