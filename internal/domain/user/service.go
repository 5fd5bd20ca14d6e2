package user

import (
	"errors"
	"strings"

	"github.com/lwalter/authgate/internal/domain/session"
	"github.com/lwalter/authgate/internal/utils"
)

// UpdateProfileInput carries the fields a user may change on their own
// account. Empty fields are left untouched.
type UpdateProfileInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminUpdateInput carries the fields an admin may change on any account
type AdminUpdateInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// Page is one page of user profiles plus paging metadata
type Page struct {
	Data []Profile `json:"data"`
	Meta PageMeta  `json:"meta"`
}

// PageMeta describes the position of a page within the full listing
type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// Service interface for user operations
type Service interface {
	FindByID(id string) (*Profile, error)
	List(page, limit int) (*Page, error)
	UpdateProfile(userID string, in UpdateProfileInput) (*Profile, error)
	AdminUpdate(adminID, userID string, in AdminUpdateInput) (*Profile, error)
	Delete(adminID, userID string) error
}

// service struct for user operations
type service struct {
	repo     Repository
	sessions session.Repository
	cost     int
}

// NewService creates a new user service. The session repository is needed so
// account deletion can cascade to the user's refresh sessions, and cost is
// the bcrypt cost used when rehashing passwords.
func NewService(repo Repository, sessions session.Repository, cost int) Service {
	return &service{repo: repo, sessions: sessions, cost: cost}
}

// FindByID returns the public profile for a user
func (s *service) FindByID(id string) (*Profile, error) {
	u, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, utils.NotFound("User not found")
		}
		return nil, err
	}
	return u.ToProfile(), nil
}

// List returns one page of user profiles, newest first
func (s *service) List(page, limit int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	users, err := s.repo.FindPage((page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Count()
	if err != nil {
		return nil, err
	}

	profiles := make([]Profile, 0, len(users))
	for i := range users {
		profiles = append(profiles, *users[i].ToProfile())
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &Page{
		Data: profiles,
		Meta: PageMeta{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	}, nil
}

// UpdateProfile applies a user's changes to their own account
func (s *service) UpdateProfile(userID string, in UpdateProfileInput) (*Profile, error) {
	u, err := s.repo.FindByID(userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, utils.NotFound("User not found")
		}
		return nil, err
	}

	if err := s.applyChanges(u, in.Name, in.Email, in.Password); err != nil {
		return nil, err
	}

	if err := s.repo.Update(u); err != nil {
		return nil, err
	}

	return u.ToProfile(), nil
}

// AdminUpdate applies an admin's changes to any account. An admin cannot
// strip their own ADMIN role.
func (s *service) AdminUpdate(adminID, userID string, in AdminUpdateInput) (*Profile, error) {
	u, err := s.repo.FindByID(userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, utils.NotFound("User not found")
		}
		return nil, err
	}

	if userID == adminID && in.Role != "" && in.Role != RoleAdmin {
		return nil, utils.Forbidden("Cannot change your own role")
	}

	if err := s.applyChanges(u, in.Name, in.Email, in.Password); err != nil {
		return nil, err
	}

	if in.Role != "" {
		if !in.Role.IsValid() {
			return nil, utils.BadRequest("Invalid role")
		}
		u.Role = in.Role
	}

	if err := s.repo.Update(u); err != nil {
		return nil, err
	}

	return u.ToProfile(), nil
}

// Delete removes a user and all of their refresh sessions. An admin cannot
// delete their own account.
func (s *service) Delete(adminID, userID string) error {
	if userID == adminID {
		return utils.Forbidden("Cannot delete your own account")
	}

	if _, err := s.repo.FindByID(userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return utils.NotFound("User not found")
		}
		return err
	}

	// Sessions go first so no refresh record can outlive its owner
	if err := s.sessions.DeleteAllForUser(userID); err != nil {
		return err
	}

	return s.repo.Delete(userID)
}

// applyChanges mutates name, email and password in place, checking email
// uniqueness when the address changes
func (s *service) applyChanges(u *User, name, email, password string) error {
	if name != "" {
		u.Name = name
	}

	if email != "" {
		folded := strings.ToLower(email)
		if folded != u.Email {
			if existing, err := s.repo.FindByEmail(folded); err == nil && existing.ID != u.ID {
				return utils.Conflict("Email already in use")
			} else if err != nil && !errors.Is(err, ErrNotFound) {
				return err
			}
			u.Email = folded
		}
	}

	if password != "" {
		hashed, err := HashPassword(password, s.cost)
		if err != nil {
			return err
		}
		u.Password = hashed
	}

	return nil
}
