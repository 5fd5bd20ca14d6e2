package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lwalter/authgate/internal/cache"
	"github.com/lwalter/authgate/internal/domain/session"
	"github.com/lwalter/authgate/internal/domain/user"
	"github.com/lwalter/authgate/internal/utils"
)

// Service is the session lifecycle state machine: it issues token pairs,
// persists refresh sessions, rotates them on refresh and revokes them on
// logout. All state lives in the session store; the service itself holds no
// mutable state and is safe for concurrent use.
type Service struct {
	users           user.Repository
	sessions        session.Repository
	issuer          *Issuer
	hashCost        int
	revocationCache *cache.RevocationCache
}

// NewService creates a new auth service
func NewService(users user.Repository, sessions session.Repository, issuer *Issuer, hashCost int) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		issuer:   issuer,
		hashCost: hashCost,
	}
}

// NewServiceWithCache creates an auth service with an optional revocation
// cache. When the cache is set, LogoutAll also marks the user's outstanding
// access tokens for early rejection by the middleware.
func NewServiceWithCache(users user.Repository, sessions session.Repository, issuer *Issuer, hashCost int, revocationCache *cache.RevocationCache) *Service {
	s := NewService(users, sessions, issuer, hashCost)
	s.revocationCache = revocationCache
	return s
}

// Signup registers a new user with the USER role
func (s *Service) Signup(req SignupRequest) (*user.Profile, error) {
	email := strings.ToLower(req.Email)

	_, err := s.users.FindByEmail(email)
	if err == nil {
		return nil, utils.Conflict("User with this email already exists")
	}
	if !errors.Is(err, user.ErrNotFound) {
		return nil, err
	}

	hashed, err := user.HashPassword(req.Password, s.hashCost)
	if err != nil {
		return nil, err
	}

	newUser := &user.User{
		Name:     req.Name,
		Email:    email,
		Password: hashed,
		Role:     user.RoleUser,
	}

	if err := s.users.Create(newUser); err != nil {
		return nil, err
	}

	return newUser.ToProfile(), nil
}

// Login verifies credentials and opens a new session. A missing user and a
// wrong password produce the same error so the response does not reveal
// which one it was.
func (s *Service) Login(req LoginRequest, userAgent, ip string) (*LoginResult, error) {
	u, err := s.users.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, utils.Unauthorized("Invalid email or password")
		}
		return nil, err
	}

	if !user.VerifyPassword(req.Password, u.Password) {
		return nil, utils.Unauthorized("Invalid email or password")
	}

	return s.openSession(u, userAgent, ip)
}

// Refresh redeems a refresh token for a new token pair, rotating the backing
// session. A refresh token is single-use: the consumed session is revoked
// before its replacement is issued, so a crash in between leaves the caller
// logged out rather than holding two live sessions for one token.
func (s *Service) Refresh(refreshToken, userAgent, ip string) (*LoginResult, error) {
	sess, err := s.sessions.FindUsableByToken(refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, utils.Unauthorized("Invalid refresh token")
		}
		return nil, err
	}

	if !time.Now().Before(sess.ExpiresAt) {
		// Revoke on first use past expiry so a racing retry cannot pick
		// the session up again
		if _, err := s.sessions.Revoke(sess.ID); err != nil {
			return nil, err
		}
		return nil, utils.Unauthorized("Refresh token has expired")
	}

	u, err := s.users.FindByID(sess.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, utils.Unauthorized("User not found")
		}
		return nil, err
	}

	// Rotation: the conditional revoke decides the winner when two calls
	// race on the same token. Exactly one proceeds to issue.
	won, err := s.sessions.Revoke(sess.ID)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, utils.Unauthorized("Invalid refresh token")
	}

	return s.openSession(u, userAgent, ip)
}

// Logout revokes the session matching both token and owner. A token that is
// already revoked, unknown, or owned by someone else makes this a no-op.
func (s *Service) Logout(userID, refreshToken string) error {
	return s.sessions.RevokeByTokenAndUser(refreshToken, userID)
}

// LogoutAll revokes every active session owned by the user
func (s *Service) LogoutAll(userID string) error {
	if err := s.sessions.RevokeAllForUser(userID); err != nil {
		return err
	}

	if s.revocationCache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// Best effort: the marker only shortens the window in which
		// already-issued access tokens keep working
		if err := s.revocationCache.RevokeUser(ctx, userID, s.issuer.accessTTL); err != nil {
			slog.Warn("Failed to store user revocation in Redis", "error", err, "user_id", userID)
		}
	}

	return nil
}

// ListSessions returns the user's active sessions, newest first. The store
// filters revocation; expiry is filtered here.
func (s *Service) ListSessions(userID string) ([]SessionInfo, error) {
	sessions, err := s.sessions.ListUsableForUser(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	infos := make([]SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		if !now.Before(sess.ExpiresAt) {
			continue
		}
		infos = append(infos, SessionInfo{
			ID:        sess.ID,
			UserAgent: sess.UserAgent,
			IPAddress: sess.IPAddress,
			CreatedAt: sess.CreatedAt,
			ExpiresAt: sess.ExpiresAt,
		})
	}

	return infos, nil
}

// RevokeSession revokes one of the user's sessions by ID. A session that
// does not exist and one owned by another user produce the same error, so
// session IDs cannot be probed.
func (s *Service) RevokeSession(userID, sessionID string) error {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return utils.Unauthorized("Session not found")
	}

	won, err := s.sessions.RevokeByIDAndUser(id, userID)
	if err != nil {
		return err
	}
	if !won {
		return utils.Unauthorized("Session not found")
	}

	return nil
}

// IsTokenRevoked checks the bulk-revocation marker for the token's subject.
// Without a cache the check is skipped: the token then stays valid until its
// own expiry, which is the stateless baseline.
func (s *Service) IsTokenRevoked(claims *Claims) (bool, error) {
	if s.revocationCache == nil {
		return false, nil
	}

	ctx := context.Background()
	revoked, err := s.revocationCache.IsUserRevoked(ctx, claims.UserID)
	if err != nil {
		slog.Warn("Failed to check token revocation in Redis", "error", err, "user_id", claims.UserID)
		return false, nil
	}

	return revoked, nil
}

// openSession issues a token pair and persists the refresh session. Shared
// by login and refresh.
func (s *Service) openSession(u *user.User, userAgent, ip string) (*LoginResult, error) {
	pair, err := s.issuer.Issue(u.ID.String(), u.Email, u.Role)
	if err != nil {
		return nil, err
	}

	sess := &session.Session{
		Token:     pair.RefreshToken,
		UserID:    u.ID.String(),
		UserAgent: userAgent,
		IPAddress: ip,
		ExpiresAt: time.Now().Add(s.issuer.RefreshTTL()),
	}

	if err := s.sessions.Create(sess); err != nil {
		return nil, err
	}

	return &LoginResult{
		User:         u.ToProfile(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}
