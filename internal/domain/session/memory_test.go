package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestSession(userID, token string, ttl time.Duration) *Session {
	return &Session{
		Token:     token,
		UserID:    userID,
		UserAgent: "Mozilla/5.0",
		IPAddress: "192.168.1.1",
		ExpiresAt: time.Now().Add(ttl),
	}
}

func TestMemoryRepository_CreateAndFind(t *testing.T) {
	repo := NewMemoryRepository()
	userID := uuid.NewString()

	sess := newTestSession(userID, "token-a", time.Hour)
	if err := repo.Create(sess); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	if sess.ID == uuid.Nil {
		t.Errorf("Create() should assign an ID")
	}

	found, err := repo.FindUsableByToken("token-a")
	if err != nil {
		t.Fatalf("FindUsableByToken() unexpected error: %v", err)
	}
	if found.UserID != userID {
		t.Errorf("FindUsableByToken() userID = %v, want %v", found.UserID, userID)
	}
	if found.Revoked {
		t.Errorf("FindUsableByToken() session should not be revoked")
	}

	if _, err := repo.FindUsableByToken("no-such-token"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindUsableByToken() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryRepository_FindUsableDoesNotFilterExpiry(t *testing.T) {
	repo := NewMemoryRepository()

	// Expired but unrevoked: the store must still return it so the caller
	// can revoke it on first use
	sess := newTestSession(uuid.NewString(), "expired-token", -time.Hour)
	if err := repo.Create(sess); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	found, err := repo.FindUsableByToken("expired-token")
	if err != nil {
		t.Fatalf("FindUsableByToken() should return expired sessions: %v", err)
	}
	if found.Usable(time.Now()) {
		t.Errorf("Usable() should be false past expiry")
	}
}

func TestMemoryRepository_RevokeIsSingleWinner(t *testing.T) {
	repo := NewMemoryRepository()

	sess := newTestSession(uuid.NewString(), "token-a", time.Hour)
	if err := repo.Create(sess); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	won, err := repo.Revoke(sess.ID)
	if err != nil {
		t.Fatalf("Revoke() unexpected error: %v", err)
	}
	if !won {
		t.Errorf("first Revoke() should win")
	}

	won, err = repo.Revoke(sess.ID)
	if err != nil {
		t.Fatalf("Revoke() unexpected error: %v", err)
	}
	if won {
		t.Errorf("second Revoke() should not win")
	}

	if _, err := repo.FindUsableByToken("token-a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("revoked session should not be found, got err = %v", err)
	}
}

func TestMemoryRepository_RevokeConcurrent(t *testing.T) {
	repo := NewMemoryRepository()

	sess := newTestSession(uuid.NewString(), "token-a", time.Hour)
	if err := repo.Create(sess); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	const racers = 32
	var wg sync.WaitGroup
	wins := make(chan bool, racers)

	for range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			won, err := repo.Revoke(sess.ID)
			if err != nil {
				t.Errorf("Revoke() unexpected error: %v", err)
				return
			}
			wins <- won
		}()
	}
	wg.Wait()
	close(wins)

	winners := 0
	for won := range wins {
		if won {
			winners++
		}
	}
	if winners != 1 {
		t.Errorf("Revoke() winners = %d, want exactly 1", winners)
	}
}

func TestMemoryRepository_RevokeByIDAndUser(t *testing.T) {
	repo := NewMemoryRepository()
	owner := uuid.NewString()
	other := uuid.NewString()

	sess := newTestSession(owner, "token-a", time.Hour)
	if err := repo.Create(sess); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	won, err := repo.RevokeByIDAndUser(sess.ID, other)
	if err != nil {
		t.Fatalf("RevokeByIDAndUser() unexpected error: %v", err)
	}
	if won {
		t.Errorf("RevokeByIDAndUser() should not revoke another user's session")
	}

	won, err = repo.RevokeByIDAndUser(sess.ID, owner)
	if err != nil {
		t.Fatalf("RevokeByIDAndUser() unexpected error: %v", err)
	}
	if !won {
		t.Errorf("RevokeByIDAndUser() should revoke the owner's session")
	}
}

func TestMemoryRepository_RevokeByTokenAndUser(t *testing.T) {
	repo := NewMemoryRepository()
	owner := uuid.NewString()
	other := uuid.NewString()

	if err := repo.Create(newTestSession(owner, "token-a", time.Hour)); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	// Wrong owner: no-op, the session stays usable
	if err := repo.RevokeByTokenAndUser("token-a", other); err != nil {
		t.Fatalf("RevokeByTokenAndUser() unexpected error: %v", err)
	}
	if _, err := repo.FindUsableByToken("token-a"); err != nil {
		t.Errorf("session should still be usable after cross-user revoke attempt: %v", err)
	}

	if err := repo.RevokeByTokenAndUser("token-a", owner); err != nil {
		t.Fatalf("RevokeByTokenAndUser() unexpected error: %v", err)
	}
	if _, err := repo.FindUsableByToken("token-a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("session should be revoked, got err = %v", err)
	}

	// Unknown token is a no-op
	if err := repo.RevokeByTokenAndUser("no-such-token", owner); err != nil {
		t.Errorf("RevokeByTokenAndUser() should be a no-op for unknown tokens: %v", err)
	}
}

func TestMemoryRepository_RevokeAllForUser(t *testing.T) {
	repo := NewMemoryRepository()
	owner := uuid.NewString()
	other := uuid.NewString()

	for _, token := range []string{"token-a", "token-b"} {
		if err := repo.Create(newTestSession(owner, token, time.Hour)); err != nil {
			t.Fatalf("Create() unexpected error: %v", err)
		}
	}
	if err := repo.Create(newTestSession(other, "token-c", time.Hour)); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	if err := repo.RevokeAllForUser(owner); err != nil {
		t.Fatalf("RevokeAllForUser() unexpected error: %v", err)
	}

	sessions, err := repo.ListUsableForUser(owner)
	if err != nil {
		t.Fatalf("ListUsableForUser() unexpected error: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("ListUsableForUser() returned %d sessions after bulk revoke, want 0", len(sessions))
	}

	// The other user's session is untouched
	if _, err := repo.FindUsableByToken("token-c"); err != nil {
		t.Errorf("other user's session should stay usable: %v", err)
	}
}

func TestMemoryRepository_ListUsableForUser(t *testing.T) {
	repo := NewMemoryRepository()
	owner := uuid.NewString()

	first := newTestSession(owner, "token-a", time.Hour)
	first.CreatedAt = time.Now().Add(-2 * time.Minute)
	second := newTestSession(owner, "token-b", time.Hour)
	second.CreatedAt = time.Now().Add(-time.Minute)
	third := newTestSession(owner, "token-c", time.Hour)

	for _, sess := range []*Session{first, second, third} {
		if err := repo.Create(sess); err != nil {
			t.Fatalf("Create() unexpected error: %v", err)
		}
	}

	if _, err := repo.Revoke(second.ID); err != nil {
		t.Fatalf("Revoke() unexpected error: %v", err)
	}

	sessions, err := repo.ListUsableForUser(owner)
	if err != nil {
		t.Fatalf("ListUsableForUser() unexpected error: %v", err)
	}

	if len(sessions) != 2 {
		t.Fatalf("ListUsableForUser() returned %d sessions, want 2", len(sessions))
	}
	if sessions[0].Token != "token-c" || sessions[1].Token != "token-a" {
		t.Errorf("ListUsableForUser() order = [%s, %s], want newest first [token-c, token-a]",
			sessions[0].Token, sessions[1].Token)
	}
}

func TestMemoryRepository_DeleteAllForUser(t *testing.T) {
	repo := NewMemoryRepository()
	owner := uuid.NewString()
	other := uuid.NewString()

	if err := repo.Create(newTestSession(owner, "token-a", time.Hour)); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if err := repo.Create(newTestSession(other, "token-b", time.Hour)); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	if err := repo.DeleteAllForUser(owner); err != nil {
		t.Fatalf("DeleteAllForUser() unexpected error: %v", err)
	}

	if _, err := repo.FindUsableByToken("token-a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted session should not be found, got err = %v", err)
	}
	if _, err := repo.FindUsableByToken("token-b"); err != nil {
		t.Errorf("other user's session should survive: %v", err)
	}
}
