package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mailsign/signup-backend/internal/auth/session"
	"github.com/mailsign/signup-backend/internal/common/clock"
	userdomain "github.com/mailsign/signup-backend/internal/user/domain"
)

func newStore() *session.MemoryStore {
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	return session.NewMemoryStore(clk)
}

func TestMemoryStore_CreateGetDestroy(t *testing.T) {
	store := newStore()
	ctx := context.Background()

	user := userdomain.User{ID: "user-1", Email: "u@x.com", PasswordHash: "hash"}

	sess, err := store.Create(ctx, user)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if sess.ID == "" {
		t.Fatal("expected session id to be set")
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("expected session to exist, got %v", err)
	}

	if got.User.Email != "u@x.com" {
		t.Errorf("expected snapshot email u@x.com, got %s", got.User.Email)
	}

	if err := store.Destroy(ctx, sess.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after destroy, got %v", err)
	}
}

func TestMemoryStore_SessionHoldsCopy(t *testing.T) {
	store := newStore()
	ctx := context.Background()

	user := userdomain.User{ID: "user-1", Email: "u@x.com", PasswordHash: "hash-v1"}

	sess, err := store.Create(ctx, user)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// A later credential change must not propagate to the bound session.
	user.PasswordHash = "hash-v2"

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("expected session to exist, got %v", err)
	}

	if got.User.PasswordHash != "hash-v1" {
		t.Errorf("expected session to hold the original snapshot, got %s", got.User.PasswordHash)
	}
}

func TestMemoryStore_DestroyMissingIsNoop(t *testing.T) {
	store := newStore()

	if err := store.Destroy(context.Background(), "no-such-session"); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := newStore()
	ctx := context.Background()

	const workers = 32

	var wg sync.WaitGroup
	ids := make([]string, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess, err := store.Create(ctx, userdomain.User{ID: userdomain.ID("user"), Email: "u@x.com"})
			if err != nil {
				t.Errorf("create failed: %v", err)
				return
			}
			ids[i] = sess.ID
		}(i)
	}
	wg.Wait()

	if store.Len() != workers {
		t.Fatalf("expected %d sessions, got %d", workers, store.Len())
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := store.Destroy(ctx, ids[i]); err != nil {
				t.Errorf("destroy failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", store.Len())
	}
}
