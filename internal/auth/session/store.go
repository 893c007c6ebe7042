// Package session holds the server-side login state referenced by the
// client's cookie. A session carries a copy of the user snapshot, so a
// later credential change does not propagate to sessions already bound.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	userdomain "github.com/mailsign/signup-backend/internal/user/domain"
)

var ErrSessionNotFound = errors.New("session not found")

type Session struct {
	ID        string          `json:"id"`
	User      userdomain.User `json:"user"`
	CreatedAt time.Time       `json:"created_at"`
}

// Store is keyed by an opaque server-chosen identifier. Sessions have no
// expiry of their own; they live until Destroy or process exit.
type Store interface {
	Create(ctx context.Context, user userdomain.User) (Session, error)
	Get(ctx context.Context, id string) (Session, error)
	Destroy(ctx context.Context, id string) error
}

func newSessionID(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
