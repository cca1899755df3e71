package user

import (
	"context"
	"time"

	"snapfeed/internal/core/user"
)

// UserRepository is the outbound port for identity storage.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) (*user.User, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	FindByID(ctx context.Context, id uint64) (*user.User, error)
	FindByIDs(ctx context.Context, ids []uint64) (map[uint64]*user.User, error)
	TouchLastActivity(ctx context.Context, id uint64, at time.Time) error
}

// SubscribeRepository manages the directed follow edges. Both
// operations are idempotent single-transaction writes.
type SubscribeRepository interface {
	Subscribe(ctx context.Context, subscriberID, authorID uint64) error
	Unsubscribe(ctx context.Context, subscriberID, authorID uint64) error
	IsSubscribed(ctx context.Context, subscriberID, authorID uint64) (bool, error)
}

// DTOs for the use cases.
type UserDTO struct {
	ID           uint64     `json:"id"`
	Username     string     `json:"username"`
	Fullname     string     `json:"fullname"`
	Bio          string     `json:"bio"`
	SignupAt     time.Time  `json:"signup_at"`
	LastActivity time.Time  `json:"last_activity"`
	Avatar       *string    `json:"avatar"`
	Birthday     *time.Time `json:"birthday"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
}

type SignUpInput struct {
	Username       string
	Fullname       string
	Password       string
	PasswordRepeat string
	Birthday       *time.Time
	Bio            string
}
